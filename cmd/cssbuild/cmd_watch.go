package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"css-tools/cmd/cssbuild/cssyaml"
	"css-tools/cmd/cssbuild/watch"
	"css-tools/pkg/lib"

	"github.com/spf13/cobra"
)

var (
	flagWatchInterval time.Duration
	watchFlags        *pipelineFlags
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever a source file changes",
	Long: "Build every configured source once, then poll the working directory and\n" +
		"rebuild when a matching file is created, changed or deleted. Stop with Ctrl+C.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := watchFlags.load()
		if err != nil {
			return err
		}
		filters, err := inputFilters(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		rebuild := newRebuilder(ctx, cfg, lib.Stderr)
		rebuild.all()

		// Our own output would otherwise trigger another build.
		ignore, err := outputFilter(cfg.Output)
		if err != nil {
			return err
		}

		w := watch.New(".", watch.Options{
			Interval: flagWatchInterval,
			Throttle: watch.DefaultThrottle,
			Deep:     true,
			Filters:  filters,
			Ignore:   ignore,
		})
		w.Any(func(c watch.FileChange) {
			lib.Stderr.Print(`<gray:"%s"> %s`, c.Event, c.Path)
			rebuild.all()
		})

		lib.Stderr.Print(`watching <cyan:"%v"> every %s`, cfg.Input, flagWatchInterval)
		err = w.Run(ctx, func(err error) {
			lib.Stderr.Warning("%v", err)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", watch.DefaultInterval, "polling interval")
	watchFlags = bindPipelineFlags(watchCmd.Flags())
}

// rebuilder recompiles every configured source. Compile errors are logged and
// never stop the watch loop.
type rebuilder struct {
	ctx context.Context
	cfg cssyaml.Config
	log *lib.Logger
}

func newRebuilder(ctx context.Context, cfg cssyaml.Config, log *lib.Logger) *rebuilder {
	return &rebuilder{ctx: ctx, cfg: cfg, log: log}
}

func (r *rebuilder) all() {
	files, err := findSources(".", r.cfg)
	if err != nil {
		r.log.Error("%v", err)
		return
	}
	if len(files) == 0 {
		r.log.Warning("no files match %v", r.cfg.Input)
		return
	}
	if err := buildFiles(r.ctx, r.cfg, files, false, r.log); err != nil {
		r.log.Error("%v", err)
	}
}

// outputFilter matches every file under the output directory.
func outputFilter(dir string) ([]*lib.PathFilter, error) {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if dir == "." || strings.HasPrefix(dir, "../") {
		return nil, nil
	}
	f, err := lib.NewPathFilter(dir + "/**/*")
	if err != nil {
		return nil, err
	}
	return []*lib.PathFilter{f}, nil
}
