package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"css-tools/cmd/cssbuild/css"
	"css-tools/cmd/cssbuild/cssyaml"
	"css-tools/cmd/cssbuild/plugins"
	"css-tools/pkg/lib"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagBuildOut    string
	flagBuildDryRun bool
	buildFlags      *pipelineFlags
)

var buildCmd = &cobra.Command{
	Use:   "build [file ...]",
	Short: "Compile source files into plain CSS",
	Long: "Compile the given files, or every file matching the configured input\n" +
		"globs when none are given. With no matches on a terminal, a picker lists\n" +
		"every .css file under the working directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := buildFlags.load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("out") {
			cfg.Output = flagBuildOut
		}

		files := args
		if len(files) == 0 {
			files, err = findSources(".", cfg)
			if err != nil {
				return err
			}
		}
		if len(files) == 0 && isTerminal() {
			all, err := findSources(".", cssyaml.Config{Input: []string{"**/*.css"}, Output: cfg.Output})
			if err != nil {
				return err
			}
			picked, err := pickSource(all)
			if err != nil {
				return err
			}
			files = []string{picked}
		}
		if len(files) == 0 {
			return usageErrorf("%w: nothing matches %v", errNoSources, cfg.Input)
		}

		return buildFiles(cmd.Context(), cfg, files, flagBuildDryRun, lib.Stderr)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&flagBuildOut, "out", "o", "", "output directory (overrides the config)")
	buildCmd.Flags().BoolVar(&flagBuildDryRun, "dry-run", false, "compile without writing; print what would be written")
	buildFlags = bindPipelineFlags(buildCmd.Flags())
}

// buildFiles compiles files concurrently and writes each result under
// cfg.Output. The first failure cancels the remaining files.
func buildFiles(ctx context.Context, cfg cssyaml.Config, files []string, dryRun bool, log *lib.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range files {
		g.Go(func() error {
			return buildFile(ctx, cfg, src, dryRun, log)
		})
	}
	return g.Wait()
}

func buildFile(ctx context.Context, cfg cssyaml.Config, src string, dryRun bool, log *lib.Logger) error {
	start := time.Now()
	var rules int
	res, err := compileFile(ctx, cfg, src, css.WithOutput(plugins.Stats(func(_, n int) { rules = n })))
	if err != nil {
		return err
	}
	dst := outputPath(cfg.Output, src)

	if dryRun {
		log.Print(`would write <cyan:"%s"> (%d rules, %d bytes)`, dst, rules, len(res.Output))
		return nil
	}
	if err := writeOutput(dst, res.Output); err != nil {
		return err
	}
	log.Print(`compiled <green:"%s"> to <cyan:"%s"> (%d rules) in %s`, src, dst, rules, time.Since(start).Round(time.Millisecond))
	return nil
}

func writeOutput(dst, content string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return f.Close()
}
