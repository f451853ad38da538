package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"css-tools/cmd/cssbuild/css"
	"css-tools/cmd/cssbuild/cssyaml"
	"css-tools/pkg/lib"

	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"
)

var errNoSources = errors.New("no source files")

// inputFilters compiles the configured input globs.
func inputFilters(cfg cssyaml.Config) ([]*lib.PathFilter, error) {
	filters := make([]*lib.PathFilter, 0, len(cfg.Input))
	for _, pattern := range cfg.Input {
		f, err := lib.NewPathFilter(pattern)
		if err != nil {
			return nil, fmt.Errorf("input pattern %q: %w", pattern, err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// findSources walks root and returns the files matching the configured input
// globs, as slash-separated paths relative to root. The output directory is
// never searched.
func findSources(root string, cfg cssyaml.Config) ([]string, error) {
	filters, err := inputFilters(cfg)
	if err != nil {
		return nil, err
	}
	outDir := filepath.Clean(filepath.Join(root, cfg.Output))

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (filepath.Clean(path) == outDir || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if lib.MatchAny(filters, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// outputPath maps a source file to its compiled location under outDir. Paths
// inside the working tree keep their directory layout; others are flattened.
func outputPath(outDir, src string) string {
	name := strings.TrimSuffix(src, filepath.Ext(src)) + ".css"
	if filepath.IsAbs(name) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(name)), "../") {
		name = filepath.Base(name)
	}
	return filepath.Join(outDir, filepath.FromSlash(name))
}

// compileFile reads src and runs it through a pipeline built from cfg.
func compileFile(ctx context.Context, cfg cssyaml.Config, src string, opts ...css.PipelineOption) (css.Result, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return css.Result{}, err
	}
	res, err := cfg.Pipeline(opts...).Compile(ctx, string(data))
	if err != nil {
		return css.Result{}, fmt.Errorf("%s: %w", src, err)
	}
	return res, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// pickSource lets the user choose one of files interactively.
func pickSource(files []string) (string, error) {
	if len(files) == 0 {
		return "", errNoSources
	}
	idx, err := fuzzyfinder.Find(
		files,
		func(i int) string {
			return files[i]
		},
		fuzzyfinder.WithPromptString("Select source: "),
	)
	if err != nil {
		return "", err
	}
	return files[idx], nil
}
