package main

import (
	"fmt"
	"os"
	"strings"

	"css-tools/cmd/cssbuild/cssyaml"
	"css-tools/pkg/lib"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagInitYes   bool
	flagInitForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create " + localConfigName + " in the current directory",
	Long: "Ask a few questions and write " + localConfigName + ". With --yes the\n" +
		"defaults are written without prompting.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exists(localConfigName) && !flagInitForce {
			return usageErrorf("%s already exists (use --force to overwrite)", localConfigName)
		}

		cfg := cssyaml.Default()
		if !flagInitYes {
			if err := runInitForm(&cfg); err != nil {
				return err
			}
		}

		if err := writeConfig(localConfigName, cfg); err != nil {
			return err
		}
		lib.Stderr.Print(`written to <green:"%s">`, localConfigName)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "write the defaults without prompting")
	initCmd.Flags().BoolVarP(&flagInitForce, "force", "f", false, "overwrite an existing file")
}

// runInitForm asks for the main settings, starting from the values in cfg.
func runInitForm(cfg *cssyaml.Config) error {
	input := strings.Join(cfg.Input, " ")
	output := cfg.Output
	banner := cfg.Banner

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source files").
				Description("Glob patterns, space-separated").
				Value(&input).
				Validate(validateGlobs),
			huh.NewInput().
				Title("Output directory").
				Value(&output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Banner").
				Description("Comment prepended to compiled files, may be empty").
				Value(&banner),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable selector phrases?").
				Description(`e.g. "device mobile", "when hovered"`).
				Value(&cfg.Readable),
			huh.NewConfirm().
				Title("Enable reusable blocks?").
				Description(`"` + cfg.Reusable.Prefix + ` name { ... }" and "!include: name"`).
				Value(&cfg.Reusable.Enabled),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Input = splitGlobs(input)
	cfg.Output = strings.TrimSpace(output)
	cfg.Banner = banner
	return nil
}

// splitGlobs splits on whitespace; commas belong to {a,b} groups.
func splitGlobs(s string) []string {
	return strings.Fields(s)
}

func validateGlobs(s string) error {
	globs := splitGlobs(s)
	if len(globs) == 0 {
		return fmt.Errorf("at least one pattern is required")
	}
	_, err := inputFilters(cssyaml.Config{Input: globs})
	return err
}

func writeConfig(path string, cfg cssyaml.Config) error {
	data, err := cssyaml.Encode(cfg)
	if err != nil {
		return err
	}
	header := "# " + appName + " configuration, see `" + appName + " example --yaml`\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
