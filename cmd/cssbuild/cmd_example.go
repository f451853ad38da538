package main

import (
	_ "embed"
	"fmt"
	"os"

	"css-tools/cmd/cssbuild/cssyaml"

	"github.com/spf13/cobra"
)

//go:embed cmd_example.css
var exampleSource string

//go:embed cmd_example.yml
var exampleConfigYAML []byte

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a reference source file covering the whole dialect",
	Long: "Print a source file that uses selector phrases, reusable blocks and\n" +
		"nested media queries. Use --compiled to print what it compiles to, --yaml\n" +
		"for an annotated " + localConfigName + ", and --output to write to a file instead of stdout.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		compiled, _ := cmd.Flags().GetBool("compiled")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		var content []byte
		switch {
		case asYAML:
			content = exampleConfigYAML
		case compiled:
			out, err := cssyaml.Default().Pipeline().Run(cmd.Context(), exampleSource)
			if err != nil {
				return err
			}
			content = []byte(out + "\n")
		default:
			content = []byte(exampleSource)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			_, err := os.Stdout.Write(content)
			return err
		}
		if err := os.WriteFile(output, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "written to %s\n", output)
		return nil
	},
}

func init() {
	exampleCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exampleCmd.Flags().Bool("compiled", false, "print the compiled CSS instead of the source")
	exampleCmd.Flags().Bool("yaml", false, "print an annotated configuration file instead of the source")
	exampleCmd.MarkFlagsMutuallyExclusive("compiled", "yaml")
}
