package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagInspectNoTUI bool
	inspectFlags     *pipelineFlags
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Browse the rules a source file compiles to",
	Long: "Compile a file and list the resulting rules grouped by their at-rule\n" +
		"context. Without a file on a terminal, a picker lists the configured sources.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := inspectFlags.load()
		if err != nil {
			return err
		}

		var src string
		switch {
		case len(args) == 1:
			src = args[0]
		case isTerminal() && !flagInspectNoTUI:
			files, err := findSources(".", cfg)
			if err != nil {
				return err
			}
			if src, err = pickSource(files); err != nil {
				return err
			}
		default:
			return usageErrorf("a source file is required when not on a terminal")
		}

		res, err := compileFile(cmd.Context(), cfg, src)
		if err != nil {
			return err
		}

		rules, err := collectRules(res)
		if err != nil {
			return err
		}

		if flagInspectNoTUI {
			printRules(os.Stdout, rules)
			return nil
		}

		p := tea.NewProgram(newInspectModel(src, rules, len(res.Output)), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&flagInspectNoTUI, "no-tui", false, "plain text output without the interactive interface")
	inspectFlags = bindPipelineFlags(inspectCmd.Flags())
}

func printRules(w io.Writer, rules []renderedRule) {
	fmt.Fprintf(w, "%-36s %-36s %s\n", "CONTEXT", "SELECTOR", "DECLARATIONS")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range rules {
		fmt.Fprintf(w, "%-36s %-36s %s\n", r.Context, r.Selector, strings.Join(r.Declarations, ";"))
	}
}
