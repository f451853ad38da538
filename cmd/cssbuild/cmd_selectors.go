package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"css-tools/cmd/cssbuild/readable"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
)

var (
	flagSelectorsSearch string
	selectorsFlags      *pipelineFlags
)

var selectorsCmd = &cobra.Command{
	Use:   "selectors",
	Short: "List the selector phrases and the devices they know",
	Long: "Print every selector phrase with an example and what it compiles to.\n" +
		"--search ranks the phrases by fuzzy match against a term.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := selectorsFlags.load()
		if err != nil {
			return err
		}
		c := readable.NewCompiler(readable.Options{Breakpoints: cfg.Breakpoints})

		rules := searchRules(c.Rules(), flagSelectorsSearch)
		if len(rules) == 0 {
			return fmt.Errorf("no selector phrase matches %q", flagSelectorsSearch)
		}
		printSelectorTable(os.Stdout, c, rules)
		return nil
	},
}

func init() {
	selectorsCmd.Flags().StringVarP(&flagSelectorsSearch, "search", "s", "", "fuzzy search term")
	selectorsFlags = bindPipelineFlags(selectorsCmd.Flags())
}

// searchRules returns the rules whose pattern fuzzy-matches term, best match
// first. An empty term returns every rule in table order.
func searchRules(rules []readable.Rule, term string) []readable.Rule {
	if term == "" {
		return rules
	}
	patterns := make([]string, len(rules))
	for i, r := range rules {
		patterns[i] = r.Pattern
	}
	ranks := fuzzy.RankFindFold(term, patterns)
	sort.Stable(ranks)

	out := make([]readable.Rule, len(ranks))
	for i, rank := range ranks {
		out[i] = rules[rank.OriginalIndex]
	}
	return out
}

func printSelectorTable(w io.Writer, c *readable.Compiler, rules []readable.Rule) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("PHRASE", "EXAMPLE", "COMPILES TO")

	for _, r := range rules {
		t.Row(r.Pattern, r.Example, exampleOutput(c, r))
	}
	fmt.Fprintln(w, t.Render())

	var devices []string
	for _, b := range c.Breakpoints() {
		devices = append(devices, fmt.Sprintf("%s (%s)", b.Name, describeRange(b)))
	}
	fmt.Fprintln(w, "devices: "+strings.Join(devices, ", "))
}

// exampleOutput compiles the rule's own example.
func exampleOutput(c *readable.Compiler, r readable.Rule) string {
	out, err := c.HandleSelectors([]string{r.Example})
	if err != nil {
		return "error: " + err.Error()
	}
	return strings.Join(out, ", ")
}

func describeRange(b readable.Breakpoint) string {
	switch {
	case b.Min == "":
		return "up to " + b.Max
	case b.Max == "":
		return b.Min + " and up"
	default:
		return b.Min + " to " + b.Max
	}
}
