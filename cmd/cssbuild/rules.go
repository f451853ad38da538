package main

import (
	"strings"

	"css-tools/cmd/cssbuild/css"
)

// renderedRule is one rule of compiled output.
type renderedRule struct {
	// Context is the enclosing at-rule, empty for top-level rules.
	Context      string
	Selector     string
	Declarations []string
}

// collectRules lists the rules of a compiled result in output order.
func collectRules(res css.Result) ([]renderedRule, error) {
	flat, err := css.Flatten(res.Tree)
	if err != nil {
		return nil, err
	}
	rules := make([]renderedRule, 0, len(flat))
	for _, r := range flat {
		decls := make([]string, len(r.Properties))
		for i, p := range r.Properties {
			decls[i] = p.Key + ":" + p.Value
		}
		rules = append(rules, renderedRule{
			Context:      r.Context,
			Selector:     strings.Join(r.Selectors, ","),
			Declarations: decls,
		})
	}
	return rules, nil
}
