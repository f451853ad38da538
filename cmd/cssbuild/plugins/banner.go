package plugins

import (
	"context"
	"strings"

	"css-tools/cmd/cssbuild/css"
)

// Banner returns an output plugin that prefixes non-empty output with text
// as a CSS comment. The text may use the same {{ .name }} references as the
// Variables plugin.
func Banner(text string, vars map[string]string) css.OutputPlugin {
	return func(_ context.Context, r css.Result) (string, error) {
		if text == "" || r.Output == "" {
			return r.Output, nil
		}
		expanded, err := substitute(text, vars)
		if err != nil {
			return "", err
		}
		// "*/" inside the text would end the comment early.
		expanded = strings.ReplaceAll(expanded, "*/", "* /")
		return "/*" + expanded + "*/" + r.Output, nil
	}
}

// Stats returns an output plugin that reports the rule count of the rendered
// tree to fn. The output is returned unchanged.
func Stats(fn func(blocks, rules int)) css.OutputPlugin {
	return func(_ context.Context, r css.Result) (string, error) {
		var blocks, rules int
		_ = css.Walk(r.Tree, func(b *css.Block) error {
			blocks++
			if len(b.Properties) > 0 {
				rules++
			}
			return nil
		})
		fn(blocks, rules)
		return r.Output, nil
	}
}
