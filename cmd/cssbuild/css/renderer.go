package css

import (
	"strings"
)

const rootContext = "root"

// Rule is one flattened rule as it is emitted: selectors and declarations
// inside an at-rule context. Context is empty for top-level rules.
type Rule struct {
	Context    string
	Selectors  []string
	Properties []Property
}

// renderer accumulates rules per context. Contexts are emitted in the order
// they were first seen.
type renderer struct {
	order   []string
	buckets map[string][]Rule
}

// Render flattens a (transformed) tree into minified CSS.
func Render(tree []*Block) (string, error) {
	r, err := flatten(tree)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Flatten returns the rules of a (transformed) tree in the order Render
// emits them.
func Flatten(tree []*Block) ([]Rule, error) {
	r, err := flatten(tree)
	if err != nil {
		return nil, err
	}
	var rules []Rule
	for _, context := range r.order {
		rules = append(rules, r.buckets[context]...)
	}
	return rules, nil
}

func flatten(tree []*Block) (*renderer, error) {
	r := &renderer{buckets: make(map[string][]Rule)}
	for _, b := range tree {
		if err := r.block(b, rootContext, nil); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *renderer) touch(context string) {
	if _, ok := r.buckets[context]; !ok {
		r.buckets[context] = nil
		r.order = append(r.order, context)
	}
}

func (r *renderer) add(context string, selectors []string, props []Property) {
	r.touch(context)
	rule := Rule{Selectors: selectors, Properties: props}
	if context != rootContext {
		rule.Context = context
	}
	r.buckets[context] = append(r.buckets[context], rule)
}

func (r *renderer) String() string {
	var out strings.Builder
	for _, context := range r.order {
		rules := r.buckets[context]
		if len(rules) == 0 {
			continue
		}
		if context != rootContext {
			out.WriteString(context)
			out.WriteByte('{')
		}
		for _, rule := range rules {
			writeRule(&out, rule)
		}
		if context != rootContext {
			out.WriteByte('}')
		}
	}
	return out.String()
}

func writeRule(sb *strings.Builder, rule Rule) {
	sb.WriteString(strings.Join(rule.Selectors, ","))
	sb.WriteByte('{')
	for i, p := range rule.Properties {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(p.Key)
		sb.WriteByte(':')
		sb.WriteString(p.Value)
	}
	sb.WriteByte('}')
}

func (r *renderer) block(b *Block, context string, parents []string) error {
	if len(b.Selectors) == 0 {
		return nil
	}
	first := b.Selectors[0]
	selectors := b.Selectors

	switch {
	case isResponsiveQuery(first):
		// Any screen query in the context counts, "@media not screen" included.
		if strings.Contains(context, "screen") {
			return r.fail(ErrNestedMediaQuery, b)
		}
		if isColorSchemeQuery(context) {
			return r.fail(ErrMediaInColorScheme, b)
		}
		context = first
		selectors = parents

	case isColorSchemeQuery(first):
		if isColorSchemeQuery(context) {
			return r.fail(ErrNestedColorScheme, b)
		}
		if isResponsiveQuery(context) {
			context = context + "and" + condition(first)
		} else {
			context = first
		}
		selectors = parents

	case isAtRule(first):
		if isAtRule(context) {
			return r.fail(ErrNestedAtRule, b)
		}
		context = first
		selectors = nil

	default:
		selectors = combine(b.Selectors, parents)
	}

	if len(b.Properties) > 0 {
		r.add(context, selectors, b.Properties)
	} else {
		r.touch(context)
	}

	for _, child := range b.Children {
		if err := r.block(child, context, selectors); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) fail(err error, b *Block) error {
	return &RenderError{Err: err, Pos: b.Metadata.Start}
}

// combine expands own selectors against every parent selector.
func combine(own, parents []string) []string {
	if len(parents) == 0 {
		return own
	}
	out := make([]string, 0, len(own)*len(parents))
	for _, sel := range own {
		for _, parent := range parents {
			if strings.Contains(sel, "&") {
				out = append(out, strings.ReplaceAll(sel, "&", parent))
			} else {
				out = append(out, parent+" "+sel)
			}
		}
	}
	return out
}

func isResponsiveQuery(s string) bool {
	return strings.HasPrefix(s, "@media screen")
}

func isColorSchemeQuery(s string) bool {
	return strings.HasPrefix(s, "@media") && strings.Contains(s, "-color-scheme")
}

// condition extracts the first parenthesised group of an at-rule, e.g.
// "(prefers-color-scheme:dark)" from "@media (prefers-color-scheme:dark)".
func condition(selector string) string {
	start := strings.IndexByte(selector, '(')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(selector[start:], ')')
	if end < 0 {
		return selector[start:]
	}
	return selector[start : start+end+1]
}
