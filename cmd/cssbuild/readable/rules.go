package readable

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultRules returns the built-in phrase table. Device phrases accept the
// names of bp.
func DefaultRules(bp Breakpoints) []Rule {
	devices := bp.alternatives()

	return []Rule{
		{
			Pattern:     "attribute * [is missing]",
			Labels:      []string{"name", "keyword"},
			Handler:     attributeSelector,
			Description: "presence or absence of an attribute",
			Example:     `attribute "disabled"`,
		},
		{
			Pattern:     "attribute * {is,is not} **",
			Labels:      []string{"name", "keyword", "value"},
			Handler:     attributeValueSelector,
			Description: "attribute value equality",
			Example:     `attribute "type" is "submit"`,
		},
		{
			Pattern:     "{base,global}",
			Labels:      []string{"keyword"},
			Handler:     globalSelector,
			Description: "the document root",
			Example:     "global",
		},
		{
			Pattern:     "{child,sibling,adjacent,descendant} {element,group} *",
			Labels:      []string{"relationship", "type", "name"},
			Handler:     relationshipSelector,
			Description: "combinator relative to the current selector",
			Example:     `child element "span"`,
		},
		{
			Pattern:     "device {" + devices + "}",
			Labels:      []string{"device"},
			Handler:     deviceSelector(bp),
			Description: "screen width of a single device class",
			Example:     "device " + firstName(bp),
		},
		{
			Pattern:     "device [" + devices + "] .. [" + devices + "]",
			Labels:      []string{"from", "to"},
			Handler:     deviceRangeSelector(bp),
			Description: "screen width between two device classes",
			Example:     "device .. " + firstName(bp),
		},
		{
			Pattern:     "{group,unique} *",
			Labels:      []string{"selector", "name"},
			Handler:     identifierSelector,
			Description: "class or id on the current element",
			Example:     `group "card"`,
		},
		{
			Pattern:     "scope *",
			Labels:      []string{"name"},
			Handler:     scopeSelector,
			Description: "elements inside a data-scope",
			Example:     `scope "sidebar"`,
		},
		{
			Pattern:     "state {is,is not} *",
			Labels:      []string{"keyword", "state"},
			Handler:     stateSelector,
			Description: "class-based state",
			Example:     `state is "expanded"`,
		},
		{
			Pattern:     "when [not] *",
			Labels:      []string{"keyword", "state"},
			Handler:     whenSelector,
			Description: "pseudo-class",
			Example:     `when "focused within"`,
		},
		{
			Pattern:     "{with,without} {child,sibling,adjacent,descendant} {element,group} *",
			Labels:      []string{"selector", "relationship", "type", "name"},
			Handler:     contextSelector,
			Description: "existence of a related element",
			Example:     `with descendant element "img"`,
		},
	}
}

func firstName(bp Breakpoints) string {
	if len(bp) == 0 {
		return ""
	}
	return bp[0].Name
}

// hyphenate replaces every whitespace character with a hyphen.
func hyphenate(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, s)
}

func quoteSpaced(s string) string {
	if strings.Contains(s, " ") {
		return `"` + s + `"`
	}
	return s
}

func attributeSelector(p Params) (string, error) {
	name := hyphenate(p["name"])
	if p["keyword"] == "is missing" {
		return "&:not([" + name + "])", nil
	}
	return "&[" + name + "]", nil
}

func attributeValueSelector(p Params) (string, error) {
	name := hyphenate(p["name"])
	value := quoteSpaced(p["value"])
	if p["keyword"] == "is" {
		return "&[" + name + "=" + value + "]", nil
	}
	return "&:not([" + name + "=" + value + "])", nil
}

func globalSelector(Params) (string, error) {
	return ":root", nil
}

var combinators = map[string]string{
	"child":      ">",
	"sibling":    "~",
	"adjacent":   "+",
	"descendant": " ",
}

func predicate(p Params) string {
	prefix := ""
	if p["type"] == "group" {
		prefix = "."
	}
	return combinators[p["relationship"]] + prefix + hyphenate(p["name"])
}

func relationshipSelector(p Params) (string, error) {
	return "&" + predicate(p), nil
}

func contextSelector(p Params) (string, error) {
	// Inside :has() the descendant combinator is implicit.
	pred := strings.TrimPrefix(predicate(p), " ")
	if p["selector"] == "with" {
		return "&:has(" + pred + ")", nil
	}
	return "&:not(:has(" + pred + "))", nil
}

func mediaQuery(lower, upper string) string {
	var sb strings.Builder
	sb.WriteString("@media screen")
	if lower != "" {
		sb.WriteString(" and(min-width:" + lower + ")")
	}
	if upper != "" {
		if lower == "" {
			sb.WriteString(" ")
		}
		sb.WriteString("and(max-width:" + upper + ")")
	}
	return sb.String()
}

func deviceSelector(bp Breakpoints) func(Params) (string, error) {
	return func(p Params) (string, error) {
		b, ok := bp.Lookup(p["device"])
		if !ok {
			return "", fmt.Errorf("unknown device (%s)", p["device"])
		}
		return mediaQuery(b.Min, b.Max), nil
	}
}

func deviceRangeSelector(bp Breakpoints) func(Params) (string, error) {
	return func(p Params) (string, error) {
		from, hasFrom := p["from"]
		to, hasTo := p["to"]
		if !hasFrom && !hasTo {
			return "", ErrNoDevices
		}

		var lower, upper string
		if hasFrom {
			b, ok := bp.Lookup(from)
			if !ok {
				return "", fmt.Errorf("unknown device (%s)", from)
			}
			lower = b.Min
		}
		if hasTo {
			b, ok := bp.Lookup(to)
			if !ok {
				return "", fmt.Errorf("unknown device (%s)", to)
			}
			upper = b.Max
		}
		// Open ends on the outermost devices leave no width condition.
		if lower == "" && upper == "" {
			return "", ErrNoDevices
		}
		return mediaQuery(lower, upper), nil
	}
}

func identifierSelector(p Params) (string, error) {
	prefix := "&#"
	if p["selector"] == "group" {
		prefix = "&."
	}
	return prefix + hyphenate(p["name"]), nil
}

func scopeSelector(p Params) (string, error) {
	return "&[data-scope=" + quoteSpaced(p["name"]) + "]", nil
}

func stateSelector(p Params) (string, error) {
	name := hyphenate(p["state"])
	if p["keyword"] == "is" {
		return "&." + name, nil
	}
	return "&:not(." + name + ")", nil
}

var pseudoClassAliases = map[string]string{
	"focused":        "focus",
	"focused within": "focus-within",
	"hovered":        "hover",
}

func whenSelector(p Params) (string, error) {
	pseudo, ok := pseudoClassAliases[p["state"]]
	if !ok {
		pseudo = hyphenate(p["state"])
	}
	if p["keyword"] == "not" {
		return "&:not(:" + pseudo + ")", nil
	}
	return "&:" + pseudo, nil
}
