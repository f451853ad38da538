// Package readable expands English-like selector phrases such as
// `child element "span"` or `device tablet` into CSS selector fragments.
//
// A phrase is matched against an ordered table of patterns. Pattern syntax:
//
//	word      matches itself
//	*         a bare token or a double-quoted string (quotes are dropped)
//	**        a double-quoted string, which may contain spaces
//	 *?       an optional *
//	{a,b}     a captured alternation
//	 [a,b]    an optional captured alternation
//
// Captures are zipped with the rule's labels into Params. Optional captures
// that did not participate in the match are absent from Params.
package readable

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"css-tools/cmd/cssbuild/css"
)

var ErrNoDevices = errors.New("Invalid device range: No devices specified.")

// Params holds the labelled captures of a matched phrase.
type Params map[string]string

// Rule maps one phrase pattern to the handler producing its replacement.
type Rule struct {
	Pattern     string
	Labels      []string
	Handler     func(Params) (string, error)
	Description string
	Example     string
}

type Options struct {
	// Rules replaces the default rule table when non-nil.
	Rules []Rule
	// Breakpoints replaces the default device table when non-nil.
	Breakpoints Breakpoints
}

// Compiler owns a rule table and a cache of compiled patterns. It is safe for
// concurrent use and implements css.TransformPlugin.
type Compiler struct {
	rules       []Rule
	breakpoints Breakpoints

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

func NewCompiler(opts Options) *Compiler {
	bp := opts.Breakpoints
	if bp == nil {
		bp = DefaultBreakpoints()
	}
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules(bp)
	}
	return &Compiler{
		rules:       rules,
		breakpoints: bp,
		cache:       make(map[string]*regexp.Regexp),
	}
}

// Append adds rules after the existing ones.
func (c *Compiler) Append(rules ...Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rules...)
}

func (c *Compiler) Rules() []Rule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Rule(nil), c.rules...)
}

func (c *Compiler) Breakpoints() Breakpoints {
	return c.breakpoints
}

// Transform rewrites the block's selectors in place.
func (c *Compiler) Transform(_ context.Context, b *css.MutableBlock) error {
	out, err := c.HandleSelectors(b.Selectors())
	if err != nil {
		return err
	}
	b.SetSelectors(out)
	return nil
}

// HandleSelectors expands every selector that matches a rule. Selectors that
// match no rule are returned unchanged.
func (c *Compiler) HandleSelectors(selectors []string) ([]string, error) {
	rules := c.Rules()
	out := make([]string, 0, len(selectors))

	for _, selector := range selectors {
		replaced := selector
		for _, rule := range rules {
			params, ok, err := c.Match(rule, selector)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			replaced, err = rule.Handler(params)
			if err != nil {
				return nil, err
			}
			break
		}
		out = append(out, replaced)
	}
	return out, nil
}

// Match reports whether selector matches rule and returns its captures.
func (c *Compiler) Match(rule Rule, selector string) (Params, bool, error) {
	re, err := c.compile(rule.Pattern)
	if err != nil {
		return nil, false, err
	}

	idx := re.FindStringSubmatchIndex(selector)
	if idx == nil {
		return nil, false, nil
	}

	params := make(Params, len(rule.Labels))
	for i, label := range rule.Labels {
		start, end := 2*(i+1), 2*(i+1)+1
		if end >= len(idx) || idx[start] < 0 {
			continue
		}
		params[label] = unquote(selector[idx[start]:idx[end]])
	}
	return params, true, nil
}

func (c *Compiler) compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.cache[pattern]; ok {
		return re, nil
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid selector pattern %q: %w", pattern, err)
	}
	c.cache[pattern] = re
	return re, nil
}

const (
	tokenExpr  = `("[\w\s-]+"|[\w-]+)`
	stringExpr = `"([\w\s-]+)"`
)

var (
	alternationExpr   = regexp.MustCompile(`\{([^}]+)\}`)
	optionalGroupExpr = regexp.MustCompile(`\s\[([^\]]+)\]`)
	optionalTokenExpr = regexp.MustCompile(`\s\*\?`)
)

// compilePattern turns a phrase pattern into an anchored expression. Each
// substitution only produces text the later ones do not match.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	p := strings.ReplaceAll(pattern, ".", `\.`)

	p = alternationExpr.ReplaceAllStringFunc(p, func(m string) string {
		return "(" + strings.ReplaceAll(m[1:len(m)-1], ",", "|") + ")"
	})
	p = optionalGroupExpr.ReplaceAllStringFunc(p, func(m string) string {
		inner := m[strings.IndexByte(m, '[')+1 : len(m)-1]
		return `(?:\s(` + strings.ReplaceAll(inner, ",", "|") + `))?`
	})
	p = strings.ReplaceAll(p, "**", stringExpr)
	p = optionalTokenExpr.ReplaceAllLiteralString(p, `(?:\s`+tokenExpr+`)?`)
	p = strings.ReplaceAll(p, "*", tokenExpr)

	return regexp.Compile("^" + p + "$")
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
