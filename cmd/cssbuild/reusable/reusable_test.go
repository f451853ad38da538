package reusable

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"css-tools/cmd/cssbuild/css"
	"css-tools/cmd/cssbuild/readable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func compile(t *testing.T, input string, plugins ...css.TransformPlugin) (string, error) {
	t.Helper()
	if len(plugins) == 0 {
		plugins = []css.TransformPlugin{New("", "")}
	}
	return css.NewPipeline(css.Plugins{Transform: plugins}).Run(context.Background(), input)
}

func TestReusable_Rendering(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "declaration is not rendered",
			input: "reusable block: test { color: red; }",
			want:  "",
		},
		{
			name:  "single include",
			input: "reusable block: test { color: red; } span { !include: test; }",
			want:  "span{color:red}",
		},
		{
			name: "multiple includes",
			input: "reusable block: test { color: red; }" +
				"reusable block: test2 { background-color: pink; } span { !include: test, test2; }",
			want: "span{color:red;background-color:pink}",
		},
		{
			name:  "name with spaces",
			input: "reusable block: test with spaces { color: red; } span { !include: test with spaces; }",
			want:  "span{color:red}",
		},
		{
			name:  "backtick quoted name",
			input: "reusable block: `test with spaces` { color: red; } span { !include: `test with spaces`; }",
			want:  "span{color:red}",
		},
		{
			name:  "include before declaration",
			input: "span { !include: late; } reusable block: late { color: red; }",
			want:  "span{color:red}",
		},
		{
			name:  "include overrides existing property in place",
			input: "reusable block: test { color: red; } span { color: blue; margin: 0; !include: test; }",
			want:  "span{color:red;margin:0}",
		},
		{
			name:  "include in nested block",
			input: "reusable block: test { color: red; } div { span { !include: test; } }",
			want:  "div span{color:red}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compile(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReusable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		target  error
		message string
	}{
		{
			name:    "more than one selector",
			input:   "reusable block: test, div {}",
			target:  ErrMultipleSelectors,
			message: "A reusable block cannot have more than one selector",
		},
		{
			name:    "children",
			input:   "reusable block: test {span {}}",
			target:  ErrHasChildren,
			message: "A reusable block cannot have children",
		},
		{
			name:    "duplicate name",
			input:   "reusable block: test {} reusable block: test {}",
			target:  ErrNonUnique,
			message: "Non-unique reusable block name (test)",
		},
		{
			name:    "unknown name",
			input:   "div {!include: test;}",
			target:  ErrUnknown,
			message: "Unknown reusable block (test)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.input)
			require.Error(t, err)

			var pe *css.PluginError
			require.True(t, errors.As(err, &pe), "expected *css.PluginError, got %T", err)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.message, pe.Err.Error())
			assert.Equal(t, 1, pe.Line)
		})
	}
}

func TestReusable_CustomPrefixAndSeparator(t *testing.T) {
	p := New("mixin", "|")

	got, err := compile(t, "mixin a { color: red; } mixin b { margin: 0; } p { !include: a | b; }", p)
	require.NoError(t, err)
	assert.Equal(t, "p{color:red;margin:0}", got)
}

func TestReusable_FreshTableEachRun(t *testing.T) {
	p := New("", "")
	pipeline := css.NewPipeline(css.Plugins{Transform: []css.TransformPlugin{p}})

	for range 2 {
		_, err := pipeline.Run(context.Background(), "reusable block: test { color: red; }")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"test"}, p.Names())
}

func TestReusable_ConcurrentRunsShareOnePipeline(t *testing.T) {
	pipeline := css.NewPipeline(css.Plugins{Transform: []css.TransformPlugin{New("", "")}})

	var g errgroup.Group
	for i := range 16 {
		g.Go(func() error {
			name := fmt.Sprintf("b%d", i)
			source := fmt.Sprintf("reusable block: %s { margin: %dpx; } p { !include: %s; }", name, i, name)
			got, err := pipeline.Run(context.Background(), source)
			if err != nil {
				return err
			}
			if want := fmt.Sprintf("p{margin:%dpx}", i); got != want {
				return fmt.Errorf("got %q, want %q", got, want)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestReusable_WithReadableSelectors(t *testing.T) {
	got, err := compile(t,
		`reusable block: focus ring { outline: 2px solid; } button { when "focused" { !include: focus ring; } }`,
		New("", ""), readable.NewCompiler(readable.Options{}),
	)
	require.NoError(t, err)
	assert.Equal(t, "button:focus{outline:2px solid}", got)
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		" test ": "test",
		"`test`": "test",
		`"a b"`:  "a b",
		"'x":     "x",
		"plain":  "plain",
		"":       "",
		"`":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeName(in), in)
	}
}
