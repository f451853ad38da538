package css_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"css-tools/cmd/cssbuild/css"
	"css-tools/cmd/cssbuild/plugins"
	"css-tools/cmd/cssbuild/readable"
	"css-tools/cmd/cssbuild/reusable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(extra ...css.TransformPlugin) *css.Pipeline {
	transform := append([]css.TransformPlugin{
		reusable.New("", ""),
		readable.NewCompiler(readable.Options{}),
	}, extra...)
	return css.NewPipeline(css.Plugins{Transform: transform}, css.WithConcurrency(4))
}

func TestPipeline_RoundTripWithoutPlugins(t *testing.T) {
	p := css.NewPipeline(css.Plugins{})

	got, err := p.Run(context.Background(), "h1, h2 { color: red; margin: 0 auto; } p { a { color: blue; } }")
	require.NoError(t, err)
	assert.Equal(t, "h1,h2{color:red;margin:0 auto}p a{color:blue}", got)
}

func TestPipeline_FullDialect(t *testing.T) {
	source := `
reusable block: card { padding: 1rem; border-radius: 4px; }

.panel {
  !include: card;
  background: white;

  child element "h2" { margin: 0; }
  when "hovered" { background: #eee; }

  device tablet .. {
    padding: 2rem;

    @media (prefers-color-scheme: dark) { background: black; }
  }
}

@keyframes fade { from { opacity: 0; } to { opacity: 1; } }
`
	got, err := newPipeline().Run(context.Background(), source)
	require.NoError(t, err)

	want := ".panel{background:white;padding:1rem;border-radius:4px}" +
		".panel>h2{margin:0}" +
		".panel:hover{background:#eee}" +
		"@media screen and(min-width:576px){.panel{padding:2rem}}" +
		"@media screen and(min-width:576px)and(prefers-color-scheme: dark){.panel{background:black}}" +
		"@keyframes fade{from{opacity:0}to{opacity:1}}"
	assert.Equal(t, want, got)
}

func TestPipeline_InputAndOutputPlugins(t *testing.T) {
	p := css.NewPipeline(css.Plugins{
		Input:  []css.InputPlugin{plugins.Variables(map[string]string{"accent": "teal"})},
		Output: []css.OutputPlugin{plugins.Banner("v1", nil)},
	})

	got, err := p.Run(context.Background(), "a { color: {{ .accent }}; }")
	require.NoError(t, err)
	assert.Equal(t, "/*v1*/a{color:teal}", got)
}

func TestPipeline_InputPluginError(t *testing.T) {
	boom := errors.New("boom")
	p := css.NewPipeline(css.Plugins{
		Input: []css.InputPlugin{
			func(s string) (string, error) { return s, nil },
			func(string) (string, error) { return "", boom },
		},
	})

	_, err := p.Run(context.Background(), "a{}")
	require.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), "input plugin 2:"), err.Error())
}

func TestPipeline_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "parse",
			source: "div{",
			check: func(t *testing.T, err error) {
				var pe *css.ParseError
				require.ErrorAs(t, err, &pe)
				assert.ErrorIs(t, err, css.ErrUnexpectedEnd)
			},
		},
		{
			name:   "transform",
			source: "div {\n  device .. { color: red; }\n}",
			check: func(t *testing.T, err error) {
				var pe *css.PluginError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, 2, pe.Line)
				assert.Equal(t, "Transformation error: Invalid device range: No devices specified. @ line 2", err.Error())
			},
		},
		{
			name:   "render",
			source: "div { device tablet { device laptop { color: red; } } }",
			check: func(t *testing.T, err error) {
				var re *css.RenderError
				require.ErrorAs(t, err, &re)
				assert.ErrorIs(t, err, css.ErrNestedMediaQuery)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newPipeline().Run(context.Background(), tt.source)
			require.Error(t, err)
			assert.Empty(t, got)
			tt.check(t, err)
		})
	}
}

func TestPipeline_Compile(t *testing.T) {
	res, err := newPipeline().Compile(context.Background(), `a { group "b" { color: red; } }`)
	require.NoError(t, err)

	assert.Equal(t, "a.b{color:red}", res.Output)
	require.Len(t, res.Tree, 1)
	assert.Equal(t, []string{"&.b"}, res.Tree[0].Children[0].Selectors)
}

func TestPipeline_WithOutput(t *testing.T) {
	banner := []css.OutputPlugin{plugins.Banner("b", nil)}
	var blocks, rules int
	p := css.NewPipeline(
		css.Plugins{Output: banner},
		css.WithOutput(plugins.Stats(func(b, r int) { blocks, rules = b, r })),
	)

	got, err := p.Run(context.Background(), "a{color:red;b{}}")
	require.NoError(t, err)
	assert.Equal(t, "/*b*/a{color:red}", got)
	assert.Equal(t, 2, blocks)
	assert.Equal(t, 1, rules)
	assert.Len(t, banner, 1, "the caller's slice is not modified")
}
