package css

import (
	"context"
	"fmt"
	"slices"
)

// InputPlugin rewrites the source text before parsing.
type InputPlugin func(source string) (string, error)

// OutputPlugin rewrites the rendered CSS. Tree is the transformed tree the
// output was rendered from.
type OutputPlugin func(ctx context.Context, r Result) (string, error)

// Result is what a pipeline run produced.
type Result struct {
	Output string
	Tree   []*Block
}

// Plugins groups the plugins of a pipeline by stage. Each stage runs its
// plugins in slice order.
type Plugins struct {
	Input     []InputPlugin
	Transform []TransformPlugin
	Output    []OutputPlugin
}

// Pipeline compiles source text to CSS: input plugins, parse, transform,
// render, output plugins.
// Run and Compile may be called concurrently.
type Pipeline struct {
	plugins     Plugins
	transformer *Transformer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency bounds the number of transform chains in flight.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		p.transformer.SetLimit(n)
	}
}

// WithOutput appends output plugins after the ones in Plugins.Output.
func WithOutput(plugins ...OutputPlugin) PipelineOption {
	return func(p *Pipeline) {
		p.plugins.Output = append(slices.Clip(p.plugins.Output), plugins...)
	}
}

func NewPipeline(plugins Plugins, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		plugins:     plugins,
		transformer: NewTransformer(plugins.Transform...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run compiles source and returns the final output text.
func (p *Pipeline) Run(ctx context.Context, source string) (string, error) {
	res, err := p.Compile(ctx, source)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Compile is Run, but also returns the transformed tree.
func (p *Pipeline) Compile(ctx context.Context, source string) (Result, error) {
	for i, plugin := range p.plugins.Input {
		out, err := plugin(source)
		if err != nil {
			return Result{}, fmt.Errorf("input plugin %d: %w", i+1, err)
		}
		source = out
	}

	tree, err := Parse(source)
	if err != nil {
		return Result{}, err
	}

	if err := p.transformer.Transform(ctx, tree); err != nil {
		return Result{}, err
	}

	output, err := Render(tree)
	if err != nil {
		return Result{}, err
	}

	res := Result{Output: output, Tree: tree}
	for i, plugin := range p.plugins.Output {
		out, err := plugin(ctx, res)
		if err != nil {
			return Result{}, fmt.Errorf("output plugin %d: %w", i+1, err)
		}
		res.Output = out
	}
	return res, nil
}
