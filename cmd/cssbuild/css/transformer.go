package css

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// TransformPlugin mutates a single block. Plugins run in registration order
// for any one block; there is no ordering between different blocks.
type TransformPlugin interface {
	Transform(ctx context.Context, b *MutableBlock) error
}

// TransformFunc adapts a plain function to TransformPlugin.
type TransformFunc func(ctx context.Context, b *MutableBlock) error

func (f TransformFunc) Transform(ctx context.Context, b *MutableBlock) error {
	return f(ctx, b)
}

// Collector is implemented by plugins that need to see the whole tree before
// any block is transformed. Every Transform call starts a new Collection,
// which collects the tree sequentially in pre-order and then transforms its
// blocks in place of the plugin. Concurrent transforms never share one.
type Collector interface {
	NewCollection() Collection
}

// Collection is the state a Collector gathers for a single transform.
type Collection interface {
	TransformPlugin
	Collect(b *MutableBlock) error
}

// Transformer applies an ordered plugin chain to every block of a tree.
type Transformer struct {
	plugins []TransformPlugin
	limit   int
}

func NewTransformer(plugins ...TransformPlugin) *Transformer {
	return &Transformer{plugins: plugins}
}

// SetLimit bounds the number of block chains in flight. n <= 0 means no limit.
func (t *Transformer) SetLimit(n int) *Transformer {
	t.limit = n
	return t
}

func (t *Transformer) Plugins() []TransformPlugin {
	return t.plugins
}

// Transform runs the collection pass, then fans the plugin chains out over
// the tree. The first failure cancels the remaining chains and is returned as
// a *PluginError.
func (t *Transformer) Transform(ctx context.Context, tree []*Block) error {
	if len(t.plugins) == 0 {
		return nil
	}

	plugins, err := t.collect(tree)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if t.limit > 0 {
		g.SetLimit(t.limit)
	}
	if err := Walk(tree, func(b *Block) error {
		g.Go(func() error {
			return chain(ctx, plugins, b)
		})
		return nil
	}); err != nil {
		return err
	}
	return g.Wait()
}

// collect runs the collection pass and returns the plugin chain for this
// transform, with every Collector replaced by its new Collection.
func (t *Transformer) collect(tree []*Block) ([]TransformPlugin, error) {
	plugins := make([]TransformPlugin, len(t.plugins))
	var collections []Collection
	for i, p := range t.plugins {
		plugins[i] = p
		if c, ok := p.(Collector); ok {
			col := c.NewCollection()
			plugins[i] = col
			collections = append(collections, col)
		}
	}
	if len(collections) == 0 {
		return plugins, nil
	}

	err := Walk(tree, func(b *Block) error {
		m := Expose(b)
		for _, c := range collections {
			if err := c.Collect(m); err != nil {
				return wrapPluginError(err, b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plugins, nil
}

func chain(ctx context.Context, plugins []TransformPlugin, b *Block) error {
	m := Expose(b)
	for _, p := range plugins {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Transform(ctx, m); err != nil {
			return wrapPluginError(err, b)
		}
	}
	return nil
}

func wrapPluginError(err error, b *Block) error {
	var pe *PluginError
	if errors.As(err, &pe) {
		return err
	}
	return &PluginError{Err: err, Line: b.Metadata.Start.Line}
}
