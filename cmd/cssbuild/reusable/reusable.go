// Package reusable implements reusable blocks: property sets declared once
// under a prefixed selector and pulled into other blocks with `!include`.
//
//	reusable block: card { padding: 1rem; border: 1px solid; }
//	.panel { !include: card; }
package reusable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"css-tools/cmd/cssbuild/css"
)

const (
	DefaultPrefix    = "reusable block:"
	DefaultSeparator = ","

	includeProperty = "!include"
)

var (
	ErrMultipleSelectors = errors.New("A reusable block cannot have more than one selector")
	ErrHasChildren       = errors.New("A reusable block cannot have children")
	ErrNonUnique         = errors.New("Non-unique reusable block name")
	ErrUnknown           = errors.New("Unknown reusable block")
)

// Plugin collects reusable block declarations and expands includes.
// Declarations are collected in the transformer's collection pass, so an
// include may appear before the declaration it refers to. Each transform
// collects into its own table, so one Plugin may serve concurrent runs.
type Plugin struct {
	prefix    string
	separator string

	mu   sync.Mutex
	last *table
}

// New returns a Plugin. Empty prefix or separator select the defaults.
func New(prefix, separator string) *Plugin {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Plugin{prefix: prefix, separator: separator}
}

// NewCollection starts the declaration table for one transform.
func (p *Plugin) NewCollection() css.Collection {
	t := &table{plugin: p, blocks: make(map[string][]css.Property)}
	p.mu.Lock()
	p.last = t
	p.mu.Unlock()
	return t
}

// Transform expands includes against the most recent collection.
func (p *Plugin) Transform(ctx context.Context, b *css.MutableBlock) error {
	return p.latest().Transform(ctx, b)
}

// Names returns the block names declared in the most recent collection.
func (p *Plugin) Names() []string {
	return p.latest().names()
}

func (p *Plugin) latest() *table {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		p.last = &table{plugin: p, blocks: make(map[string][]css.Property)}
	}
	return p.last
}

func (p *Plugin) isDeclaration(selectors []string) bool {
	for _, s := range selectors {
		if strings.HasPrefix(s, p.prefix) {
			return true
		}
	}
	return false
}

// table holds the declarations collected during one transform.
type table struct {
	plugin *Plugin

	mu     sync.RWMutex
	blocks map[string][]css.Property
}

// Collect registers b if it is a declaration and strips its properties so
// the declaration itself never renders.
func (t *table) Collect(b *css.MutableBlock) error {
	selectors := b.Selectors()
	if !t.plugin.isDeclaration(selectors) {
		return nil
	}
	if len(selectors) > 1 {
		return ErrMultipleSelectors
	}
	if b.HasChildren() {
		return ErrHasChildren
	}

	name := normalizeName(strings.TrimPrefix(selectors[0], t.plugin.prefix))
	props := b.Properties()
	if err := t.register(name, props); err != nil {
		return err
	}
	for _, prop := range props {
		b.RemoveProperty(prop.Key)
	}
	return nil
}

// Transform replaces an `!include` declaration with the properties of the
// named blocks, in the order they are listed.
func (t *table) Transform(_ context.Context, b *css.MutableBlock) error {
	includes, ok := b.Property(includeProperty)
	if !ok {
		return nil
	}

	for _, raw := range strings.Split(includes, t.plugin.separator) {
		name := normalizeName(raw)
		props, ok := t.lookup(name)
		if !ok {
			return fmt.Errorf("%w (%s)", ErrUnknown, name)
		}
		for _, prop := range props {
			b.SetProperty(prop.Key, prop.Value)
		}
	}

	b.RemoveProperty(includeProperty)
	return nil
}

func (t *table) names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.blocks))
	for name := range t.blocks {
		names = append(names, name)
	}
	return names
}

func (t *table) register(name string, props []css.Property) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.blocks[name]; exists {
		return fmt.Errorf("%w (%s)", ErrNonUnique, name)
	}
	t.blocks[name] = props
	return nil
}

func (t *table) lookup(name string) ([]css.Property, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	props, ok := t.blocks[name]
	return props, ok
}

// normalizeName trims whitespace and one surrounding quote or backtick.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name != "" && strings.ContainsRune("'\"`", rune(name[0])) {
		name = name[1:]
	}
	if name != "" && strings.ContainsRune("'\"`", rune(name[len(name)-1])) {
		name = name[:len(name)-1]
	}
	return name
}
