package css

import "slices"

// MutableBlock is the view of a block handed to transform plugins.
// Query methods return copies so plugins cannot alias the block's slices.
type MutableBlock struct {
	block *Block
}

// Expose wraps b in a MutableBlock.
func Expose(b *Block) *MutableBlock {
	return &MutableBlock{block: b}
}

func (m *MutableBlock) HasChildren() bool {
	return len(m.block.Children) > 0
}

func (m *MutableBlock) HasSelector(selector string) bool {
	return slices.Contains(m.block.Selectors, selector)
}

func (m *MutableBlock) Selectors() []string {
	return slices.Clone(m.block.Selectors)
}

// AddSelector appends selector unless the block already has it.
func (m *MutableBlock) AddSelector(selector string) {
	if !m.HasSelector(selector) {
		m.block.Selectors = append(m.block.Selectors, selector)
	}
}

func (m *MutableBlock) RemoveSelector(selector string) {
	m.block.Selectors = slices.DeleteFunc(m.block.Selectors, func(s string) bool {
		return s == selector
	})
}

// ReplaceSelector swaps every occurrence of oldSelector for newSelector.
func (m *MutableBlock) ReplaceSelector(oldSelector, newSelector string) {
	for i, s := range m.block.Selectors {
		if s == oldSelector {
			m.block.Selectors[i] = newSelector
		}
	}
}

func (m *MutableBlock) SetSelectors(selectors []string) {
	m.block.Selectors = slices.Clone(selectors)
}

func (m *MutableBlock) HasProperty(key string) bool {
	return m.index(key) >= 0
}

// Property returns the value of the first declaration named key.
func (m *MutableBlock) Property(key string) (string, bool) {
	if i := m.index(key); i >= 0 {
		return m.block.Properties[i].Value, true
	}
	return "", false
}

func (m *MutableBlock) Properties() []Property {
	return slices.Clone(m.block.Properties)
}

// SetProperty replaces the first declaration named key, or appends one.
func (m *MutableBlock) SetProperty(key, value string) {
	if i := m.index(key); i >= 0 {
		m.block.Properties[i].Value = value
		return
	}
	m.block.Properties = append(m.block.Properties, Property{Key: key, Value: value})
}

// RemoveProperty drops every declaration named key.
func (m *MutableBlock) RemoveProperty(key string) {
	m.block.Properties = slices.DeleteFunc(m.block.Properties, func(p Property) bool {
		return p.Key == key
	})
}

func (m *MutableBlock) index(key string) int {
	return slices.IndexFunc(m.block.Properties, func(p Property) bool {
		return p.Key == key
	})
}
