package css

// Block is one node of the compiled tree: a rule with its selectors, its
// declarations and its nested rules.
//
// Children is nil until a first child is added. A block owns its children
// exclusively; the tree carries no parent pointers.
type Block struct {
	Selectors  []string
	Properties []Property
	Children   []*Block
	Metadata   Metadata
}

// Property is a single key/value declaration. Keys and values are opaque.
type Property struct {
	Key   string
	Value string
}

// Metadata records where a block was found in the source.
// End is nil until the closing brace has been consumed.
type Metadata struct {
	Start Position
	End   *Position
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// IsAtRule reports whether the block's first selector is an at-rule.
func (b *Block) IsAtRule() bool {
	return len(b.Selectors) > 0 && isAtRule(b.Selectors[0])
}

// Walk visits every block of the forest in pre-order.
// It stops at the first error returned by fn.
func Walk(tree []*Block, fn func(*Block) error) error {
	for _, b := range tree {
		if err := fn(b); err != nil {
			return err
		}
		if err := Walk(b.Children, fn); err != nil {
			return err
		}
	}
	return nil
}

func isAtRule(selector string) bool {
	return len(selector) > 0 && selector[0] == '@'
}
