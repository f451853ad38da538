package css

import (
	"strings"
	"unicode/utf8"
)

// parserState is the scratch state of a single Parse call.
// It is discarded once parsing completes; the stack only exists to know which
// block is currently open.
type parserState struct {
	position int
	line     int
	column   int

	buffer        []byte
	tree          []*Block
	stack         []*Block
	selectorStack []string

	propertyName string
	parenDepth   int

	isAtRule         bool
	isCustomProperty bool
	isNestedSelector bool
	isStringLiteral  bool
}

func newParserState() *parserState {
	return &parserState{line: 1, column: 1}
}

func (s *parserState) fail(err error) error {
	return &ParseError{Err: err, Pos: Position{Line: s.line, Column: s.column}}
}

func (s *parserState) write(r rune) {
	s.buffer = utf8.AppendRune(s.buffer, r)
}

func (s *parserState) take() string {
	v := strings.TrimSpace(string(s.buffer))
	s.buffer = s.buffer[:0]
	return v
}

func (s *parserState) current() *Block {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *parserState) inValue() bool {
	return s.propertyName != ""
}

func (s *parserState) openingBrace() error {
	selector := s.take()
	if selector == "" {
		return s.fail(ErrUnexpectedOpeningBrace)
	}

	selectors := append(s.selectorStack, selector)
	if len(selectors) > 1 {
		for _, sel := range selectors {
			if isAtRule(sel) {
				return s.fail(ErrMixedAtRule)
			}
		}
	}

	block := &Block{
		Selectors: selectors,
		Metadata:  Metadata{Start: Position{Line: s.line, Column: s.column}},
	}
	if parent := s.current(); parent != nil {
		parent.Children = append(parent.Children, block)
	} else {
		s.tree = append(s.tree, block)
	}
	s.stack = append(s.stack, block)

	s.selectorStack = nil
	s.isNestedSelector = false
	s.isAtRule = false
	return nil
}

func (s *parserState) closingBrace() error {
	if len(s.stack) == 0 || s.inValue() {
		return s.fail(ErrUnexpectedClosingBrace)
	}

	block := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	block.Metadata.End = &Position{Line: s.line, Column: s.column}

	s.buffer = s.buffer[:0]
	return nil
}

func (s *parserState) semicolon() error {
	if s.isStringLiteral {
		s.write(';')
		return nil
	}

	value := s.take()
	if !s.inValue() || value == "" {
		return s.fail(ErrUnexpectedSemicolon)
	}
	block := s.current()
	if block == nil {
		return s.fail(ErrSemicolonOutsideBlock)
	}
	block.Properties = append(block.Properties, Property{Key: s.propertyName, Value: value})

	s.propertyName = ""
	s.isCustomProperty = false
	return nil
}

func (s *parserState) comma() error {
	if s.isStringLiteral || s.inValue() || s.parenDepth > 0 {
		s.write(',')
		return nil
	}

	selector := s.take()
	if selector == "" {
		return s.fail(ErrUnexpectedComma)
	}
	s.selectorStack = append(s.selectorStack, selector)
	return nil
}

func (s *parserState) colon() error {
	// Pseudo-classes, media features and quoted text keep their colon.
	if s.isAtRule || s.isStringLiteral || s.isNestedSelector || s.parenDepth > 0 || s.current() == nil {
		s.write(':')
		return nil
	}
	if s.inValue() {
		if s.isCustomProperty {
			s.write(':')
			return nil
		}
		return s.fail(ErrUnexpectedColon)
	}

	s.propertyName = s.take()
	s.isCustomProperty = strings.HasPrefix(s.propertyName, "!")
	return nil
}

func (s *parserState) ampersand() {
	s.write('&')
	if !s.isCustomProperty && !s.isStringLiteral {
		s.isNestedSelector = true
	}
}

func (s *parserState) atSign() {
	s.write('@')
	if !s.isCustomProperty {
		s.isAtRule = true
	}
}

func (s *parserState) doubleQuote() {
	escaped := len(s.buffer) > 0 && s.buffer[len(s.buffer)-1] == '\\'
	s.write('"')
	if s.isCustomProperty {
		return
	}
	if s.isStringLiteral {
		s.isStringLiteral = escaped
	} else {
		s.isStringLiteral = true
	}
}

func (s *parserState) parenthesis(r rune) {
	s.write(r)
	if s.isCustomProperty || s.isStringLiteral {
		return
	}
	if r == '(' {
		s.parenDepth++
	} else if s.parenDepth > 0 {
		s.parenDepth--
	}
}
