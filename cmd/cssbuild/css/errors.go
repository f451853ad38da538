package css

import (
	"errors"
	"fmt"
)

// Parse failures.
var (
	ErrUnexpectedOpeningBrace = errors.New("Unexpected opening brace")
	ErrUnexpectedClosingBrace = errors.New("Unexpected closing brace")
	ErrMixedAtRule            = errors.New("At-rule mixed with other selectors")
	ErrUnexpectedSemicolon    = errors.New("Unexpected semicolon (expected property declaration)")
	ErrSemicolonOutsideBlock  = errors.New("Unexpected semicolon (outside block)")
	ErrUnexpectedComma        = errors.New("Unexpected comma (expected selector)")
	ErrUnexpectedColon        = errors.New("Unexpected colon (expected property value)")
	ErrUnexpectedEnd          = errors.New("Unexpected end of string (missing closing brace)")
)

// Render failures.
var (
	ErrNestedMediaQuery   = errors.New("Nested media queries are not supported")
	ErrMediaInColorScheme = errors.New("Responsive media queries cannot be nested inside color scheme at-rules")
	ErrNestedColorScheme  = errors.New("Nested color scheme at-rules are not supported")
	ErrNestedAtRule       = errors.New("Nested at-rules are not allowed")
)

// ParseError is a structural or lexical violation found while parsing.
type ParseError struct {
	Err error
	Pos Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parsing error: %s @ line %d (column %d).", e.Err, e.Pos.Line, e.Pos.Column)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RenderError is an illegal at-rule nesting. Pos is the start of the offending block.
type RenderError struct {
	Err error
	Pos Position
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("Rendering error: %s @ line %d (column %d).", e.Err, e.Pos.Line, e.Pos.Column)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PluginError is any failure raised by a transform plugin.
// Line is the start line of the block being transformed, or 0 when unknown.
type PluginError struct {
	Err  error
	Line int
}

func (e *PluginError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Transformation error: %s @ line %d", e.Err, e.Line)
	}
	return fmt.Sprintf("Transformation error: %s", e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }
