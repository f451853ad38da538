package css

// Parse turns dialect source text into an ordered forest of blocks.
//
// The input is consumed in a single left-to-right pass. Delimiters drive the
// state machine in parserState; every other character is buffered until a
// delimiter decides whether the buffer was a selector, a property name or a
// property value.
func Parse(input string) ([]*Block, error) {
	s := newParserState()

	for i, r := range input {
		s.position = i

		var err error
		switch r {
		case '{':
			err = s.openingBrace()
		case '}':
			err = s.closingBrace()
		case ';':
			err = s.semicolon()
		case ',':
			err = s.comma()
		case ':':
			err = s.colon()
		case '&':
			s.ampersand()
		case '@':
			s.atSign()
		case '"':
			s.doubleQuote()
		case '(', ')':
			s.parenthesis(r)
		default:
			s.write(r)
		}
		if err != nil {
			return nil, err
		}

		if r == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
	}

	if len(s.stack) > 0 {
		return nil, s.fail(ErrUnexpectedEnd)
	}
	return s.tree, nil
}
