package curl

import "strings"

type lexState int

const (
	stateNormal lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateEscaped
)

// Lexer splits a shell-style command string into Tokens on demand.
//
// Quoting follows a small subset of POSIX shell rules: single quotes are fully
// literal, double quotes honor backslash escapes, and adjacent quoted and
// unquoted runs concatenate into one word.
type Lexer struct {
	input string
	pos   int
	words int
	done  bool
}

// NewLexer returns a Lexer positioned at the start of s.
func NewLexer(s string) *Lexer {
	return &Lexer{input: s}
}

// Next returns the next Token. Once the input is exhausted, every call returns
// an EOF Token.
func (l *Lexer) Next() Token {
	if l.done {
		return Token{Kind: EOF, Pos: len(l.input)}
	}

	l.skipSpace()
	if l.pos >= len(l.input) {
		l.done = true
		return Token{Kind: EOF, Pos: len(l.input)}
	}

	start := l.pos
	var sb strings.Builder
	state, resume := stateNormal, stateNormal

scan:
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch state {
		case stateNormal:
			switch c {
			case ' ', '\t', '\r', '\n':
				break scan
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			case '\\':
				if l.continuation() {
					l.pos += 2
					continue
				}
				state, resume = stateEscaped, stateNormal
			default:
				sb.WriteByte(c)
			}
		case stateSingleQuote:
			if c == '\'' {
				state = stateNormal
			} else {
				sb.WriteByte(c)
			}
		case stateDoubleQuote:
			switch c {
			case '"':
				state = stateNormal
			case '\\':
				state, resume = stateEscaped, stateDoubleQuote
			default:
				sb.WriteByte(c)
			}
		case stateEscaped:
			sb.WriteByte(c)
			state = resume
		}
		l.pos++
	}

	if msg := unterminated(state, resume); msg != "" {
		l.done = true
		return Token{Kind: Error, Value: msg, Pos: start}
	}

	l.words++
	tok := Token{Value: sb.String(), Pos: start}
	switch {
	case l.words == 1:
		tok.Kind = Keyword
	case isFlagWord(l.input[start:l.pos]):
		tok.Kind = FlagToken
	default:
		tok.Kind = Text
	}
	return tok
}

// skipSpace advances past whitespace and line continuations.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		case '\\':
			if !l.continuation() {
				return
			}
			l.pos += 2
		default:
			return
		}
	}
}

// continuation reports whether the cursor sits on a backslash-newline pair.
func (l *Lexer) continuation() bool {
	return l.pos+1 < len(l.input) && l.input[l.pos] == '\\' && l.input[l.pos+1] == '\n'
}

func unterminated(state, resume lexState) string {
	if state == stateEscaped {
		if resume == stateDoubleQuote {
			return "unterminated double quote"
		}
		return "unterminated escape sequence"
	}
	switch state {
	case stateSingleQuote:
		return "unterminated single quote"
	case stateDoubleQuote:
		return "unterminated double quote"
	}
	return ""
}

// isFlagWord reports whether the raw (unprocessed) word is a flag. Only an
// unquoted leading dash counts, and a lone "-" is an argument.
func isFlagWord(raw string) bool {
	return len(raw) > 1 && raw[0] == '-'
}
