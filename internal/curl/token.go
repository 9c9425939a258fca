package curl

import "fmt"

// Kind identifies the variant of a Token.
type Kind int

const (
	EOF Kind = iota
	Error
	Keyword
	FlagToken
	Text
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Error:
		return "error"
	case Keyword:
		return "keyword"
	case FlagToken:
		return "flag"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical unit of a curl command.
//
// For FlagToken tokens, Value is the flag literal exactly as written (e.g. "-H" or
// "--data=x"). For Error tokens, Value is a human-readable diagnostic.
type Token struct {
	Kind  Kind
	Value string
	Pos   int // byte offset of the token in the input
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Error:
		return fmt.Sprintf("error(%s)", t.Value)
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Value)
	}
}
