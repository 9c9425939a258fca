package format

import (
	"fmt"

	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/token"

	"github.com/ryanfowler/curlc/internal/core"
)

// FormatYAML formats the provided raw YAML data to the Printer.
func FormatYAML(buf []byte, p *core.Printer) error {
	err := formatYAML(buf, p)
	if err != nil {
		p.Reset()
	}
	return err
}

func formatYAML(buf []byte, p *core.Printer) error {
	tokens := lexer.Tokenize(string(buf))
	if inv := tokens.InvalidToken(); inv != nil {
		return fmt.Errorf("invalid yaml: %s", inv.Error)
	}

	for _, tok := range tokens {
		writeYAMLToken(p, tok)
	}
	return nil
}

func writeYAMLToken(p *core.Printer, tok *token.Token) {
	switch tok.Type {
	case token.StringType, token.SingleQuoteType, token.DoubleQuoteType:
		if isYAMLKey(tok) {
			p.Set(core.Blue)
			p.Set(core.Bold)
		} else {
			p.Set(core.Green)
		}
		p.WriteString(tok.Origin)
		p.Reset()

	case token.BoolType:
		p.Set(core.Magenta)
		p.WriteString(tok.Origin)
		p.Reset()

	case token.NullType, token.CommentType:
		p.Set(core.Dim)
		p.WriteString(tok.Origin)
		p.Reset()

	default:
		p.WriteString(tok.Origin)
	}
}

func isYAMLKey(tok *token.Token) bool {
	return tok.Next != nil && tok.NextType() == token.MappingValueType
}
