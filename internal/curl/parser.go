package curl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Diagnostic is a non-fatal problem found while parsing a command.
type Diagnostic struct {
	Pos int
	Msg string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("offset %d: %s", d.Pos, d.Msg)
}

type flagSpec struct {
	hasArg bool
	build  func(arg string) Flag
}

var flags = map[string]flagSpec{
	"-H":            {hasArg: true, build: func(v string) Flag { return Header{Value: v} }},
	"--header":      {hasArg: true, build: func(v string) Flag { return Header{Value: v} }},
	"-X":            {hasArg: true, build: func(v string) Flag { return ExplicitMethod{Method: v} }},
	"--request":     {hasArg: true, build: func(v string) Flag { return ExplicitMethod{Method: v} }},
	"-d":            {hasArg: true, build: func(v string) Flag { return Data{Value: v} }},
	"--data":        {hasArg: true, build: func(v string) Flag { return Data{Value: v} }},
	"--data-ascii":  {hasArg: true, build: func(v string) Flag { return Data{Value: v} }},
	"--data-binary": {hasArg: true, build: func(v string) Flag { return Data{Value: v} }},
	"--data-raw":    {hasArg: true, build: func(v string) Flag { return Data{Value: v} }},
	"--compressed":  {build: func(string) Flag { return Compressed{} }},
}

// SupportedFlags returns the sorted flag literals the parser recognises.
func SupportedFlags() []string {
	return slices.Sorted(maps.Keys(flags))
}

// Parser builds a Command from the Tokens of a Lexer, using one token of
// lookahead. Recoverable problems are collected as Diagnostics rather than
// aborting the parse.
type Parser struct {
	lex    *Lexer
	peeked bool
	buf    Token
	diags  []Diagnostic
}

// NewParser returns a Parser reading from lex.
func NewParser(lex *Lexer) *Parser {
	return &Parser{lex: lex}
}

// Diagnostics returns the problems recorded while parsing.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

// Parse parses the command. It returns a *PreconditionError if the command
// does not start with the "curl" keyword.
func (p *Parser) Parse() (*Command, error) {
	first := p.next()
	if first.Kind != Keyword || first.Value != "curl" {
		return nil, &PreconditionError{Got: first}
	}

	cmd := &Command{}
	for {
		tok := p.next()
		switch tok.Kind {
		case EOF:
			return cmd, nil
		case Error:
			p.errorf(tok.Pos, "%s", tok.Value)
		case FlagToken:
			p.parseFlag(cmd, tok)
		case Text, Keyword:
			if cmd.URL != nil {
				p.errorf(tok.Pos, "URL %q replaces earlier URL %q", tok.Value, cmd.URL.Raw)
			}
			cmd.URL = &URL{Raw: tok.Value}
		}
	}
}

func (p *Parser) parseFlag(cmd *Command, tok Token) {
	name, arg := tok.Value, ""
	var inline bool
	if strings.HasPrefix(name, "--") {
		name, arg, inline = strings.Cut(name, "=")
	}

	spec, ok := flags[name]
	if !ok {
		p.errorf(tok.Pos, "unsupported flag '%s' ignored", name)
		return
	}

	if !spec.hasArg {
		if inline {
			p.errorf(tok.Pos, "flag '%s' does not take an argument", name)
			return
		}
		cmd.Flags = append(cmd.Flags, spec.build(""))
		return
	}

	if !inline {
		next := p.peek()
		if next.Kind != Text {
			p.errorf(tok.Pos, "flag '%s' requires an argument, got %s", name, next.Kind)
			return
		}
		p.next()
		arg = next.Value
	}

	f := spec.build(arg)
	if m, ok := f.(ExplicitMethod); ok && m.Method == "" {
		p.errorf(tok.Pos, "flag '%s' requires a non-empty method", name)
		return
	}
	cmd.Flags = append(cmd.Flags, f)
}

func (p *Parser) next() Token {
	if p.peeked {
		p.peeked = false
		return p.buf
	}
	return p.lex.Next()
}

func (p *Parser) peek() Token {
	if !p.peeked {
		p.buf = p.lex.Next()
		p.peeked = true
	}
	return p.buf
}

func (p *Parser) errorf(pos int, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}
