// Package curl compiles a curl command line, given as a single string, into a
// Request descriptor.
//
// Compilation runs in three stages:
//
//	command := KEYWORD(curl) item* EOF
//	item    := flag | text
//	flag    := FLAG [ TEXT ]
//	text    := TEXT
//
// The Lexer produces Tokens lazily, the Parser builds a Command tree, and
// Lower walks that tree to produce the Request. Problems that don't prevent a
// usable Request (bad quoting, unknown flags, missing flag arguments) are
// reported as Diagnostics; a missing "curl" keyword or an invalid URL fails
// the compilation.
package curl

// Compile compiles a curl command into a Request. Diagnostics are returned
// alongside the result, including when compilation fails.
func Compile(command string) (*Request, []Diagnostic, error) {
	p := NewParser(NewLexer(command))
	cmd, err := p.Parse()
	if err != nil {
		return nil, p.Diagnostics(), err
	}

	req, err := Lower(cmd)
	if err != nil {
		return nil, p.Diagnostics(), err
	}
	return req, p.Diagnostics(), nil
}
