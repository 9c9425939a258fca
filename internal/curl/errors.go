package curl

import (
	"fmt"

	"github.com/ryanfowler/curlc/internal/core"
)

// PreconditionError is returned when a command does not start with the
// "curl" keyword.
type PreconditionError struct {
	Got Token
}

func (err *PreconditionError) Error() string {
	switch err.Got.Kind {
	case EOF:
		return "expected command to start with 'curl', got end of input"
	case Error:
		return "expected command to start with 'curl': " + err.Got.Value
	}
	return fmt.Sprintf("expected command to start with 'curl', got '%s'", err.Got.Value)
}

func (err *PreconditionError) PrintTo(p *core.Printer) {
	p.WriteString("expected command to start with '")
	p.Set(core.Bold)
	p.WriteString("curl")
	p.Reset()
	switch err.Got.Kind {
	case EOF:
		p.WriteString("', got end of input")
		return
	case Error:
		p.WriteString("': ")
		p.WriteString(err.Got.Value)
		return
	}
	p.WriteString("', got '")
	p.Set(core.Yellow)
	p.WriteString(err.Got.Value)
	p.Reset()
	p.WriteString("'")
}

// URLError is returned when the command's URL is missing or malformed.
type URLError struct {
	Raw string
	Err error
}

func (err *URLError) Error() string {
	if err.Raw == "" {
		return err.Err.Error()
	}
	return fmt.Sprintf("invalid URL '%s': %s", err.Raw, err.Err.Error())
}

func (err *URLError) Unwrap() error {
	return err.Err
}

func (err *URLError) PrintTo(p *core.Printer) {
	if err.Raw == "" {
		p.WriteString(err.Err.Error())
		return
	}
	p.WriteString("invalid URL '")
	p.Set(core.Dim)
	p.WriteString(err.Raw)
	p.Reset()
	p.WriteString("': ")
	p.WriteString(err.Err.Error())
}
