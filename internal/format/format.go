package format

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-runewidth"

	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
)

// request is the serialized form of a curl.Request.
type request struct {
	Method          string            `json:"method" yaml:"method"`
	URL             string            `json:"url" yaml:"url"`
	Headers         map[string]string `json:"headers" yaml:"headers"`
	Body            *string           `json:"body,omitempty" yaml:"body,omitempty"`
	Compressed      bool              `json:"compressed" yaml:"compressed"`
	FollowRedirects bool              `json:"follow_redirects" yaml:"follow_redirects"`
}

func newRequest(r *curl.Request) request {
	return request{
		Method:          r.Method,
		URL:             r.URL.String(),
		Headers:         r.Headers,
		Body:            r.Body,
		Compressed:      r.Compressed,
		FollowRedirects: r.FollowRedirects,
	}
}

// FormatRequest writes the compiled request descriptor to the Printer in the
// provided Format. FormatUnknown is treated as FormatText.
func FormatRequest(r *curl.Request, f core.Format, p *core.Printer) error {
	switch f {
	case core.FormatJSON:
		buf, err := json.Marshal(newRequest(r))
		if err != nil {
			return err
		}
		return FormatJSON(buf, p)
	case core.FormatYAML:
		buf, err := yaml.Marshal(newRequest(r))
		if err != nil {
			return err
		}
		return FormatYAML(buf, p)
	default:
		formatRequestText(r, p)
		return nil
	}
}

func formatRequestText(r *curl.Request, p *core.Printer) {
	writeRequestPrefix(p)
	p.Set(core.Bold)
	p.WriteString(r.Method)
	p.Reset()
	p.WriteString(" ")
	p.Set(core.Cyan)
	p.WriteString(r.URL.String())
	p.Reset()
	p.WriteString("\n")

	names := sortedKeys(r.Headers)
	width := maxWidth(names)
	for _, name := range names {
		writeRequestPrefix(p)
		writeHeaderName(p, name, width)
		p.WriteString(r.Headers[name])
		p.WriteString("\n")
	}

	writeInfoPrefix(p)
	fmt.Fprintf(p, "compressed: %t\n", r.Compressed)
	writeInfoPrefix(p)
	fmt.Fprintf(p, "follow-redirects: %t\n", r.FollowRedirects)

	if r.HasBody() {
		p.WriteString("\n")
		p.WriteString(*r.Body)
		p.WriteString("\n")
	}
}

// FormatResponseHead writes the response status line and headers.
func FormatResponseHead(p *core.Printer, proto, status string, h http.Header) {
	writeResponsePrefix(p)
	p.Set(core.Dim)
	p.WriteString(proto)
	p.Reset()
	p.WriteString(" ")
	p.Set(statusColor(status))
	p.Set(core.Bold)
	p.WriteString(status)
	p.Reset()
	p.WriteString("\n")

	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	slices.Sort(names)
	width := maxWidth(names)
	for _, name := range names {
		for _, v := range h[name] {
			writeResponsePrefix(p)
			writeHeaderName(p, name, width)
			p.WriteString(v)
			p.WriteString("\n")
		}
	}
	p.WriteString("\n")
}

func statusColor(status string) core.Sequence {
	switch {
	case strings.HasPrefix(status, "2"):
		return core.Green
	case strings.HasPrefix(status, "3"):
		return core.Yellow
	default:
		return core.Red
	}
}

func writeHeaderName(p *core.Printer, name string, width int) {
	p.Set(core.Blue)
	p.WriteString(name)
	p.Reset()
	p.WriteString(":")
	for range width - runewidth.StringWidth(name) + 1 {
		p.WriteString(" ")
	}
}

func maxWidth(names []string) int {
	var out int
	for _, name := range names {
		out = max(out, runewidth.StringWidth(name))
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func writeRequestPrefix(p *core.Printer)  { writePrefix(p, "> ") }
func writeResponsePrefix(p *core.Printer) { writePrefix(p, "< ") }
func writeInfoPrefix(p *core.Printer)     { writePrefix(p, "* ") }

func writePrefix(p *core.Printer, s string) {
	p.Set(core.Dim)
	p.WriteString(s)
	p.Reset()
}

// writeIndent writes the provided number of indents.
func writeIndent(w io.StringWriter, indent int) {
	for range indent {
		w.WriteString("  ")
	}
}
