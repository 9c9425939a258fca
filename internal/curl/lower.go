package curl

import (
	"errors"
	"net/url"
	"strings"
)

// Lower converts a parsed Command into a Request. The Command is not modified.
func Lower(cmd *Command) (*Request, error) {
	l := lowering{
		req: Request{
			Headers:         make(map[string]string),
			FollowRedirects: true,
		},
	}
	for _, f := range cmd.Flags {
		l.visitFlag(f)
	}
	if len(l.data) > 0 {
		body := strings.Join(l.data, "&")
		l.req.Body = &body
	}
	l.req.Method = cmd.Method().Name

	u, err := lowerURL(cmd.URL)
	if err != nil {
		return nil, err
	}
	l.req.URL = u

	return &l.req, nil
}

type lowering struct {
	req  Request
	data []string
}

func (l *lowering) visitFlag(f Flag) {
	switch f := f.(type) {
	case Header:
		if name, value, ok := parseHeader(f.Value); ok {
			l.req.Headers[name] = value
		}
	case Data:
		l.data = append(l.data, f.Value)
	case Compressed:
		l.req.Compressed = true
	case ExplicitMethod:
		// Resolved by Command.Method once all flags are seen.
	}
}

// parseHeader splits "Name: value" at the first ": ". Text without that
// separator or with an empty name is not a header.
func parseHeader(s string) (string, string, bool) {
	name, value, ok := strings.Cut(s, ": ")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

func lowerURL(u *URL) (*url.URL, error) {
	if u == nil {
		return nil, &URLError{Err: errors.New("no URL provided in curl command")}
	}

	parsed, err := url.Parse(u.Raw)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &URLError{Raw: u.Raw, Err: err}
	}
	if parsed.Scheme == "" {
		return nil, &URLError{Raw: u.Raw, Err: errors.New("missing scheme")}
	}
	if parsed.Host == "" {
		return nil, &URLError{Raw: u.Raw, Err: errors.New("missing host")}
	}
	return parsed, nil
}
