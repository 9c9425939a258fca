// Package session dispatches compiled curl commands over a shared HTTP client
// and cookie jar, with ${name} style variable substitution.
package session

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ryanfowler/curlc/internal/client"
	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
)

const (
	DefaultOpenDelim  = "${"
	DefaultCloseDelim = "}"
)

// Config configures a Session. The zero value is usable.
type Config struct {
	Client client.ClientConfig

	// Headers are sent with every request; command headers override them.
	Headers []core.KeyVal

	// Redirects, when set, overrides the descriptor's FollowRedirects.
	Redirects *bool

	// OpenDelim and CloseDelim surround variable names. Empty values use
	// the defaults.
	OpenDelim, CloseDelim string

	// Store persists cookies across sessions when non-nil.
	Store *Store

	// OnDiagnostic is called for each recoverable compile problem.
	OnDiagnostic func(curl.Diagnostic)
}

// Session compiles and sends curl commands. It is safe for concurrent use.
type Session struct {
	client     *client.Client
	jar        http.CookieJar
	headers    []core.KeyVal
	redirects  *bool
	openDelim  string
	closeDelim string
	store      *Store
	onDiag     func(curl.Diagnostic)
}

// New returns a Session built from the provided Config.
func New(cfg Config) (*Session, error) {
	var jar http.CookieJar
	var err error
	switch {
	case cfg.Client.Jar != nil:
		jar = cfg.Client.Jar
	case cfg.Store != nil:
		jar, err = cfg.Store.Jar()
	default:
		jar, err = client.NewJar()
	}
	if err != nil {
		return nil, err
	}

	cc := cfg.Client
	cc.Jar = jar

	s := &Session{
		client:     client.NewClient(cc),
		jar:        jar,
		headers:    cfg.Headers,
		redirects:  cfg.Redirects,
		openDelim:  cfg.OpenDelim,
		closeDelim: cfg.CloseDelim,
		store:      cfg.Store,
		onDiag:     cfg.OnDiagnostic,
	}
	if s.openDelim == "" {
		s.openDelim = DefaultOpenDelim
	}
	if s.closeDelim == "" {
		s.closeDelim = DefaultCloseDelim
	}
	return s, nil
}

// Expand replaces every occurrence of a delimited variable name with its
// value. When a name repeats, the last value wins. Unknown names are left
// untouched.
func (s *Session) Expand(command string, vars []core.KeyVal) string {
	return expand(command, s.openDelim, s.closeDelim, vars)
}

// Expand substitutes vars into command using the default delimiters.
func Expand(command string, vars []core.KeyVal) string {
	return expand(command, DefaultOpenDelim, DefaultCloseDelim, vars)
}

func expand(command, open, close string, vars []core.KeyVal) string {
	for _, kv := range slices.Backward(vars) {
		command = strings.ReplaceAll(command, open+kv.Key+close, kv.Val)
	}
	return command
}

// Compile expands vars in the command and compiles it into a descriptor.
func (s *Session) Compile(command string, vars ...core.KeyVal) (*curl.Request, error) {
	req, diags, err := curl.Compile(s.Expand(command, vars))
	if s.onDiag != nil {
		for _, d := range diags {
			s.onDiag(d)
		}
	}
	if err != nil {
		return nil, err
	}
	if s.redirects != nil {
		req.FollowRedirects = *s.redirects
	}
	return req, nil
}

// Do sends the descriptor and reads the full response body.
func (s *Session) Do(ctx context.Context, r *curl.Request) (*Response, error) {
	req, err := s.client.NewRequest(ctx, r, s.headers)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.client.WrapTimeout(err)
	}

	return &Response{
		Proto:      resp.Proto,
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Request:    r,
		Elapsed:    time.Since(start),
	}, nil
}

// Call compiles the command and sends it.
func (s *Session) Call(ctx context.Context, command string, vars ...core.KeyVal) (*Response, error) {
	req, err := s.Compile(command, vars...)
	if err != nil {
		return nil, err
	}
	return s.Do(ctx, req)
}

// CallFile reads a command from the file at path and sends it.
func (s *Session) CallFile(ctx context.Context, path string, vars ...core.KeyVal) (*Response, error) {
	command, err := ReadCommand(path)
	if err != nil {
		return nil, err
	}
	return s.Call(ctx, command, vars...)
}

// ReadCommand reads a curl command from the file at path, or from stdin when
// path is "-".
func ReadCommand(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", core.FileNotExistsError(path)
		}
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// AddCookie stores a cookie for the provided URL.
func (s *Session) AddCookie(u *url.URL, name, value string) {
	s.jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// Cookies returns the cookies that would be sent to the provided URL.
func (s *Session) Cookies(u *url.URL) []*http.Cookie {
	return s.jar.Cookies(u)
}

// Save persists cookies when the session was created with a Store.
func (s *Session) Save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Save()
}
