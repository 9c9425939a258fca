package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ryanfowler/curlc/internal/client"
	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
)

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name    string
		open    string
		close   string
		command string
		vars    []core.KeyVal
		want    string
	}{
		{
			name:    "default delimiters",
			command: "curl https://${host}/users/${id}",
			vars:    []core.KeyVal{{Key: "host", Val: "example.com"}, {Key: "id", Val: "42"}},
			want:    "curl https://example.com/users/42",
		},
		{
			name:    "repeated variable",
			command: "curl -H 'X-A: ${v}' https://x/${v}",
			vars:    []core.KeyVal{{Key: "v", Val: "1"}},
			want:    "curl -H 'X-A: 1' https://x/1",
		},
		{
			name:    "unknown variable left untouched",
			command: "curl https://x/${missing}",
			vars:    []core.KeyVal{{Key: "other", Val: "1"}},
			want:    "curl https://x/${missing}",
		},
		{
			name:    "custom delimiters",
			open:    "{{",
			close:   "}}",
			command: "curl https://x/{{id}}/${id}",
			vars:    []core.KeyVal{{Key: "id", Val: "7"}},
			want:    "curl https://x/7/${id}",
		},
		{
			name:    "last value wins",
			command: "curl https://x/${id}",
			vars:    []core.KeyVal{{Key: "id", Val: "config"}, {Key: "id", Val: "cli"}},
			want:    "curl https://x/cli",
		},
		{
			name:    "no vars",
			command: "curl https://x/${id}",
			want:    "curl https://x/${id}",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newSession(t, Config{OpenDelim: test.open, CloseDelim: test.close})
			got := s.Expand(test.command, test.vars)
			if got != test.want {
				t.Fatalf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	t.Run("diagnostics are reported", func(t *testing.T) {
		var diags []curl.Diagnostic
		s := newSession(t, Config{OnDiagnostic: func(d curl.Diagnostic) {
			diags = append(diags, d)
		}})

		req, err := s.Compile("curl --location https://${host}", core.KeyVal{Key: "host", Val: "example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.URL.Host != "example.com" {
			t.Fatalf("unexpected host: %s", req.URL.Host)
		}
		if len(diags) != 1 {
			t.Fatalf("expected 1 diagnostic, got %d", len(diags))
		}
	})

	t.Run("redirect override", func(t *testing.T) {
		s := newSession(t, Config{Redirects: core.PointerTo(false)})
		req, err := s.Compile("curl https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.FollowRedirects {
			t.Fatal("expected redirects to be disabled")
		}
	})

	t.Run("hard errors are returned", func(t *testing.T) {
		s := newSession(t, Config{})
		_, err := s.Compile("wget https://example.com")
		var pe *curl.PreconditionError
		if !errors.As(err, &pe) {
			t.Fatalf("expected precondition error, got %v", err)
		}
	})
}

func TestCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Token", r.Header.Get("X-Token"))
		w.Header().Set("X-Default", r.Header.Get("X-Default"))
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	}))
	defer server.Close()

	s := newSession(t, Config{Headers: []core.KeyVal{
		{Key: "X-Default", Val: "yes"},
		{Key: "X-Token", Val: "default"},
	}})

	resp, err := s.Call(context.Background(),
		"curl -H 'X-Token: ${token}' -d 'name=${name}' ${base}/users",
		core.KeyVal{Key: "token", Val: "secret"},
		core.KeyVal{Key: "name", Val: "alice"},
		core.KeyVal{Key: "base", Val: server.URL},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Method"); got != "POST" {
		t.Fatalf("unexpected method: %s", got)
	}
	if got := resp.Header.Get("X-Token"); got != "secret" {
		t.Fatalf("command header should override default, got %q", got)
	}
	if got := resp.Header.Get("X-Default"); got != "yes" {
		t.Fatalf("expected default header, got %q", got)
	}
	if got := resp.Text(); got != "name=alice" {
		t.Fatalf("unexpected body: %q", got)
	}
	if resp.Request == nil || resp.Request.Method != "POST" {
		t.Fatal("expected response to carry its request descriptor")
	}
}

func TestCallFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "cmd.curl")
	command := "curl \\\n  ${base}/from-file\n"
	if err := os.WriteFile(path, []byte(command), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	s := newSession(t, Config{})
	resp, err := s.CallFile(context.Background(), path, core.KeyVal{Key: "base", Val: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(resp.Body); got != "/from-file" {
		t.Fatalf("unexpected body: %q", got)
	}

	_, err = s.CallFile(context.Background(), filepath.Join(dir, "missing"))
	var fne core.FileNotExistsError
	if !errors.As(err, &fne) {
		t.Fatalf("expected FileNotExistsError, got %v", err)
	}
}

func TestCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "xyz", Path: "/"})
			return
		}
		var names []string
		for _, c := range r.Cookies() {
			names = append(names, c.Name+"="+c.Value)
		}
		io.WriteString(w, strings.Join(names, ";"))
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	s := newSession(t, Config{})
	s.AddCookie(u, "manual", "1")

	if _, err := s.Call(context.Background(), "curl "+server.URL+"/login"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookies := s.Cookies(u)
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}

	resp, err := s.Call(context.Background(), "curl "+server.URL+"/check")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := string(resp.Body)
	if !strings.Contains(body, "manual=1") || !strings.Contains(body, "sid=xyz") {
		t.Fatalf("expected both cookies to be sent, got %q", body)
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.(http.Flusher).Flush()
		time.Sleep(500 * time.Millisecond)
		io.WriteString(w, "late")
	}))
	defer server.Close()

	s := newSession(t, Config{Client: client.ClientConfig{Timeout: 50 * time.Millisecond}})
	_, err := s.Call(context.Background(), "curl "+server.URL)
	var te core.ErrRequestTimedOut
	if !errors.As(err, &te) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	s := newSession(t, Config{})
	if err := s.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionWithStore(t *testing.T) {
	t.Setenv("CURLC_INTERNAL_SESSIONS_DIR", t.TempDir())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
	}))
	defer server.Close()

	store, err := LoadStore("api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := newSession(t, Config{Store: store})
	if _, err := s.Call(context.Background(), "curl "+server.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := LoadStore("api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Cookies) != 1 || loaded.Cookies[0].Value != "abc" {
		t.Fatalf("unexpected stored cookies: %+v", loaded.Cookies)
	}
}
