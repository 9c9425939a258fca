package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
)

func compile(t *testing.T, command string) *curl.Request {
	t.Helper()
	r, _, err := curl.Compile(command)
	if err != nil {
		t.Fatalf("compile %q: %v", command, err)
	}
	return r
}

func TestNewRequest(t *testing.T) {
	c := NewClient(ClientConfig{})
	r := compile(t, `curl -X PUT -H 'X-A: cmd' -H 'Content-Type: application/json' -d '{}' http://example.com/a`)
	defaults := []core.KeyVal{{Key: "X-A", Val: "default"}, {Key: "X-B", Val: "default"}}

	req, err := c.NewRequest(context.Background(), r, defaults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != "PUT" {
		t.Errorf("method = %q", req.Method)
	}
	if got := req.Header.Get("X-A"); got != "cmd" {
		t.Errorf("X-A = %q, want command header to win", got)
	}
	if got := req.Header.Get("X-B"); got != "default" {
		t.Errorf("X-B = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := req.Header.Get("Accept-Encoding"); got != "" {
		t.Errorf("Accept-Encoding = %q, want none", got)
	}
	body, _ := io.ReadAll(req.Body)
	if string(body) != "{}" {
		t.Errorf("body = %q", body)
	}
}

func TestNewRequestFormDefault(t *testing.T) {
	c := NewClient(ClientConfig{})
	req, err := c.NewRequest(context.Background(), compile(t, "curl -d a=1 http://x"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := req.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestDoDecodesCompressedBody(t *testing.T) {
	const payload = "hello, compressed world"

	encoders := map[string]func(io.Writer) io.WriteCloser{
		"gzip": func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"deflate": func(w io.Writer) io.WriteCloser {
			return zlib.NewWriter(w)
		},
		"zstd": func(w io.Writer) io.WriteCloser {
			enc, _ := zstd.NewWriter(w)
			return enc
		},
	}

	for name, newEncoder := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w := newEncoder(&buf)
			w.Write([]byte(payload))
			w.Close()

			var gotAE string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAE = r.Header.Get("Accept-Encoding")
				w.Header().Set("Content-Encoding", name)
				w.Write(buf.Bytes())
			}))
			defer srv.Close()

			c := NewClient(ClientConfig{})
			req, err := c.NewRequest(context.Background(), compile(t, "curl --compressed "+srv.URL), nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := c.Do(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(body) != payload {
				t.Fatalf("body = %q, want %q", body, payload)
			}
			if gotAE != acceptEncoding {
				t.Errorf("Accept-Encoding = %q", gotAE)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Error("expected Content-Encoding to be removed")
			}
		})
	}
}

func TestDoNotDecodedWithoutCompressed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write([]byte("raw"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{})
	req, _ := c.NewRequest(context.Background(), compile(t, "curl "+srv.URL), nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "raw" {
		t.Fatalf("body = %q", body)
	}
}

func TestRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/end", http.StatusFound)
			return
		}
		w.Write([]byte("end"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{})

	t.Run("follow", func(t *testing.T) {
		req, _ := c.NewRequest(context.Background(), compile(t, "curl "+srv.URL+"/start"), nil)
		resp, err := c.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("no follow", func(t *testing.T) {
		r := compile(t, "curl "+srv.URL+"/start")
		r.FollowRedirects = false
		req, _ := c.NewRequest(context.Background(), r, nil)
		resp, err := c.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("status = %d, want 302", resp.StatusCode)
		}
	})
}

func TestTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	c := NewClient(ClientConfig{Timeout: 50 * time.Millisecond})
	req, _ := c.NewRequest(context.Background(), compile(t, "curl "+srv.URL), nil)
	_, err := c.Do(req)

	var terr core.ErrRequestTimedOut
	if !errors.As(err, &terr) {
		t.Fatalf("expected ErrRequestTimedOut, got %v", err)
	}
	if terr.Timeout != 50*time.Millisecond {
		t.Fatalf("timeout = %v", terr.Timeout)
	}
}

func TestJar(t *testing.T) {
	jar, err := NewJar()
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse("https://www.example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1"}})
	if got := jar.Cookies(u); len(got) != 1 || got[0].Value != "1" {
		t.Fatalf("unexpected cookies: %v", got)
	}
}
