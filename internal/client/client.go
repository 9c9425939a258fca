package client

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/publicsuffix"

	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
)

// maxRedirects mirrors the limit used by net/http's default policy.
const maxRedirects = 10

// acceptEncoding is requested for curl's --compressed.
const acceptEncoding = "gzip, deflate, zstd"

type Client struct {
	c       *http.Client
	timeout time.Duration
}

type ClientConfig struct {
	Insecure        bool
	Jar             http.CookieJar
	MaxConns        int
	MaxConnsPerHost int
	Proxy           *url.URL
	Timeout         time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	transport := &http.Transport{
		Proxy:              http.ProxyFromEnvironment,
		DisableCompression: true,
		ForceAttemptHTTP2:  true,
		MaxIdleConns:       cfg.MaxConns,
		MaxConnsPerHost:    cfg.MaxConnsPerHost,
	}
	if cfg.MaxConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxConnsPerHost
	}
	if cfg.Proxy != nil {
		transport.Proxy = http.ProxyURL(cfg.Proxy)
	}
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &Client{
		c: &http.Client{
			CheckRedirect: checkRedirect,
			Jar:           cfg.Jar,
			Timeout:       cfg.Timeout,
			Transport:     transport,
		},
		timeout: cfg.Timeout,
	}
}

// NewJar returns a cookie jar that respects public suffix boundaries.
func NewJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// NewRequest builds an *http.Request from a compiled descriptor. The defaults
// are applied first, so headers from the command override them.
func (c *Client) NewRequest(ctx context.Context, r *curl.Request, defaults []core.KeyVal) (*http.Request, error) {
	var body io.Reader
	if r.HasBody() {
		body = strings.NewReader(*r.Body)
	}

	ctx = context.WithValue(ctx, ctxFollowRedirectsKey, r.FollowRedirects)
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", core.UserAgent)
	for _, kv := range defaults {
		req.Header.Set(kv.Key, kv.Val)
	}
	for name, value := range r.Headers {
		req.Header.Set(name, value)
	}

	// Same default as curl for -d.
	if r.HasBody() && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if r.Compressed && req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
		ctx = context.WithValue(req.Context(), ctxEncodingRequestedKey, true)
		req = req.WithContext(ctx)
	}

	return req, nil
}

// Do sends the request, transparently decoding the response body when
// compression was requested.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.c.Do(req)
	if err != nil {
		return nil, c.WrapTimeout(err)
	}

	if !encodingRequested(req) {
		return resp, nil
	}

	rc, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	if rc != resp.Body {
		resp.Body = rc
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}
	return resp, nil
}

// WrapTimeout returns core.ErrRequestTimedOut if err was caused by the
// client's timeout, otherwise err unchanged.
func (c *Client) WrapTimeout(err error) error {
	if err != nil && c.timeout > 0 && isTimeout(err) {
		return core.ErrRequestTimedOut{Timeout: c.timeout}
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if follow, ok := req.Context().Value(ctxFollowRedirectsKey).(bool); ok && !follow {
		return http.ErrUseLastResponse
	}
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}
	return nil
}

type ctxKeyType int

const (
	ctxEncodingRequestedKey ctxKeyType = iota
	ctxFollowRedirectsKey
)

func encodingRequested(r *http.Request) bool {
	v, ok := r.Context().Value(ctxEncodingRequestedKey).(bool)
	return ok && v
}

// decodeBody wraps rc in a decompressor for the provided Content-Encoding.
// Unknown or identity encodings return rc unchanged.
func decodeBody(encoding string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
		return &decodeReader{r: r, close: r.Close, c: rc}, nil
	case "deflate":
		r, err := zlib.NewReader(rc)
		if err != nil {
			return nil, err
		}
		return &decodeReader{r: r, close: r.Close, c: rc}, nil
	case "zstd":
		d, err := zstd.NewReader(rc)
		if err != nil {
			return nil, err
		}
		return &decodeReader{r: d, close: func() error { d.Close(); return nil }, c: rc}, nil
	default:
		return rc, nil
	}
}

type decodeReader struct {
	r     io.Reader
	close func() error
	c     io.Closer
}

func (d *decodeReader) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decodeReader) Close() error {
	err := d.close()
	err2 := d.c.Close()
	if err != nil {
		return err
	}
	return err2
}
