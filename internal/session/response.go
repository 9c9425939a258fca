package session

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ryanfowler/curlc/internal/curl"
)

// Response is a fully read HTTP response along with the descriptor that
// produced it.
type Response struct {
	Proto      string
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte
	Request    *curl.Request

	// Elapsed covers sending the request and reading the full body.
	Elapsed time.Duration
}

// Text returns the body decoded to UTF-8 using the charset from the
// Content-Type header. Unknown charsets return the body unchanged.
func (r *Response) Text() string {
	dec := charsetDecoder(r.charset())
	if dec == nil {
		return string(r.Body)
	}
	out, err := dec.Bytes(r.Body)
	if err != nil {
		return string(r.Body)
	}
	return string(out)
}

func (r *Response) charset() string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// charsetDecoder returns an *encoding.Decoder for the given charset,
// or nil if no transcoding is needed.
func charsetDecoder(charset string) *encoding.Decoder {
	if charset == "" {
		return nil
	}
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return nil
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return nil
	}
	return enc.NewDecoder()
}
