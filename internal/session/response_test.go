package session

import (
	"net/http"
	"testing"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
	}{
		{
			name: "no content type",
			body: []byte("hello"),
			want: "hello",
		},
		{
			name:        "utf-8",
			contentType: "text/plain; charset=utf-8",
			body:        []byte("caf\xc3\xa9"),
			want:        "café",
		},
		{
			name:        "latin-1",
			contentType: "text/plain; charset=ISO-8859-1",
			body:        []byte("caf\xe9"),
			want:        "café",
		},
		{
			name:        "windows-1252",
			contentType: "text/html; charset=windows-1252",
			body:        []byte("\x93hi\x94"),
			want:        "“hi”",
		},
		{
			name:        "unknown charset",
			contentType: "text/plain; charset=x-made-up",
			body:        []byte("raw"),
			want:        "raw",
		},
		{
			name:        "malformed content type",
			contentType: ";;;",
			body:        []byte("raw"),
			want:        "raw",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := http.Header{}
			if test.contentType != "" {
				h.Set("Content-Type", test.contentType)
			}
			r := &Response{Header: h, Body: test.body}
			if got := r.Text(); got != test.want {
				t.Fatalf("expected %q, got %q", test.want, got)
			}
		})
	}
}
