package curl

import "net/url"

// Request is the flat descriptor produced by compiling a curl command. It is
// everything a transport needs to dispatch the request.
type Request struct {
	Method          string
	URL             *url.URL
	Headers         map[string]string
	Body            *string
	Compressed      bool
	FollowRedirects bool
}

// HasBody reports whether the command supplied a request body.
func (r *Request) HasBody() bool {
	return r.Body != nil
}
