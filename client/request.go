package client

import (
	"fmt"
	"net/url"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/method"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/kv"
)

// Request is a client request under construction. Its body is buffered in full and sent at
// once by Client.End.
//
// Callbacks are always called on the event loop.
type Request struct {
	id          string
	method      method.Method
	addr        string
	target      string
	headers     *kv.Storage
	body        []byte
	chunked     bool
	truncate    int
	sent        bool
	onResponse  func(*http.Response)
	onTerminate func(error)
}

// NewRequest parses the rawURL and returns a request to it. Only plain http is supported.
func NewRequest(m method.Method, rawURL string) (*Request, error) {
	if m == method.Unknown {
		return nil, status.ErrMethodNotImplemented
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	switch {
	case u.Scheme != "http":
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	case len(u.Host) == 0:
		return nil, fmt.Errorf("no host in %q", rawURL)
	}

	addr := u.Host
	if len(u.Port()) == 0 {
		addr += ":80"
	}

	return &Request{
		id:       uniuri.New(),
		method:   m,
		addr:     addr,
		target:   u.RequestURI(),
		headers:  kv.New().Add("Host", u.Host),
		truncate: -1,
	}, nil
}

// ID returns the request identity. It is unique among the requests of a process.
func (r *Request) ID() string {
	return r.id
}

// Addr returns the network address the request is going to be sent to.
func (r *Request) Addr() string {
	return r.addr
}

// Target returns the request target, as it appears in the request line.
func (r *Request) Target() string {
	return r.target
}

// Header sets the header, replacing the previous value if any. The key is sent as is.
func (r *Request) Header(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// Headers exposes the headers set so far.
func (r *Request) Headers() http.Headers {
	return r.headers
}

// Write appends b to the request body.
func (r *Request) Write(b []byte) *Request {
	r.body = append(r.body, b...)
	return r
}

// Chunked makes the body be sent with chunked transfer encoding.
func (r *Request) Chunked() *Request {
	r.chunked = true
	return r
}

// Truncate makes the request send only the first n bytes of its body, after which the
// connection is closed. The request is then terminated with status.ErrAborted.
func (r *Request) Truncate(n int) *Request {
	r.truncate = max(n, 0)
	return r
}

// OnResponse is called once the response head is received, before any of the body events
// are emitted on the response stream.
func (r *Request) OnResponse(cb func(*http.Response)) *Request {
	r.onResponse = cb
	return r
}

// OnTerminate is called exactly once per sent request, after everything else. The error is
// nil if the response was received completely.
func (r *Request) OnTerminate(cb func(error)) *Request {
	r.onTerminate = cb
	return r
}

func (r *Request) truncated() bool {
	return r.truncate >= 0
}

// payload returns the part of the body that is actually going to be sent.
func (r *Request) payload() []byte {
	if r.truncated() && r.truncate < len(r.body) {
		return r.body[:r.truncate]
	}

	return r.body
}

func (r *Request) respond(response *http.Response) {
	if r.onResponse != nil {
		r.onResponse(response)
	}
}

func (r *Request) terminate(err error) {
	if r.onTerminate != nil {
		r.onTerminate(err)
	}
}
