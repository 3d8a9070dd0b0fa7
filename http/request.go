package http

import (
	"github.com/indigo-web/echoloop/http/method"
	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/kv"
	"github.com/indigo-web/utils/strcomp"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents a server-observed HTTP request. Its body isn't stored anywhere, it
// is delivered through the embedded Stream instead.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the request target exactly as it was received.
	Path string
	// Protocol is the enum of a protocol used for the request.
	Protocol proto.Proto
	// Headers holds non-normalized header pairs, even though lookup is case-insensitive.
	Headers Headers
	// ContentLength is the declared body length. Zero for chunked requests.
	ContentLength int
	// Chunked is set when the body is transferred with chunked encoding.
	Chunked bool
	// Connection is the value of the Connection header, if any.
	Connection string
	*Stream
}

func NewRequest(id string, headers Headers) *Request {
	return &Request{
		Protocol: proto.HTTP11,
		Headers:  headers,
		Stream:   NewStream(id),
	}
}

// KeepAlive reports whether the connection may serve one more request after this one.
func (r *Request) KeepAlive() bool {
	switch r.Protocol {
	case proto.HTTP10:
		return strcomp.EqualFold(r.Connection, "keep-alive")
	case proto.HTTP11:
		return !strcomp.EqualFold(r.Connection, "close")
	default:
		return false
	}
}

// HasBody reports whether any body events besides End are to be expected.
func (r *Request) HasBody() bool {
	return r.Chunked || r.ContentLength > 0
}
