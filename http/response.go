package http

import (
	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/http/status"
)

// Response is a client-observed response. Just like the Request, its body is delivered
// via the embedded Stream.
type Response struct {
	Protocol      proto.Proto
	Code          status.Code
	Status        status.Status
	Headers       Headers
	ContentLength int
	Chunked       bool
	*Stream
}

func NewResponse(id string, headers Headers) *Response {
	return &Response{
		Headers: headers,
		Stream:  NewStream(id),
	}
}

// Flusher serializes a complete response onto the wire.
type Flusher func(w *ResponseWriter) error

// ResponseWriter is a server-produced response. It is buffered in full and transmitted
// at End, after which no more writes are permitted.
type ResponseWriter struct {
	code    status.Code
	headers Headers
	body    []byte
	ended   bool
	flush   Flusher
	*Stream
}

func NewResponseWriter(id string, headers Headers, flush Flusher) *ResponseWriter {
	return &ResponseWriter{
		code:    status.OK,
		headers: headers,
		flush:   flush,
		Stream:  NewStream(id),
	}
}

// Code sets the response status code. Defaults to 200 OK.
func (w *ResponseWriter) Code(code status.Code) *ResponseWriter {
	w.code = code
	return w
}

// Header sets the header value, replacing the previous one if present. The key is
// transmitted exactly as passed.
func (w *ResponseWriter) Header(key, value string) *ResponseWriter {
	w.headers.Set(key, value)
	return w
}

// Write appends b to the response body.
func (w *ResponseWriter) Write(b []byte) (n int, err error) {
	if w.ended {
		return 0, status.ErrResponseFinalized
	}

	w.body = append(w.body, b...)
	return len(b), nil
}

// End transmits the response. If the transmission fails, the response stream is closed
// and the error is returned.
func (w *ResponseWriter) End() error {
	if w.ended {
		return status.ErrResponseFinalized
	}

	w.ended = true
	if err := w.flush(w); err != nil {
		w.Stream.Emit(CloseEvent())
		return err
	}

	w.Stream.Emit(EndEvent())
	return nil
}

// Ended reports whether End was already called.
func (w *ResponseWriter) Ended() bool {
	return w.ended
}

// Expose returns the fields the response consists of.
func (w *ResponseWriter) Expose() (status.Code, Headers, []byte) {
	return w.code, w.headers, w.body
}
