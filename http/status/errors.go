package status

import "errors"

// HTTPError is a protocol-level error. Its code is what the server answers with before
// closing the connection.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrTooLongRequestLine      = NewError(RequestURITooLong, "request line is too long")
	ErrTooLongResponseLine     = NewError(BadRequest, "response line is too long")
	ErrBadEncoding             = NewError(BadRequest, "bad request encoding")
	ErrBadContentLength        = NewError(BadRequest, "malformed content-length value")
	ErrBodyTooLarge            = NewError(RequestEntityTooLarge, "request body is too large")
	ErrBadChunk                = NewError(BadRequest, "malformed chunk-encoded data")
	ErrHeaderFieldsTooLarge    = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders          = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrMethodNotImplemented    = NewError(NotImplemented, "request method is not supported")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
)

var (
	// ErrShutdown is returned by operations on a server which was already asked to stop.
	ErrShutdown = errors.New("server is shutting down")
	// ErrLoopDeadline is wrapped by loop.Run when its context expires before the loop drains.
	ErrLoopDeadline = errors.New("event loop did not drain before the deadline")
	// ErrPrematureClose terminates a stream whose connection closed before the end of the body.
	ErrPrematureClose = errors.New("connection closed before the end of the body")
	// ErrAborted terminates a client request deliberately cut short by Truncate.
	ErrAborted = errors.New("request aborted by the client")
	// ErrResponseFinalized is returned on writes into an already ended response.
	ErrResponseFinalized = errors.New("response is already finalized")
	// ErrRequestSent is returned when a client request is ended twice.
	ErrRequestSent = errors.New("request was already sent")
	ErrBadConfig   = errors.New("bad configuration")
)
