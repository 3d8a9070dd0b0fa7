package echo

import (
	"strconv"

	"github.com/indigo-web/echoloop"
	"github.com/indigo-web/echoloop/http"
)

var _ http.Listener = new(Responder)

// Responder writes the received body back as soon as the request ends, and advances the
// gate afterward. It responds at most once.
type Responder struct {
	body      *Accumulator
	response  *http.ResponseWriter
	gate      *Gate
	responded bool
	err       error
}

func NewResponder(body *Accumulator, response *http.ResponseWriter, gate *Gate) *Responder {
	return &Responder{
		body:     body,
		response: response,
		gate:     gate,
	}
}

func (r *Responder) OnData([]byte) {}

func (r *Responder) OnEnd() {
	if r.responded {
		return
	}

	r.responded = true
	body := r.body.Body()
	_, _ = r.response.
		Header("Content-Type", "text/plain").
		Header("Content-Length", strconv.Itoa(len(body))).
		Write(body)
	// a failed write closes the response stream, which is where it gets observed. The
	// echo is finalized either way, so the gate is advanced regardless.
	r.err = r.response.End()
	r.gate.Advance()
}

func (r *Responder) OnClose() {}

// Responded reports whether the echo was already finalized.
func (r *Responder) Responded() bool {
	return r.responded
}

// Err returns the error of the response transmission, if any.
func (r *Responder) Err() error {
	return r.err
}

// Serve returns a server handler attaching a fresh Accumulator and Responder to every
// request. Closes of both the request and the response streams are reported to the tracker.
func Serve(gate *Gate, tracker *Tracker) echoloop.Handler {
	return func(request *http.Request, response *http.ResponseWriter) {
		body := NewAccumulator()
		request.
			Listen(body).
			Listen(NewResponder(body, response, gate)).
			Listen(tracker.Listener(request.ID()))
		response.Listen(tracker.Listener(response.ID()))
	}
}
