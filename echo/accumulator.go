package echo

import "github.com/indigo-web/echoloop/http"

var _ http.Listener = new(Accumulator)

// Accumulator reassembles a streamed body. Chunks are appended in the order they arrive,
// and once the stream ends the body is frozen.
type Accumulator struct {
	buff  []byte
	ended bool
}

func NewAccumulator() *Accumulator {
	return new(Accumulator)
}

func (a *Accumulator) OnData(chunk []byte) {
	if a.ended {
		return
	}

	a.buff = append(a.buff, chunk...)
}

func (a *Accumulator) OnEnd() {
	a.ended = true
}

func (a *Accumulator) OnClose() {}

// Body returns everything received so far. The returned slice must not be modified.
func (a *Accumulator) Body() []byte {
	return a.buff
}

// Ended reports whether the body is complete.
func (a *Accumulator) Ended() bool {
	return a.ended
}
