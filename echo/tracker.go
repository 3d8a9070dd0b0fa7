package echo

import "github.com/indigo-web/echoloop/http"

// Tracker counts streams which closed before their end. Must be used on the event loop only.
type Tracker struct {
	streams []string
	waiters []waiter
}

type waiter struct {
	n  int
	fn func()
}

func NewTracker() *Tracker {
	return new(Tracker)
}

// OnClose records the close of the stream.
func (t *Tracker) OnClose(streamID string) {
	t.streams = append(t.streams, streamID)

	waiters := t.waiters
	t.waiters = nil

	for _, w := range waiters {
		if w.n <= len(t.streams) {
			w.fn()
			continue
		}

		t.waiters = append(t.waiters, w)
	}
}

// Listener returns a listener, recording the close of the stream with the given id.
func (t *Tracker) Listener(streamID string) http.Listener {
	return http.ListenerFuncs{
		Close: func() {
			t.OnClose(streamID)
		},
	}
}

// Await calls fn once at least n closes are recorded. If there already are, fn is called
// immediately.
func (t *Tracker) Await(n int, fn func()) {
	if len(t.streams) >= n {
		fn()
		return
	}

	t.waiters = append(t.waiters, waiter{n: n, fn: fn})
}

func (t *Tracker) Count() int {
	return len(t.streams)
}

// Streams returns identities of the closed streams, in the order they were closed.
func (t *Tracker) Streams() []string {
	return append([]string(nil), t.streams...)
}
