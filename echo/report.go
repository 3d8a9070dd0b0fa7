package echo

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrAssertion is wrapped by every violated run criterion.
var ErrAssertion = errors.New("assertion failed")

// Report is the outcome of a single run.
type Report struct {
	Requests         int            `json:"requests"`
	Faults           int            `json:"faults"`
	Chunked          bool           `json:"chunked"`
	Payload          string         `json:"payload"`
	Messages         []string       `json:"messages"`
	PrematureCloses  int            `json:"premature_closes"`
	ClosedStreams    []string       `json:"closed_streams"`
	Completions      int            `json:"completions"`
	ShutdownTriggers int            `json:"shutdown_triggers"`
	Responses        []ResponseHead `json:"responses"`
	Elapsed          time.Duration  `json:"elapsed"`
}

// Expected returns the number of echoes expected to be received completely.
func (r *Report) Expected() int {
	return r.Requests - r.Faults
}

// Verify checks the run criteria: every premature close is caused by a faulty request, every
// healthy request was echoed byte-exact exactly once, and the server was shut down once.
// All the violations are reported, each wrapping ErrAssertion.
func (r *Report) Verify() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrAssertion}, args...)...))
	}

	if r.PrematureCloses != r.Faults {
		fail("premature closes: want %d, got %d", r.Faults, r.PrematureCloses)
	}

	if len(r.Messages) != r.Expected() {
		fail("messages: want %d, got %d", r.Expected(), len(r.Messages))
	}

	for i, message := range r.Messages {
		if message != r.Payload {
			fail("message #%d: want %q, got %q", i, r.Payload, message)
		}
	}

	if r.ShutdownTriggers != 1 {
		fail("shutdown triggers: want 1, got %d", r.ShutdownTriggers)
	}

	want := strconv.Itoa(len(r.Payload))
	for _, head := range r.Responses {
		if head.ContentLength != want {
			fail("response %s: Content-Length: want %s, got %q", head.ID, want, head.ContentLength)
		}
	}

	return errors.Join(errs...)
}
