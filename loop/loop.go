// Package loop implements a single-threaded cooperative event loop. Any goroutine may
// submit callbacks, but all of them are run one by one on the goroutine calling Run, so
// the state they share needs no further synchronization.
package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/indigo-web/echoloop/http/status"
)

type Loop struct {
	mu    sync.Mutex
	queue []func()
	refs  int
	wake  chan struct{}
}

func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Submit enqueues the callback. Never blocks.
func (l *Loop) Submit(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.notify()
}

// Hold registers an outstanding work source. The loop won't drain until every Hold
// is paired with a Release.
func (l *Loop) Hold() {
	l.mu.Lock()
	l.refs++
	l.mu.Unlock()
}

// Release unregisters a work source registered by Hold.
func (l *Loop) Release() {
	l.mu.Lock()
	l.refs--
	refs := l.refs
	l.mu.Unlock()

	if refs < 0 {
		panic("BUG: loop: unbalanced Release()")
	}

	l.notify()
}

// Pending returns the number of currently held work sources.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.refs
}

// Run executes submitted callbacks until there's no further work: the queue is empty
// and nothing is held. If ctx is done before that, an error wrapping
// status.ErrLoopDeadline is returned and the remaining callbacks are left unexecuted.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		refs := l.refs
		l.mu.Unlock()

		if len(batch) == 0 {
			if refs == 0 {
				return nil
			}

			select {
			case <-l.wake:
			case <-ctx.Done():
				return fmt.Errorf("%w: %d work sources still pending: %w", status.ErrLoopDeadline, refs, ctx.Err())
			}

			continue
		}

		for _, fn := range batch {
			fn()
		}
	}
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
