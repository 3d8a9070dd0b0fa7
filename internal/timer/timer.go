// Package timer provides a coarse clock for setting I/O deadlines. Reading it is a single
// atomic load, compared to a syscall-ish time.Now() on every socket read.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Resolution is the frequency at which the time is updated. Deadlines are measured in
// seconds, so 500ms is precise enough.
const Resolution = 500 * time.Millisecond

var (
	millis = new(atomic.Int64)
	start  sync.Once
)

// Now returns the current time, lagging behind by at most Resolution. The clock starts on
// the first call.
func Now() time.Time {
	start.Do(func() {
		millis.Store(time.Now().UnixMilli())

		go func() {
			for {
				time.Sleep(Resolution)
				millis.Store(time.Now().UnixMilli())
			}
		}()
	})

	ms := millis.Load()
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond))
}

// Deadline returns the moment d from now.
func Deadline(d time.Duration) time.Time {
	return Now().Add(d)
}
