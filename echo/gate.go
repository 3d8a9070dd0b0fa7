package echo

import "sync/atomic"

// Gate counts completed echoes and runs the callback exactly once, as soon as the count
// reaches the threshold. Advancing past the threshold never triggers it again.
type Gate struct {
	threshold int64
	count     atomic.Int64
	fired     atomic.Bool
	triggers  atomic.Int64
	onReach   func()
}

func NewGate(threshold int, onReach func()) *Gate {
	return &Gate{
		threshold: int64(threshold),
		onReach:   onReach,
	}
}

// Advance increments the counter and returns its new value.
func (g *Gate) Advance() int {
	n := g.count.Add(1)
	if n >= g.threshold && g.fired.CompareAndSwap(false, true) {
		g.triggers.Add(1)
		if g.onReach != nil {
			g.onReach()
		}
	}

	return int(n)
}

// Reached reports whether the threshold was reached.
func (g *Gate) Reached() bool {
	return g.count.Load() >= g.threshold
}

func (g *Gate) Count() int {
	return int(g.count.Load())
}

// Triggers returns how many times the callback was run. Anything but 0 or 1 is a bug.
func (g *Gate) Triggers() int {
	return int(g.triggers.Load())
}
