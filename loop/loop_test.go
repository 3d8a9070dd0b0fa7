package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/indigo-web/echoloop/http/status"
	"github.com/stretchr/testify/require"
)

func TestLoop(t *testing.T) {
	t.Run("drains immediately without work", func(t *testing.T) {
		require.NoError(t, New().Run(context.Background()))
	})

	t.Run("runs callbacks in order", func(t *testing.T) {
		l := New()
		var order []int
		for i := range 5 {
			l.Submit(func() { order = append(order, i) })
		}

		require.NoError(t, l.Run(context.Background()))
		require.Equal(t, []int{0, 1, 2, 3, 4}, order)
	})

	t.Run("callbacks may submit callbacks", func(t *testing.T) {
		l := New()
		var calls int
		var submit func(n int)
		submit = func(n int) {
			calls++
			if n > 0 {
				l.Submit(func() { submit(n - 1) })
			}
		}

		l.Submit(func() { submit(10) })
		require.NoError(t, l.Run(context.Background()))
		require.Equal(t, 11, calls)
	})

	t.Run("waits for held sources", func(t *testing.T) {
		l := New()
		var (
			wg      sync.WaitGroup
			counter int
		)

		for range 8 {
			l.Hold()
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(10 * time.Millisecond)
				l.Submit(func() {
					counter++
					l.Release()
				})
			}()
		}

		require.NoError(t, l.Run(context.Background()))
		wg.Wait()
		require.Equal(t, 8, counter)
		require.Zero(t, l.Pending())
	})

	t.Run("deadline", func(t *testing.T) {
		l := New()
		l.Hold()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := l.Run(ctx)
		require.ErrorIs(t, err, status.ErrLoopDeadline)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, 1, l.Pending())
	})

	t.Run("unbalanced release", func(t *testing.T) {
		require.Panics(t, func() {
			New().Release()
		})
	})
}
