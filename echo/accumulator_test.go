package echo

import (
	"testing"

	"github.com/indigo-web/echoloop/http"
	"github.com/stretchr/testify/require"
)

func TestAccumulator(t *testing.T) {
	t.Run("chunks in order", func(t *testing.T) {
		acc := NewAccumulator()
		stream := http.NewStream("test").Listen(acc)
		for _, chunk := range []string{"Hel", "", "lo, ", "world!"} {
			stream.Emit(http.DataEvent([]byte(chunk)))
			require.False(t, acc.Ended())
		}

		require.Equal(t, "Hello, world!", string(acc.Body()))
		stream.Emit(http.EndEvent())
		require.True(t, acc.Ended())
		require.Equal(t, "Hello, world!", string(acc.Body()))
		require.Equal(t, "Hello, world!", string(acc.Body()))
	})

	t.Run("frozen once ended", func(t *testing.T) {
		acc := NewAccumulator()
		acc.OnData([]byte("xyz"))
		acc.OnEnd()
		acc.OnData([]byte("abc"))
		require.Equal(t, "xyz", string(acc.Body()))
	})

	t.Run("nothing received", func(t *testing.T) {
		acc := NewAccumulator()
		acc.OnData(nil)
		acc.OnEnd()
		require.Empty(t, acc.Body())
	})
}
