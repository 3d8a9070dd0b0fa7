package http

import (
	"errors"
	"testing"

	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/kv"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Run("end flushes once", func(t *testing.T) {
		var flushed int
		w := NewResponseWriter("r", kv.New(), func(w *ResponseWriter) error {
			flushed++
			code, headers, body := w.Expose()
			require.Equal(t, status.OK, code)
			require.Equal(t, "text/plain", headers.Value("Content-Type"))
			require.Equal(t, "xyz", string(body))
			return nil
		})

		j := new(journal)
		w.Listen(j.listener())
		w.Header("Content-Type", "text/plain")
		_, err := w.Write([]byte("xyz"))
		require.NoError(t, err)
		require.NoError(t, w.End())
		require.True(t, w.Ended())
		require.Equal(t, 1, flushed)
		require.Equal(t, []string{"end"}, j.events)

		_, err = w.Write([]byte("more"))
		require.ErrorIs(t, err, status.ErrResponseFinalized)
		require.ErrorIs(t, w.End(), status.ErrResponseFinalized)
		require.Equal(t, 1, flushed)
	})

	t.Run("failed flush closes the stream", func(t *testing.T) {
		broken := errors.New("broken pipe")
		w := NewResponseWriter("r", kv.New(), func(*ResponseWriter) error {
			return broken
		})
		j := new(journal)
		w.Listen(j.listener())
		require.ErrorIs(t, w.End(), broken)
		require.Equal(t, Closed, w.State())
		require.Equal(t, []string{"close"}, j.events)
	})
}

func TestRequestKeepAlive(t *testing.T) {
	req := NewRequest("r", kv.New())
	require.True(t, req.KeepAlive())
	req.Connection = "Close"
	require.False(t, req.KeepAlive())
	req.Protocol = proto.HTTP10
	require.False(t, req.KeepAlive())
	req.Connection = "keep-alive"
	require.True(t, req.KeepAlive())
}
