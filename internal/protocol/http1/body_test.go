package http1

import (
	"errors"
	"io"
	"testing"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/transport/dummy"
	"github.com/stretchr/testify/require"
)

func readall(b *Body) ([]byte, error) {
	var buff []byte

	for {
		data, err := b.Fetch()
		buff = append(buff, data...)
		switch err {
		case nil:
		case io.EOF:
			return buff, nil
		default:
			return buff, err
		}
	}
}

func TestBody(t *testing.T) {
	t.Run("zero length", func(t *testing.T) {
		b := NewBody(dummy.NewClient(), config.Default().Body)
		b.Reset(0, false)
		data, err := b.Fetch()
		require.EqualError(t, err, io.EOF.Error())
		require.Empty(t, data)
	})

	t.Run("plain in pieces", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hel"), []byte("lo, "), []byte("world!GET / HTTP/1.1"))
		b := NewBody(client, config.Default().Body)
		b.Reset(len("Hello, world!"), false)
		data, err := readall(b)
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(data))

		// the beginning of the next request must be left for the parser
		rest, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "GET / HTTP/1.1", string(rest))
	})

	t.Run("plain premature close", func(t *testing.T) {
		reset := errors.New("connection reset by peer")
		client := dummy.NewClient([]byte("Hel")).FailWith(reset)
		b := NewBody(client, config.Default().Body)
		b.Reset(5, false)
		data, err := readall(b)
		require.ErrorIs(t, err, reset)
		require.Equal(t, "Hel", string(data))
	})

	t.Run("plain too large", func(t *testing.T) {
		cfg := config.Default().Body
		cfg.MaxSize = 4
		b := NewBody(dummy.NewClient([]byte("Hello")), cfg)
		b.Reset(5, false)
		_, err := b.Fetch()
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})

	t.Run("chunked", func(t *testing.T) {
		client := dummy.NewClient([]byte("7\r\nHello, \r\n6\r\nworld!\r\n0\r\n\r\n"))
		b := NewBody(client, config.Default().Body)
		b.Reset(0, true)
		data, err := readall(b)
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(data))
	})

	t.Run("chunked premature close", func(t *testing.T) {
		client := dummy.NewClient([]byte("7\r\nHello, \r\n"))
		b := NewBody(client, config.Default().Body)
		b.Reset(0, true)
		data, err := readall(b)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		require.Equal(t, "Hello, ", string(data))
	})

	t.Run("chunked too large", func(t *testing.T) {
		cfg := config.Default().Body
		cfg.MaxSize = 4
		client := dummy.NewClient([]byte("7\r\nHello, \r\n0\r\n\r\n"))
		b := NewBody(client, cfg)
		b.Reset(0, true)
		_, err := readall(b)
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})
}
