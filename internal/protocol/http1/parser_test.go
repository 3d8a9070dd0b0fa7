package http1

import (
	"strings"
	"testing"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/method"
	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/kv"
	"github.com/stretchr/testify/require"
)

func newRequest() *http.Request {
	return http.NewRequest("test", kv.New())
}

// feed passes the data into the parser in pieces of at most n bytes.
func feed(t *testing.T, parser *Parser, data string, n int) (extra string, err error) {
	for len(data) > 0 {
		piece := data[:min(n, len(data))]
		data = data[len(piece):]

		done, rest, err := parser.Parse([]byte(piece))
		if done {
			return string(rest) + data, err
		}
	}

	t.Fatal("parser never completed")
	return "", nil
}

func TestParser(t *testing.T) {
	const echoRequest = "POST /abc HTTP/1.1\r\nConnection: close\r\nContent-Length: 3\r\n\r\nxyz"

	t.Run("any split", func(t *testing.T) {
		parser := NewParser(config.Default())

		for n := 1; n <= len(echoRequest); n++ {
			request := newRequest()
			parser.Init(request)
			extra, err := feed(t, parser, echoRequest, n)
			require.NoError(t, err)
			require.Equal(t, "xyz", extra)
			require.Equal(t, method.POST, request.Method)
			require.Equal(t, "/abc", request.Path)
			require.Equal(t, proto.HTTP11, request.Protocol)
			require.Equal(t, 3, request.ContentLength)
			require.False(t, request.Chunked)
			require.Equal(t, "close", request.Connection)
			require.False(t, request.KeepAlive())
			require.Equal(t, 2, request.Headers.Len())
		}
	})

	t.Run("bare LF", func(t *testing.T) {
		parser := NewParser(config.Default())
		request := newRequest()
		parser.Init(request)
		extra, err := feed(t, parser, "GET / HTTP/1.0\nHost: localhost\n\n", 64)
		require.NoError(t, err)
		require.Empty(t, extra)
		require.Equal(t, proto.HTTP10, request.Protocol)
		require.Equal(t, "localhost", request.Headers.Value("host"))
		require.False(t, request.HasBody())
	})

	t.Run("header keys are kept as is", func(t *testing.T) {
		parser := NewParser(config.Default())
		request := newRequest()
		parser.Init(request)
		_, err := feed(t, parser, "GET / HTTP/1.1\r\ncontent-LENGTH:   0  \r\nX-Custom: Value\r\n\r\n", 64)
		require.NoError(t, err)
		pairs := request.Headers.Expose()
		require.Equal(t, "content-LENGTH", pairs[0].Key)
		require.Equal(t, "0", pairs[0].Value)
		require.Equal(t, "X-Custom", pairs[1].Key)
	})

	t.Run("chunked", func(t *testing.T) {
		parser := NewParser(config.Default())
		request := newRequest()
		parser.Init(request)
		_, err := feed(t, parser, "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n", 64)
		require.NoError(t, err)
		require.True(t, request.Chunked)
		require.True(t, request.HasBody())
	})

	t.Run("errors", func(t *testing.T) {
		tcs := []struct {
			Name    string
			Request string
			Err     error
		}{
			{"unknown method", "BREW / HTTP/1.1\r\n\r\n", status.ErrMethodNotImplemented},
			{"no path", "GET HTTP/1.1\r\n\r\n", status.ErrBadRequest},
			{"bad protocol", "GET / HTTP/2.0\r\n\r\n", status.ErrHTTPVersionNotSupported},
			{"no colon", "GET / HTTP/1.1\r\nHost\r\n\r\n", status.ErrBadRequest},
			{"negative length", "GET / HTTP/1.1\r\nContent-Length: -1\r\n\r\n", status.ErrBadContentLength},
			{"garbage length", "GET / HTTP/1.1\r\nContent-Length: 1a\r\n\r\n", status.ErrBadContentLength},
			{
				"conflicting lengths",
				"GET / HTTP/1.1\r\nContent-Length: 1\r\nContent-Length: 2\r\n\r\n",
				status.ErrBadContentLength,
			},
			{"gzip", "GET / HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n", status.ErrBadEncoding},
			{
				"smuggling",
				"GET / HTTP/1.1\r\nContent-Length: 3\r\nTransfer-Encoding: chunked\r\n\r\n",
				status.ErrBadRequest,
			},
			{"too large body", "GET / HTTP/1.1\r\nContent-Length: 999999999\r\n\r\n", status.ErrBodyTooLarge},
		}

		for _, tc := range tcs {
			t.Run(tc.Name, func(t *testing.T) {
				parser := NewParser(config.Default())
				parser.Init(newRequest())
				_, err := feed(t, parser, tc.Request, 64)
				require.ErrorIs(t, err, tc.Err)
			})
		}
	})

	t.Run("too long request line", func(t *testing.T) {
		cfg := config.Default()
		parser := NewParser(cfg)
		parser.Init(newRequest())
		done, _, err := parser.Parse([]byte("GET /" + strings.Repeat("a", cfg.URI.RequestLineSize.Maximal)))
		require.True(t, done)
		require.ErrorIs(t, err, status.ErrTooLongRequestLine)
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Number.Maximal = 2
		parser := NewParser(cfg)
		parser.Init(newRequest())
		_, err := feed(t, parser, "GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n", 64)
		require.ErrorIs(t, err, status.ErrTooManyHeaders)
	})
}

func TestResponseParser(t *testing.T) {
	const echoResponse = "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 3\r\n\r\nxyz"

	t.Run("any split", func(t *testing.T) {
		parser := NewResponseParser(config.Default())

		for n := 1; n <= len(echoResponse); n++ {
			response := http.NewResponse("test", kv.New())
			parser.Init(response)

			data := echoResponse
			var extra string
			for len(data) > 0 {
				piece := data[:min(n, len(data))]
				data = data[len(piece):]
				done, rest, err := parser.Parse([]byte(piece))
				require.NoError(t, err)
				if done {
					extra = string(rest) + data
					break
				}
			}

			require.Equal(t, "xyz", extra)
			require.Equal(t, proto.HTTP11, response.Protocol)
			require.Equal(t, status.OK, response.Code)
			require.Equal(t, status.Status("OK"), response.Status)
			require.Equal(t, 3, response.ContentLength)
			require.Equal(t, "text/plain", response.Headers.Value("Content-Type"))
		}
	})

	t.Run("bad code", func(t *testing.T) {
		parser := NewResponseParser(config.Default())
		parser.Init(http.NewResponse("test", kv.New()))
		done, _, err := parser.Parse([]byte("HTTP/1.1 2x0 OK\r\n\r\n"))
		require.True(t, done)
		require.ErrorIs(t, err, status.ErrBadRequest)
	})

	t.Run("no reason phrase", func(t *testing.T) {
		parser := NewResponseParser(config.Default())
		response := http.NewResponse("test", kv.New())
		parser.Init(response)
		done, _, err := parser.Parse([]byte("HTTP/1.1 204\r\n\r\n"))
		require.True(t, done)
		require.NoError(t, err)
		require.Equal(t, status.NoContent, response.Code)
		require.Empty(t, response.Status)
	})
}
