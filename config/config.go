package config

import (
	"fmt"
	"time"

	"github.com/indigo-web/echoloop/http/status"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}

	URIRequestLineSize struct {
		Default, Maximal int
	}

	NETWriteBufferSize struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// RequestLineSize limits the buffer storing the request (or status) line, in case it
		// doesn't arrive in a single read.
		RequestLineSize URIRequestLineSize
	}

	Headers struct {
		// Number is responsible for headers storage size.
		// Default value is an initial size of the allocated storage.
		// Maximal value is maximum number of headers allowed to be presented
		Number HeadersNumber
		// Space limits the amount of memory occupied by the headers section.
		Space HeadersSpace
	}

	Body struct {
		// MaxSize describes the maximal size of a body, that can be processed. Bodies declaring
		// or streaming more than that are rejected with status.ErrBodyTooLarge.
		MaxSize uint
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// DialTimeout bounds establishing client connections.
		DialTimeout time.Duration
		// WriteBufferSize stores the serialized message head. Bodies bigger than the
		// free space are flushed in pieces.
		WriteBufferSize NETWriteBufferSize
	}

	Echo struct {
		// Requests is the number of concurrently dispatched echo requests. It is also the
		// completion threshold of the server, unless some of them are faulty.
		Requests int
		// Payload is sent as the body of every request. Empty payload is a valid boundary.
		Payload string `test:"nullable"`
		// Path is the request target.
		Path string
		// Faults is the number of requests which close their connection before sending the
		// whole body.
		Faults int `test:"nullable"`
		// Chunked makes the client send bodies with chunked transfer encoding instead of a
		// Content-Length.
		Chunked bool `test:"nullable"`
		// Deadline bounds the whole run. The loop is abandoned if it didn't drain by then.
		Deadline time.Duration
	}
)

// Config holds settings used across the server, the client and the harness: limits,
// pre-allocations and the echo run parameters.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	NET     NET
	Echo    Echo
}

// Default returns default config.
func Default() *Config {
	return &Config{
		URI: URI{
			RequestLineSize: URIRequestLineSize{
				Default: 512,
				Maximal: 8 * 1024,
			},
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 8,
				Maximal: 50,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,
				Maximal: 16 * 1024,
			},
		},
		Body: Body{
			MaxSize: 16 * 1024 * 1024,
		},
		NET: NET{
			ReadBufferSize: 4 * 1024,
			ReadTimeout:    30 * time.Second,
			DialTimeout:    5 * time.Second,
			WriteBufferSize: NETWriteBufferSize{
				Default: 1024,
				Maximal: 64 * 1024,
			},
		},
		Echo: Echo{
			Requests: 7,
			Payload:  "xyz",
			Path:     "/abc",
			Deadline: 30 * time.Second,
		},
	}
}

// Validate reports settings which would make an echo run meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Echo.Requests < 1:
		return fmt.Errorf("%w: at least one request must be dispatched, got %d", status.ErrBadConfig, c.Echo.Requests)
	case c.Echo.Faults < 0 || c.Echo.Faults >= c.Echo.Requests:
		return fmt.Errorf(
			"%w: faults must be within [0, %d), got %d", status.ErrBadConfig, c.Echo.Requests, c.Echo.Faults,
		)
	case c.Echo.Faults > 0 && len(c.Echo.Payload) == 0:
		return fmt.Errorf("%w: faulty requests need a non-empty payload to be cut short", status.ErrBadConfig)
	case c.Echo.Deadline <= 0:
		return fmt.Errorf("%w: non-positive deadline", status.ErrBadConfig)
	}

	return nil
}
