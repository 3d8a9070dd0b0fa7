package http1

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/kv"
	"github.com/indigo-web/echoloop/loop"
	"github.com/indigo-web/echoloop/transport"
)

// Handler is invoked on the event loop for every request, right after its head was
// received. The body follows as events on the request stream.
type Handler func(request *http.Request, response *http.ResponseWriter)

// Suit serves a single connection. All the I/O happens on the connection goroutine, while
// everything observable (the handler call and the stream events) is submitted to the loop.
type Suit struct {
	cfg        *config.Config
	loop       *loop.Loop
	client     transport.Client
	parser     *Parser
	body       *Body
	serializer *Serializer
	handler    Handler
	stopping   func() bool
}

func New(
	cfg *config.Config, lp *loop.Loop, client transport.Client, handler Handler, stopping func() bool,
) *Suit {
	return &Suit{
		cfg:        cfg,
		loop:       lp,
		client:     client,
		parser:     NewParser(cfg),
		body:       NewBody(client, cfg.Body),
		serializer: NewSerializer(client, cfg.NET.WriteBufferSize),
		handler:    handler,
		stopping:   stopping,
	}
}

// Serve processes requests until the connection is over: the peer is gone, the request
// asked to close it, or the server is stopping.
func (s *Suit) Serve() {
	for s.ServeOnce() {
	}
}

// ServeOnce processes a single request and reports whether the connection may be reused.
func (s *Suit) ServeOnce() (keepAlive bool) {
	request := http.NewRequest(uniuri.New(), kv.NewPrealloc(s.cfg.Headers.Number.Default))
	if !s.readHead(request) {
		return false
	}

	finished := make(chan struct{})
	response := http.NewResponseWriter(request.ID(), kv.NewPrealloc(4), func(w *http.ResponseWriter) error {
		defer close(finished)
		return s.serializer.Response(request.Protocol, w)
	})

	s.loop.Submit(func() {
		s.handler(request, response)
	})

	if !s.readBody(request) {
		return false
	}

	select {
	case <-finished:
	case <-time.After(s.cfg.NET.ReadTimeout):
		// the handler never completed the response. Writing it later on is going to fail,
		// closing thereby the response stream.
		return false
	}

	return request.KeepAlive() && !s.stopping()
}

func (s *Suit) readHead(request *http.Request) bool {
	s.parser.Init(request)

	for {
		data, err := s.client.Read()
		if err != nil {
			// nothing is observable yet, so there's nobody to notify
			return false
		}

		done, extra, err := s.parser.Parse(data)
		if err != nil {
			s.fail(request, err)
			return false
		}

		if done {
			s.client.Unread(extra)
			return true
		}
	}
}

func (s *Suit) readBody(request *http.Request) bool {
	s.body.Reset(request.ContentLength, request.Chunked)

	for {
		chunk, err := s.body.Fetch()
		if len(chunk) > 0 {
			// the chunk is backed by the read buffer, which is going to be overwritten
			// long before the loop gets to it
			s.emit(request, http.DataEvent(bytes.Clone(chunk)))
		}

		switch err {
		case nil:
		case io.EOF:
			s.emit(request, http.EndEvent())
			return true
		default:
			s.emit(request, http.CloseEvent())
			return false
		}
	}
}

func (s *Suit) emit(request *http.Request, event http.Event) {
	s.loop.Submit(func() {
		request.Emit(event)
	})
}

func (s *Suit) fail(request *http.Request, err error) {
	var httpErr status.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = status.ErrBadRequest.(status.HTTPError)
	}

	_ = s.serializer.Error(request.Protocol, httpErr)
}
