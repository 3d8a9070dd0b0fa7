package echoloop

import (
	"fmt"
	"log"
	"net"
	"sync/atomic"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/internal/address"
	"github.com/indigo-web/echoloop/internal/protocol/http1"
	"github.com/indigo-web/echoloop/loop"
	"github.com/indigo-web/echoloop/transport"
)

// Handler is called on the event loop for every received request head.
type Handler = http1.Handler

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// App is an HTTP server living on an event loop. The connections are served in their own
// goroutines, however handlers and stream events are always delivered on the loop.
type App struct {
	addr      string
	cfg       *config.Config
	hooks     hooks
	logger    Logger
	transport transport.Transport
	started   bool
	closed    atomic.Bool
	err       error
}

// New returns a new App instance. If only the port is given, all the interfaces are bound.
func New(addr string) *App {
	return &App{
		addr:      address.Normalize(addr),
		cfg:       config.Default(),
		logger:    log.Default(),
		transport: transport.NewTCP(),
	}
}

// Tune replaces default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// NotifyOnStart calls the callback on the loop as soon as the server is bound and is able
// to accept connections.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback on the loop when the server is down. It's guaranteed that at
// this moment no new connections are accepted and all the clients were already served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Logger replaces the default logger.
func (a *App) Logger(l Logger) *App {
	a.logger = l
	return a
}

// Start binds the address and starts accepting connections in the background. The loop
// won't drain until the App is closed and every accepted connection is served.
func (a *App) Start(lp *loop.Loop, handler Handler) error {
	if a.closed.Load() {
		return status.ErrShutdown
	}

	if a.started {
		return fmt.Errorf("%s: already started", a.addr)
	}

	if err := a.transport.Bind(a.addr); err != nil {
		return fmt.Errorf("bind %s: %w", a.addr, err)
	}

	a.started = true
	lp.Hold()
	go a.run(lp, handler)

	lp.Submit(func() {
		a.logger.Printf("echoloop: listening on %s", a.Addr())
		callIfNotNil(a.hooks.OnStart)
	})

	return nil
}

func (a *App) run(lp *loop.Loop, handler Handler) {
	err := a.transport.Listen(func(conn net.Conn) {
		client := transport.NewClient(conn, a.cfg.NET.ReadTimeout, make([]byte, a.cfg.NET.ReadBufferSize))
		http1.New(a.cfg, lp, client, handler, a.transport.Stopped).Serve()
	})

	// in-flight connections are left to complete their exchange
	a.transport.Stop()
	a.transport.Wait()

	lp.Submit(func() {
		if err != nil {
			a.err = err
			a.logger.Printf("echoloop: %s: stopped accepting: %s", a.Addr(), err)
		} else {
			a.logger.Printf("echoloop: %s: stopped", a.Addr())
		}

		callIfNotNil(a.hooks.OnStop)
		lp.Release()
	})
}

// Addr returns the bound address. Useful when binding to the port 0.
func (a *App) Addr() string {
	if !a.started {
		return a.addr
	}

	return a.transport.Addr().String()
}

// Close stops accepting new connections, but lets the already accepted ones complete. Safe
// to be called multiple times, including concurrently once Start has returned.
func (a *App) Close() {
	if a.closed.Swap(true) || !a.started {
		return
	}

	a.transport.Stop()
}

// Err returns the error the accepting was interrupted by, if any. Must be called on the loop.
func (a *App) Err() error {
	return a.err
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
