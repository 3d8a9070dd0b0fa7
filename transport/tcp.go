package transport

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
)

var _ Transport = new(TCP)

// TCP accepts connections and serves each in its own goroutine. Stopping it only stops
// accepting, connections being served are left to complete on their own.
type TCP struct {
	l    net.Listener
	wg   *sync.WaitGroup
	stop *atomic.Bool
}

func NewTCP() *TCP {
	return &TCP{
		wg:   new(sync.WaitGroup),
		stop: new(atomic.Bool),
	}
}

func (t *TCP) Bind(addr string) error {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	t.l, err = net.ListenTCP("tcp", tcpaddr)
	return err
}

// Addr returns the bound address. Must be called after a successful Bind.
func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

// Listen blocks accepting new connections until stopped. Each connection is closed as
// soon as its callback returns.
func (t *TCP) Listen(cb func(conn net.Conn)) error {
	for {
		conn, err := t.l.Accept()
		if err != nil {
			if t.stop.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
			_ = conn.Close()
		}(conn)
	}
}

// Stop stops accepting new connections. Safe to be called multiple times.
func (t *TCP) Stop() {
	if t.stop.Swap(true) {
		return
	}

	_ = t.l.Close()
}

// Stopped reports whether Stop was already called.
func (t *TCP) Stopped() bool {
	return t.stop.Load()
}

// Wait blocks until every accepted connection is served.
func (t *TCP) Wait() {
	t.wg.Wait()
}
