package transport

import "net"

type Transport interface {
	Bind(addr string) error
	Addr() net.Addr
	Listen(cb func(conn net.Conn)) error
	Stop()
	Stopped() bool
	Wait()
}
