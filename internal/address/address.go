package address

import (
	"net"
	"strings"
)

const DefaultHost = "0.0.0.0"

// Normalize completes the address given by a port only, so it binds to all the interfaces.
func Normalize(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return DefaultHost + addr
	}

	return addr
}

// IsLoopback reports whether the address is bound to the loopback interface.
func IsLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
