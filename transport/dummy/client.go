package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/echoloop/transport"
)

var _ transport.Client = new(Client)

// Client returns the data it was initialised with piece by piece, one per read, and reports
// io.EOF afterwards. Unless set to loop, in which case it starts over. It also journals all
// the written data, making it thereby a universal mock suitable for most of the tests.
type Client struct {
	closed  bool
	looping bool
	pointer int
	tmp     []byte
	written []byte
	data    [][]byte
	readErr error
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		if !c.looping || len(c.data) == 0 {
			if c.readErr != nil {
				return nil, c.readErr
			}

			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Unread(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) (int, error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	c.written = append(c.written, p...)
	return len(p), nil
}

func (c *Client) Conn() net.Conn {
	return nil
}

func (*Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// LoopReads makes the client start over once all the data was read.
func (c *Client) LoopReads() *Client {
	c.looping = true
	return c
}

// FailWith replaces io.EOF by the err once the data is exhausted.
func (c *Client) FailWith(err error) *Client {
	c.readErr = err
	return c
}

// Written returns everything written so far.
func (c *Client) Written() string {
	return string(c.written)
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	return c.closed
}
