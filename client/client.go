// Package client implements an HTTP/1.1 client living on the event loop. Every request is
// exchanged over its own connection in the background, while everything observable (the
// response head, its body events and the termination) is submitted to the loop.
package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/internal/protocol/http1"
	"github.com/indigo-web/echoloop/kv"
	"github.com/indigo-web/echoloop/loop"
	"github.com/indigo-web/echoloop/transport"
)

type Client struct {
	cfg  *config.Config
	loop *loop.Loop
}

func New(lp *loop.Loop, cfg *config.Config) *Client {
	return &Client{
		cfg:  cfg,
		loop: lp,
	}
}

// End sends the request. The loop won't drain until the request is terminated.
func (c *Client) End(request *Request) error {
	if request.sent {
		return status.ErrRequestSent
	}

	request.sent = true
	c.loop.Hold()

	go func() {
		err := c.exchange(request)
		c.loop.Submit(func() {
			request.terminate(err)
			c.loop.Release()
		})
	}()

	return nil
}

// IsTransportError reports whether the terminal error of a request is caused by the
// network rather than by the request or the peer cutting the body short.
func IsTransportError(err error) bool {
	return err != nil &&
		!errors.Is(err, status.ErrAborted) &&
		!errors.Is(err, status.ErrPrematureClose)
}

func (c *Client) exchange(request *Request) error {
	conn, err := net.DialTimeout("tcp", request.addr, c.cfg.NET.DialTimeout)
	if err != nil {
		return err
	}

	defer conn.Close()

	client := transport.NewClient(conn, c.cfg.NET.ReadTimeout, make([]byte, c.cfg.NET.ReadBufferSize))
	if err = c.send(client, request); err != nil || request.truncated() {
		return err
	}

	response := http.NewResponse(uniuri.New(), kv.NewPrealloc(c.cfg.Headers.Number.Default))
	if err = c.readHead(client, response); err != nil {
		return err
	}

	c.loop.Submit(func() {
		request.respond(response)
	})

	return c.readBody(client, response)
}

func (c *Client) send(client transport.Client, request *Request) error {
	serializer := http1.NewSerializer(client, c.cfg.NET.WriteBufferSize)
	serializer.RequestHead(request.method, request.target, request.headers, request.chunked)
	if err := serializer.Body(request.payload(), request.chunked); err != nil {
		return err
	}

	if request.truncated() {
		if err := serializer.Flush(); err != nil {
			return err
		}

		return status.ErrAborted
	}

	serializer.Terminate(request.chunked)
	return serializer.Flush()
}

func (c *Client) readHead(client transport.Client, response *http.Response) error {
	parser := http1.NewResponseParser(c.cfg)
	parser.Init(response)

	for {
		data, err := client.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return fmt.Errorf("reading response head: %w", err)
		}

		done, extra, err := parser.Parse(data)
		if err != nil {
			return err
		}

		if done {
			client.Unread(extra)
			return nil
		}
	}
}

func (c *Client) readBody(client transport.Client, response *http.Response) error {
	body := http1.NewBody(client, c.cfg.Body)
	body.Reset(response.ContentLength, response.Chunked)

	for {
		chunk, err := body.Fetch()
		if len(chunk) > 0 {
			chunk = bytes.Clone(chunk)
			c.loop.Submit(func() {
				response.Emit(http.DataEvent(chunk))
			})
		}

		switch err {
		case nil:
		case io.EOF:
			c.loop.Submit(func() {
				response.Emit(http.EndEvent())
			})

			return nil
		default:
			c.loop.Submit(func() {
				response.Emit(http.CloseEvent())
			})

			return fmt.Errorf("%w: %w", status.ErrPrematureClose, err)
		}
	}
}
