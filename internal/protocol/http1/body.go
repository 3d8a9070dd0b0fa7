package http1

import (
	"io"
	"math"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/transport"
)

// Body reads the message body off the client piece by piece. The last piece is returned
// along with io.EOF. Returned pieces are valid only until the next call.
type Body struct {
	plain     plainBodyReader
	chunked   chunkedBodyReader
	isChunked bool
}

func NewBody(client transport.Client, s config.Body) *Body {
	return &Body{
		plain:   newPlainBodyReader(client, s.MaxSize),
		chunked: newChunkedBodyReader(client, s.MaxSize),
	}
}

// Reset prepares the body for the next message.
func (b *Body) Reset(contentLength int, chunked bool) {
	b.isChunked = chunked
	if chunked {
		b.chunked.init()
	} else {
		b.plain.init(contentLength)
	}
}

func (b *Body) Fetch() ([]byte, error) {
	if b.isChunked {
		return b.chunked.read()
	}

	return b.plain.read()
}

type plainBodyReader struct {
	client                transport.Client
	maxBodyLen, bytesLeft uint
}

func newPlainBodyReader(client transport.Client, maxBodyLen uint) plainBodyReader {
	return plainBodyReader{
		client:     client,
		maxBodyLen: maxBodyLen,
	}
}

func (p *plainBodyReader) init(contentLength int) {
	p.bytesLeft = uint(contentLength)
}

func (p *plainBodyReader) read() (body []byte, err error) {
	if p.bytesLeft == 0 {
		return nil, io.EOF
	}

	if p.bytesLeft > p.maxBodyLen {
		return nil, status.ErrBodyTooLarge
	}

	data, err := p.client.Read()
	if err != nil {
		return nil, unexpected(err)
	}

	if dataLen := uint(len(data)); dataLen >= p.bytesLeft {
		body, data = data[:p.bytesLeft], data[p.bytesLeft:]
		p.client.Unread(data)
		p.bytesLeft = 0
		err = io.EOF
	} else {
		p.bytesLeft -= dataLen
		body = data
	}

	return body, err
}

type chunkedBodyReader struct {
	client               transport.Client
	maxBodyLen, received uint
	parser               *chunkedbody.Parser
}

func newChunkedBodyReader(client transport.Client, maxBodyLen uint) chunkedBodyReader {
	return chunkedBodyReader{
		client:     client,
		maxBodyLen: maxBodyLen,
	}
}

func (c *chunkedBodyReader) init() {
	c.parser = chunkedbody.NewParser(chunkedbody.DefaultSettings())
	c.received = 0
}

func (c *chunkedBodyReader) read() (body []byte, err error) {
	client := c.client
	data, err := client.Read()
	if err != nil {
		return nil, unexpected(err)
	}

	chunk, extra, err := c.parser.Parse(data, false)
	switch err {
	case nil, io.EOF:
	default:
		return nil, status.ErrBadChunk
	}

	received, overflows := adduint(c.received, uint(len(chunk)))
	if overflows || received > c.maxBodyLen {
		return nil, status.ErrBodyTooLarge
	}

	c.received = received
	client.Unread(extra)

	return chunk, err
}

// unexpected turns the end of the connection into an error, as the body isn't over yet.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}

	return err
}

func adduint(x, y uint) (uint, bool) {
	return x + y, math.MaxUint-x < y
}
