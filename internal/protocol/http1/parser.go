package http1

import (
	"bytes"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/method"
	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/internal/buffer"
	"github.com/indigo-web/utils/uf"
)

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eStatusLine
	eHeaders
)

// Parser parses request heads incrementally, so they may arrive split across any number
// of reads.
type Parser struct {
	state       parserState
	request     *http.Request
	requestLine buffer.Buffer
	headers     headers
}

func NewParser(cfg *config.Config) *Parser {
	return &Parser{
		state: eRequestLine,
		requestLine: buffer.New(
			cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal,
		),
		headers: newHeaders(cfg.Headers.Space.Maximal, cfg.Headers.Number.Maximal, cfg.Body.MaxSize),
	}
}

// Init prepares the parser for the next request.
func (p *Parser) Init(request *http.Request) {
	p.state = eRequestLine
	p.request = request
	p.requestLine.Clear()
	p.headers.reset()
}

// Parse consumes the data. It returns done=true when either the head is completely parsed
// or an error occurred. In the first case, extra holds the rest of the data, which is most
// likely the beginning of the body.
func (p *Parser) Parse(data []byte) (done bool, extra []byte, err error) {
	request := p.request

	if p.state == eRequestLine {
		line, rest, pending, ok := cutLine(&p.requestLine, data)
		switch {
		case !ok:
			return true, nil, status.ErrTooLongRequestLine
		case pending:
			return false, nil, nil
		}

		if err = parseRequestLine(request, line); err != nil {
			return true, nil, err
		}

		data = rest
		p.state = eHeaders
	}

	done, extra, err = p.headers.parse(request.Headers, data)
	if !done || err != nil {
		return done, extra, err
	}

	framing := p.headers.framing
	request.ContentLength = framing.contentLength
	request.Chunked = framing.chunked
	request.Connection = framing.connection

	return true, extra, nil
}

func parseRequestLine(request *http.Request, line []byte) error {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return status.ErrBadRequest
	}

	request.Method = method.Parse(uf.B2S(line[:sp]))
	if request.Method == method.Unknown {
		return status.ErrMethodNotImplemented
	}

	line = line[sp+1:]
	sp = bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return status.ErrBadRequest
	}

	request.Path = string(line[:sp])
	request.Protocol = proto.FromBytes(line[sp+1:])
	if request.Protocol == proto.Unknown {
		return status.ErrHTTPVersionNotSupported
	}

	return nil
}
