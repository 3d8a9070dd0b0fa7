package http1

import (
	"bytes"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/internal/buffer"
)

// ResponseParser is the client-side counterpart of the Parser.
type ResponseParser struct {
	state      parserState
	response   *http.Response
	statusLine buffer.Buffer
	headers    headers
}

func NewResponseParser(cfg *config.Config) *ResponseParser {
	return &ResponseParser{
		state: eStatusLine,
		statusLine: buffer.New(
			cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal,
		),
		headers: newHeaders(cfg.Headers.Space.Maximal, cfg.Headers.Number.Maximal, cfg.Body.MaxSize),
	}
}

func (p *ResponseParser) Init(response *http.Response) {
	p.state = eStatusLine
	p.response = response
	p.statusLine.Clear()
	p.headers.reset()
}

func (p *ResponseParser) Parse(data []byte) (done bool, extra []byte, err error) {
	response := p.response

	if p.state == eStatusLine {
		line, rest, pending, ok := cutLine(&p.statusLine, data)
		switch {
		case !ok:
			return true, nil, status.ErrTooLongResponseLine
		case pending:
			return false, nil, nil
		}

		if err = parseStatusLine(response, line); err != nil {
			return true, nil, err
		}

		data = rest
		p.state = eHeaders
	}

	done, extra, err = p.headers.parse(response.Headers, data)
	if !done || err != nil {
		return done, extra, err
	}

	framing := p.headers.framing
	response.ContentLength = framing.contentLength
	response.Chunked = framing.chunked

	return true, extra, nil
}

func parseStatusLine(response *http.Response, line []byte) error {
	sp := bytes.IndexByte(line, ' ')
	if sp == -1 {
		return status.ErrBadRequest
	}

	response.Protocol = proto.FromBytes(line[:sp])
	if response.Protocol == proto.Unknown {
		return status.ErrHTTPVersionNotSupported
	}

	line = line[sp+1:]
	code, reason, _ := bytes.Cut(line, []byte{' '})
	if len(code) != 3 {
		return status.ErrBadRequest
	}

	for _, c := range code {
		if c < '0' || c > '9' {
			return status.ErrBadRequest
		}

		response.Code = response.Code*10 + status.Code(c-'0')
	}

	response.Status = status.Status(reason)
	return nil
}
