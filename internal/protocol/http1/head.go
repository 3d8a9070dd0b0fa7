package http1

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/internal/buffer"
	"github.com/indigo-web/echoloop/kv"
	"github.com/indigo-web/utils/strcomp"
)

// cutLine extracts a single line terminated by LF, dropping the CR before it, if any. When
// the data contains no LF, it is buffered until the rest arrives and pending is set.
func cutLine(buff *buffer.Buffer, data []byte) (line, rest []byte, pending bool, ok bool) {
	lf := bytes.IndexByte(data, '\n')
	if lf == -1 {
		return nil, nil, true, buff.Append(data)
	}

	if !buff.Append(data[:lf]) {
		return nil, nil, false, false
	}

	return rstripCR(buff.Finish()), data[lf+1:], false, true
}

// framing is what both requests and responses learn from their headers about the body.
type framing struct {
	contentLength    int
	metContentLength bool
	chunked          bool
	connection       string
}

// headers parses header lines one by one until the empty line, storing them into the
// storage and collecting body framing on the way.
type headers struct {
	buff    buffer.Buffer
	number  int
	maximal int
	maxBody uint
	framing framing
}

func newHeaders(space, maximal int, maxBody uint) headers {
	return headers{
		buff:    buffer.New(space/4, space),
		maximal: maximal,
		maxBody: maxBody,
	}
}

func (h *headers) reset() {
	h.buff.Clear()
	h.number = 0
	h.framing = framing{}
}

// parse consumes header lines. It returns done=true once the whole section is consumed.
func (h *headers) parse(storage *kv.Storage, data []byte) (done bool, extra []byte, err error) {
	for {
		line, rest, pending, ok := cutLine(&h.buff, data)
		switch {
		case !ok:
			return true, nil, status.ErrHeaderFieldsTooLarge
		case pending:
			return false, nil, nil
		}

		data = rest
		if len(line) == 0 {
			if h.framing.chunked && h.framing.metContentLength {
				// RFC 9112, 6.3: such a message might be an attempt of request smuggling
				return true, nil, status.ErrBadRequest
			}

			return true, data, nil
		}

		if h.number++; h.number > h.maximal {
			return true, nil, status.ErrTooManyHeaders
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return true, nil, status.ErrBadRequest
		}

		key := string(line[:colon])
		value := strings.TrimSpace(string(line[colon+1:]))
		storage.Add(key, value)

		if err = h.frame(key, value); err != nil {
			return true, nil, err
		}
	}
}

func (h *headers) frame(key, value string) error {
	switch len(key) {
	case 10:
		if strcomp.EqualFold(key, "Connection") {
			h.framing.connection = value
		}
	case 14:
		if strcomp.EqualFold(key, "Content-Length") {
			length, err := parseContentLength(value)
			if err != nil {
				return err
			}

			if h.framing.metContentLength && length != h.framing.contentLength {
				return status.ErrBadContentLength
			}

			if uint(length) > h.maxBody {
				return status.ErrBodyTooLarge
			}

			h.framing.contentLength = length
			h.framing.metContentLength = true
		}
	case 17:
		if strcomp.EqualFold(key, "Transfer-Encoding") {
			tokens := strings.Split(value, ",")
			last := strings.TrimSpace(tokens[len(tokens)-1])
			if len(tokens) > 1 || !strcomp.EqualFold(last, "chunked") {
				// compressed or otherwise coded bodies can't be echoed as-is
				return status.ErrBadEncoding
			}

			h.framing.chunked = true
		}
	}

	return nil
}

func parseContentLength(value string) (int, error) {
	if len(value) == 0 || value[0] == '+' || value[0] == '-' {
		return 0, status.ErrBadContentLength
	}

	length, err := strconv.ParseUint(value, 10, 31)
	if err != nil {
		return 0, status.ErrBadContentLength
	}

	return int(length), nil
}

func rstripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}

	return b
}
