package http1

import (
	"strconv"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/method"
	"github.com/indigo-web/echoloop/http/proto"
	"github.com/indigo-web/echoloop/http/status"
	"github.com/indigo-web/echoloop/kv"
	"github.com/indigo-web/echoloop/transport"
)

const crlf = "\r\n"

// Serializer renders messages into a limited buffer, flushing it into the client every
// time it overflows. Header keys are written exactly as they were set.
type Serializer struct {
	client transport.Client
	buff   []byte
}

func NewSerializer(client transport.Client, s config.NETWriteBufferSize) *Serializer {
	return &Serializer{
		client: client,
		buff:   make([]byte, 0, s.Default),
	}
}

// Response writes a complete response. Content-Length is derived from the body unless
// it is already set.
func (s *Serializer) Response(protocol proto.Proto, w *http.ResponseWriter) error {
	code, headers, body := w.Expose()
	s.appendProtocol(protocol)
	s.appendStatus(code)
	s.appendHeaders(headers)
	if !headers.Has("Content-Length") {
		s.appendContentLength(len(body))
	}

	s.crlf()
	if err := s.safeAppend(body); err != nil {
		return err
	}

	return s.Flush()
}

// Error writes a response for a protocol error. The connection is expected to be closed
// afterward.
func (s *Serializer) Error(protocol proto.Proto, err status.HTTPError) error {
	if protocol == proto.Unknown {
		protocol = proto.HTTP11
	}

	s.appendProtocol(protocol)
	s.appendStatus(err.Code)
	s.buff = append(s.buff, "Connection: close\r\nContent-Type: text/plain\r\n"...)
	s.appendContentLength(len(err.Message))
	s.crlf()
	s.buff = append(s.buff, err.Message...)

	return s.Flush()
}

// RequestHead renders the request line and headers. For chunked requests the
// Transfer-Encoding is added, if not set explicitly.
func (s *Serializer) RequestHead(m method.Method, path string, headers *kv.Storage, chunked bool) {
	s.buff = append(s.buff, m.String()...)
	s.sp()
	s.buff = append(s.buff, path...)
	s.sp()
	s.buff = append(s.buff, "HTTP/1.1"...)
	s.crlf()
	s.appendHeaders(headers)

	if chunked && !headers.Has("Transfer-Encoding") {
		s.buff = append(s.buff, "Transfer-Encoding: chunked\r\n"...)
	}

	s.crlf()
}

// Body renders a piece of the body, wrapping it into a chunk, if needed.
func (s *Serializer) Body(body []byte, chunked bool) error {
	if len(body) == 0 {
		return nil
	}

	if chunked {
		s.buff = strconv.AppendUint(s.buff, uint64(len(body)), 16)
		s.crlf()
	}

	if err := s.safeAppend(body); err != nil {
		return err
	}

	if chunked {
		s.crlf()
	}

	return nil
}

// Terminate completes the body. Only chunked bodies have to be terminated explicitly.
func (s *Serializer) Terminate(chunked bool) {
	if chunked {
		s.buff = append(s.buff, "0\r\n\r\n"...)
	}
}

// Flush writes everything buffered so far.
func (s *Serializer) Flush() (err error) {
	if len(s.buff) > 0 {
		_, err = s.client.Write(s.buff)
		s.buff = s.buff[:0]
	}

	return err
}

// safeAppend tries to append a string into a limited capacity buffer, which can possibly overflow.
// If the input data is longer than free space left in the buffer, the buffer is filled till full
// and flushed, leaving thereby free space for the rest of the string.
func (s *Serializer) safeAppend(data []byte) error {
	for len(data) > 0 {
		freeSpace := cap(s.buff) - len(s.buff)

		if len(data) <= freeSpace {
			s.buff = append(s.buff, data...)
			return nil
		}

		s.buff = append(s.buff, data[:freeSpace]...)
		if err := s.Flush(); err != nil {
			return err
		}

		data = data[freeSpace:]
	}

	return nil
}

func (s *Serializer) appendProtocol(protocol proto.Proto) {
	// String() already includes the trailing space
	s.buff = append(s.buff, protocol.String()...)
}

func (s *Serializer) appendStatus(code status.Code) {
	s.buff = append(s.buff, status.StringCode(code)...)
	s.sp()
	s.buff = append(s.buff, status.Text(code)...)
	s.crlf()
}

func (s *Serializer) appendHeaders(headers *kv.Storage) {
	for _, header := range headers.Expose() {
		s.buff = append(s.buff, header.Key...)
		s.buff = append(s.buff, ':', ' ')
		s.buff = append(s.buff, header.Value...)
		s.crlf()
	}
}

func (s *Serializer) appendContentLength(length int) {
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendInt(s.buff, int64(length), 10)
	s.crlf()
}

func (s *Serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}
