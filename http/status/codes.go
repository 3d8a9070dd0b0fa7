package status

import "strconv"

type (
	Code   uint16
	Status string
)

// Only the codes the echo server can ever produce or a client can reasonably observe
// are listed. Anything else is still parsed and serialized, just without a canned text.
const (
	OK        Code = 200 // RFC 9110, 15.3.1
	NoContent Code = 204 // RFC 9110, 15.3.5

	BadRequest                  Code = 400 // RFC 9110, 15.5.1
	NotFound                    Code = 404 // RFC 9110, 15.5.5
	RequestTimeout              Code = 408 // RFC 9110, 15.5.9
	LengthRequired              Code = 411 // RFC 9110, 15.5.12
	RequestEntityTooLarge       Code = 413 // RFC 9110, 15.5.14
	RequestURITooLong           Code = 414 // RFC 9110, 15.5.15
	RequestHeaderFieldsTooLarge Code = 431 // RFC 6585, 5

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	ServiceUnavailable      Code = 503 // RFC 9110, 15.6.4
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

// KnownCodes lists every code that Text is able to describe.
var KnownCodes = []Code{
	OK, NoContent, BadRequest, NotFound, RequestTimeout, LengthRequired, RequestEntityTooLarge,
	RequestURITooLong, RequestHeaderFieldsTooLarge, InternalServerError, NotImplemented,
	ServiceUnavailable, HTTPVersionNotSupported,
}

// Text returns a text for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case NoContent:
		return "No Content"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case RequestTimeout:
		return "Request Timeout"
	case LengthRequired:
		return "Length Required"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case RequestURITooLong:
		return "Request URI Too Long"
	case RequestHeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case ServiceUnavailable:
		return "Service Unavailable"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	}

	return ""
}

// StringCode returns the decimal representation of the code.
func StringCode(code Code) string {
	return strconv.Itoa(int(code))
}
