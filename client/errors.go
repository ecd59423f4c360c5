package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"github.com/infiotinc/gqlbasic/client/transport"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"net"
	"net/http"
	"syscall"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration invalid endpoint URL or empty query. Raised before any I/O.
	KindConfiguration
	// KindSerialization the request body could not be JSON encoded
	KindSerialization
	// KindTransport DNS, connect, TLS, timeout or cancellation
	KindTransport
	// KindHTTPStatus status outside [200, 300)
	KindHTTPStatus
	// KindDecode response body is not a JSON object
	KindDecode
	// KindGraphQL response carries a non-empty errors array
	KindGraphQL
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	case KindGraphQL:
		return "graphql"
	}

	return "unknown"
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrSerialization = &Error{Kind: KindSerialization}
	ErrTransport     = &Error{Kind: KindTransport}
	ErrHTTPStatus    = &Error{Kind: KindHTTPStatus}
	ErrDecode        = &Error{Kind: KindDecode}
	ErrGraphQL       = &Error{Kind: KindGraphQL}
)

// Transport failure codes
const (
	CodeTimeout           = "timeout"
	CodeCanceled          = "canceled"
	CodeDNS               = "dns"
	CodeConnectionRefused = "connection_refused"
	CodeTLS               = "tls"
	CodeAuth              = "auth"
	CodeRead              = "read"
	CodeUnknown           = "unknown"
)

// Error is the single error type returned by Client. Which fields are set
// depends on Kind.
type Error struct {
	Kind    Kind
	Message string

	URL    string
	Query  string
	Reason string

	// KindTransport
	Code string
	// KindHTTPStatus
	StatusCode int
	// KindHTTPStatus: response headers, e.g. Retry-After or Location
	Header http.Header
	// KindHTTPStatus, KindDecode: first 500 characters of the raw body
	Body string
	// KindGraphQL
	Errors    []interface{}
	GQLErrors gqlerror.List
	Response  *Response

	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}

	if e.Err != nil {
		return fmt.Sprintf("graphql client: %s: %v", msg, e.Err)
	}

	return "graphql client: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

func newConfigurationError(reason string, url, query string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: reason,
		Reason:  reason,
		URL:     url,
		Query:   query,
	}
}

func newSerializationError(err error) *Error {
	return &Error{
		Kind:    KindSerialization,
		Message: "failed to encode query to JSON",
		Err:     err,
	}
}

func newTransportError(url string, code string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("request to %s failed (%s)", url, code),
		URL:     url,
		Code:    code,
		Err:     err,
	}
}

func newHTTPStatusError(url string, status int, header http.Header, body []byte) *Error {
	return &Error{
		Kind:       KindHTTPStatus,
		Message:    fmt.Sprintf("HTTP error: %d", status),
		URL:        url,
		StatusCode: status,
		Header:     header,
		Body:       truncate(body),
	}
}

func newDecodeError(body []byte, err error) *Error {
	return &Error{
		Kind:    KindDecode,
		Message: "failed to decode JSON response",
		Body:    truncate(body),
		Err:     err,
	}
}

func newGraphQLError(message string, raw []interface{}, gqlerrs gqlerror.List, res *Response) *Error {
	return &Error{
		Kind:      KindGraphQL,
		Message:   "GraphQL errors: " + message,
		Errors:    raw,
		GQLErrors: gqlerrs,
		Response:  res,
	}
}

const maxBodyContext = 500

func truncate(body []byte) string {
	r := []rune(string(body))
	if len(r) > maxBodyContext {
		r = r[:maxBodyContext]
	}

	return string(r)
}

func transportCode(err error) string {
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}

	var rerr *transport.ReadError
	if errors.As(err, &rerr) {
		if isTimeout(rerr.Err) {
			return CodeTimeout
		}
		return CodeRead
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeDNS
	}

	if isTimeout(err) {
		return CodeTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return CodeConnectionRefused
	}

	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalid          x509.CertificateInvalidError
		record           tls.RecordHeaderError
	)
	if errors.As(err, &unknownAuthority) || errors.As(err, &hostname) ||
		errors.As(err, &invalid) || errors.As(err, &record) {
		return CodeTLS
	}

	return CodeUnknown
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
