package ally

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ErrNotAuthorized is returned by write operations when the client has no
// valid authorization against the cloud API.
var ErrNotAuthorized = errors.New("ally: not authorized")

// HTTPError is the distinguished error type for non-2xx API responses.
type HTTPError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ally: http %d %s: %s", e.StatusCode, e.Status, e.Err)
	}
	return fmt.Sprintf("ally: http %d %s", e.StatusCode, e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindTimeout
	ErrorKindHTTP
	ErrorKindConnection
	ErrorKindAuthorization
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindHTTP:
		return "http"
	case ErrorKindConnection:
		return "connection"
	case ErrorKindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// Classify maps an error from a Client operation to its kind, so callers can
// tell transient network failure from permanent authorization failure without
// string inspection.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}
	if errors.Is(err, ErrNotAuthorized) {
		return ErrorKindAuthorization
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 401 || httpErr.StatusCode == 403 {
			return ErrorKindAuthorization
		}
		return ErrorKindHTTP
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrorKindConnection
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return ErrorKindConnection
	}
	return ErrorKindUnknown
}
