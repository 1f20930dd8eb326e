package classifier

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies an upstream failure.
type ErrorKind int

const (
	// KindNetwork means the request never got a response.
	KindNetwork ErrorKind = iota
	// KindTimeout means the request deadline passed.
	KindTimeout
	// KindMalformed means the response could not be interpreted.
	KindMalformed
	// KindRejected means the upstream answered with a non-2xx status.
	KindRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindMalformed:
		return "malformed"
	case KindRejected:
		return "rejected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every classifier call that fails.
type Error struct {
	Kind       ErrorKind
	StatusCode int // set for KindRejected
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindRejected {
		return fmt.Sprintf("classifier %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("classifier %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// transportError wraps an error returned by http.Client.Do.
func transportError(err error) *Error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

func malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Err: fmt.Errorf(format, args...)}
}
