package caller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// FailureKind is the category of a failed attempt
type FailureKind string

const (
	// KindConnection the target could not be reached or dropped the connection
	KindConnection FailureKind = "connection"
	// KindTimeout the target did not answer within its timeout
	KindTimeout FailureKind = "timeout"
	// KindCanceled the call context ended before the target was tried
	KindCanceled FailureKind = "canceled"
	// KindPanic the target caller panicked
	KindPanic FailureKind = "panic"
	// KindStatus the target answered with an unsuccessful status, for transports that have one
	KindStatus FailureKind = "status"
	// KindError any other error
	KindError FailureKind = "error"
)

// FailureInfo describes why one attempt failed
type FailureInfo struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// NewFailureInfo returns a FailureInfo, useful for TargetCallers that know
// the kind of their failures better than Classify does.
func NewFailureInfo(kind FailureKind, message string, cause error) FailureInfo {
	return FailureInfo{Kind: kind, Message: message, Cause: cause}
}

func (f FailureInfo) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f FailureInfo) Unwrap() error {
	return f.Cause
}

// Classify maps the error returned by an attempt to a FailureInfo
func Classify(err error) FailureInfo {
	var info FailureInfo
	if errors.As(err, &info) {
		return info
	}
	var infoPtr *FailureInfo
	if errors.As(err, &infoPtr) && infoPtr != nil {
		return *infoPtr
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return FailureInfo{Kind: KindTimeout, Message: err.Error(), Cause: err}
	case errors.Is(err, context.Canceled):
		return FailureInfo{Kind: KindCanceled, Message: err.Error(), Cause: err}
	case isConnectionError(err):
		return FailureInfo{Kind: KindConnection, Message: err.Error(), Cause: err}
	default:
		return FailureInfo{Kind: KindError, Message: err.Error(), Cause: err}
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// DefaultReason renders "kind: message", or just the kind without a message
func DefaultReason(f FailureInfo) string {
	return f.Error()
}
