package api

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperation is the sentinel wrapped by every
// [UnsupportedOperationError]. Use [errors.Is] to detect contract violations
// without inspecting the concrete type:
//
//	if errors.Is(err, api.ErrUnsupportedOperation) {
//	    // caller asked a mode for a capability it does not have
//	}
var ErrUnsupportedOperation = errors.New("operation not supported by active mode")

// TransportErrorKind classifies how a transport-level failure happened.
type TransportErrorKind string

const (
	// TransportTimeout indicates the request exceeded its deadline.
	TransportTimeout TransportErrorKind = "timeout"
	// TransportConnection indicates the request never reached the server
	// (DNS, dial, TLS, or connection reset mid-flight).
	TransportConnection TransportErrorKind = "connection"
	// TransportHTTPStatus indicates the server answered with a non-2xx status.
	TransportHTTPStatus TransportErrorKind = "http_status"
	// TransportDecode indicates the response arrived but could not be parsed.
	TransportDecode TransportErrorKind = "decode"
)

// TransportError normalizes every transport-level failure into one type so the
// session loop can treat them uniformly: report the turn, keep the session.
// Non-2xx responses keep the raw body for diagnostics; it is never swallowed.
type TransportError struct {
	Kind       TransportErrorKind
	StatusCode int    // set when Kind == TransportHTTPStatus
	Body       string // response body on non-2xx, possibly truncated
	Message    string // server error envelope message, when one could be parsed
	Err        error  // underlying cause, if any
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportHTTPStatus:
		if e.Message != "" {
			return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Message)
		}
		return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Body)
	case TransportTimeout:
		return fmt.Sprintf("transport: timeout: %v", e.Err)
	case TransportDecode:
		return fmt.Sprintf("transport: decode: %v", e.Err)
	default:
		return fmt.Sprintf("transport: connection: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnsupportedOperationError reports a programming-contract violation: a caller
// invoked an operation the active mode does not support (e.g. cancel on the
// completions surface). It names the mode and the operation so the call site
// is identifiable from the message alone.
type UnsupportedOperationError struct {
	Mode      string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s mode does not support %s", ErrUnsupportedOperation.Error(), e.Mode, e.Operation)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// NewUnsupportedOperation builds an UnsupportedOperationError for the given
// mode name and operation.
func NewUnsupportedOperation(mode, operation string) error {
	return &UnsupportedOperationError{Mode: mode, Operation: operation}
}

// JobFailureError reports a background job that reached terminal failed
// status. It is recoverable at the session level: the turn failed, the
// conversation continues with unchanged state.
type JobFailureError struct {
	JobID   string
	Message string
}

func (e *JobFailureError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("background job %s failed", e.JobID)
	}
	return fmt.Sprintf("background job %s failed: %s", e.JobID, e.Message)
}
