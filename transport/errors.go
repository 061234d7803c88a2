package transport

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for delivery failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrAuth indicates an authentication failure (bad credentials, 401).
	ErrAuth = errors.New("authentication failed")

	// ErrRejected indicates the backend refused the message (4xx).
	ErrRejected = errors.New("message rejected")

	// ErrThrottled indicates rate limiting (429, SlowDown).
	ErrThrottled = errors.New("rate limited")

	// ErrTimeout indicates a native call timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrNetwork indicates a network-level failure (connection refused, DNS).
	ErrNetwork = errors.New("network error")

	// ErrUnavailable indicates the backend failed server-side (5xx).
	ErrUnavailable = errors.New("backend unavailable")
)

// DeliveryError wraps a native client failure with classification.
// The underlying error stays in the chain, so diagnostics from the
// wrapped backend survive unchanged through errors.Is/errors.As.
type DeliveryError struct {
	// Kind is the classification sentinel (e.g. ErrThrottled).
	Kind error
	// Transport is the transport kind that failed (e.g. "webhook").
	Transport string
	// Op is the native operation that failed (e.g. "publish").
	Op string
	// Err is the underlying error from the native client.
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Transport, e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for chain traversal.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *DeliveryError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// WrapDeliverError classifies and wraps a failed native delivery call.
// Returns nil if err is nil.
func WrapDeliverError(transport, op string, err error) error {
	if err == nil {
		return nil
	}
	return &DeliveryError{
		Kind:      classify(err),
		Transport: transport,
		Op:        op,
		Err:       err,
	}
}

// classify determines the sentinel for an error based on typed checks
// first, then message patterns from the backends courier wraps.
func classify(err error) error {
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "unauthorized", "invalidaccesskeyid", "signaturedoesnotmatch", "expiredtoken", "credentials"):
		return ErrAuth
	case containsAny(msg, "429", "toomanyrequests", "slowdown", "rate exceeded", "throttl"):
		return ErrThrottled
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return ErrTimeout
	case containsAny(msg, "connection refused", "no route to host", "network unreachable", "dial tcp", "i/o timeout", "dns"):
		return ErrNetwork
	case containsAny(msg, "500", "502", "503", "504", "internal server error"):
		return ErrUnavailable
	case containsAny(msg, "400", "403", "404", "413", "422", "forbidden", "rejected"):
		return ErrRejected
	default:
		return ErrUnavailable
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
