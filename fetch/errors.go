package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout indicates the provider did not answer within the attempt
// deadline.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates the connection could not be established or was
// dropped mid-exchange.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// Classify wraps a transport error into the retry taxonomy. Timeouts and
// connection faults get typed wrappers; anything else returns unchanged and
// the retry layer treats it as terminal. Context cancellation stays
// unwrapped for that reason.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}
	return err
}

// IsTimeout reports whether err carries ErrTimeout.
func IsTimeout(err error) bool {
	var t ErrTimeout
	return errors.As(err, &t)
}

// IsConnection reports whether err carries ErrConnection.
func IsConnection(err error) bool {
	var c ErrConnection
	return errors.As(err, &c)
}

// TypeLabel names the error class for metrics and logs.
func TypeLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsTimeout(err):
		return "timeout"
	case IsConnection(err):
		return "connection"
	default:
		return "other"
	}
}
