package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/robotalks/dcm.go/pkg/codec"
)

var (
	// ErrNotConnected indicates the session has no open port.
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected indicates the session owns a different port.
	// Close must be called before connecting to another one.
	ErrAlreadyConnected = errors.New("already connected to another port")
	// ErrClosed indicates the port was closed while in use.
	ErrClosed = errors.New("port closed")
)

// ConnectionError wraps failures opening or using the port.
type ConnectionError struct {
	Port string
	Op   string
	Err  error
}

// Error implements error.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ResponseTimeoutError indicates a complete response didn't arrive in time.
type ResponseTimeoutError struct {
	BytesReceived int
	Timeout       time.Duration
}

// Error implements error.
func (e *ResponseTimeoutError) Error() string {
	return fmt.Sprintf("response timeout after %v: received %d of %d bytes",
		e.Timeout, e.BytesReceived, codec.ResponseSize)
}

// SessionBusyError is returned when another operation is in flight.
type SessionBusyError struct {
	State State
}

// Error implements error.
func (e *SessionBusyError) Error() string {
	return fmt.Sprintf("session busy: %s", e.State)
}

// ResponseMismatchError indicates the response doesn't report the mode
// just programmed.
type ResponseMismatchError struct {
	Expected byte
	Actual   byte
}

// Error implements error.
func (e *ResponseMismatchError) Error() string {
	return fmt.Sprintf("response mode %q mismatch, expect %q", e.Actual, e.Expected)
}
