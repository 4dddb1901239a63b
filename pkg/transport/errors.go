package transport

import (
	"errors"
	"fmt"
)

// ErrConnectionRejected indicates that the server did not acknowledge
// the connection_init handshake. The handshake aborts, nothing is
// registered and no start frame is sent.
var ErrConnectionRejected = errors.New("server did not acknowledge the connection")

// ProtocolViolationError indicates an inbound subscription frame that is
// not the expected text-message class, or a frame the protocol cannot
// decode. It is fatal for that subscription only; it is deliberately a
// distinct kind from ErrConnectionRejected so callers can apply
// different retry policy to each.
type ProtocolViolationError struct {
	// Got describes the offending frame.
	Got string
	// Err is the underlying decode error, if any.
	Err error
}

func (e *ProtocolViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol violation: %s: %v", e.Got, e.Err)
	}
	return fmt.Sprintf("protocol violation: expected a text message, got %s", e.Got)
}

func (e *ProtocolViolationError) Unwrap() error {
	return e.Err
}
