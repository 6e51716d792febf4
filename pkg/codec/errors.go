package codec

import "fmt"

// TruncatedPacketError indicates a packet of unexpected length.
type TruncatedPacketError struct {
	Expected int
	Actual   int
}

// Error implements error.
func (e *TruncatedPacketError) Error() string {
	return fmt.Sprintf("packet length %d, expect %d", e.Actual, e.Expected)
}

// MalformedFieldError indicates a field holding a value the layout
// doesn't allow.
type MalformedFieldError struct {
	Field string
	Value byte
}

// Error implements error.
func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed field %s: 0x%02x", e.Field, e.Value)
}
