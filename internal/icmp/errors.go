package icmp

import "errors"

var (
	// ErrTimeout is returned by a Prober when no reply arrived within its
	// deadline.
	ErrTimeout = errors.New("icmp: request timed out")
	// ErrUnknownType is returned when a received packet's ICMP type is
	// none of the ones this package understands (echo reply, time
	// exceeded, destination unreachable).
	ErrUnknownType = errors.New("icmp: unknown reply type")
)
