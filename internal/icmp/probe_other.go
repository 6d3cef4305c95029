//go:build !linux && !darwin

package icmp

import (
	"errors"
	"net"
	"time"
)

// ErrUnsupportedPlatform is returned by RawSocketProbe.Probe on platforms
// without a raw-socket implementation in this package.
var ErrUnsupportedPlatform = errors.New("icmp: raw socket probing is not supported on this platform")

// RawSocketProbe is a stub on platforms this package has no raw-socket
// implementation for.
type RawSocketProbe struct {
	Timeout time.Duration
}

// NewRawSocketProbe constructs a RawSocketProbe stub.
func NewRawSocketProbe(timeout time.Duration) *RawSocketProbe {
	return &RawSocketProbe{Timeout: timeout}
}

// Probe always fails on this platform.
func (p *RawSocketProbe) Probe(req *EchoRequest, dest net.IP, ttl int) (*Outcome, error) {
	return nil, ErrUnsupportedPlatform
}
