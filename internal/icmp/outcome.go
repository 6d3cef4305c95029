package icmp

import (
	"fmt"
	"net"
	"time"
)

// Outcome is what a single probe produced: either an Echo Reply RTT or a
// Time Exceeded / Destination Unreachable diagnostic, modeled uniformly so
// PingSession and TracerouteSession can share one code path.
type Outcome struct {
	Addr        string
	RTT         time.Duration
	Type        uint8
	Code        uint8
	Description string
	// Reply is non-nil only for Echo Reply outcomes.
	Reply *ReplyView
}

// Prober sends one echo request and waits for a single reply, bounded by a
// fixed deadline. It is an interface so PingSession/TracerouteSession can be
// tested with a synthetic transport instead of a real privileged raw
// socket.
type Prober interface {
	Probe(req *EchoRequest, dest net.IP, ttl int) (*Outcome, error)
}

// decodeOutcome classifies a raw, IP-header-prefixed datagram into an
// Outcome, validating it against req when it's an Echo Reply. It is pure
// byte parsing with no socket dependency, so it is exercised directly by
// unit tests on every platform.
func decodeOutcome(buf []byte, addr string, rtt time.Duration, req *EchoRequest) (*Outcome, error) {
	if len(buf) < ipHeaderLen+2 {
		return nil, fmt.Errorf("short ICMP reply: %d bytes", len(buf))
	}
	icmpType := buf[ipHeaderLen]
	icmpCode := buf[ipHeaderLen+1]

	switch icmpType {
	case TypeEchoReply:
		reply := ParseReply(buf)
		ValidateReply(reply, req)
		return &Outcome{
			Addr:        addr,
			RTT:         rtt,
			Type:        icmpType,
			Code:        icmpCode,
			Description: CodeDescription(icmpType, icmpCode),
			Reply:       reply,
		}, nil
	case TypeTimeExceeded, TypeDestUnreach:
		return &Outcome{
			Addr:        addr,
			RTT:         rtt,
			Type:        icmpType,
			Code:        icmpCode,
			Description: CodeDescription(icmpType, icmpCode),
		}, nil
	default:
		return nil, ErrUnknownType
	}
}
