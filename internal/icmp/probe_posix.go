//go:build linux || darwin

package icmp

import (
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

const defaultProbeTimeout = 5 * time.Second

// RawSocketProbe transmits hand-assembled ICMP Echo Requests over a
// SOCK_RAW/IPPROTO_ICMP socket with a per-probe IP_TTL, via
// golang.org/x/sys/unix on Linux and Darwin.
type RawSocketProbe struct {
	Timeout time.Duration
}

// NewRawSocketProbe constructs a RawSocketProbe with the given per-probe
// timeout. A non-positive timeout falls back to a 5-second default.
func NewRawSocketProbe(timeout time.Duration) *RawSocketProbe {
	return &RawSocketProbe{Timeout: timeout}
}

// Probe sends req to dest with the given TTL over a fresh raw socket and
// waits up to p.Timeout for one reply. Opening a raw socket requires
// elevated privilege on every supported platform.
func (p *RawSocketProbe) Probe(req *EchoRequest, dest net.IP, ttl int) (*Outcome, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_ICMP)
	if err != nil {
		return nil, fmt.Errorf("open raw icmp socket (try running as root): %w", err)
	}
	defer unix.Close(fd)

	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_TTL, ttl); err != nil {
		return nil, fmt.Errorf("set ttl: %w", err)
	}

	dest4 := dest.To4()
	if dest4 == nil {
		return nil, fmt.Errorf("raw ICMP probe only supports IPv4 destinations")
	}
	var sa unix.SockaddrInet4
	copy(sa.Addr[:], dest4)

	packet := req.Pack()

	sendTime := time.Now()
	if err := unix.Sendto(fd, packet, 0, &sa); err != nil {
		return nil, fmt.Errorf("sendto: %w", err)
	}

	ready, err := waitReadable(fd, timeout)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	if !ready {
		return nil, ErrTimeout
	}

	buf := make([]byte, 1024)
	n, from, err := unix.Recvfrom(fd, buf, 0)
	if err != nil {
		if isNetworkUnreachable(err) {
			return &Outcome{
				Addr:        "N/A",
				Type:        TypeDestUnreach,
				Code:        0,
				Description: "Network Unreachable (OS Level)",
			}, nil
		}
		return nil, fmt.Errorf("recvfrom: %w", err)
	}
	rtt := time.Since(sendTime)

	return decodeOutcome(buf[:n], addrString(from), rtt, req)
}

func addrString(sa unix.Sockaddr) string {
	if a, ok := sa.(*unix.SockaddrInet4); ok {
		return net.IP(a.Addr[:]).String()
	}
	return ""
}

func waitReadable(fd int, timeout time.Duration) (bool, error) {
	ms := int(timeout.Milliseconds())
	if ms <= 0 {
		ms = 1
	}
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	return n > 0, nil
}

func isNetworkUnreachable(err error) bool {
	return errors.Is(err, unix.ENETUNREACH) || errors.Is(err, unix.EHOSTUNREACH)
}
