package icmp_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravvdevv/pulse-rdt/internal/icmp"
)

// fakeProber replays a scripted sequence of Outcomes/errors, one per Probe
// call, so sessions can be tested without a privileged raw socket.
type fakeProber struct {
	outcomes []*icmp.Outcome
	errs     []error
	calls    int
}

func (f *fakeProber) Probe(req *icmp.EchoRequest, dest net.IP, ttl int) (*icmp.Outcome, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.outcomes) {
		return f.outcomes[idx], nil
	}
	return nil, icmp.ErrTimeout
}

func validEchoOutcome(rtt time.Duration) *icmp.Outcome {
	return &icmp.Outcome{
		Addr: "127.0.0.1", RTT: rtt, Type: icmp.TypeEchoReply,
		Description: "Echo Reply",
		Reply:       &icmp.ReplyView{IsValid: true, Identifier: 1, Sequence: 1},
	}
}

func TestPingSessionAllSucceed(t *testing.T) {
	prober := &fakeProber{outcomes: []*icmp.Outcome{
		validEchoOutcome(10 * time.Millisecond),
		validEchoOutcome(20 * time.Millisecond),
		validEchoOutcome(15 * time.Millisecond),
		validEchoOutcome(25 * time.Millisecond),
	}}
	session := icmp.NewPingSession(prober, "127.0.0.1")

	var buf bytes.Buffer
	require.NoError(t, session.Run(&buf))

	stats := session.Stats()
	assert.Equal(t, 4, stats.Sent)
	assert.Equal(t, 4, stats.Received)
	assert.Zero(t, stats.Loss())
	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 25*time.Millisecond, stats.Max)
	assert.Contains(t, buf.String(), "Sent = 4, Received = 4, Lost = 0 (0.0% loss)")
}

func TestPingSessionAllTimeOut(t *testing.T) {
	prober := &fakeProber{errs: []error{icmp.ErrTimeout, icmp.ErrTimeout, icmp.ErrTimeout, icmp.ErrTimeout}}
	session := icmp.NewPingSession(prober, "127.0.0.1")

	var buf bytes.Buffer
	require.NoError(t, session.Run(&buf))

	assert.Zero(t, session.Stats().Received)
	assert.Contains(t, buf.String(), "No successful round-trip times recorded")
}

func TestTracerouteReachesDestination(t *testing.T) {
	prober := &fakeProber{outcomes: []*icmp.Outcome{
		{Type: icmp.TypeTimeExceeded, Code: 0, Addr: "10.0.0.1", Description: "Time to Live exceeded in transit", RTT: 5 * time.Millisecond},
		validEchoOutcome(2 * time.Millisecond),
	}}
	session := icmp.NewTracerouteSession(prober, "127.0.0.1")

	var buf bytes.Buffer
	require.NoError(t, session.Run(&buf))

	out := buf.String()
	assert.Contains(t, out, "Hop 1:")
	assert.Contains(t, out, "Hop 2:")
	assert.Contains(t, out, "Reached destination 127.0.0.1")
}

func TestTracerouteStopsAfterConsecutiveTimeouts(t *testing.T) {
	session := icmp.NewTracerouteSession(&fakeProber{}, "127.0.0.1")

	var buf bytes.Buffer
	require.NoError(t, session.Run(&buf))

	assert.Contains(t, buf.String(), "Too many consecutive timeouts, stopping traceroute")
}
