package icmp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// Stats summarizes a completed PingSession: how many probes were sent and
// received, and the spread of observed round-trip times.
type Stats struct {
	Sent, Received int
	Min, Max, Avg  time.Duration
}

// Loss returns the fraction of sent probes that were never answered, in
// [0,1].
func (s Stats) Loss() float64 {
	if s.Sent == 0 {
		return 0
	}
	return float64(s.Sent-s.Received) / float64(s.Sent)
}

// PingSession drives a fixed number of sequential echo probes against one
// host and aggregates loss/RTT statistics.
type PingSession struct {
	Prober   Prober
	Host     string
	TTL      int
	Count    int
	Interval time.Duration

	// OnProbe, if set, is called once after every probe with its outcome,
	// letting a caller feed a metrics/history sink without this package
	// depending on either.
	OnProbe func(outcome *Outcome, err error)

	// DebugOut, if set, receives a hex dump of every request before it is
	// sent.
	DebugOut io.Writer

	addr           net.IP
	sent, received int
	rtts           []time.Duration
}

// NewPingSession constructs a PingSession with the defaults of TTL 64 and 4
// probes.
func NewPingSession(prober Prober, host string) *PingSession {
	return &PingSession{Prober: prober, Host: host, TTL: 64, Count: 4}
}

// Resolve looks up Host's IPv4 address, caching it on the session.
func (s *PingSession) Resolve() error {
	ips, err := net.LookupIP(s.Host)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", s.Host, err)
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			s.addr = ip4
			return nil
		}
	}
	return fmt.Errorf("no IPv4 address for %q", s.Host)
}

// Stats returns the statistics accumulated so far.
func (s *PingSession) Stats() Stats {
	st := Stats{Sent: s.sent, Received: s.received}
	if len(s.rtts) == 0 {
		return st
	}
	st.Min, st.Max = s.rtts[0], s.rtts[0]
	var total time.Duration
	for _, rtt := range s.rtts {
		if rtt < st.Min {
			st.Min = rtt
		}
		if rtt > st.Max {
			st.Max = rtt
		}
		total += rtt
	}
	st.Avg = total / time.Duration(len(s.rtts))
	return st
}

// Run resolves the host, sends Count echo requests, and writes the
// per-probe and summary lines to out.
func (s *PingSession) Run(out io.Writer) error {
	if err := s.Resolve(); err != nil {
		return err
	}
	fmt.Fprintf(out, "PING %s (%s)\n\n", s.Host, s.addr)

	id := uint16(os.Getpid() & 0xffff)
	for i := 0; i < s.Count; i++ {
		if i > 0 && s.Interval > 0 {
			time.Sleep(s.Interval)
		}
		req := NewEchoRequest(id, uint16(i))
		if s.DebugOut != nil {
			req.DumpHex(s.DebugOut)
		}
		s.sent++
		outcome, err := s.Prober.Probe(req, s.addr, s.TTL)
		if s.OnProbe != nil {
			s.OnProbe(outcome, err)
		}
		if err != nil {
			printProbeError(out, s.TTL, err)
			continue
		}
		s.received++
		s.rtts = append(s.rtts, outcome.RTT)
		printOutcome(out, s.TTL, outcome)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "--- Ping Statistics ---")
	stats := s.Stats()
	lost := stats.Sent - stats.Received
	fmt.Fprintf(out, "Packets: Sent = %d, Received = %d, Lost = %d (%.1f%% loss)\n",
		stats.Sent, stats.Received, lost, stats.Loss()*100)

	if len(s.rtts) == 0 {
		fmt.Fprintln(out, "No successful round-trip times recorded")
		return nil
	}
	fmt.Fprintf(out, "Round-trip times: Minimum = %.0fms, Maximum = %.0fms, Average = %.0fms\n",
		msOf(stats.Min), msOf(stats.Max), msOf(stats.Avg))
	return nil
}

// TracerouteSession sends echo probes with an incrementing TTL until the
// destination replies or too many consecutive hops time out.
type TracerouteSession struct {
	Prober Prober
	Host   string

	// OnProbe, if set, is called once per hop with its outcome, mirroring
	// PingSession.OnProbe.
	OnProbe func(outcome *Outcome, err error)

	// DebugOut, if set, receives a hex dump of every request before it is
	// sent.
	DebugOut io.Writer

	addr net.IP
}

// NewTracerouteSession constructs a TracerouteSession.
func NewTracerouteSession(prober Prober, host string) *TracerouteSession {
	return &TracerouteSession{Prober: prober, Host: host}
}

// Resolve looks up Host's IPv4 address, caching it on the session.
func (s *TracerouteSession) Resolve() error {
	ips, err := net.LookupIP(s.Host)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", s.Host, err)
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			s.addr = ip4
			return nil
		}
	}
	return fmt.Errorf("no IPv4 address for %q", s.Host)
}

const maxConsecutiveTimeouts = 10
const maxHops = 30

// Run resolves the host and probes with TTL 1, 2, 3, ... until the
// destination replies with an Echo Reply, maxHops is reached, or
// maxConsecutiveTimeouts hops in a row produce no reply.
func (s *TracerouteSession) Run(out io.Writer) error {
	if err := s.Resolve(); err != nil {
		return err
	}
	fmt.Fprintf(out, "TRACEROUTE to %s (%s)\n\n", s.Host, s.addr)

	id := uint16(os.Getpid() & 0xffff)
	consecutiveTimeouts := 0

	for ttl := 1; ttl <= maxHops; ttl++ {
		req := NewEchoRequest(id, uint16(ttl))
		if s.DebugOut != nil {
			req.DumpHex(s.DebugOut)
		}
		outcome, err := s.Prober.Probe(req, s.addr, ttl)
		if s.OnProbe != nil {
			s.OnProbe(outcome, err)
		}
		if err != nil {
			consecutiveTimeouts++
			fmt.Fprintf(out, "Hop %d:   *    *    *    Request timed out\n", ttl)
			if consecutiveTimeouts >= maxConsecutiveTimeouts {
				fmt.Fprintln(out, "Too many consecutive timeouts, stopping traceroute")
				return nil
			}
			continue
		}

		consecutiveTimeouts = 0
		fmt.Fprintf(out, "Hop %d:\n", ttl)
		printOutcome(out, ttl, outcome)

		if outcome.Type == TypeEchoReply {
			fmt.Fprintf(out, "Reached destination %s\n", s.Host)
			return nil
		}
	}

	fmt.Fprintln(out, "Maximum hop count reached without finding the destination")
	return nil
}

func printOutcome(out io.Writer, ttl int, outcome *Outcome) {
	if outcome.Type == TypeEchoReply {
		printEchoReply(out, ttl, outcome)
		return
	}
	printHopInfo(out, ttl, outcome)
}

func printEchoReply(out io.Writer, ttl int, outcome *Outcome) {
	validation := "[INVALID]"
	if outcome.Reply.IsValid {
		validation = "[VALID]"
	}
	fmt.Fprintf(out, "  TTL=%d    RTT=%.0f ms    Type=%d    Code=%d    %s    Identifier=%d    Sequence Number=%d    %s    %s\n",
		ttl, msOf(outcome.RTT), outcome.Type, outcome.Code, outcome.Description,
		outcome.Reply.Identifier, outcome.Reply.Sequence, outcome.Addr, validation)

	if !outcome.Reply.IsValid {
		fmt.Fprintf(out, "    Validation Details - ID Valid: %t, Seq Valid: %t, Data Valid: %t, Type Valid: %t, Code Valid: %t\n",
			outcome.Reply.IdentifierValid, outcome.Reply.SequenceValid, outcome.Reply.PayloadValid,
			outcome.Reply.TypeValid, outcome.Reply.CodeValid)
	}
}

func printHopInfo(out io.Writer, ttl int, outcome *Outcome) {
	fmt.Fprintf(out, "  TTL=%d    RTT=%.0f ms    Type=%d    Code=%d    %s    (%s)\n",
		ttl, msOf(outcome.RTT), outcome.Type, outcome.Code, outcome.Addr, outcome.Description)
}

func printProbeError(out io.Writer, ttl int, err error) {
	switch {
	case errors.Is(err, ErrTimeout):
		fmt.Fprintln(out, "  *        *        *        *        *    Request timed out.")
	case errors.Is(err, ErrUnknownType):
		fmt.Fprintln(out, "  Unknown ICMP type received.")
	default:
		fmt.Fprintf(out, "  TTL=%d    Other Error: %v\n", ttl, err)
	}
}

func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
