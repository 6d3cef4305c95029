// Package simchannel provides an in-memory UnreliableChannel that can drop,
// delay, reorder and corrupt segments in transit, for driving the RDT
// engine against a synthetic lossy link instead of a real network.
package simchannel

import (
	"math/rand"

	"github.com/ravvdevv/pulse-rdt/internal/rdt"
)

// Options configures the failure modes a Channel applies to every segment
// it carries.
type Options struct {
	// LossProbability is the chance, in [0,1], that a segment is dropped
	// outright instead of being queued for delivery; 1 drops every segment.
	LossProbability float64
	// CorruptProbability is the chance a segment that isn't dropped is
	// corrupted before delivery.
	CorruptProbability float64
	// MaxDelayTicks is the number of Tick calls a segment waits before
	// becoming deliverable (without Reorder every segment waits exactly
	// this long). A segment is never deliverable before the first Tick
	// after it was sent, so zero and one both mean the next Tick.
	MaxDelayTicks int
	// Reorder allows segments to be delivered out of the order they were
	// sent in, by assigning each one an independent random delay within
	// [0, MaxDelayTicks].
	Reorder bool

	// Rand is the source of randomness for loss/corruption/delay
	// decisions. If nil, a package-local default source is used.
	Rand *rand.Rand
}

type pending struct {
	seg        *rdt.Segment
	readyAfter int
}

// Channel implements rdt.UnreliableChannel over an in-memory queue.
type Channel struct {
	opts    Options
	rng     *rand.Rand
	tick    int
	pending []pending
	ready   []*rdt.Segment
}

// New constructs a Channel with the given Options.
func New(opts Options) *Channel {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Channel{opts: opts, rng: rng}
}

// Send enqueues seg, subject to loss, corruption and delay per Options.
func (c *Channel) Send(seg *rdt.Segment) {
	if c.rng.Float64() < c.opts.LossProbability {
		return
	}
	if c.rng.Float64() < c.opts.CorruptProbability {
		seg.Corrupt()
	}

	delay := 0
	if c.opts.MaxDelayTicks > 0 {
		if c.opts.Reorder {
			delay = c.rng.Intn(c.opts.MaxDelayTicks + 1)
		} else {
			delay = c.opts.MaxDelayTicks
		}
	}
	c.pending = append(c.pending, pending{seg: seg, readyAfter: c.tick + delay})
}

// Tick advances the channel's internal clock by one step, promoting any
// segments whose delay has elapsed into the ready queue. Callers drive a
// Channel's Tick once per simulation iteration, independently of the
// RDTLayer's own ProcessData calls.
func (c *Channel) Tick() {
	c.tick++
	remaining := c.pending[:0]
	for _, p := range c.pending {
		if p.readyAfter <= c.tick {
			c.ready = append(c.ready, p.seg)
		} else {
			remaining = append(remaining, p)
		}
	}
	c.pending = remaining
}

// Receive returns every segment that became ready since the last call.
func (c *Channel) Receive() []*rdt.Segment {
	out := c.ready
	c.ready = nil
	return out
}
