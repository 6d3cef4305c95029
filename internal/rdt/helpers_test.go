package rdt_test

import "github.com/ravvdevv/pulse-rdt/internal/rdt"

// pipe is a deterministic, scriptable UnreliableChannel used only by this
// package's tests. Production code drives RDTLayer through
// internal/simchannel instead.
type pipe struct {
	queue []*rdt.Segment

	dropSeq  int
	dropOnce bool

	corruptSeq  int
	corruptOnce bool

	duplicateAcksOnce bool
	duplicatedAcks    map[int]bool
}

func newPipe() *pipe {
	return &pipe{duplicatedAcks: make(map[int]bool)}
}

func (p *pipe) Send(seg *rdt.Segment) {
	if !seg.IsAck() && p.dropOnce && seg.SeqNum == p.dropSeq {
		p.dropOnce = false
		return
	}
	if !seg.IsAck() && p.corruptOnce && seg.SeqNum == p.corruptSeq {
		p.corruptOnce = false
		seg.Corrupt()
	}

	p.queue = append(p.queue, seg)

	if seg.IsAck() && p.duplicateAcksOnce && !p.duplicatedAcks[seg.AckNum] {
		p.duplicatedAcks[seg.AckNum] = true
		dup := *seg
		p.queue = append(p.queue, &dup)
	}
}

func (p *pipe) Receive() []*rdt.Segment {
	out := p.queue
	p.queue = nil
	return out
}
