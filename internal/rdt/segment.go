// Package rdt implements a selective-repeat reliable data transfer layer
// driven by an externally ticked simulation loop rather than wall-clock
// time: a pair of collaborating Sender/Receiver state machines fronted by
// UnreliableChannels the caller supplies.
package rdt

import "fmt"

// NoSeq marks the "not applicable" sentinel for a Segment's SeqNum/AckNum
// field: a pure ACK carries NoSeq as its SeqNum, a pure data segment carries
// NoSeq as its AckNum.
const NoSeq = -1

// Segment is the unit exchanged over an UnreliableChannel. A Segment is
// either a data segment (SeqNum set, AckNum == NoSeq) or an ACK (AckNum set,
// SeqNum == NoSeq); it is never both.
type Segment struct {
	SeqNum   int
	AckNum   int
	Payload  string
	Checksum int

	// StartIteration records the tick at which the segment was handed to
	// the lower layer, so a retransmitted copy carries the iteration it was
	// re-sent at rather than the original send time.
	StartIteration int64
}

// NewDataSegment builds a data segment carrying payload at seq, with its
// checksum computed over the segment's own fields.
func NewDataSegment(seq int, payload string) *Segment {
	s := &Segment{SeqNum: seq, AckNum: NoSeq, Payload: payload}
	s.Checksum = s.computeChecksum()
	return s
}

// NewAckSegment builds a pure acknowledgment for ack.
func NewAckSegment(ack int) *Segment {
	s := &Segment{SeqNum: NoSeq, AckNum: ack}
	s.Checksum = s.computeChecksum()
	return s
}

// IsAck reports whether this segment is a pure acknowledgment.
func (s *Segment) IsAck() bool { return s.AckNum != NoSeq }

// computeChecksum adds SeqNum and AckNum to the sum of the ordinal values of
// every character in Payload. The total is not folded or truncated.
func (s *Segment) computeChecksum() int {
	sum := s.SeqNum + s.AckNum
	for _, c := range s.Payload {
		sum += int(c)
	}
	return sum
}

// CheckChecksum reports whether the segment's stored checksum still matches
// its fields, i.e. whether it survived transit uncorrupted.
func (s *Segment) CheckChecksum() bool {
	return s.Checksum == s.computeChecksum()
}

// Corrupt flips the segment's stored checksum so CheckChecksum subsequently
// fails. It exists for tests and for UnreliableChannel implementations that
// simulate bit errors.
func (s *Segment) Corrupt() {
	s.Checksum++
}

func (s *Segment) String() string {
	if s.IsAck() {
		return fmt.Sprintf("ACK(ack=%d)", s.AckNum)
	}
	return fmt.Sprintf("DATA(seq=%d, len=%d)", s.SeqNum, len(s.Payload))
}
