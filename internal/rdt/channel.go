package rdt

// UnreliableChannel is the transport collaborator an RDTLayer sends
// Segments through. Implementations may drop, delay, reorder or corrupt
// segments in transit; RDTLayer itself assumes nothing about delivery order
// or reliability beyond what this interface promises structurally (Receive
// returns whatever has arrived by the current tick).
type UnreliableChannel interface {
	// Send enqueues seg for eventual delivery to the peer end of the
	// channel. It never blocks.
	Send(seg *Segment)

	// Receive returns every segment that has arrived since the last call,
	// in the order the channel is delivering them this tick. It may
	// return an empty slice.
	Receive() []*Segment
}
