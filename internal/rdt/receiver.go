package rdt

// Receiver is the receiving half of an RDTLayer: it buffers out-of-order
// data segments within its window, delivers contiguous runs in order as
// gaps fill in, and acknowledges every intact data segment it sees, even
// duplicates and segments outside the window.
type Receiver struct {
	// ackChannel is the outbound channel acknowledgments are emitted on;
	// inbound data segments are handed in by the owning RDTLayer, which
	// drains the node's receive channel once per tick.
	ackChannel UnreliableChannel

	currentIteration int64

	rcvBase int
	// buffered holds data segments received but not yet delivered because
	// an earlier sequence number is still missing.
	buffered map[int]string
	// delivered is the contiguous, in-order application data assembled so
	// far.
	delivered string

	CountCorruptSegments int
	CountDuplicateData   int
	CountOutOfWindow     int
}

// NewReceiver constructs an idle Receiver. Call SetChannel before the first
// segment is handed in.
func NewReceiver() *Receiver {
	return &Receiver{buffered: make(map[int]string)}
}

// SetChannel wires the outbound UnreliableChannel acknowledgments are sent
// on.
func (r *Receiver) SetChannel(ch UnreliableChannel) { r.ackChannel = ch }

// DataReceived returns the contiguous, in-order application data delivered
// so far.
func (r *Receiver) DataReceived() string { return r.delivered }

// HandleSegment processes one inbound data segment: a corrupted segment is
// dropped silently, anything else is acknowledged unconditionally, and only
// in-window, not-yet-seen segments are buffered and delivered.
func (r *Receiver) HandleSegment(seg *Segment) {
	if !seg.CheckChecksum() {
		r.CountCorruptSegments++
		return
	}

	// Acknowledge every intact segment regardless of window membership, so
	// a peer whose earlier ACKs were lost can still make progress.
	ack := NewAckSegment(seg.SeqNum)
	ack.StartIteration = r.currentIteration
	r.ackChannel.Send(ack)

	if seg.SeqNum < r.rcvBase {
		r.CountDuplicateData++
		return
	}
	if seg.SeqNum >= r.rcvBase+FlowControlWinSize {
		r.CountOutOfWindow++
		return
	}
	if _, already := r.buffered[seg.SeqNum]; already {
		r.CountDuplicateData++
		return
	}

	r.buffered[seg.SeqNum] = seg.Payload
	r.deliverConsecutive()
}

// deliverConsecutive appends every contiguous buffered segment starting at
// rcvBase to delivered, advancing rcvBase past each one.
func (r *Receiver) deliverConsecutive() {
	for {
		payload, ok := r.buffered[r.rcvBase]
		if !ok {
			return
		}
		r.delivered += payload
		delete(r.buffered, r.rcvBase)
		r.rcvBase += len(payload)
	}
}

// ReceiverSnapshot summarizes the receiver's internal state for diagnostic
// logging.
type ReceiverSnapshot struct {
	RcvBase         int
	BufferedCount   int
	DeliveredLength int
	CorruptSegments int
	DuplicateData   int
	OutOfWindow     int
}

func (r *Receiver) Snapshot() ReceiverSnapshot {
	return ReceiverSnapshot{
		RcvBase:         r.rcvBase,
		BufferedCount:   len(r.buffered),
		DeliveredLength: len(r.delivered),
		CorruptSegments: r.CountCorruptSegments,
		DuplicateData:   r.CountDuplicateData,
		OutOfWindow:     r.CountOutOfWindow,
	}
}
