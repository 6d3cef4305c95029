package rdt

// Protocol constants: a 4-byte segment payload, a 15-byte flow-control
// window, an 8-tick retransmission timeout, and a per-tick burst cap of 4
// new segments.
const (
	DataLength            = 4
	FlowControlWinSize    = 15
	TimeoutIterations     = 8
	maxNewSegmentsPerTick = 4
)

// Sender is the transmitting half of an RDTLayer: it buffers outbound data,
// respects the flow-control window and per-tick burst cap, retransmits on
// timeout, and slides its window forward as ACKs arrive.
type Sender struct {
	channel UnreliableChannel

	dataToSend string
	sendBase   int
	nextSeqNum int

	// sentSegments tracks every segment currently outstanding (sent, not
	// yet acked), keyed by its SeqNum.
	sentSegments map[int]*Segment
	// sendTime records the iteration each outstanding segment was most
	// recently (re)transmitted at, for timeout detection.
	sendTime map[int]int64

	currentIteration int64

	CountSegmentTimeouts int
	CountDuplicateAcks   int
	CountSentSegments    int
}

// NewSender constructs an idle Sender. Call SetChannel and SetDataToSend
// before the first Tick.
func NewSender() *Sender {
	return &Sender{
		sentSegments: make(map[int]*Segment),
		sendTime:     make(map[int]int64),
	}
}

// SetChannel wires the outbound UnreliableChannel data segments are sent
// on.
func (s *Sender) SetChannel(ch UnreliableChannel) { s.channel = ch }

// SetDataToSend loads the full string to transfer. It resets sendBase and
// nextSeqNum to zero; call it once, before the first Tick.
func (s *Sender) SetDataToSend(data string) {
	s.dataToSend = data
	s.sendBase = 0
	s.nextSeqNum = 0
}

// NextSeqNum returns the sequence number the next new segment would use.
func (s *Sender) NextSeqNum() int { return s.nextSeqNum }

// SendBase returns the lowest outstanding (un-acked) sequence number.
func (s *Sender) SendBase() int { return s.sendBase }

// Done reports whether every byte of dataToSend has been sent and acked.
func (s *Sender) Done() bool {
	return s.sendBase >= len(s.dataToSend)
}

// Tick advances the sender by one simulation iteration: it retransmits any
// timed-out segments, then sends as many new segments as the window and
// burst cap allow. ACKs are applied separately via HandleAck, fed by
// whoever drains the node's receive channel.
func (s *Sender) Tick(iteration int64) {
	s.currentIteration = iteration
	s.retransmitTimedOut()
	s.sendNewSegments()
}

func (s *Sender) retransmitTimedOut() {
	for seq, seg := range s.sentSegments {
		if s.currentIteration-s.sendTime[seq] < TimeoutIterations {
			continue
		}
		retransmitted := NewDataSegment(seq, seg.Payload)
		retransmitted.StartIteration = s.currentIteration
		s.sentSegments[seq] = retransmitted
		s.sendTime[seq] = s.currentIteration
		s.CountSegmentTimeouts++
		s.channel.Send(retransmitted)
	}
}

func (s *Sender) sendNewSegments() {
	sentThisTick := 0
	for sentThisTick < maxNewSegmentsPerTick &&
		s.nextSeqNum < len(s.dataToSend) &&
		s.nextSeqNum < s.sendBase+FlowControlWinSize {

		end := s.nextSeqNum + DataLength
		if end > len(s.dataToSend) {
			end = len(s.dataToSend)
		}
		chunk := s.dataToSend[s.nextSeqNum:end]
		seg := NewDataSegment(s.nextSeqNum, chunk)
		seg.StartIteration = s.currentIteration

		s.sentSegments[s.nextSeqNum] = seg
		s.sendTime[s.nextSeqNum] = s.currentIteration
		s.CountSentSegments++
		s.channel.Send(seg)

		s.nextSeqNum = end
		sentThisTick++
	}
}

// HandleAck applies a single ACK segment to the sender's outstanding-segment
// bookkeeping, sliding sendBase forward when the acked sequence was the
// window's floor.
func (s *Sender) HandleAck(ack *Segment) {
	if !ack.CheckChecksum() {
		return
	}
	if _, outstanding := s.sentSegments[ack.AckNum]; !outstanding {
		s.CountDuplicateAcks++
		return
	}
	delete(s.sentSegments, ack.AckNum)
	delete(s.sendTime, ack.AckNum)

	if ack.AckNum != s.sendBase {
		return
	}
	for s.sendBase < s.nextSeqNum {
		if _, stillOutstanding := s.sentSegments[s.sendBase]; stillOutstanding {
			break
		}
		s.sendBase = s.nextSegmentBoundary(s.sendBase)
	}
}

// nextSegmentBoundary advances base by one DataLength-sized segment
// boundary, clamped to the length of dataToSend so the final short chunk
// still lands base exactly on end-of-stream.
func (s *Sender) nextSegmentBoundary(base int) int {
	next := base + DataLength
	if next > len(s.dataToSend) {
		next = len(s.dataToSend)
	}
	return next
}

// DebugSnapshot summarizes the sender's internal state for diagnostic
// logging.
type DebugSnapshot struct {
	SendBase        int
	NextSeqNum      int
	Outstanding     int
	SegmentTimeouts int
	DuplicateAcks   int
}

// Snapshot returns the sender's current DebugSnapshot.
func (s *Sender) Snapshot() DebugSnapshot {
	return DebugSnapshot{
		SendBase:        s.sendBase,
		NextSeqNum:      s.nextSeqNum,
		Outstanding:     len(s.sentSegments),
		SegmentTimeouts: s.CountSegmentTimeouts,
		DuplicateAcks:   s.CountDuplicateAcks,
	}
}
