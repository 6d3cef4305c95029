package rdt

// RDTLayer wires a Sender and a Receiver into one full-duplex node: it can
// push data out (via SetDataToSend) and receive data in (via DataReceived)
// simultaneously, both driven by the same externally ticked ProcessData
// call. Two RDTLayer instances, cross-wired through a pair of
// UnreliableChannels, form a complete simulated link.
type RDTLayer struct {
	sender   *Sender
	receiver *Receiver

	// receiveChannel carries everything the peer sends this node: data
	// segments bound for the receiver half, ACKs bound for the sender half.
	receiveChannel UnreliableChannel

	currentIteration int64
}

// NewRDTLayer constructs an RDTLayer with an idle Sender and Receiver. Wire
// channels with SetSendChannel/SetReceiveChannel before the first
// ProcessData call.
func NewRDTLayer() *RDTLayer {
	return &RDTLayer{
		sender:   NewSender(),
		receiver: NewReceiver(),
	}
}

// SetSendChannel wires the UnreliableChannel this node transmits on: the
// sender half's data segments and the receiver half's ACKs both leave
// through it.
func (l *RDTLayer) SetSendChannel(ch UnreliableChannel) {
	l.sender.SetChannel(ch)
	l.receiver.SetChannel(ch)
}

// SetReceiveChannel wires the UnreliableChannel this node's peer transmits
// on.
func (l *RDTLayer) SetReceiveChannel(ch UnreliableChannel) { l.receiveChannel = ch }

// SetDataToSend loads the data this node will transmit to its peer.
func (l *RDTLayer) SetDataToSend(data string) { l.sender.SetDataToSend(data) }

// DataReceived returns the contiguous, in-order data this node has received
// from its peer so far.
func (l *RDTLayer) DataReceived() string { return l.receiver.DataReceived() }

// Done reports whether this node has finished sending and every byte has
// been acked.
func (l *RDTLayer) Done() bool { return l.sender.Done() }

// ProcessData advances this node by one simulation iteration: the sender
// retransmits timed-out segments and sends new ones first, then every
// segment waiting on the receive channel is drained once and dispatched,
// ACKs to the sender half and data to the receiver half.
func (l *RDTLayer) ProcessData() {
	l.currentIteration++
	l.receiver.currentIteration = l.currentIteration

	l.sender.Tick(l.currentIteration)

	if l.receiveChannel == nil {
		return
	}
	for _, seg := range l.receiveChannel.Receive() {
		if seg.IsAck() {
			l.sender.HandleAck(seg)
		} else {
			l.receiver.HandleSegment(seg)
		}
	}
}

// Sender exposes the node's Sender for telemetry and test introspection.
func (l *RDTLayer) Sender() *Sender { return l.sender }

// Receiver exposes the node's Receiver for telemetry and test introspection.
func (l *RDTLayer) Receiver() *Receiver { return l.receiver }
