package rdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravvdevv/pulse-rdt/internal/rdt"
)

func newLinkedLayers(aToB, bToA *pipe) (sender, receiver *rdt.RDTLayer) {
	sender = rdt.NewRDTLayer()
	sender.SetSendChannel(aToB)
	sender.SetReceiveChannel(bToA)

	receiver = rdt.NewRDTLayer()
	receiver.SetSendChannel(bToA)
	receiver.SetReceiveChannel(aToB)
	return sender, receiver
}

func runUntilDelivered(t *testing.T, sender, receiver *rdt.RDTLayer, want string, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if receiver.DataReceived() == want {
			return
		}
		sender.ProcessData()
		receiver.ProcessData()
	}
	require.Equal(t, want, receiver.DataReceived(), "data not delivered within %d ticks", maxTicks)
}

func TestCleanChannelDelivery(t *testing.T) {
	const data = "abcdefghijklmnop"
	aToB, bToA := newPipe(), newPipe()
	sender, receiver := newLinkedLayers(aToB, bToA)
	sender.SetDataToSend(data)

	runUntilDelivered(t, sender, receiver, data, 20)

	// One more tick lets the sender drain the final ACKs.
	sender.ProcessData()

	assert.Zero(t, sender.Sender().CountSegmentTimeouts)
	assert.True(t, sender.Done())
}

func TestSingleDataLossTriggersRetransmit(t *testing.T) {
	const data = "abcdefghijklmnop" // segments at seq 0,4,8,12
	aToB, bToA := newPipe(), newPipe()
	aToB.dropSeq, aToB.dropOnce = 4, true

	sender, receiver := newLinkedLayers(aToB, bToA)
	sender.SetDataToSend(data)

	runUntilDelivered(t, sender, receiver, data, 40)

	assert.GreaterOrEqual(t, sender.Sender().CountSegmentTimeouts, 1)
}

func TestDuplicateAcksDoNotCorruptDelivery(t *testing.T) {
	const data = "abcdefghijklmnop"
	aToB, bToA := newPipe(), newPipe()
	bToA.duplicateAcksOnce = true

	sender, receiver := newLinkedLayers(aToB, bToA)
	sender.SetDataToSend(data)

	runUntilDelivered(t, sender, receiver, data, 20)

	// One more tick lets the sender drain the final ACKs and their duplicates.
	sender.ProcessData()

	assert.GreaterOrEqual(t, sender.Sender().CountDuplicateAcks, 4)
}

func TestCorruptedSegmentIsSilentlyDroppedThenRetransmitted(t *testing.T) {
	const data = "abcdefghijklmnop"
	aToB, bToA := newPipe(), newPipe()
	aToB.corruptSeq, aToB.corruptOnce = 0, true

	sender, receiver := newLinkedLayers(aToB, bToA)
	sender.SetDataToSend(data)

	runUntilDelivered(t, sender, receiver, data, 40)

	assert.GreaterOrEqual(t, sender.Sender().CountSegmentTimeouts, 1)
	assert.GreaterOrEqual(t, receiver.Receiver().CountCorruptSegments, 1)
}

func TestReceiverBuffersOutOfOrderSegments(t *testing.T) {
	const data = "abcdefghijklmnop"
	aToB, bToA := newPipe(), newPipe()
	aToB.dropSeq, aToB.dropOnce = 4, true

	sender, receiver := newLinkedLayers(aToB, bToA)
	sender.SetDataToSend(data)

	// First tick: sender bursts all 4 segments, pipe drops seq 4.
	sender.ProcessData()
	receiver.ProcessData()

	snap := receiver.Receiver().Snapshot()
	assert.Equal(t, "abcd", receiver.DataReceived())
	assert.Equal(t, 4, snap.RcvBase)
	assert.Equal(t, 2, snap.BufferedCount, "segments 8 and 12 should be buffered awaiting seq 4")
}
