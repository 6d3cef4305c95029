package simchannel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravvdevv/pulse-rdt/internal/rdt"
	"github.com/ravvdevv/pulse-rdt/internal/simchannel"
)

func TestChannelDeliversAfterTick(t *testing.T) {
	ch := simchannel.New(simchannel.Options{})
	seg := rdt.NewDataSegment(0, "abcd")
	ch.Send(seg)

	assert.Empty(t, ch.Receive(), "nothing is deliverable before the channel ticks")

	ch.Tick()
	got := ch.Receive()
	require.Len(t, got, 1)
	assert.Equal(t, seg, got[0])
}

func TestChannelFullLossDropsEverything(t *testing.T) {
	ch := simchannel.New(simchannel.Options{LossProbability: 1.0})
	ch.Send(rdt.NewDataSegment(0, "abcd"))

	ch.Tick()
	assert.Empty(t, ch.Receive())
}

func TestChannelDelaysDelivery(t *testing.T) {
	ch := simchannel.New(simchannel.Options{MaxDelayTicks: 2})
	ch.Send(rdt.NewDataSegment(0, "abcd"))

	ch.Tick()
	assert.Empty(t, ch.Receive(), "segment should still be delayed after 1 tick")

	ch.Tick()
	assert.Len(t, ch.Receive(), 1, "segment should be deliverable once its delay has elapsed")
}
