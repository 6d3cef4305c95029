package icmp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravvdevv/pulse-rdt/internal/icmp"
)

func TestValidateReplyAllFieldsMatch(t *testing.T) {
	req := &icmp.EchoRequest{Identifier: 0x1234, Sequence: 7, Payload: icmp.EchoPayload}
	reply := &icmp.ReplyView{
		Type: icmp.TypeEchoReply, Code: 0,
		Identifier: 0x1234, Sequence: 7, EchoedPayload: icmp.EchoPayload,
	}

	icmp.ValidateReply(reply, req)

	assert.True(t, reply.IsValid)
	assert.True(t, reply.IdentifierValid)
	assert.True(t, reply.SequenceValid)
	assert.True(t, reply.PayloadValid)
	assert.True(t, reply.TypeValid)
	assert.True(t, reply.CodeValid)
	assert.False(t, reply.HeaderChecksumValid, "header checksum validation is intentionally left unverified")
}

func TestValidateReplyDetectsSequenceMismatchOnly(t *testing.T) {
	req := &icmp.EchoRequest{Identifier: 0x1234, Sequence: 7, Payload: icmp.EchoPayload}
	reply := &icmp.ReplyView{
		Type: icmp.TypeEchoReply, Code: 0,
		Identifier: 0x1234, Sequence: 8, EchoedPayload: icmp.EchoPayload,
	}

	icmp.ValidateReply(reply, req)

	assert.False(t, reply.IsValid)
	assert.False(t, reply.SequenceValid)
	assert.True(t, reply.IdentifierValid)
	assert.True(t, reply.PayloadValid)
	assert.True(t, reply.TypeValid)
	assert.True(t, reply.CodeValid)
}

func TestValidateReplyDetectsPayloadMismatch(t *testing.T) {
	req := &icmp.EchoRequest{Identifier: 1, Sequence: 1, Payload: icmp.EchoPayload}
	reply := &icmp.ReplyView{
		Type: icmp.TypeEchoReply, Code: 0,
		Identifier: 1, Sequence: 1, EchoedPayload: "corrupted",
	}

	icmp.ValidateReply(reply, req)

	assert.False(t, reply.IsValid)
	assert.False(t, reply.PayloadValid)
}
