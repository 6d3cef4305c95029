package icmp_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravvdevv/pulse-rdt/internal/icmp"
)

// TestChecksumTestVector pins down the exact checksum this package's
// byte-swapped Internet checksum algorithm produces for a fixed request
// (identifier 0x1234, sequence 0, timestamp 0.0), verified independently
// against the algorithm's own arithmetic rather than recomputed in Go.
func TestChecksumTestVector(t *testing.T) {
	buf := make([]byte, icmp.TotalLen)
	buf[0] = icmp.TypeEchoRequest
	buf[1] = 0
	binary.BigEndian.PutUint16(buf[2:4], 0) // checksum field zeroed
	binary.BigEndian.PutUint16(buf[4:6], 0x1234)
	binary.BigEndian.PutUint16(buf[6:8], 0x0000)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(0.0))
	copy(buf[16:], icmp.EchoPayload)

	got := icmp.Checksum(buf)
	assert.Equal(t, uint16(0x6a36), got)

	binary.BigEndian.PutUint16(buf[2:4], got)
	assert.Equal(t, uint16(0), icmp.Checksum(buf), "checksumming a packet that carries its own correct checksum must yield zero")
}

func TestChecksumDetectsSingleByteFlip(t *testing.T) {
	buf := make([]byte, icmp.TotalLen)
	copy(buf[16:], icmp.EchoPayload)
	sum := icmp.Checksum(buf)
	binary.BigEndian.PutUint16(buf[2:4], sum)

	buf[20] ^= 0x01
	assert.NotEqual(t, uint16(0), icmp.Checksum(buf))
}
