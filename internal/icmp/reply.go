package icmp

import (
	"encoding/binary"
	"math"
)

// ipHeaderLen is the assumed length of the IPv4 header prefixing every
// datagram a raw ICMP socket delivers, which is what fixes the byte offsets
// below.
const ipHeaderLen = 20

// ReplyView is a read-only projection over the bytes a raw ICMP socket
// delivers, reading every field at the fixed offset implied by a 20-byte
// IPv4 header followed by this package's own Echo Request/Reply layout.
type ReplyView struct {
	Type            uint8
	Code            uint8
	HeaderChecksum  uint16
	Identifier      uint16
	Sequence        uint16
	EchoedTimestamp float64
	EchoedPayload   string

	IdentifierValid     bool
	SequenceValid       bool
	PayloadValid        bool
	TypeValid           bool
	CodeValid           bool
	HeaderChecksumValid bool
	IsValid             bool
}

// ParseReply extracts a ReplyView from buf, a full IP-header-prefixed
// datagram as delivered by a raw ICMP socket.
func ParseReply(buf []byte) *ReplyView {
	return &ReplyView{
		Type:            buf[ipHeaderLen+0],
		Code:            buf[ipHeaderLen+1],
		HeaderChecksum:  binary.BigEndian.Uint16(buf[ipHeaderLen+2 : ipHeaderLen+4]),
		Identifier:      binary.BigEndian.Uint16(buf[ipHeaderLen+4 : ipHeaderLen+6]),
		Sequence:        binary.BigEndian.Uint16(buf[ipHeaderLen+6 : ipHeaderLen+8]),
		EchoedTimestamp: math.Float64frombits(binary.LittleEndian.Uint64(buf[ipHeaderLen+8 : ipHeaderLen+16])),
		EchoedPayload:   string(buf[ipHeaderLen+16:]),
	}
}
