package wire

import (
	"errors"
	"io"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// A ShortHeader is the header of a 1-RTT packet.
type ShortHeader struct {
	DestConnectionID protocol.ConnectionID
	KeyPhase         protocol.KeyPhaseBit

	PacketNumber    protocol.PacketNumber
	PacketNumberLen protocol.PacketNumberLen
}

var _ PacketHeader = &ShortHeader{}

func (h *ShortHeader) PacketSequenceNumber() protocol.PacketNumber    { return h.PacketNumber }
func (h *ShortHeader) DestinationConnectionID() protocol.ConnectionID { return h.DestConnectionID }

// ParseShortHeader parses a short header packet whose header protection has
// already been removed. The truncated packet number is expanded using
// largestAcked from the AppData packet number space.
func ParseShortHeader(data []byte, connIDLen int, largestAcked protocol.PacketNumber) (*ShortHeader, int, error) {
	if len(data) == 0 {
		return nil, 0, io.EOF
	}
	firstByte := data[0]
	if firstByte&HeaderFormMask > 0 {
		return nil, 0, errors.New("not a short header packet")
	}
	if firstByte&FixedBitMask == 0 {
		return nil, 0, errors.New("not a QUIC packet")
	}
	pnLen := PacketNumberLenFromFirstByte(firstByte)
	if len(data) < 1+connIDLen+int(pnLen) {
		return nil, 0, io.EOF
	}
	h := &ShortHeader{PacketNumberLen: pnLen}
	var err error
	h.DestConnectionID, err = protocol.ParseConnectionID(data[1 : 1+connIDLen])
	if err != nil {
		return nil, 0, err
	}
	pos := 1 + connIDLen
	var truncated protocol.PacketNumber
	for i := 0; i < int(pnLen); i++ {
		truncated = truncated<<8 | protocol.PacketNumber(data[pos+i])
	}
	h.PacketNumber = protocol.DecodePacketNumber(pnLen, largestAcked, truncated)
	if firstByte&shortHeaderKeyPhaseMask > 0 {
		h.KeyPhase = protocol.KeyPhaseOne
	} else {
		h.KeyPhase = protocol.KeyPhaseZero
	}
	return h, pos + int(pnLen), nil
}
