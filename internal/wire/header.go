package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// The bits of the first byte of a packet.
const (
	// HeaderFormMask is set on long header packets.
	HeaderFormMask = 0x80
	// FixedBitMask is the QUIC bit set on all regular packets.
	FixedBitMask = 0x40

	longHeaderTypeMask      = 0x30
	longHeaderTypeShift     = 4
	longHeaderReservedMask  = 0x0c
	shortHeaderReservedMask = 0x18
	shortHeaderKeyPhaseMask = 0x04
	packetNumberLenMask     = 0x03
)

// The PacketType is the type of a long header packet.
type PacketType uint8

const (
	// PacketTypeInitial is the packet type of an Initial packet
	PacketTypeInitial PacketType = 0x0
	// PacketType0RTT is the packet type of a 0-RTT packet
	PacketType0RTT PacketType = 0x1
	// PacketTypeHandshake is the packet type of a Handshake packet
	PacketTypeHandshake PacketType = 0x2
	// PacketTypeRetry is the packet type of a Retry packet
	PacketTypeRetry PacketType = 0x3
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeInitial:
		return "Initial"
	case PacketType0RTT:
		return "0-RTT Protected"
	case PacketTypeHandshake:
		return "Handshake"
	case PacketTypeRetry:
		return "Retry"
	default:
		return fmt.Sprintf("unknown packet type: %d", t)
	}
}

// A PacketHeader is either a long or a short header.
type PacketHeader interface {
	// PacketSequenceNumber is the full (untruncated) packet number.
	PacketSequenceNumber() protocol.PacketNumber
	// DestinationConnectionID the packet is addressed to.
	DestinationConnectionID() protocol.ConnectionID
}

// IsLongHeaderPacket says if this is a long header packet
func IsLongHeaderPacket(firstByte byte) bool {
	return firstByte&HeaderFormMask > 0
}

// IsVersionNegotiationPacket says if this is a version negotiation packet
func IsVersionNegotiationPacket(b []byte) bool {
	if len(b) < 5 {
		return false
	}
	return b[0]&HeaderFormMask > 0 && b[1] == 0 && b[2] == 0 && b[3] == 0 && b[4] == 0
}

// A LongHeader is the header of a long header packet.
type LongHeader struct {
	Type    PacketType
	Version protocol.Version

	SrcConnectionID  protocol.ConnectionID
	DestConnectionID protocol.ConnectionID

	// Token is the Initial token, or the Retry token for Retry packets.
	Token []byte
	// OriginalDestConnectionID is only set for Retry packets.
	OriginalDestConnectionID protocol.ConnectionID

	PacketNumber    protocol.PacketNumber
	PacketNumberLen protocol.PacketNumberLen

	// Length is the length field as parsed from the wire.
	Length protocol.ByteCount

	parsedLen protocol.ByteCount
}

var _ PacketHeader = &LongHeader{}

func (h *LongHeader) PacketSequenceNumber() protocol.PacketNumber    { return h.PacketNumber }
func (h *LongHeader) DestinationConnectionID() protocol.ConnectionID { return h.DestConnectionID }

// ParsedLen returns the number of bytes that were consumed when parsing the header
func (h *LongHeader) ParsedLen() protocol.ByteCount { return h.parsedLen }

// ErrUnsupportedVersion is returned when parsing a packet of an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported version")

// ParseLongHeader parses a long header up to (not including) the packet number.
// The packet number can only be decoded after removing header protection.
func ParseLongHeader(data []byte) (*LongHeader, error) {
	if len(data) == 0 || !IsLongHeaderPacket(data[0]) {
		return nil, errors.New("not a long header packet")
	}
	typeByte := data[0]
	b := data[1:]
	if len(b) < 4 {
		return nil, io.EOF
	}
	h := &LongHeader{Version: protocol.Version(binary.BigEndian.Uint32(b))}
	b = b[4:]
	if h.Version != 0 && typeByte&FixedBitMask == 0 {
		return nil, errors.New("not a QUIC packet")
	}
	if !protocol.IsSupportedVersion(protocol.SupportedVersions, h.Version) {
		return nil, ErrUnsupportedVersion
	}
	h.Type = PacketType(typeByte&longHeaderTypeMask) >> longHeaderTypeShift

	var err error
	if h.Version.UsesPackedConnectionIDLengths() {
		if len(b) == 0 {
			return nil, io.EOF
		}
		dcidLen, scidLen := decodeConnectionIDLengths(b[0])
		b = b[1:]
		if len(b) < dcidLen+scidLen {
			return nil, io.EOF
		}
		h.DestConnectionID, err = protocol.ParseConnectionID(b[:dcidLen])
		if err != nil {
			return nil, err
		}
		b = b[dcidLen:]
		h.SrcConnectionID, err = protocol.ParseConnectionID(b[:scidLen])
		if err != nil {
			return nil, err
		}
		b = b[scidLen:]
	} else {
		h.DestConnectionID, b, err = readConnectionIDWithLen(b)
		if err != nil {
			return nil, err
		}
		h.SrcConnectionID, b, err = readConnectionIDWithLen(b)
		if err != nil {
			return nil, err
		}
	}

	if h.Type == PacketTypeRetry {
		if len(b) == 0 {
			return nil, io.EOF
		}
		odcidLen := int(b[0])
		b = b[1:]
		if len(b) < odcidLen {
			return nil, io.EOF
		}
		h.OriginalDestConnectionID, err = protocol.ParseConnectionID(b[:odcidLen])
		if err != nil {
			return nil, err
		}
		b = b[odcidLen:]
		if len(b) == 0 {
			return nil, errors.New("Retry packet must contain a token")
		}
		h.Token = make([]byte, len(b))
		copy(h.Token, b)
		h.parsedLen = protocol.ByteCount(len(data))
		return h, nil
	}

	if h.Type == PacketTypeInitial {
		tokenLen, l, err := quicvarint.Parse(b)
		if err != nil {
			return nil, replaceUnexpectedEOF(err)
		}
		b = b[l:]
		if tokenLen > uint64(len(b)) {
			return nil, io.EOF
		}
		if tokenLen != 0 {
			h.Token = make([]byte, tokenLen)
			copy(h.Token, b)
			b = b[tokenLen:]
		}
	}

	pl, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, replaceUnexpectedEOF(err)
	}
	b = b[l:]
	h.Length = protocol.ByteCount(pl)
	h.parsedLen = protocol.ByteCount(len(data) - len(b))
	return h, nil
}

func readConnectionIDWithLen(b []byte) (protocol.ConnectionID, []byte, error) {
	if len(b) == 0 {
		return protocol.ConnectionID{}, nil, io.EOF
	}
	connIDLen := int(b[0])
	b = b[1:]
	if connIDLen > protocol.MaxConnIDLen {
		return protocol.ConnectionID{}, nil, protocol.ErrInvalidConnectionIDLen
	}
	if len(b) < connIDLen {
		return protocol.ConnectionID{}, nil, io.EOF
	}
	connID, err := protocol.ParseConnectionID(b[:connIDLen])
	return connID, b[connIDLen:], err
}

// PacketNumberLenFromFirstByte reads the packet number length bits.
// It is only valid after header protection has been removed.
func PacketNumberLenFromFirstByte(firstByte byte) protocol.PacketNumberLen {
	return protocol.PacketNumberLen(firstByte&packetNumberLenMask) + 1
}
