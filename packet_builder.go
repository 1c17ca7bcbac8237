package mvfst

import (
	"encoding/binary"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// PacketNumEncoding is the truncated form of a packet number.
type PacketNumEncoding struct {
	Result protocol.PacketNumber
	Length protocol.PacketNumberLen
}

// A BuiltPacket is the result of finalizing a builder: the bookkeeping form of
// the packet plus its unprotected header and body bytes.
type BuiltPacket struct {
	Packet RegularPacket
	Header []byte
	Body   []byte
}

// A RegularPacketBuilder assembles a single outbound packet. It maintains
// separate header and body sinks and a remaining-space budget; the length
// field and the packet number are filled in at finalization, once the payload
// size is known. A builder is consumed by BuildPacket and must not be reused.
type RegularPacketBuilder struct {
	remainingBytes protocol.ByteCount

	packet RegularPacket
	header []byte
	body   []byte

	packetNumberEncoding PacketNumEncoding
	cipherOverhead       protocol.ByteCount
	version              protocol.Version
}

// NewRegularPacketBuilder creates a builder for a packet with the given space
// budget. largestAcked is the largest packet number acknowledged by the peer
// in the same packet number space.
func NewRegularPacketBuilder(
	remainingBytes protocol.ByteCount,
	header wire.PacketHeader,
	largestAcked protocol.PacketNumber,
	version protocol.Version,
) *RegularPacketBuilder {
	b := &RegularPacketBuilder{
		remainingBytes: remainingBytes,
		packet:         RegularPacket{Header: header},
		header:         make([]byte, 0, 64),
		body:           make([]byte, 0, 256),
		version:        version,
	}
	switch h := header.(type) {
	case *wire.LongHeader:
		b.encodeLongHeader(h, largestAcked)
	case *wire.ShortHeader:
		b.encodeShortHeader(h, largestAcked)
	}
	return b
}

func (b *RegularPacketBuilder) encodeLongHeader(h *wire.LongHeader, largestAcked protocol.PacketNumber) {
	truncated, pnLen := protocol.EncodePacketNumber(h.PacketNumber, largestAcked)
	b.packetNumberEncoding = PacketNumEncoding{Result: truncated, Length: pnLen}

	initialByte := byte(wire.HeaderFormMask) | byte(wire.FixedBitMask) | byte(h.Type)<<4
	initialByte &^= 0x0c // reserved bits are zero before header protection
	initialByte |= byte(pnLen - 1)
	if h.Type == wire.PacketTypeRetry {
		initialByte &= 0xf0
		if odcidLen := h.OriginalDestConnectionID.Len(); odcidLen != 0 {
			initialByte |= uint8(odcidLen) - 3
		}
	}
	b.header = append(b.header, initialByte)

	var tokenHeaderLength protocol.ByteCount
	isInitial := h.Type == wire.PacketTypeInitial
	if isInitial {
		tokenHeaderLength = protocol.ByteCount(quicvarint.Len(uint64(len(h.Token))) + len(h.Token))
	}

	var cidLenBytes protocol.ByteCount = 2
	if b.version.UsesPackedConnectionIDLengths() {
		cidLenBytes = 1
	}
	headerSize := 1 /* initial byte */ + 4 /* version */ + cidLenBytes +
		protocol.ByteCount(h.DestConnectionID.Len()+h.SrcConnectionID.Len()) +
		tokenHeaderLength + protocol.PacketLenFieldSize + protocol.ByteCount(pnLen)
	if b.remainingBytes < headerSize {
		b.remainingBytes = 0
	} else {
		b.remainingBytes -= headerSize
	}

	b.header = binary.BigEndian.AppendUint32(b.header, uint32(h.Version))
	if b.version.UsesPackedConnectionIDLengths() {
		b.header = append(b.header, wire.EncodeConnectionIDLengths(h.DestConnectionID.Len(), h.SrcConnectionID.Len()))
		b.header = append(b.header, h.DestConnectionID.Bytes()...)
		b.header = append(b.header, h.SrcConnectionID.Bytes()...)
	} else {
		b.header = append(b.header, uint8(h.DestConnectionID.Len()))
		b.header = append(b.header, h.DestConnectionID.Bytes()...)
		b.header = append(b.header, uint8(h.SrcConnectionID.Len()))
		b.header = append(b.header, h.SrcConnectionID.Bytes()...)
	}

	if isInitial {
		b.header = quicvarint.Append(b.header, uint64(len(h.Token)))
		b.header = append(b.header, h.Token...)
	}

	if h.Type == wire.PacketTypeRetry {
		b.header = append(b.header, uint8(h.OriginalDestConnectionID.Len()))
		b.header = append(b.header, h.OriginalDestConnectionID.Bytes()...)
		// A Retry packet carries the token as its body; there is no length or
		// packet number to defer.
		b.header = append(b.header, h.Token...)
	}
	// the length field and the packet number are written in BuildPacket
}

func (b *RegularPacketBuilder) encodeShortHeader(h *wire.ShortHeader, largestAcked protocol.PacketNumber) {
	truncated, pnLen := protocol.EncodePacketNumber(h.PacketNumber, largestAcked)
	b.packetNumberEncoding = PacketNumEncoding{Result: truncated, Length: pnLen}
	if b.remainingBytes < 1+protocol.ByteCount(pnLen)+protocol.ByteCount(h.DestConnectionID.Len()) {
		b.remainingBytes = 0
		return
	}
	initialByte := byte(wire.FixedBitMask) | byte(pnLen-1)
	initialByte &^= 0x18 // reserved bits are zero before header protection
	if h.KeyPhase == protocol.KeyPhaseOne {
		initialByte |= 0x04
	}
	b.header = append(b.header, initialByte)
	b.remainingBytes--

	b.header = append(b.header, h.DestConnectionID.Bytes()...)
	b.remainingBytes -= protocol.ByteCount(h.DestConnectionID.Len())
	b.header = appendPacketNumber(b.header, truncated, pnLen)
	b.remainingBytes -= protocol.ByteCount(pnLen)
}

// RemainingSpace is the number of bytes still available for body writes.
func (b *RegularPacketBuilder) RemainingSpace() protocol.ByteCount {
	return b.remainingBytes
}

// CanBuildPacket says if there is any budget left.
func (b *RegularPacketBuilder) CanBuildPacket() bool {
	return b.remainingBytes != 0
}

// HeaderBytes is the total header size. For long headers it includes the
// deferred packet number and PacketLenFieldSize bytes for the length field.
func (b *RegularPacketBuilder) HeaderBytes() protocol.ByteCount {
	if _, ok := b.packet.Header.(*wire.LongHeader); ok {
		return protocol.ByteCount(len(b.header)) + protocol.ByteCount(b.packetNumberEncoding.Length) + protocol.PacketLenFieldSize
	}
	return protocol.ByteCount(len(b.header))
}

// PacketHeader returns the header this packet is being built with.
func (b *RegularPacketBuilder) PacketHeader() wire.PacketHeader {
	return b.packet.Header
}

// Version returns the version the packet is encoded with.
func (b *RegularPacketBuilder) Version() protocol.Version {
	return b.version
}

// SetCipherOverhead records the AEAD expansion the seal step will add.
func (b *RegularPacketBuilder) SetCipherOverhead(overhead protocol.ByteCount) {
	b.cipherOverhead = overhead
}

// PacketNumberEncoding returns the truncated packet number chosen at
// construction.
func (b *RegularPacketBuilder) PacketNumberEncoding() PacketNumEncoding {
	return b.packetNumberEncoding
}

// WriteByte writes a single byte into the body.
func (b *RegularPacketBuilder) WriteByte(v byte) {
	b.body = append(b.body, v)
	b.remainingBytes--
}

// WriteUint16 writes a big endian uint16 into the body.
func (b *RegularPacketBuilder) WriteUint16(v uint16) {
	b.body = binary.BigEndian.AppendUint16(b.body, v)
	b.remainingBytes -= 2
}

// WriteUint32 writes a big endian uint32 into the body.
func (b *RegularPacketBuilder) WriteUint32(v uint32) {
	b.body = binary.BigEndian.AppendUint32(b.body, v)
	b.remainingBytes -= 4
}

// WriteVarint writes a QUIC integer into the body.
func (b *RegularPacketBuilder) WriteVarint(v uint64) {
	before := len(b.body)
	b.body = quicvarint.Append(b.body, v)
	b.remainingBytes -= protocol.ByteCount(len(b.body) - before)
}

// Push writes raw bytes into the body.
func (b *RegularPacketBuilder) Push(data []byte) {
	b.body = append(b.body, data...)
	b.remainingBytes -= protocol.ByteCount(len(data))
}

// AppendFrame records a frame in the packet's frame list. It does not emit any
// bytes; the caller is responsible for the wire encoding.
func (b *RegularPacketBuilder) AppendFrame(f wire.Frame) {
	b.packet.Frames = append(b.packet.Frames, f)
}

// Frames returns the frames recorded so far.
func (b *RegularPacketBuilder) Frames() []wire.Frame {
	return b.packet.Frames
}

// BuildPacket finalizes the packet: it pads the body so the header protection
// sample is available, then writes the deferred length field and packet number.
// The builder must not be used afterwards.
func (b *RegularPacketBuilder) BuildPacket() BuiltPacket {
	longHeader, isLong := b.packet.Header.(*wire.LongHeader)
	pnLen := b.packetNumberEncoding.Length

	// The header protection mask is sampled starting four bytes after the
	// beginning of the packet number. Pad until that sample is guaranteed to
	// be inside the ciphertext.
	minBodySize := protocol.ByteCount(protocol.MaxPacketNumEncodingSize-int(pnLen)) + protocol.HeaderProtectionSampleSize
	var extraDataWritten protocol.ByteCount
	bodyLength := protocol.ByteCount(len(b.body))
	for bodyLength+extraDataWritten+b.cipherOverhead < minBodySize &&
		len(b.packet.Frames) > 0 && b.remainingBytes > protocol.PacketLenFieldSize {
		// Padding frames don't need to be recorded in the frame list.
		b.WriteVarint(uint64(wire.FrameTypePadding))
		extraDataWritten++
	}

	if isLong && longHeader.Type != wire.PacketTypeRetry {
		b.header = quicvarint.Append(b.header,
			uint64(protocol.ByteCount(pnLen)+protocol.ByteCount(len(b.body))+b.cipherOverhead))
		b.header = appendPacketNumber(b.header, b.packetNumberEncoding.Result, pnLen)
	}
	return BuiltPacket{Packet: b.packet, Header: b.header, Body: b.body}
}

func appendPacketNumber(b []byte, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) []byte {
	for i := int(pnLen) - 1; i >= 0; i-- {
		b = append(b, byte(pn>>(8*i)))
	}
	return b
}
