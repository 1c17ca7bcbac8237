package mvfst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

func connID(t *testing.T, b []byte) protocol.ConnectionID {
	t.Helper()
	c, err := protocol.ParseConnectionID(b)
	require.NoError(t, err)
	return c
}

func TestBuildInitialPacketWithCryptoFrame(t *testing.T) {
	dcid := connID(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	scid := connID(t, []byte{9, 10, 11, 12})
	hdr := &wire.LongHeader{
		Type:             wire.PacketTypeInitial,
		Version:          protocol.Version1,
		DestConnectionID: dcid,
		SrcConnectionID:  scid,
		PacketNumber:     0,
	}
	builder := NewRegularPacketBuilder(1500, hdr, protocol.InvalidPacketNumber, protocol.Version1)
	builder.SetCipherOverhead(16)
	require.True(t, builder.CanBuildPacket())

	cryptoData := make([]byte, 1000)
	for i := range cryptoData {
		cryptoData[i] = byte(i)
	}
	frame := WriteCryptoFrame(0, cryptoData, builder)
	require.NotNil(t, frame)
	require.Equal(t, protocol.ByteCount(0), frame.Offset)
	require.Equal(t, protocol.ByteCount(1000), frame.Len)

	packet := builder.BuildPacket()
	require.Len(t, packet.Packet.Frames, 1)

	// first byte: long header form, fixed bit, Initial type, 1-byte packet number
	require.Equal(t, byte(0x80|0x40), packet.Header[0]&0xf0)
	require.Equal(t, byte(0), packet.Header[0]&0x03)

	// version, dcil, dcid, scil, scid, token length
	require.Equal(t, []byte{0, 0, 0, 1}, packet.Header[1:5])
	require.Equal(t, byte(8), packet.Header[5])
	require.Equal(t, dcid.Bytes(), packet.Header[6:14])
	require.Equal(t, byte(4), packet.Header[14])
	require.Equal(t, scid.Bytes(), packet.Header[15:19])
	require.Equal(t, byte(0), packet.Header[19]) // empty token

	// the length field covers packet number, body and cipher overhead
	length, n, err := quicvarint.Parse(packet.Header[20:])
	require.NoError(t, err)
	require.Equal(t, uint64(1+len(packet.Body)+16), length)
	// the truncated packet number follows the length field
	require.Equal(t, byte(0), packet.Header[20+n])

	// the body carries the CRYPTO frame header, then the data
	require.Equal(t, byte(wire.FrameTypeCrypto), packet.Body[0])
	offset, n1, err := quicvarint.Parse(packet.Body[1:])
	require.NoError(t, err)
	require.Zero(t, offset)
	dataLen, n2, err := quicvarint.Parse(packet.Body[1+n1:])
	require.NoError(t, err)
	require.Equal(t, uint64(1000), dataLen)
	require.Equal(t, cryptoData, packet.Body[1+n1+n2:])
}

func TestBuilderPadsForHeaderProtectionSample(t *testing.T) {
	hdr := &wire.ShortHeader{
		DestConnectionID: connID(t, []byte{1, 2, 3, 4}),
		KeyPhase:         protocol.KeyPhaseZero,
		PacketNumber:     2,
	}
	builder := NewRegularPacketBuilder(1000, hdr, 1, protocol.Version1)
	// initial byte, 4-byte connection ID, 1-byte packet number
	require.Equal(t, protocol.ByteCount(994), builder.RemainingSpace())

	n := WriteFrame(&wire.PingFrame{}, builder)
	require.Equal(t, protocol.ByteCount(1), n)

	pnLen := builder.PacketNumberEncoding().Length
	packet := builder.BuildPacket()
	minBody := protocol.MaxPacketNumEncodingSize - int(pnLen) + protocol.HeaderProtectionSampleSize
	require.GreaterOrEqual(t, len(packet.Body), minBody)
	// the body is the PING frame followed by single-byte PADDING frames only
	require.Equal(t, byte(wire.FrameTypePing), packet.Body[0])
	for _, b := range packet.Body[1:] {
		require.Equal(t, byte(wire.FrameTypePadding), b)
	}
	// padding isn't recorded in the frame list
	require.Len(t, packet.Packet.Frames, 1)
}

func TestBuilderDoesNotPadEmptyPacket(t *testing.T) {
	hdr := &wire.ShortHeader{
		DestConnectionID: connID(t, []byte{1, 2, 3, 4}),
		PacketNumber:     2,
	}
	builder := NewRegularPacketBuilder(1000, hdr, 1, protocol.Version1)
	packet := builder.BuildPacket()
	require.Empty(t, packet.Body)
}

func TestBuilderLegacyConnectionIDLengths(t *testing.T) {
	dcid := connID(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	scid := connID(t, []byte{9, 10, 11, 12})
	hdr := &wire.LongHeader{
		Type:             wire.PacketTypeHandshake,
		Version:          protocol.VersionMVFSTOld,
		DestConnectionID: dcid,
		SrcConnectionID:  scid,
		PacketNumber:     5,
	}
	builder := NewRegularPacketBuilder(1500, hdr, 1, protocol.VersionMVFSTOld)
	packet := builder.BuildPacket()

	require.Equal(t, []byte{0xfa, 0xce, 0xb0, 0x00}, packet.Header[1:5])
	// one byte packs both lengths: dcid code 5, scid code 1
	require.Equal(t, byte(0x51), packet.Header[5])
	require.Equal(t, dcid.Bytes(), packet.Header[6:14])
	require.Equal(t, scid.Bytes(), packet.Header[14:18])
}

func TestBuilderShortHeader(t *testing.T) {
	dcid := connID(t, []byte{1, 2, 3, 4, 5, 6})
	hdr := &wire.ShortHeader{
		DestConnectionID: dcid,
		KeyPhase:         protocol.KeyPhaseOne,
		PacketNumber:     0x1337,
	}
	builder := NewRegularPacketBuilder(1000, hdr, 0x1330, protocol.Version1)
	packet := builder.BuildPacket()

	// fixed bit, key phase bit, 1-byte packet number
	require.Equal(t, byte(0x40|0x04), packet.Header[0]&^0x03)
	require.Equal(t, byte(0), packet.Header[0]&0x03)
	require.Equal(t, dcid.Bytes(), packet.Header[1:7])
	require.Equal(t, byte(0x37), packet.Header[7])
}

func TestBuilderBudgetExhaustion(t *testing.T) {
	hdr := &wire.LongHeader{
		Type:             wire.PacketTypeInitial,
		Version:          protocol.Version1,
		DestConnectionID: connID(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
		SrcConnectionID:  connID(t, []byte{9, 10, 11, 12}),
		PacketNumber:     0,
	}
	// the header alone exceeds this budget
	builder := NewRegularPacketBuilder(10, hdr, protocol.InvalidPacketNumber, protocol.Version1)
	require.Zero(t, builder.RemainingSpace())
	require.False(t, builder.CanBuildPacket())
}

func TestBuilderRetryPacket(t *testing.T) {
	odcid := connID(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	hdr := &wire.LongHeader{
		Type:                     wire.PacketTypeRetry,
		Version:                  protocol.Version1,
		DestConnectionID:         connID(t, []byte{9, 10, 11, 12}),
		SrcConnectionID:          connID(t, []byte{13, 14, 15, 16}),
		OriginalDestConnectionID: odcid,
		Token:                    []byte("retry token"),
	}
	builder := NewRegularPacketBuilder(1500, hdr, protocol.InvalidPacketNumber, protocol.Version1)
	packet := builder.BuildPacket()

	// Retry: type bits set, low nibble encodes the ODCID length
	require.Equal(t, byte(0x80|0x40|0x30), packet.Header[0]&0xf0)
	require.Equal(t, byte(8-3), packet.Header[0]&0x0f)
	// the ODCID and the token close the header, there is no length field
	tail := packet.Header[len(packet.Header)-len("retry token"):]
	require.Equal(t, []byte("retry token"), tail)
	odcidStart := len(packet.Header) - len("retry token") - 8
	require.Equal(t, byte(8), packet.Header[odcidStart-1])
	require.Equal(t, odcid.Bytes(), packet.Header[odcidStart:odcidStart+8])
}

func TestWriteStreamFrameRespectsSpace(t *testing.T) {
	hdr := &wire.ShortHeader{
		DestConnectionID: connID(t, []byte{1, 2, 3, 4}),
		PacketNumber:     10,
	}
	builder := NewRegularPacketBuilder(30, hdr, 9, protocol.Version1)
	space := builder.RemainingSpace()

	data := make([]byte, 100)
	dataLen, ok := WriteStreamFrameHeader(builder, 4, 0, protocol.ByteCount(len(data)), protocol.ByteCount(len(data)), false)
	require.True(t, ok)
	require.Less(t, dataLen, protocol.ByteCount(len(data)))
	WriteStreamFrameData(builder, data, dataLen)
	require.LessOrEqual(t, builder.RemainingSpace(), space)

	// nothing more fits
	_, ok = WriteStreamFrameHeader(builder, 4, dataLen, 100, 100, false)
	require.False(t, ok)
}

func TestWriteStreamFrameFinOnlyWhenComplete(t *testing.T) {
	hdr := &wire.ShortHeader{
		DestConnectionID: connID(t, []byte{1, 2, 3, 4}),
		PacketNumber:     10,
	}
	builder := NewRegularPacketBuilder(20, hdr, 9, protocol.Version1)

	// only part of the data fits, so the FIN must not be carried
	dataLen, ok := WriteStreamFrameHeader(builder, 4, 0, 100, 100, true)
	require.True(t, ok)
	require.Less(t, dataLen, protocol.ByteCount(100))
	frames := builder.Frames()
	require.Len(t, frames, 1)
	sf := frames[0].(*wire.WriteStreamFrame)
	require.False(t, sf.Fin)
}
