package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

func TestConnectionIDLengthCodec(t *testing.T) {
	tests := []struct {
		dcidLen, scidLen int
		encoded          uint8
	}{
		{0, 0, 0x00},
		{8, 4, 0x51},
		{4, 18, 0x1f},
		{18, 18, 0xff},
		{8, 0, 0x50},
	}
	for _, tt := range tests {
		require.Equal(t, tt.encoded, EncodeConnectionIDLengths(tt.dcidLen, tt.scidLen))
		dcidLen, scidLen := decodeConnectionIDLengths(tt.encoded)
		require.Equal(t, tt.dcidLen, dcidLen)
		require.Equal(t, tt.scidLen, scidLen)
	}
}

func appendInitialHeader(t *testing.T, v protocol.Version, dcid, scid []byte, token []byte, length uint64) []byte {
	t.Helper()
	b := []byte{0x80 | 0x40 | 0x00<<4}
	b = binary.BigEndian.AppendUint32(b, uint32(v))
	if v.UsesPackedConnectionIDLengths() {
		b = append(b, EncodeConnectionIDLengths(len(dcid), len(scid)))
		b = append(b, dcid...)
		b = append(b, scid...)
	} else {
		b = append(b, uint8(len(dcid)))
		b = append(b, dcid...)
		b = append(b, uint8(len(scid)))
		b = append(b, scid...)
	}
	b = quicvarint.Append(b, uint64(len(token)))
	b = append(b, token...)
	b = quicvarint.Append(b, length)
	return b
}

func TestParseLongHeaderInitial(t *testing.T) {
	dcid := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	scid := []byte{9, 10, 11, 12}
	data := appendInitialHeader(t, protocol.Version1, dcid, scid, []byte("token"), 1337)
	hdr, err := ParseLongHeader(data)
	require.NoError(t, err)
	require.Equal(t, PacketTypeInitial, hdr.Type)
	require.Equal(t, protocol.Version1, hdr.Version)
	require.Equal(t, dcid, hdr.DestConnectionID.Bytes())
	require.Equal(t, scid, hdr.SrcConnectionID.Bytes())
	require.Equal(t, []byte("token"), hdr.Token)
	require.Equal(t, protocol.ByteCount(1337), hdr.Length)
	require.Equal(t, protocol.ByteCount(len(data)), hdr.ParsedLen())
}

func TestParseLongHeaderLegacyCIDLengths(t *testing.T) {
	dcid := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	scid := []byte{9, 10, 11, 12}
	data := appendInitialHeader(t, protocol.VersionMVFSTOld, dcid, scid, nil, 99)
	hdr, err := ParseLongHeader(data)
	require.NoError(t, err)
	require.Equal(t, protocol.VersionMVFSTOld, hdr.Version)
	require.Equal(t, dcid, hdr.DestConnectionID.Bytes())
	require.Equal(t, scid, hdr.SrcConnectionID.Bytes())
	require.Empty(t, hdr.Token)
	require.Equal(t, protocol.ByteCount(99), hdr.Length)
}

func TestParseLongHeaderUnsupportedVersion(t *testing.T) {
	data := appendInitialHeader(t, protocol.Version(0x12345678), []byte{1, 2}, nil, nil, 0)
	_, err := ParseLongHeader(data)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestParseLongHeaderMissingFixedBit(t *testing.T) {
	data := appendInitialHeader(t, protocol.Version1, []byte{1, 2}, nil, nil, 0)
	data[0] &^= 0x40
	_, err := ParseLongHeader(data)
	require.Error(t, err)
}

func TestParseLongHeaderTruncated(t *testing.T) {
	data := appendInitialHeader(t, protocol.Version1, []byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{9, 10}, []byte("token"), 0)
	for i := 1; i < len(data); i++ {
		_, err := ParseLongHeader(data[:i])
		require.Error(t, err, "length %d", i)
	}
}

func TestParseShortHeader(t *testing.T) {
	connID := []byte{0xde, 0xad, 0xbe, 0xef}
	b := []byte{0x40 | 0x04 | 0x01} // fixed bit, key phase one, 2-byte packet number
	b = append(b, connID...)
	b = append(b, 0x13, 0x37)
	hdr, parsedLen, err := ParseShortHeader(b, 4, 0x1300)
	require.NoError(t, err)
	require.Equal(t, len(b), parsedLen)
	require.Equal(t, connID, hdr.DestConnectionID.Bytes())
	require.Equal(t, protocol.KeyPhaseOne, hdr.KeyPhase)
	require.Equal(t, protocol.PacketNumberLen2, hdr.PacketNumberLen)
	require.Equal(t, protocol.PacketNumber(0x1337), hdr.PacketNumber)
}

func TestVersionNegotiationPacket(t *testing.T) {
	dcid, err := protocol.ParseConnectionID([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	require.NoError(t, err)
	scid, err := protocol.ParseConnectionID([]byte{0x02, 0x02, 0x02, 0x02})
	require.NoError(t, err)

	b := ComposeVersionNegotiation(scid, dcid, []protocol.Version{protocol.Version1, protocol.VersionMVFSTOld})

	expected := []byte{0x80, 0x00, 0x00, 0x00, 0x00, 8}
	expected = append(expected, dcid.Bytes()...)
	expected = append(expected, 4)
	expected = append(expected, scid.Bytes()...)
	expected = append(expected, 0x00, 0x00, 0x00, 0x01)
	expected = append(expected, 0xfa, 0xce, 0xb0, 0x00)
	require.Equal(t, expected, b)

	require.True(t, IsVersionNegotiationPacket(b))
	parsed, err := ParseVersionNegotiationPacket(b)
	require.NoError(t, err)
	require.Equal(t, dcid, parsed.DestConnectionID)
	require.Equal(t, scid, parsed.SrcConnectionID)
	require.Equal(t, []protocol.Version{protocol.Version1, protocol.VersionMVFSTOld}, parsed.Versions)
}
