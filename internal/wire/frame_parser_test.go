package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/qerr"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

func TestParseSkipsPadding(t *testing.T) {
	parser := NewFrameParser(false)
	b := []byte{0x0, 0x0, 0x0} // 3 PADDING frames
	b = append(b, byte(FrameTypePing))
	l, f, err := parser.ParseNext(b, protocol.Version1)
	require.NoError(t, err)
	require.Equal(t, 4, l)
	require.IsType(t, &PingFrame{}, f)
}

func TestParseReturnsNilOnPurePadding(t *testing.T) {
	parser := NewFrameParser(false)
	l, f, err := parser.ParseNext([]byte{0x0, 0x0, 0x0}, protocol.Version1)
	require.NoError(t, err)
	require.Equal(t, 3, l)
	require.Nil(t, f)
}

func TestParseUnknownFrameType(t *testing.T) {
	parser := NewFrameParser(false)
	_, _, err := parser.ParseNext(quicvarint.Append(nil, 0x42), protocol.Version1)
	require.Error(t, err)
	terr, ok := err.(*qerr.TransportError)
	require.True(t, ok)
	require.Equal(t, qerr.FrameEncodingError, terr.ErrorCode)
	require.Equal(t, uint64(0x42), terr.FrameType)
}

func TestParsePartialReliabilityGated(t *testing.T) {
	f := &MinStreamDataFrame{StreamID: 4, MaximumData: 1000, MinimumStreamOffset: 500}
	b, err := f.Append(nil, protocol.Version1)
	require.NoError(t, err)

	_, _, err = NewFrameParser(false).ParseNext(b, protocol.Version1)
	require.Error(t, err)

	l, parsed, err := NewFrameParser(true).ParseNext(b, protocol.Version1)
	require.NoError(t, err)
	require.Equal(t, len(b), l)
	require.Equal(t, f, parsed)
}

func TestParseTruncatedFrameFails(t *testing.T) {
	parser := NewFrameParser(false)
	f := &StopSendingFrame{StreamID: 0x1337, ErrorCode: 0xbeef}
	b, err := f.Append(nil, protocol.Version1)
	require.NoError(t, err)
	for i := 1; i < len(b); i++ {
		_, _, err := parser.ParseNext(b[:i], protocol.Version1)
		require.Error(t, err, "length %d", i)
	}
}

func TestFrameRoundTrips(t *testing.T) {
	token := protocol.StatelessResetToken{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	connID, err := protocol.ParseConnectionID([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)

	frames := []Frame{
		&PingFrame{},
		&ResetStreamFrame{StreamID: 0x1337, ErrorCode: 0x42, FinalSize: 0xdeadbeef},
		&StopSendingFrame{StreamID: 0x42, ErrorCode: 0x1234},
		&CryptoFrame{Offset: 0x1000, Data: []byte("lorem ipsum")},
		&NewTokenFrame{Token: []byte("lorem ipsum")},
		&StreamFrame{StreamID: 0x12345, Offset: 0xdecafbad, Data: []byte("foobar"), Fin: true, DataLenPresent: true},
		&MaxDataFrame{MaximumData: 0xcafe},
		&MaxStreamDataFrame{StreamID: 0x12345678, MaximumStreamData: 0xdecafbad},
		&MaxStreamsFrame{Type: protocol.StreamTypeBidi, MaxStreamNum: 0x1337},
		&MaxStreamsFrame{Type: protocol.StreamTypeUni, MaxStreamNum: 0x7331},
		&DataBlockedFrame{MaximumData: 0x1234},
		&StreamDataBlockedFrame{StreamID: 0xdeadbeef, MaximumStreamData: 0xdead},
		&StreamsBlockedFrame{Type: protocol.StreamTypeBidi, StreamLimit: 0x1234567},
		&NewConnectionIDFrame{SequenceNumber: 42, RetirePriorTo: 12, ConnectionID: connID, StatelessResetToken: token},
		&RetireConnectionIDFrame{SequenceNumber: 0x1337},
		&PathChallengeFrame{Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}},
		&PathResponseFrame{Data: [8]byte{8, 7, 6, 5, 4, 3, 2, 1}},
		&ConnectionCloseFrame{IsApplicationError: true, ErrorCode: 0x1337, ReasonPhrase: "foobar"},
		&ConnectionCloseFrame{ErrorCode: uint64(qerr.FlowControlError), FrameType: 0x8, ReasonPhrase: "foobar"},
		&MinStreamDataFrame{StreamID: 4, MaximumData: 2000, MinimumStreamOffset: 1000},
		&ExpiredStreamDataFrame{StreamID: 8, MinimumStreamOffset: 3000},
	}

	parser := NewFrameParser(true)
	for _, f := range frames {
		b, err := f.Append(nil, protocol.Version1)
		require.NoError(t, err)
		require.Equal(t, protocol.ByteCount(len(b)), f.Length(protocol.Version1))
		l, parsed, err := parser.ParseNext(b, protocol.Version1)
		require.NoError(t, err)
		require.Equal(t, len(b), l)
		require.Equal(t, f, parsed)
	}
}

func TestAckFrameRoundTrip(t *testing.T) {
	f := &AckFrame{
		AckRanges: []AckRange{
			{Smallest: 100, Largest: 200},
			{Smallest: 50, Largest: 70},
			{Smallest: 1, Largest: 10},
		},
		DelayTime: 4 * time.Millisecond,
	}
	b, err := f.Append(nil, protocol.Version1)
	require.NoError(t, err)
	require.Equal(t, protocol.ByteCount(len(b)), f.Length(protocol.Version1))

	parser := NewFrameParser(false)
	l, parsed, err := parser.ParseNext(b, protocol.Version1)
	require.NoError(t, err)
	require.Equal(t, len(b), l)
	ack, ok := parsed.(*AckFrame)
	require.True(t, ok)
	require.Equal(t, f.AckRanges, ack.AckRanges)
	require.Equal(t, f.DelayTime, ack.DelayTime)
	require.True(t, ack.HasMissingRanges())
	require.True(t, ack.AcksPacket(55))
	require.False(t, ack.AcksPacket(75))
}

func TestAckFrameRejectsInvalidRanges(t *testing.T) {
	parser := NewFrameParser(false)
	// first ACK range larger than the largest acked
	b := []byte{byte(FrameTypeAck), 10, 0, 0, 11}
	_, _, err := parser.ParseNext(b, protocol.Version1)
	require.Error(t, err)
}

func TestStreamFrameWithoutDataLength(t *testing.T) {
	// a frame without the length bit extends to the end of the packet
	b := []byte{0x8 ^ 0x4}
	b = quicvarint.Append(b, 0x42)
	b = quicvarint.Append(b, 0x1000)
	b = append(b, []byte("foobar")...)
	parser := NewFrameParser(false)
	l, f, err := parser.ParseNext(b, protocol.Version1)
	require.NoError(t, err)
	require.Equal(t, len(b), l)
	sf, ok := f.(*StreamFrame)
	require.True(t, ok)
	require.Equal(t, protocol.StreamID(0x42), sf.StreamID)
	require.Equal(t, protocol.ByteCount(0x1000), sf.Offset)
	require.False(t, sf.DataLenPresent)
	require.Equal(t, []byte("foobar"), sf.Data)
}
