package wire

import (
	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// An ExpiredStreamDataFrame informs the peer that data below the carried
// offset will not be retransmitted. It is part of the partial reliability
// extension.
type ExpiredStreamDataFrame struct {
	StreamID            protocol.StreamID
	MinimumStreamOffset protocol.ByteCount
}

func parseExpiredStreamDataFrame(b []byte, _ protocol.Version) (*ExpiredStreamDataFrame, int, error) {
	startLen := len(b)
	sid, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]
	minimumStreamOffset, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]

	return &ExpiredStreamDataFrame{
		StreamID:            protocol.StreamID(sid),
		MinimumStreamOffset: protocol.ByteCount(minimumStreamOffset),
	}, startLen - len(b), nil
}

func (f *ExpiredStreamDataFrame) Append(b []byte, _ protocol.Version) ([]byte, error) {
	b = quicvarint.Append(b, uint64(FrameTypeExpiredStreamData))
	b = quicvarint.Append(b, uint64(f.StreamID))
	b = quicvarint.Append(b, uint64(f.MinimumStreamOffset))
	return b, nil
}

// Length of a written frame
func (f *ExpiredStreamDataFrame) Length(_ protocol.Version) protocol.ByteCount {
	return protocol.ByteCount(quicvarint.Len(uint64(FrameTypeExpiredStreamData)) + quicvarint.Len(uint64(f.StreamID)) + quicvarint.Len(uint64(f.MinimumStreamOffset)))
}
