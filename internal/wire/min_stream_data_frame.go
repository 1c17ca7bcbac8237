package wire

import (
	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// A MinStreamDataFrame informs the peer of the minimum stream offset the
// sender will still retransmit. It is part of the partial reliability
// extension.
type MinStreamDataFrame struct {
	StreamID            protocol.StreamID
	MaximumData         protocol.ByteCount
	MinimumStreamOffset protocol.ByteCount
}

func parseMinStreamDataFrame(b []byte, _ protocol.Version) (*MinStreamDataFrame, int, error) {
	startLen := len(b)
	sid, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]
	maximumData, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]
	minimumStreamOffset, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]

	return &MinStreamDataFrame{
		StreamID:            protocol.StreamID(sid),
		MaximumData:         protocol.ByteCount(maximumData),
		MinimumStreamOffset: protocol.ByteCount(minimumStreamOffset),
	}, startLen - len(b), nil
}

func (f *MinStreamDataFrame) Append(b []byte, _ protocol.Version) ([]byte, error) {
	b = quicvarint.Append(b, uint64(FrameTypeMinStreamData))
	b = quicvarint.Append(b, uint64(f.StreamID))
	b = quicvarint.Append(b, uint64(f.MaximumData))
	b = quicvarint.Append(b, uint64(f.MinimumStreamOffset))
	return b, nil
}

// Length of a written frame
func (f *MinStreamDataFrame) Length(_ protocol.Version) protocol.ByteCount {
	return protocol.ByteCount(quicvarint.Len(uint64(FrameTypeMinStreamData)) + quicvarint.Len(uint64(f.StreamID)) + quicvarint.Len(uint64(f.MaximumData)) + quicvarint.Len(uint64(f.MinimumStreamOffset)))
}
