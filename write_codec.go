package mvfst

import (
	"time"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// AckFrameMetaData describes the ACK frame to write: the blocks, the delay,
// and the exponent the delay is scaled with on the wire.
type AckFrameMetaData struct {
	// AckBlocks are ordered largest range first.
	AckBlocks        []wire.AckRange
	AckDelay         time.Duration
	AckDelayExponent uint64
}

// AckFrameWriteResult reports what part of the metadata fit into the packet.
type AckFrameWriteResult struct {
	BytesWritten protocol.ByteCount
	WrittenFrame *wire.AckFrame
}

// WriteFrame writes a fully self-contained frame into the builder.
// It returns the number of bytes written, 0 if the frame didn't fit.
func WriteFrame(frame wire.Frame, builder *RegularPacketBuilder) protocol.ByteCount {
	frameLen := frame.Length(builder.Version())
	if frameLen > builder.RemainingSpace() {
		return 0
	}
	encoded, err := frame.Append(nil, builder.Version())
	if err != nil {
		return 0
	}
	builder.Push(encoded)
	builder.AppendFrame(frame)
	return protocol.ByteCount(len(encoded))
}

// WriteSimpleFrame writes one of the simple control frames into the builder.
func WriteSimpleFrame(frame wire.SimpleFrame, builder *RegularPacketBuilder) protocol.ByteCount {
	return WriteFrame(frame, builder)
}

// WriteAckFrame writes as many of the ACK blocks as fit into the packet,
// starting with the largest. It returns nil if not even the first block fits.
func WriteAckFrame(meta AckFrameMetaData, builder *RegularPacketBuilder) *AckFrameWriteResult {
	if len(meta.AckBlocks) == 0 {
		return nil
	}
	spaceLeft := builder.RemainingSpace()
	largestAcked := meta.AckBlocks[0].Largest
	delay := encodeAckDelayWithExponent(meta.AckDelay, meta.AckDelayExponent)
	firstBlockLen := uint64(meta.AckBlocks[0].Largest - meta.AckBlocks[0].Smallest)

	// type byte + largest acked + delay + block count + first block
	headerSize := protocol.ByteCount(1 +
		quicvarint.Len(uint64(largestAcked)) +
		quicvarint.Len(delay) +
		quicvarint.Len(uint64(len(meta.AckBlocks)-1)) +
		quicvarint.Len(firstBlockLen))
	if headerSize > spaceLeft {
		return nil
	}
	spaceLeft -= headerSize

	written := &wire.AckFrame{
		AckRanges: []wire.AckRange{meta.AckBlocks[0]},
		DelayTime: meta.AckDelay,
	}
	prevSmallest := meta.AckBlocks[0].Smallest
	var extraBlocks []byte
	for _, block := range meta.AckBlocks[1:] {
		gap := uint64(prevSmallest - block.Largest - 2)
		blockLen := uint64(block.Largest - block.Smallest)
		need := protocol.ByteCount(quicvarint.Len(gap) + quicvarint.Len(blockLen))
		if need > spaceLeft {
			break
		}
		extraBlocks = quicvarint.Append(extraBlocks, gap)
		extraBlocks = quicvarint.Append(extraBlocks, blockLen)
		spaceLeft -= need
		written.AckRanges = append(written.AckRanges, block)
		prevSmallest = block.Smallest
	}

	builder.WriteByte(byte(wire.FrameTypeAck))
	builder.WriteVarint(uint64(largestAcked))
	builder.WriteVarint(delay)
	builder.WriteVarint(uint64(len(written.AckRanges) - 1))
	builder.WriteVarint(firstBlockLen)
	if len(extraBlocks) > 0 {
		builder.Push(extraBlocks)
	}
	builder.AppendFrame(written)

	numBlocksLenDelta := protocol.ByteCount(quicvarint.Len(uint64(len(meta.AckBlocks)-1)) -
		quicvarint.Len(uint64(len(written.AckRanges)-1)))
	return &AckFrameWriteResult{
		BytesWritten: headerSize - numBlocksLenDelta + protocol.ByteCount(len(extraBlocks)),
		WrittenFrame: written,
	}
}

func encodeAckDelayWithExponent(delay time.Duration, exponent uint64) uint64 {
	return uint64(delay.Microseconds()) >> exponent
}

// WriteStreamFrameHeader writes a STREAM frame header and records the frame.
// It returns the number of payload bytes the caller must append with
// WriteStreamFrameData, and false if not even one byte (or a bare FIN) fits.
func WriteStreamFrameHeader(
	builder *RegularPacketBuilder,
	id protocol.StreamID,
	offset protocol.ByteCount,
	writeBufferLen protocol.ByteCount,
	flowControlLen protocol.ByteCount,
	fin bool,
) (protocol.ByteCount, bool) {
	spaceLeft := builder.RemainingSpace()
	headerLen := protocol.ByteCount(1 + quicvarint.Len(uint64(id)))
	if offset != 0 {
		headerLen += protocol.ByteCount(quicvarint.Len(uint64(offset)))
	}
	if spaceLeft <= headerLen {
		return 0, false
	}

	dataLen := min(writeBufferLen, flowControlLen)
	// The length field is always present, so the frame doesn't have to be the
	// last one in the packet. Its size depends on the amount of data written,
	// so shrink until it is consistent.
	lenFieldLen := protocol.ByteCount(quicvarint.Len(uint64(dataLen)))
	if dataLen > spaceLeft-headerLen-lenFieldLen {
		dataLen = max(spaceLeft-headerLen-lenFieldLen, 0)
		lenFieldLen = protocol.ByteCount(quicvarint.Len(uint64(dataLen)))
		if dataLen > spaceLeft-headerLen-lenFieldLen {
			dataLen = max(spaceLeft-headerLen-lenFieldLen, 0)
		}
	}
	// FIN is only carried when the whole remainder of the stream fits.
	writtenFin := fin && dataLen == writeBufferLen
	if dataLen == 0 && !writtenFin {
		return 0, false
	}

	frame := &wire.WriteStreamFrame{
		StreamID:       id,
		Offset:         offset,
		Len:            dataLen,
		Fin:            writtenFin,
		DataLenPresent: true,
	}
	encoded, err := frame.Append(nil, builder.Version())
	if err != nil {
		return 0, false
	}
	builder.Push(encoded)
	builder.AppendFrame(frame)
	return dataLen, true
}

// WriteStreamFrameData appends the payload bytes of the preceding
// WriteStreamFrameHeader call.
func WriteStreamFrameData(builder *RegularPacketBuilder, data []byte, dataLen protocol.ByteCount) {
	builder.Push(data[:dataLen])
}

// WriteCryptoFrame writes a CRYPTO frame carrying as much of data as fits.
// It returns the bookkeeping frame, or nil if nothing fit.
func WriteCryptoFrame(offset protocol.ByteCount, data []byte, builder *RegularPacketBuilder) *wire.WriteCryptoFrame {
	spaceLeft := builder.RemainingSpace()
	headerLen := protocol.ByteCount(1 + quicvarint.Len(uint64(offset)))
	if spaceLeft <= headerLen {
		return nil
	}
	dataLen := protocol.ByteCount(len(data))
	lenFieldLen := protocol.ByteCount(quicvarint.Len(uint64(dataLen)))
	if dataLen > spaceLeft-headerLen-lenFieldLen {
		dataLen = max(spaceLeft-headerLen-lenFieldLen, 0)
		lenFieldLen = protocol.ByteCount(quicvarint.Len(uint64(dataLen)))
		if dataLen > spaceLeft-headerLen-lenFieldLen {
			dataLen = max(spaceLeft-headerLen-lenFieldLen, 0)
		}
	}
	if dataLen == 0 {
		return nil
	}
	frame := &wire.WriteCryptoFrame{Offset: offset, Len: dataLen}
	encoded, err := frame.Append(nil, builder.Version())
	if err != nil {
		return nil
	}
	builder.Push(encoded)
	builder.Push(data[:dataLen])
	builder.AppendFrame(frame)
	return frame
}
