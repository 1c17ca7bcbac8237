package mvfst

import (
	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

// A PacketRebuilder re-encodes the still-meaningful frames of an outstanding
// packet into a fresh builder, for a PTO-triggered retransmission.
type PacketRebuilder struct {
	builder *RegularPacketBuilder
	conn    *ConnectionState
}

// NewPacketRebuilder creates a rebuilder writing into the given builder.
func NewPacketRebuilder(builder *RegularPacketBuilder, conn *ConnectionState) *PacketRebuilder {
	return &PacketRebuilder{builder: builder, conn: conn}
}

// HeaderBytes is the header size of the packet being built.
func (r *PacketRebuilder) HeaderBytes() protocol.ByteCount {
	return r.builder.HeaderBytes()
}

// cloneOutstandingPacket mints or reuses the packet event shared by the
// original packet and all of its clones.
func (r *PacketRebuilder) cloneOutstandingPacket(packet *OutstandingPacket) PacketEvent {
	// Either the packet has never been cloned before, or its associated event
	// is still in the outstandingPacketEvents set.
	if packet.AssociatedEvent == nil {
		packetNum := packet.Packet.Header.PacketSequenceNumber()
		event := PacketEvent(packetNum)
		packet.AssociatedEvent = &event
		r.conn.OutstandingPacketEvents[event] = struct{}{}
		r.conn.OutstandingClonedPacketsCount++
	}
	return *packet.AssociatedEvent
}

// RebuildFromPacket walks the frames of an outstanding packet and re-emits the
// ones that still carry meaning. It returns the packet event shared by the
// clone group, or nil if the packet is not worth cloning.
func (r *PacketRebuilder) RebuildFromPacket(packet *OutstandingPacket) *PacketEvent {
	writeSuccess := false
	windowUpdateWritten := false
	shouldWriteWindowUpdate := false
	notPureAck := false
	for _, frame := range packet.Packet.Frames {
		switch f := frame.(type) {
		case *wire.AckFrame:
			ackDelayExponent := uint64(protocol.DefaultAckDelayExponent)
			if _, isShort := r.builder.PacketHeader().(*wire.ShortHeader); isShort {
				ackDelayExponent = r.conn.TransportSettings.AckDelayExponent
			}
			meta := AckFrameMetaData{
				AckBlocks:        f.AckRanges,
				AckDelay:         f.DelayTime,
				AckDelayExponent: ackDelayExponent,
			}
			writeSuccess = WriteAckFrame(meta, r.builder) != nil

		case *wire.WriteStreamFrame:
			stream := r.conn.StreamManager.GetStream(f.StreamID)
			if stream != nil && stream.Retransmittable() {
				streamData := r.cloneStreamRetransmissionBuffer(f, stream)
				var bufferLen protocol.ByteCount
				if streamData != nil {
					bufferLen = protocol.ByteCount(len(streamData))
				}
				dataLen, ok := WriteStreamFrameHeader(r.builder, f.StreamID, f.Offset, bufferLen, bufferLen, f.Fin)
				if ok && dataLen == f.Len {
					WriteStreamFrameData(r.builder, streamData, dataLen)
					notPureAck = true
					writeSuccess = true
					break
				}
				writeSuccess = false
				break
			}
			// The stream is gone or reset: nothing to resend, but that doesn't
			// invalidate the rest of the packet.
			writeSuccess = true

		case *wire.WriteCryptoFrame:
			// Initial and handshake crypto data only lives in handshake
			// packets, which are not cloneable.
			stream := &r.conn.CryptoState.OneRTTStream
			buf := cloneCryptoRetransmissionBuffer(f, stream)
			if buf == nil {
				// the crypto stream was cancelled, skip the frame
				writeSuccess = true
				break
			}
			res := WriteCryptoFrame(f.Offset, buf, r.builder)
			ok := res != nil && res.Offset == f.Offset && res.Len == f.Len
			notPureAck = notPureAck || ok
			writeSuccess = ok

		case *wire.MaxDataFrame:
			shouldWriteWindowUpdate = true
			ok := WriteFrame(generateMaxDataFrame(r.conn), r.builder) != 0
			windowUpdateWritten = windowUpdateWritten || ok
			notPureAck = notPureAck || ok
			writeSuccess = true

		case *wire.MaxStreamDataFrame:
			stream := r.conn.StreamManager.GetStream(f.StreamID)
			if stream == nil || !stream.ShouldSendFlowControl() {
				writeSuccess = true
				break
			}
			shouldWriteWindowUpdate = true
			ok := WriteFrame(generateMaxStreamDataFrame(stream), r.builder) != 0
			windowUpdateWritten = windowUpdateWritten || ok
			notPureAck = notPureAck || ok
			writeSuccess = true

		case *wire.PaddingFrame:
			writeSuccess = WriteFrame(f, r.builder) != 0

		case wire.SimpleFrame:
			updated := UpdateSimpleFrameOnPacketClone(r.conn, f)
			if updated == nil {
				writeSuccess = true
				break
			}
			ok := WriteSimpleFrame(updated, r.builder) != 0
			notPureAck = notPureAck || ok
			writeSuccess = ok

		default:
			ok := WriteFrame(frame, r.builder) != 0
			notPureAck = notPureAck || ok
			writeSuccess = ok
		}
		if !writeSuccess {
			return nil
		}
	}
	// There is no point in cloning if:
	// (1) we only ended up cloning acks and paddings.
	// (2) we should write a window update, but didn't, and wrote nothing else.
	if !notPureAck || (shouldWriteWindowUpdate && !windowUpdateWritten && !writeSuccess) {
		return nil
	}
	event := r.cloneOutstandingPacket(packet)
	return &event
}

// cloneCryptoRetransmissionBuffer looks up the original crypto chunk.
//
// Crypto data leaves the retransmission buffer when the carrying packet is
// acked or declared lost; both mean this packet must not be cloned anymore,
// so a missing chunk is treated as a cancelled stream.
func cloneCryptoRetransmissionBuffer(frame *wire.WriteCryptoFrame, stream *CryptoStream) []byte {
	buf, ok := stream.RetransmissionBuffer[frame.Offset]
	if !ok {
		return nil
	}
	return buf.Data
}

// cloneStreamRetransmissionBuffer looks up the original stream chunk.
//
// Stream data leaves the retransmission buffer on RST, on ack, on loss, and
// when a received MIN_STREAM_DATA skips past it. The first case is excluded by
// the Retransmittable check; for the others the chunk no longer matches the
// original frame. No match returns nil, and RebuildFromPacket then gives up
// on the whole packet.
func (r *PacketRebuilder) cloneStreamRetransmissionBuffer(frame *wire.WriteStreamFrame, stream *StreamState) []byte {
	buf, ok := stream.RetransmissionBuffer[frame.Offset]
	if !ok {
		return nil
	}
	if !streamFrameMatchesRetransmitBuffer(frame, buf) {
		return nil
	}
	if frame.Len == 0 {
		return nil
	}
	return buf.Data
}

// streamFrameMatchesRetransmitBuffer requires offset, length and FIN to still
// agree. A buffer truncated by partial reliability fails the match and the
// frame is skipped.
func streamFrameMatchesRetransmitBuffer(frame *wire.WriteStreamFrame, buf *StreamBuffer) bool {
	return buf.Offset == frame.Offset &&
		protocol.ByteCount(len(buf.Data)) == frame.Len &&
		buf.Fin == frame.Fin
}
