package mvfst

import (
	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

// StreamSendState is the state of the sending part of a stream.
type StreamSendState uint8

const (
	// StreamSendStateOpen allows sending and retransmitting data.
	StreamSendStateOpen StreamSendState = iota
	// StreamSendStateResetSent is entered after sending RST_STREAM.
	StreamSendStateResetSent
	// StreamSendStateClosed is a terminal state.
	StreamSendStateClosed
)

// A StreamBuffer is a contiguous chunk of stream data kept for retransmission.
type StreamBuffer struct {
	Offset protocol.ByteCount
	Data   []byte
	Fin    bool
}

// StreamFlowControlState tracks the receive window of a stream.
type StreamFlowControlState struct {
	// AdvertisedMaxOffset is the limit last sent to the peer.
	AdvertisedMaxOffset protocol.ByteCount
	// CurReadOffset is how far the application has consumed.
	CurReadOffset protocol.ByteCount
	// WindowSize is the receive window granted on top of CurReadOffset.
	WindowSize protocol.ByteCount
}

// StreamState is the per-stream state the transmission pipeline touches.
// The full stream machinery lives in the stream manager.
type StreamState struct {
	ID protocol.StreamID

	SendState StreamSendState

	// RetransmissionBuffer maps the start offset of a chunk to its data.
	// A chunk is removed when it is acked, declared lost, or skipped by a
	// received MIN_STREAM_DATA.
	RetransmissionBuffer map[protocol.ByteCount]*StreamBuffer

	FlowControl StreamFlowControlState

	// CurrentReceiveOffset is the lowest offset the receiving part still
	// expects (partial reliability moves it forward).
	CurrentReceiveOffset protocol.ByteCount
	// MinimumRetransmittableOffset is the lowest offset the sending part still
	// retransmits (partial reliability moves it forward).
	MinimumRetransmittableOffset protocol.ByteCount
}

// Retransmittable says if stream data may still be (re)sent on this stream.
func (s *StreamState) Retransmittable() bool {
	return s.SendState == StreamSendStateOpen
}

// ShouldSendFlowControl says if the stream wants a window update sent to the peer.
func (s *StreamState) ShouldSendFlowControl() bool {
	available := s.FlowControl.AdvertisedMaxOffset - s.FlowControl.CurReadOffset
	return s.Retransmittable() && available < s.FlowControl.WindowSize/2
}

// NextMaxStreamData derives a fresh flow control limit from the current state.
func (s *StreamState) NextMaxStreamData() protocol.ByteCount {
	return s.FlowControl.CurReadOffset + s.FlowControl.WindowSize
}

// A StreamManager owns all streams of a connection.
// The transmission pipeline only needs lookups and limit updates.
type StreamManager interface {
	StreamExists(id protocol.StreamID) bool
	// GetStream returns nil if the stream doesn't exist (e.g. it was closed and
	// garbage collected).
	GetStream(id protocol.StreamID) *StreamState
	SetMaxLocalBidirectionalStreams(n protocol.StreamNum)
	SetMaxLocalUnidirectionalStreams(n protocol.StreamNum)
	// OnStopSending invokes the stream state machine handler for a received
	// STOP_SENDING frame.
	OnStopSending(f *wire.StopSendingFrame)
}

// A CryptoStream is the retransmission state of one crypto stream.
type CryptoStream struct {
	RetransmissionBuffer map[protocol.ByteCount]*StreamBuffer
}

// CryptoState holds the three crypto streams.
// Only the 1-RTT stream is clonable; Initial and Handshake data lives in
// handshake packets, which are never rebuilt.
type CryptoState struct {
	InitialStream   CryptoStream
	HandshakeStream CryptoStream
	OneRTTStream    CryptoStream
}
