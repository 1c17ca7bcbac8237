package wire

import (
	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// A Frame in QUIC.
// All frames that can be serialized implement this interface.
type Frame interface {
	Append(b []byte, version protocol.Version) ([]byte, error)
	Length(version protocol.Version) protocol.ByteCount
}

// A SimpleFrame is one of the retransmittable control frames whose lifecycle
// (send, ack, loss, clone, receive) is managed by a shared processor.
type SimpleFrame interface {
	Frame
	isSimpleFrame()
}

func (*PingFrame) isSimpleFrame()               {}
func (*StopSendingFrame) isSimpleFrame()        {}
func (*MinStreamDataFrame) isSimpleFrame()      {}
func (*ExpiredStreamDataFrame) isSimpleFrame()  {}
func (*PathChallengeFrame) isSimpleFrame()      {}
func (*PathResponseFrame) isSimpleFrame()       {}
func (*NewConnectionIDFrame) isSimpleFrame()    {}
func (*MaxStreamsFrame) isSimpleFrame()         {}
func (*RetireConnectionIDFrame) isSimpleFrame() {}
