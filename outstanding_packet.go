package mvfst

import (
	"time"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

// A RegularPacket is the bookkeeping form of a sent packet: its header and the
// frames it carried.
type RegularPacket struct {
	Header wire.PacketHeader
	Frames []wire.Frame
}

// A PacketEvent identifies a group of packets that carry the same data: an
// original packet and all of its PTO-driven clones. It is keyed by the packet
// number of the original packet.
type PacketEvent = protocol.PacketNumber

// An OutstandingPacket is a sent packet that has been neither acked nor
// declared lost.
type OutstandingPacket struct {
	Packet RegularPacket

	Time time.Time
	// EncodedSize is the number of bytes the packet put in flight.
	EncodedSize protocol.ByteCount
	IsHandshake bool

	// AssociatedEvent is set once the packet has been cloned. The packet (or
	// one of its clones) is still outstanding iff the event is in the
	// connection's OutstandingPacketEvents set.
	AssociatedEvent *PacketEvent
}
