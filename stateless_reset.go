package mvfst

import (
	"crypto/rand"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

// BuildStatelessResetPacket builds a stateless reset: a short-header-looking
// packet made of random bytes and terminated by the reset token. The random
// bytes come from a cryptographically secure source so the packet is
// indistinguishable from a regular 1-RTT packet.
func BuildStatelessResetPacket(maxPacketSize protocol.ByteCount, token protocol.StatelessResetToken) ([]byte, error) {
	// TODO: randomize the length
	randomOctetLength := int(maxPacketSize) - len(token) - 1
	data := make([]byte, 1+randomOctetLength+len(token))
	data[0] = wire.FixedBitMask
	if _, err := rand.Read(data[1 : 1+randomOctetLength]); err != nil {
		return nil, err
	}
	copy(data[1+randomOctetLength:], token[:])
	return data, nil
}
