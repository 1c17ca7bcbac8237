package wire

import (
	"encoding/binary"
	"errors"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// A VersionNegotiationPacket is the parsed form of a version negotiation packet.
type VersionNegotiationPacket struct {
	SrcConnectionID  protocol.ConnectionID
	DestConnectionID protocol.ConnectionID
	Versions         []protocol.Version
}

// ComposeVersionNegotiation composes a Version Negotiation packet.
// Versions that don't fit into the maximum packet size are dropped.
func ComposeVersionNegotiation(srcConnID, destConnID protocol.ConnectionID, versions []protocol.Version) []byte {
	remainingBytes := protocol.MaxPacketBufferSize
	buf := make([]byte, 0, 1+4+1+destConnID.Len()+1+srcConnID.Len()+4*len(versions))
	buf = append(buf, generatePacketType())
	remainingBytes--
	buf = binary.BigEndian.AppendUint32(buf, uint32(protocol.VersionNegotiation))
	remainingBytes -= 4
	buf = append(buf, uint8(destConnID.Len()))
	buf = append(buf, destConnID.Bytes()...)
	remainingBytes -= protocol.ByteCount(1 + destConnID.Len())
	buf = append(buf, uint8(srcConnID.Len()))
	buf = append(buf, srcConnID.Bytes()...)
	remainingBytes -= protocol.ByteCount(1 + srcConnID.Len())
	for _, v := range versions {
		if remainingBytes < 4 {
			break
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		remainingBytes -= 4
	}
	return buf
}

func generatePacketType() uint8 {
	// TODO: change this back to generating a random packet type after the
	// post-draft-13 rollout. For now the type byte is fixed: only the header
	// form bit is set.
	return HeaderFormMask
}

// ParseVersionNegotiationPacket parses a Version Negotiation packet.
func ParseVersionNegotiationPacket(b []byte) (*VersionNegotiationPacket, error) {
	if !IsVersionNegotiationPacket(b) {
		return nil, errors.New("not a version negotiation packet")
	}
	b = b[5:]
	p := &VersionNegotiationPacket{}
	var err error
	p.DestConnectionID, b, err = readConnectionIDWithLen(b)
	if err != nil {
		return nil, err
	}
	p.SrcConnectionID, b, err = readConnectionIDWithLen(b)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, errors.New("version negotiation packet has no supported versions")
	}
	for len(b) > 0 {
		p.Versions = append(p.Versions, protocol.Version(binary.BigEndian.Uint32(b)))
		b = b[4:]
	}
	return p, nil
}
