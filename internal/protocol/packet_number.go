package protocol

// EncodePacketNumber determines the minimum length the packet number needs to
// be encoded with, such that the peer can recover it from the largest packet
// number acknowledged in the same packet number space.
func EncodePacketNumber(pn, largestAcked PacketNumber) (PacketNumber /* truncated */, PacketNumberLen) {
	var twiceDistance uint64
	if largestAcked == InvalidPacketNumber {
		// If no packet was acknowledged yet, the full packet number must be recoverable.
		twiceDistance = 2*uint64(pn) + 1
	} else {
		twiceDistance = 2 * uint64(pn-largestAcked)
	}
	var l PacketNumberLen
	switch {
	case twiceDistance < 1<<8:
		l = PacketNumberLen1
	case twiceDistance < 1<<16:
		l = PacketNumberLen2
	case twiceDistance < 1<<24:
		l = PacketNumberLen3
	default:
		l = PacketNumberLen4
	}
	return pn & (1<<(8*l) - 1), l
}

// DecodePacketNumber calculates the packet number based its length and its truncated value.
// This function is taken from https://www.rfc-editor.org/rfc/rfc9000.html#section-a.3.
func DecodePacketNumber(length PacketNumberLen, largest PacketNumber, truncated PacketNumber) PacketNumber {
	expected := largest + 1
	win := PacketNumber(1 << (length * 8))
	hwin := win / 2
	mask := win - 1
	candidate := (expected & ^mask) | truncated
	if candidate <= expected-hwin && candidate < 1<<62-win {
		return candidate + win
	}
	if candidate > expected+hwin && candidate >= win {
		return candidate - win
	}
	return candidate
}
