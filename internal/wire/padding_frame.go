package wire

import "github.com/yhcchaos/mvfst-old/internal/protocol"

// A PaddingFrame is a single-byte PADDING frame
type PaddingFrame struct{}

func (f *PaddingFrame) Append(b []byte, _ protocol.Version) ([]byte, error) {
	return append(b, byte(FrameTypePadding)), nil
}

// Length of a written frame
func (f *PaddingFrame) Length(_ protocol.Version) protocol.ByteCount {
	return 1
}
