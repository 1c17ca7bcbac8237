package wire

import (
	"errors"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// A CryptoFrame is a CRYPTO frame as produced by the parser.
// It owns its payload bytes.
type CryptoFrame struct {
	Offset protocol.ByteCount
	Data   []byte
}

func parseCryptoFrame(b []byte, _ protocol.Version) (*CryptoFrame, int, error) {
	startLen := len(b)
	offset, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]
	frame := &CryptoFrame{Offset: protocol.ByteCount(offset)}
	dataLen, l, err := quicvarint.Parse(b)
	if err != nil {
		return nil, 0, replaceUnexpectedEOF(err)
	}
	b = b[l:]
	if dataLen > uint64(len(b)) {
		return nil, 0, errors.New("CRYPTO frame too large")
	}
	if dataLen != 0 {
		frame.Data = make([]byte, dataLen)
		copy(frame.Data, b)
	}
	return frame, startLen - len(b) + int(dataLen), nil
}

func (f *CryptoFrame) Append(b []byte, _ protocol.Version) ([]byte, error) {
	b = append(b, byte(FrameTypeCrypto))
	b = quicvarint.Append(b, uint64(f.Offset))
	b = quicvarint.Append(b, uint64(len(f.Data)))
	b = append(b, f.Data...)
	return b, nil
}

// Length of a written frame
func (f *CryptoFrame) Length(_ protocol.Version) protocol.ByteCount {
	return protocol.ByteCount(1 + quicvarint.Len(uint64(f.Offset)) + quicvarint.Len(uint64(len(f.Data))) + len(f.Data))
}

// A WriteCryptoFrame is the bookkeeping form of a CRYPTO frame: it records only
// offset and length, the bytes live in the crypto stream's retransmission buffer.
type WriteCryptoFrame struct {
	Offset protocol.ByteCount
	Len    protocol.ByteCount
}

// Length of a written frame, including the payload that will be appended separately.
func (f *WriteCryptoFrame) Length(_ protocol.Version) protocol.ByteCount {
	return protocol.ByteCount(1+quicvarint.Len(uint64(f.Offset))+quicvarint.Len(uint64(f.Len))) + f.Len
}

// Append writes the frame header. The payload bytes are appended by the caller.
func (f *WriteCryptoFrame) Append(b []byte, _ protocol.Version) ([]byte, error) {
	b = append(b, byte(FrameTypeCrypto))
	b = quicvarint.Append(b, uint64(f.Offset))
	b = quicvarint.Append(b, uint64(f.Len))
	return b, nil
}
