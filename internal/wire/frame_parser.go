package wire

import (
	"errors"
	"io"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/qerr"
	"github.com/yhcchaos/mvfst-old/quicvarint"
)

// A FrameParser parses the frames of a QUIC packet.
type FrameParser struct {
	ackDelayExponent           uint8
	supportsPartialReliability bool
}

// NewFrameParser creates a new frame parser.
func NewFrameParser(supportsPartialReliability bool) *FrameParser {
	return &FrameParser{
		ackDelayExponent:           protocol.DefaultAckDelayExponent,
		supportsPartialReliability: supportsPartialReliability,
	}
}

// SetAckDelayExponent sets the acknowledgment delay exponent (sent in the transport parameters).
// This value is used to scale the DelayTime field of the ACK frame.
func (p *FrameParser) SetAckDelayExponent(exp uint8) {
	p.ackDelayExponent = exp
}

// ParseNext parses the next frame.
// It skips PADDING frames.
func (p *FrameParser) ParseNext(data []byte, v protocol.Version) (int, Frame, error) {
	frame, l, err := p.parseNext(data, v)
	return l, frame, err
}

func (p *FrameParser) parseNext(b []byte, v protocol.Version) (Frame, int, error) {
	var parsed int
	for len(b) != 0 {
		typ, l, err := quicvarint.Parse(b)
		if err != nil {
			return nil, parsed, &qerr.TransportError{
				ErrorCode:    qerr.FrameEncodingError,
				ErrorMessage: err.Error(),
			}
		}
		b = b[l:]
		parsed += l
		if typ == uint64(FrameTypePadding) {
			continue
		}

		f, l, err := p.parseFrame(b, FrameType(typ), v)
		if err != nil {
			return nil, parsed, &qerr.TransportError{
				FrameType:    typ,
				ErrorCode:    qerr.FrameEncodingError,
				ErrorMessage: err.Error(),
			}
		}
		return f, parsed + l, nil
	}
	return nil, parsed, nil
}

func (p *FrameParser) parseFrame(b []byte, typ FrameType, v protocol.Version) (Frame, int, error) {
	var frame Frame
	var l int
	var err error
	switch {
	case typ.IsStreamFrameType():
		frame, l, err = parseStreamFrame(b, typ, v)
	case typ.IsAckFrameType():
		ackFrame := &AckFrame{}
		l, err = parseAckFrame(ackFrame, b, typ, p.ackDelayExponent, v)
		frame = ackFrame
	default:
		switch typ {
		case FrameTypePing:
			frame = &PingFrame{}
		case FrameTypeResetStream:
			frame, l, err = parseResetStreamFrame(b, v)
		case FrameTypeStopSending:
			frame, l, err = parseStopSendingFrame(b, v)
		case FrameTypeCrypto:
			frame, l, err = parseCryptoFrame(b, v)
		case FrameTypeNewToken:
			frame, l, err = parseNewTokenFrame(b, v)
		case FrameTypeMaxData:
			frame, l, err = parseMaxDataFrame(b, v)
		case FrameTypeMaxStreamData:
			frame, l, err = parseMaxStreamDataFrame(b, v)
		case FrameTypeBidiMaxStreams, FrameTypeUniMaxStreams:
			frame, l, err = parseMaxStreamsFrame(b, typ, v)
		case FrameTypeDataBlocked:
			frame, l, err = parseDataBlockedFrame(b, v)
		case FrameTypeStreamDataBlocked:
			frame, l, err = parseStreamDataBlockedFrame(b, v)
		case FrameTypeBidiStreamsBlocked, FrameTypeUniStreamsBlocked:
			frame, l, err = parseStreamsBlockedFrame(b, typ, v)
		case FrameTypeNewConnectionID:
			frame, l, err = parseNewConnectionIDFrame(b, v)
		case FrameTypeRetireConnectionID:
			frame, l, err = parseRetireConnectionIDFrame(b, v)
		case FrameTypePathChallenge:
			frame, l, err = parsePathChallengeFrame(b, v)
		case FrameTypePathResponse:
			frame, l, err = parsePathResponseFrame(b, v)
		case FrameTypeConnectionClose, FrameTypeApplicationClose:
			frame, l, err = parseConnectionCloseFrame(b, typ, v)
		case FrameTypeMinStreamData:
			if !p.supportsPartialReliability {
				err = errUnknownFrameType
				break
			}
			frame, l, err = parseMinStreamDataFrame(b, v)
		case FrameTypeExpiredStreamData:
			if !p.supportsPartialReliability {
				err = errUnknownFrameType
				break
			}
			frame, l, err = parseExpiredStreamDataFrame(b, v)
		default:
			err = errUnknownFrameType
		}
	}
	if err != nil {
		return nil, 0, err
	}
	return frame, l, nil
}

var errUnknownFrameType = errors.New("unknown frame type")

// IsFrameAckEliciting returns true if the frame is ack-eliciting.
func IsFrameAckEliciting(f Frame) bool {
	_, isAck := f.(*AckFrame)
	_, isConnectionClose := f.(*ConnectionCloseFrame)
	_, isPadding := f.(*PaddingFrame)
	return !isAck && !isConnectionClose && !isPadding
}

func replaceUnexpectedEOF(e error) error {
	if e == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return e
}
