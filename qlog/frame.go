package qlog

import (
	"fmt"

	"github.com/francoispqt/gojay"

	"github.com/yhcchaos/mvfst-old/internal/wire"
)

type frame struct {
	Frame wire.Frame
}

var _ gojay.MarshalerJSONObject = frame{}

var _ gojay.MarshalerJSONArray = frames{}

type frames []frame

func (fs frames) IsNil() bool { return fs == nil }
func (fs frames) MarshalJSONArray(enc *gojay.Encoder) {
	for _, f := range fs {
		enc.Object(f)
	}
}

func (f frame) IsNil() bool { return false }
func (f frame) MarshalJSONObject(enc *gojay.Encoder) {
	switch fr := f.Frame.(type) {
	case *wire.PingFrame:
		enc.StringKey("frame_type", "ping")
	case *wire.PaddingFrame:
		enc.StringKey("frame_type", "padding")
	case *wire.AckFrame:
		enc.StringKey("frame_type", "ack")
		enc.Float64Key("ack_delay", float64(fr.DelayTime.Microseconds())/1e3)
		enc.ArrayKey("acked_ranges", ackRanges(fr.AckRanges))
	case *wire.StreamFrame:
		enc.StringKey("frame_type", "stream")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("offset", uint64(fr.Offset))
		enc.Uint64Key("length", uint64(fr.DataLen()))
		enc.BoolKeyOmitEmpty("fin", fr.Fin)
	case *wire.WriteStreamFrame:
		enc.StringKey("frame_type", "stream")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("offset", uint64(fr.Offset))
		enc.Uint64Key("length", uint64(fr.Len))
		enc.BoolKeyOmitEmpty("fin", fr.Fin)
	case *wire.CryptoFrame:
		enc.StringKey("frame_type", "crypto")
		enc.Uint64Key("offset", uint64(fr.Offset))
		enc.Uint64Key("length", uint64(len(fr.Data)))
	case *wire.WriteCryptoFrame:
		enc.StringKey("frame_type", "crypto")
		enc.Uint64Key("offset", uint64(fr.Offset))
		enc.Uint64Key("length", uint64(fr.Len))
	case *wire.ResetStreamFrame:
		enc.StringKey("frame_type", "rst_stream")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("error_code", uint64(fr.ErrorCode))
		enc.Uint64Key("offset", uint64(fr.FinalSize))
	case *wire.StopSendingFrame:
		enc.StringKey("frame_type", "stop_sending")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("error_code", uint64(fr.ErrorCode))
	case *wire.MaxDataFrame:
		enc.StringKey("frame_type", "max_data")
		enc.Uint64Key("maximum", uint64(fr.MaximumData))
	case *wire.MaxStreamDataFrame:
		enc.StringKey("frame_type", "max_stream_data")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("maximum", uint64(fr.MaximumStreamData))
	case *wire.MaxStreamsFrame:
		enc.StringKey("frame_type", "max_streams")
		enc.Uint64Key("maximum", uint64(fr.MaxStreamNum))
	case *wire.DataBlockedFrame:
		enc.StringKey("frame_type", "data_blocked")
		enc.Uint64Key("limit", uint64(fr.MaximumData))
	case *wire.StreamDataBlockedFrame:
		enc.StringKey("frame_type", "stream_data_blocked")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("limit", uint64(fr.MaximumStreamData))
	case *wire.StreamsBlockedFrame:
		enc.StringKey("frame_type", "streams_blocked")
		enc.Uint64Key("limit", uint64(fr.StreamLimit))
	case *wire.NewConnectionIDFrame:
		enc.StringKey("frame_type", "new_connection_id")
		enc.Uint64Key("sequence_number", fr.SequenceNumber)
		enc.Uint64Key("retire_prior_to", fr.RetirePriorTo)
		enc.StringKey("connection_id", connectionID(fr.ConnectionID).String())
	case *wire.RetireConnectionIDFrame:
		enc.StringKey("frame_type", "retire_connection_id")
		enc.Uint64Key("sequence_number", fr.SequenceNumber)
	case *wire.PathChallengeFrame:
		enc.StringKey("frame_type", "path_challenge")
		enc.StringKey("path_data", fmt.Sprintf("%x", fr.Data))
	case *wire.PathResponseFrame:
		enc.StringKey("frame_type", "path_response")
		enc.StringKey("path_data", fmt.Sprintf("%x", fr.Data))
	case *wire.NewTokenFrame:
		enc.StringKey("frame_type", "new_token")
		enc.ObjectKey("token", token{Raw: fr.Token})
	case *wire.MinStreamDataFrame:
		enc.StringKey("frame_type", "min_stream_data")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("maximum_data", uint64(fr.MaximumData))
		enc.Uint64Key("minimum_stream_offset", uint64(fr.MinimumStreamOffset))
	case *wire.ExpiredStreamDataFrame:
		enc.StringKey("frame_type", "expired_stream_data")
		enc.Uint64Key("stream_id", uint64(fr.StreamID))
		enc.Uint64Key("minimum_stream_offset", uint64(fr.MinimumStreamOffset))
	case *wire.ConnectionCloseFrame:
		enc.StringKey("frame_type", "connection_close")
		if fr.IsApplicationError {
			enc.StringKey("error_space", "application")
		} else {
			enc.StringKey("error_space", "transport")
		}
		enc.Uint64Key("error_code", fr.ErrorCode)
		enc.StringKey("reason", fr.ReasonPhrase)
	default:
		enc.StringKey("frame_type", "unknown")
	}
}

type ackRanges []wire.AckRange

func (rs ackRanges) IsNil() bool { return rs == nil }
func (rs ackRanges) MarshalJSONArray(enc *gojay.Encoder) {
	for _, r := range rs {
		enc.Array(ackRange(r))
	}
}

type ackRange wire.AckRange

func (r ackRange) IsNil() bool { return false }
func (r ackRange) MarshalJSONArray(enc *gojay.Encoder) {
	enc.Int64(int64(r.Smallest))
	enc.Int64(int64(r.Largest))
}
