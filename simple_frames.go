package mvfst

import (
	"time"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/qerr"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

// SendSimpleFrame schedules a simple frame for the next write.
func SendSimpleFrame(conn *ConnectionState, frame wire.SimpleFrame) {
	conn.PendingEvents.Frames = append(conn.PendingEvents.Frames, frame)
}

// UpdateSimpleFrameOnAck handles a simple frame being acknowledged.
func UpdateSimpleFrameOnAck(conn *ConnectionState, frame wire.SimpleFrame) {
	if _, isPing := frame.(*wire.PingFrame); isPing {
		conn.PendingEvents.CancelPingTimeout = true
	}
}

// UpdateSimpleFrameOnPacketClone decides if a simple frame is still worth
// carrying in a clone. It returns nil when the frame's referent disappeared.
func UpdateSimpleFrameOnPacketClone(conn *ConnectionState, frame wire.SimpleFrame) wire.SimpleFrame {
	switch f := frame.(type) {
	case *wire.PingFrame:
		return frame
	case *wire.StopSendingFrame:
		if !conn.StreamManager.StreamExists(f.StreamID) {
			return nil
		}
		return frame
	case *wire.MinStreamDataFrame:
		if !conn.StreamManager.StreamExists(f.StreamID) {
			return nil
		}
		return frame
	case *wire.ExpiredStreamDataFrame:
		if !conn.StreamManager.StreamExists(f.StreamID) {
			return nil
		}
		return frame
	case *wire.PathChallengeFrame:
		// The validation timer expired and validation failed, or a different
		// validation was scheduled in the meantime.
		if conn.OutstandingPathValidation == nil || *f != *conn.OutstandingPathValidation {
			return nil
		}
		return frame
	case *wire.PathResponseFrame:
		// Do not clone PATH_RESPONSE to avoid buffering
		return nil
	default:
		// NEW_CONNECTION_ID, MAX_STREAMS, RETIRE_CONNECTION_ID
		return frame
	}
}

// UpdateSimpleFrameOnPacketSent updates connection state after a simple frame
// went into a sent packet.
func UpdateSimpleFrameOnPacketSent(conn *ConnectionState, frame wire.SimpleFrame) {
	if f, isChallenge := frame.(*wire.PathChallengeFrame); isChallenge {
		conn.OutstandingPathValidation = f
		conn.PendingEvents.PathChallenge = nil
		conn.PendingEvents.SchedulePathValidationTimeout = true
		// start the clock to measure the path RTT
		conn.PathChallengeStartTime = time.Now()
		return
	}
	for i, pending := range conn.PendingEvents.Frames {
		if simpleFramesEqual(pending, frame) {
			conn.PendingEvents.Frames = append(conn.PendingEvents.Frames[:i], conn.PendingEvents.Frames[i+1:]...)
			return
		}
	}
}

// UpdateSimpleFrameOnPacketLoss re-schedules a simple frame after the carrying
// packet was declared lost.
func UpdateSimpleFrameOnPacketLoss(conn *ConnectionState, frame wire.SimpleFrame) {
	switch f := frame.(type) {
	case *wire.PingFrame:
	case *wire.StopSendingFrame:
		if conn.StreamManager.StreamExists(f.StreamID) {
			conn.PendingEvents.Frames = append(conn.PendingEvents.Frames, f)
		}
	case *wire.MinStreamDataFrame:
		// The frame is informational to the peer, so the local bookkeeping
		// advances even when the frame was lost.
		stream := conn.StreamManager.GetStream(f.StreamID)
		if stream != nil && conn.TransportSettings.PartialReliabilityEnabled {
			advanceCurrentReceiveOffset(stream, f.MinimumStreamOffset)
		}
	case *wire.ExpiredStreamDataFrame:
		stream := conn.StreamManager.GetStream(f.StreamID)
		if stream != nil && conn.TransportSettings.PartialReliabilityEnabled {
			advanceMinimumRetransmittableOffset(stream, f.MinimumStreamOffset)
		}
	case *wire.PathChallengeFrame:
		if conn.OutstandingPathValidation != nil && *f == *conn.OutstandingPathValidation {
			conn.PendingEvents.PathChallenge = f
		}
	case *wire.PathResponseFrame:
		// Do not retransmit PATH_RESPONSE to avoid buffering
	default:
		// NEW_CONNECTION_ID, MAX_STREAMS, RETIRE_CONNECTION_ID
		conn.PendingEvents.Frames = append(conn.PendingEvents.Frames, frame)
	}
}

// UpdateSimpleFrameOnPacketReceived processes a received simple frame. The
// return value says if the containing packet counts as retransmittable for the
// ACK logic.
func UpdateSimpleFrameOnPacketReceived(
	conn *ConnectionState,
	frame wire.SimpleFrame,
	packetNum protocol.PacketNumber,
	fromChangedPeerAddress bool,
) (bool, error) {
	switch f := frame.(type) {
	case *wire.PingFrame:
		return true, nil

	case *wire.StopSendingFrame:
		if conn.StreamManager.StreamExists(f.StreamID) {
			conn.StreamManager.OnStopSending(f)
		}
		return true, nil

	case *wire.MinStreamDataFrame:
		stream := conn.StreamManager.GetStream(f.StreamID)
		if stream != nil && conn.TransportSettings.PartialReliabilityEnabled {
			onRecvMinStreamData(stream, f, packetNum)
		}
		return true, nil

	case *wire.ExpiredStreamDataFrame:
		stream := conn.StreamManager.GetStream(f.StreamID)
		if stream != nil && conn.TransportSettings.PartialReliabilityEnabled {
			onRecvExpiredStreamData(stream, f)
		}
		return true, nil

	case *wire.PathChallengeFrame:
		if !conn.RetireAndSwitchPeerConnectionIDs() {
			return false, &qerr.TransportError{
				ErrorCode:    qerr.InvalidMigration,
				ErrorMessage: "no more connection ids to use for new path",
			}
		}
		conn.PendingEvents.Frames = append(conn.PendingEvents.Frames,
			&wire.PathResponseFrame{Data: f.Data})
		return false, nil

	case *wire.PathResponseFrame:
		// Ignore the response if no validation is outstanding or the path data
		// doesn't match the outstanding challenge.
		if fromChangedPeerAddress ||
			conn.OutstandingPathValidation == nil ||
			f.Data != conn.OutstandingPathValidation.Data {
			return false, nil
		}
		if conn.QLogger != nil {
			conn.QLogger.AddPathValidationEvent(true)
		}
		conn.OutstandingPathValidation = nil
		conn.PendingEvents.SchedulePathValidationTimeout = false

		// stop the clock to measure the path RTT
		UpdateRtt(conn, time.Since(conn.PathChallengeStartTime), 0)
		return false, nil

	case *wire.NewConnectionIDFrame:
		if f.RetirePriorTo > f.SequenceNumber {
			return false, &qerr.TransportError{
				ErrorCode:    qerr.ProtocolViolation,
				ErrorMessage: "retire prior to greater than sequence number",
			}
		}
		for _, existing := range conn.PeerConnectionIDs {
			if existing.ConnID == f.ConnectionID {
				if existing.SequenceNumber != f.SequenceNumber {
					return false, &qerr.TransportError{
						ErrorCode:    qerr.ProtocolViolation,
						ErrorMessage: "repeated connection id with different sequence number",
					}
				}
				// no-op on a repeated conn id
				return false, nil
			}
		}
		// peerConnectionIds holds all of the peer's connection ids (initial +
		// NEW_CONNECTION_ID). With a 0-len peer cid it would be the only element.
		peerConnID := conn.PeerConnectionID()
		if peerConnID == nil || peerConnID.Len() == 0 {
			return false, &qerr.TransportError{
				ErrorCode:    qerr.ProtocolViolation,
				ErrorMessage: "endpoint is already using 0-len connection ids",
			}
		}
		// selfActiveConnectionIdLimit caps the ids provided via
		// NEW_CONNECTION_ID; add 1 for the initial cid.
		if uint64(len(conn.PeerConnectionIDs)) == conn.TransportSettings.SelfActiveConnectionIDLimit+1 {
			// Unspec'd if the peer doesn't respect the limit. Ignore the frame.
			return false, nil
		}
		token := f.StatelessResetToken
		conn.PeerConnectionIDs = append(conn.PeerConnectionIDs, ConnectionIDData{
			ConnID:         f.ConnectionID,
			SequenceNumber: f.SequenceNumber,
			Token:          &token,
		})
		return false, nil

	case *wire.MaxStreamsFrame:
		if f.Type == protocol.StreamTypeBidi {
			conn.StreamManager.SetMaxLocalBidirectionalStreams(f.MaxStreamNum)
		} else {
			conn.StreamManager.SetMaxLocalUnidirectionalStreams(f.MaxStreamNum)
		}
		return true, nil

	case *wire.RetireConnectionIDFrame:
		// retirement is handled by the connection id store
		return false, nil
	}
	return false, nil
}

func simpleFramesEqual(a, b wire.SimpleFrame) bool {
	switch af := a.(type) {
	case *wire.PingFrame:
		_, ok := b.(*wire.PingFrame)
		return ok
	case *wire.StopSendingFrame:
		bf, ok := b.(*wire.StopSendingFrame)
		return ok && *af == *bf
	case *wire.MinStreamDataFrame:
		bf, ok := b.(*wire.MinStreamDataFrame)
		return ok && *af == *bf
	case *wire.ExpiredStreamDataFrame:
		bf, ok := b.(*wire.ExpiredStreamDataFrame)
		return ok && *af == *bf
	case *wire.PathChallengeFrame:
		bf, ok := b.(*wire.PathChallengeFrame)
		return ok && *af == *bf
	case *wire.PathResponseFrame:
		bf, ok := b.(*wire.PathResponseFrame)
		return ok && *af == *bf
	case *wire.NewConnectionIDFrame:
		bf, ok := b.(*wire.NewConnectionIDFrame)
		return ok && *af == *bf
	case *wire.MaxStreamsFrame:
		bf, ok := b.(*wire.MaxStreamsFrame)
		return ok && *af == *bf
	case *wire.RetireConnectionIDFrame:
		bf, ok := b.(*wire.RetireConnectionIDFrame)
		return ok && *af == *bf
	}
	return false
}

// advanceCurrentReceiveOffset moves the receive offset forward after data
// below it expired.
func advanceCurrentReceiveOffset(stream *StreamState, offset protocol.ByteCount) {
	if offset > stream.CurrentReceiveOffset {
		stream.CurrentReceiveOffset = offset
	}
}

// advanceMinimumRetransmittableOffset gives up retransmitting data below the
// offset and drops the now-dead chunks from the retransmission buffer.
func advanceMinimumRetransmittableOffset(stream *StreamState, offset protocol.ByteCount) {
	if offset <= stream.MinimumRetransmittableOffset {
		return
	}
	stream.MinimumRetransmittableOffset = offset
	for start, buf := range stream.RetransmissionBuffer {
		if start+protocol.ByteCount(len(buf.Data)) <= offset {
			delete(stream.RetransmissionBuffer, start)
		}
	}
}

// onRecvMinStreamData handles the receiver asking us to fast-forward: we stop
// retransmitting data below the requested offset.
func onRecvMinStreamData(stream *StreamState, frame *wire.MinStreamDataFrame, _ protocol.PacketNumber) {
	advanceMinimumRetransmittableOffset(stream, frame.MinimumStreamOffset)
}

// onRecvExpiredStreamData handles the sender telling us data expired: the
// receive side skips ahead to the first offset still deliverable.
func onRecvExpiredStreamData(stream *StreamState, frame *wire.ExpiredStreamDataFrame) {
	advanceCurrentReceiveOffset(stream, frame.MinimumStreamOffset)
}
