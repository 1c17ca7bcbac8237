package mvfst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/qerr"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

func addPeerConnID(t *testing.T, conn *ConnectionState, b []byte, seq uint64) protocol.ConnectionID {
	t.Helper()
	id := connID(t, b)
	conn.PeerConnectionIDs = append(conn.PeerConnectionIDs, ConnectionIDData{ConnID: id, SequenceNumber: seq})
	return id
}

func TestSendSimpleFrameQueuesIt(t *testing.T) {
	conn, _ := newTestConn(t)
	SendSimpleFrame(conn, &wire.PingFrame{})
	require.Len(t, conn.PendingEvents.Frames, 1)
}

func TestAckOfPingCancelsPingTimeout(t *testing.T) {
	conn, _ := newTestConn(t)
	UpdateSimpleFrameOnAck(conn, &wire.PingFrame{})
	require.True(t, conn.PendingEvents.CancelPingTimeout)

	conn.PendingEvents.CancelPingTimeout = false
	UpdateSimpleFrameOnAck(conn, &wire.RetireConnectionIDFrame{SequenceNumber: 1})
	require.False(t, conn.PendingEvents.CancelPingTimeout)
}

func TestPacketSentRemovesFrameFromPending(t *testing.T) {
	conn, _ := newTestConn(t)
	f := &wire.MaxStreamsFrame{Type: protocol.StreamTypeBidi, MaxStreamNum: 10}
	SendSimpleFrame(conn, f)
	SendSimpleFrame(conn, &wire.PingFrame{})

	UpdateSimpleFrameOnPacketSent(conn, f)
	require.Len(t, conn.PendingEvents.Frames, 1)
	require.IsType(t, &wire.PingFrame{}, conn.PendingEvents.Frames[0])
}

func TestPacketSentMovesPathChallengeToOutstanding(t *testing.T) {
	conn, _ := newTestConn(t)
	challenge := &wire.PathChallengeFrame{Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}
	conn.PendingEvents.PathChallenge = challenge

	UpdateSimpleFrameOnPacketSent(conn, challenge)
	require.Equal(t, challenge, conn.OutstandingPathValidation)
	require.Nil(t, conn.PendingEvents.PathChallenge)
	require.True(t, conn.PendingEvents.SchedulePathValidationTimeout)
	require.False(t, conn.PathChallengeStartTime.IsZero())
}

func TestCloneFiltersByStreamExistence(t *testing.T) {
	conn, sm := newTestConn(t)
	sm.addStream(4)

	require.NotNil(t, UpdateSimpleFrameOnPacketClone(conn, &wire.StopSendingFrame{StreamID: 4}))
	require.Nil(t, UpdateSimpleFrameOnPacketClone(conn, &wire.StopSendingFrame{StreamID: 8}))
	require.NotNil(t, UpdateSimpleFrameOnPacketClone(conn, &wire.MinStreamDataFrame{StreamID: 4}))
	require.Nil(t, UpdateSimpleFrameOnPacketClone(conn, &wire.ExpiredStreamDataFrame{StreamID: 8}))
}

func TestCloneFiltersPathFrames(t *testing.T) {
	conn, _ := newTestConn(t)
	challenge := &wire.PathChallengeFrame{Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}

	// no outstanding validation: drop
	require.Nil(t, UpdateSimpleFrameOnPacketClone(conn, challenge))

	conn.OutstandingPathValidation = challenge
	require.NotNil(t, UpdateSimpleFrameOnPacketClone(conn, challenge))

	// a different validation is outstanding: drop
	other := &wire.PathChallengeFrame{Data: [8]byte{8, 7, 6, 5, 4, 3, 2, 1}}
	require.Nil(t, UpdateSimpleFrameOnPacketClone(conn, other))

	// PATH_RESPONSE is never cloned
	require.Nil(t, UpdateSimpleFrameOnPacketClone(conn, &wire.PathResponseFrame{}))
}

func TestLossRequeuesControlFrames(t *testing.T) {
	conn, sm := newTestConn(t)
	sm.addStream(4)

	UpdateSimpleFrameOnPacketLoss(conn, &wire.StopSendingFrame{StreamID: 4, ErrorCode: 1})
	require.Len(t, conn.PendingEvents.Frames, 1)

	// the frame is dropped if the stream vanished
	UpdateSimpleFrameOnPacketLoss(conn, &wire.StopSendingFrame{StreamID: 8, ErrorCode: 1})
	require.Len(t, conn.PendingEvents.Frames, 1)

	UpdateSimpleFrameOnPacketLoss(conn, &wire.MaxStreamsFrame{Type: protocol.StreamTypeUni, MaxStreamNum: 10})
	require.Len(t, conn.PendingEvents.Frames, 2)

	// PING is not re-queued
	UpdateSimpleFrameOnPacketLoss(conn, &wire.PingFrame{})
	require.Len(t, conn.PendingEvents.Frames, 2)
}

func TestLossAdvancesPartialReliabilityOffsets(t *testing.T) {
	conn, sm := newTestConn(t)
	conn.TransportSettings.PartialReliabilityEnabled = true
	stream := sm.addStream(4)
	stream.RetransmissionBuffer[0] = &StreamBuffer{Offset: 0, Data: []byte("dead")}
	stream.RetransmissionBuffer[4] = &StreamBuffer{Offset: 4, Data: []byte("beef")}

	UpdateSimpleFrameOnPacketLoss(conn, &wire.MinStreamDataFrame{StreamID: 4, MinimumStreamOffset: 100})
	require.Equal(t, protocol.ByteCount(100), stream.CurrentReceiveOffset)

	UpdateSimpleFrameOnPacketLoss(conn, &wire.ExpiredStreamDataFrame{StreamID: 4, MinimumStreamOffset: 4})
	require.Equal(t, protocol.ByteCount(4), stream.MinimumRetransmittableOffset)
	// chunks entirely below the offset are dropped
	require.NotContains(t, stream.RetransmissionBuffer, protocol.ByteCount(0))
	require.Contains(t, stream.RetransmissionBuffer, protocol.ByteCount(4))
}

func TestLossRequeuesOutstandingPathChallenge(t *testing.T) {
	conn, _ := newTestConn(t)
	challenge := &wire.PathChallengeFrame{Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}

	UpdateSimpleFrameOnPacketLoss(conn, challenge)
	require.Nil(t, conn.PendingEvents.PathChallenge)

	conn.OutstandingPathValidation = challenge
	UpdateSimpleFrameOnPacketLoss(conn, challenge)
	require.Equal(t, challenge, conn.PendingEvents.PathChallenge)
}

func TestReceiveStopSendingDispatchesToStream(t *testing.T) {
	conn, sm := newTestConn(t)
	sm.addStream(4)
	f := &wire.StopSendingFrame{StreamID: 4, ErrorCode: 42}
	ackEliciting, err := UpdateSimpleFrameOnPacketReceived(conn, f, 1, false)
	require.NoError(t, err)
	require.True(t, ackEliciting)
	require.Equal(t, []*wire.StopSendingFrame{f}, sm.stopSendingReceived)

	// unknown stream: silently dropped, still retransmittable
	ackEliciting, err = UpdateSimpleFrameOnPacketReceived(conn, &wire.StopSendingFrame{StreamID: 8}, 1, false)
	require.NoError(t, err)
	require.True(t, ackEliciting)
	require.Len(t, sm.stopSendingReceived, 1)
}

func TestReceivePathChallengeRotatesConnID(t *testing.T) {
	conn, _ := newTestConn(t)
	current := addPeerConnID(t, conn, []byte{1, 1, 1, 1}, 0)
	conn.ServerConnectionID = &current
	spare := addPeerConnID(t, conn, []byte{2, 2, 2, 2}, 1)
	addPeerConnID(t, conn, []byte{3, 3, 3, 3}, 2)

	challenge := &wire.PathChallengeFrame{Data: [8]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4}}
	ackEliciting, err := UpdateSimpleFrameOnPacketReceived(conn, challenge, 1, true)
	require.NoError(t, err)
	require.False(t, ackEliciting)

	// rotated to the lowest-sequence spare
	require.Equal(t, spare, *conn.ServerConnectionID)
	require.Len(t, conn.PeerConnectionIDs, 2)

	// a RETIRE_CONNECTION_ID for the old id and the PATH_RESPONSE are queued
	require.Len(t, conn.PendingEvents.Frames, 2)
	retire := conn.PendingEvents.Frames[0].(*wire.RetireConnectionIDFrame)
	require.Equal(t, uint64(0), retire.SequenceNumber)
	response := conn.PendingEvents.Frames[1].(*wire.PathResponseFrame)
	require.Equal(t, challenge.Data, response.Data)

	// on the next send pass the response is written and leaves the queue
	UpdateSimpleFrameOnPacketSent(conn, response)
	require.Len(t, conn.PendingEvents.Frames, 1)
}

func TestReceivePathChallengeWithoutSpareIDs(t *testing.T) {
	conn, _ := newTestConn(t)
	current := addPeerConnID(t, conn, []byte{1, 1, 1, 1}, 0)
	conn.ServerConnectionID = &current

	_, err := UpdateSimpleFrameOnPacketReceived(conn, &wire.PathChallengeFrame{}, 1, true)
	var terr *qerr.TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, qerr.InvalidMigration, terr.ErrorCode)
}

func TestReceivePathResponse(t *testing.T) {
	conn, _ := newTestConn(t)
	challenge := &wire.PathChallengeFrame{Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}
	conn.PendingEvents.PathChallenge = challenge
	UpdateSimpleFrameOnPacketSent(conn, challenge)
	require.NotNil(t, conn.OutstandingPathValidation)

	// mismatched data: ignored
	_, err := UpdateSimpleFrameOnPacketReceived(conn, &wire.PathResponseFrame{Data: [8]byte{9}}, 1, false)
	require.NoError(t, err)
	require.NotNil(t, conn.OutstandingPathValidation)

	// matching data from a changed address: ignored
	_, err = UpdateSimpleFrameOnPacketReceived(conn, &wire.PathResponseFrame{Data: challenge.Data}, 1, true)
	require.NoError(t, err)
	require.NotNil(t, conn.OutstandingPathValidation)

	// matching data from the same address: validation concludes
	ackEliciting, err := UpdateSimpleFrameOnPacketReceived(conn, &wire.PathResponseFrame{Data: challenge.Data}, 1, false)
	require.NoError(t, err)
	require.False(t, ackEliciting)
	require.Nil(t, conn.OutstandingPathValidation)
	require.False(t, conn.PendingEvents.SchedulePathValidationTimeout)
	require.NotZero(t, conn.RTTStats.LatestRTT())
}

func TestReceiveNewConnectionID(t *testing.T) {
	conn, _ := newTestConn(t)
	current := addPeerConnID(t, conn, []byte{1, 1, 1, 1}, 0)
	conn.ServerConnectionID = &current
	conn.TransportSettings.SelfActiveConnectionIDLimit = 2

	token := protocol.StatelessResetToken{1, 2, 3}
	f := &wire.NewConnectionIDFrame{
		SequenceNumber:      1,
		RetirePriorTo:       0,
		ConnectionID:        connID(t, []byte{2, 2, 2, 2}),
		StatelessResetToken: token,
	}
	ackEliciting, err := UpdateSimpleFrameOnPacketReceived(conn, f, 1, false)
	require.NoError(t, err)
	require.False(t, ackEliciting)
	require.Len(t, conn.PeerConnectionIDs, 2)
	require.Equal(t, token, *conn.PeerConnectionIDs[1].Token)

	// exact duplicate: ignored
	_, err = UpdateSimpleFrameOnPacketReceived(conn, f, 2, false)
	require.NoError(t, err)
	require.Len(t, conn.PeerConnectionIDs, 2)

	// same id with a new sequence number: protocol violation
	dup := &wire.NewConnectionIDFrame{SequenceNumber: 5, ConnectionID: f.ConnectionID}
	_, err = UpdateSimpleFrameOnPacketReceived(conn, dup, 3, false)
	var terr *qerr.TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, qerr.ProtocolViolation, terr.ErrorCode)
}

func TestReceiveNewConnectionIDRetirePriorToViolation(t *testing.T) {
	conn, _ := newTestConn(t)
	current := addPeerConnID(t, conn, []byte{1, 1, 1, 1}, 0)
	conn.ServerConnectionID = &current

	f := &wire.NewConnectionIDFrame{
		SequenceNumber: 2,
		RetirePriorTo:  3,
		ConnectionID:   connID(t, []byte{2, 2, 2, 2}),
	}
	_, err := UpdateSimpleFrameOnPacketReceived(conn, f, 1, false)
	var terr *qerr.TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, qerr.ProtocolViolation, terr.ErrorCode)
}

// after the limit (+1 for the initial id) is reached, further ids are dropped
func TestReceiveNewConnectionIDCap(t *testing.T) {
	conn, _ := newTestConn(t)
	current := addPeerConnID(t, conn, []byte{1, 1, 1, 1}, 0)
	conn.ServerConnectionID = &current
	conn.TransportSettings.SelfActiveConnectionIDLimit = 2

	for seq := uint64(1); seq <= 5; seq++ {
		f := &wire.NewConnectionIDFrame{
			SequenceNumber: seq,
			ConnectionID:   connID(t, []byte{byte(seq), byte(seq), byte(seq), byte(seq)}),
		}
		_, err := UpdateSimpleFrameOnPacketReceived(conn, f, protocol.PacketNumber(seq), false)
		require.NoError(t, err)
	}
	require.Len(t, conn.PeerConnectionIDs, 3)
}

func TestReceiveMaxStreams(t *testing.T) {
	conn, sm := newTestConn(t)
	ackEliciting, err := UpdateSimpleFrameOnPacketReceived(conn,
		&wire.MaxStreamsFrame{Type: protocol.StreamTypeBidi, MaxStreamNum: 100}, 1, false)
	require.NoError(t, err)
	require.True(t, ackEliciting)
	require.Equal(t, protocol.StreamNum(100), sm.maxBidi)

	_, err = UpdateSimpleFrameOnPacketReceived(conn,
		&wire.MaxStreamsFrame{Type: protocol.StreamTypeUni, MaxStreamNum: 50}, 2, false)
	require.NoError(t, err)
	require.Equal(t, protocol.StreamNum(50), sm.maxUni)
}

func TestReceivePartialReliabilityFrames(t *testing.T) {
	conn, sm := newTestConn(t)
	conn.TransportSettings.PartialReliabilityEnabled = true
	stream := sm.addStream(4)
	stream.RetransmissionBuffer[0] = &StreamBuffer{Offset: 0, Data: []byte("old data")}

	// the receiver asks us to fast-forward: stop retransmitting below 100
	ackEliciting, err := UpdateSimpleFrameOnPacketReceived(conn,
		&wire.MinStreamDataFrame{StreamID: 4, MaximumData: 1000, MinimumStreamOffset: 100}, 1, false)
	require.NoError(t, err)
	require.True(t, ackEliciting)
	require.Equal(t, protocol.ByteCount(100), stream.MinimumRetransmittableOffset)
	require.Empty(t, stream.RetransmissionBuffer)

	// the sender declares data expired: skip ahead on the receive side
	_, err = UpdateSimpleFrameOnPacketReceived(conn,
		&wire.ExpiredStreamDataFrame{StreamID: 4, MinimumStreamOffset: 200}, 2, false)
	require.NoError(t, err)
	require.Equal(t, protocol.ByteCount(200), stream.CurrentReceiveOffset)
}
