// Package mvfst implements the wire codec and connection state machine of a
// QUIC transport: packet and frame serialization, the per-connection
// transmission pipeline, and the processing of the simple control frames that
// govern flow control, path validation and the connection ID lifecycle.
package mvfst

import (
	"time"

	"github.com/yhcchaos/mvfst-old/internal/congestion"
	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/utils"
	"github.com/yhcchaos/mvfst-old/internal/wire"
	"github.com/yhcchaos/mvfst-old/logging"
	"github.com/yhcchaos/mvfst-old/qlog"
)

// ConnectionIDData is one connection ID issued by the peer, together with its
// sequence number and stateless reset token.
type ConnectionIDData struct {
	ConnID         protocol.ConnectionID
	SequenceNumber uint64
	Token          *protocol.StatelessResetToken
}

// PendingEvents are the events the outer event loop drains on every turn.
type PendingEvents struct {
	// Frames are the simple frames scheduled for the next write.
	Frames []wire.SimpleFrame
	// PathChallenge is the challenge to send on the next write pass.
	PathChallenge *wire.PathChallengeFrame
	// SchedulePathValidationTimeout tells the loop to (re)arm the path
	// validation timer. The handler clears it when validation concludes.
	SchedulePathValidationTimeout bool
	// CancelPingTimeout tells the loop to cancel the ping timer.
	CancelPingTimeout bool
}

// ConnectionFlowControlState tracks the connection-level receive window.
type ConnectionFlowControlState struct {
	// SumCurReadOffset is the sum of the read offsets of all streams.
	SumCurReadOffset protocol.ByteCount
	// WindowSize is the receive window granted on top of SumCurReadOffset.
	WindowSize protocol.ByteCount
	// AdvertisedMaxOffset is the limit last sent to the peer.
	AdvertisedMaxOffset protocol.ByteCount
}

// ConnectionState is the per-connection state the transmission pipeline and
// the simple frame processor operate on. It is owned by a single event loop
// thread; nothing in here is synchronized.
type ConnectionState struct {
	NodeType protocol.Perspective
	Version  protocol.Version

	// ClientConnectionID is the connection ID chosen by the client.
	ClientConnectionID *protocol.ConnectionID
	// ServerConnectionID is the connection ID chosen by the server.
	ServerConnectionID *protocol.ConnectionID
	// PeerConnectionIDs holds all connection IDs issued by the peer,
	// the initial one included.
	PeerConnectionIDs []ConnectionIDData

	TransportSettings TransportSettings

	StreamManager StreamManager
	CryptoState   *CryptoState

	FlowControlState ConnectionFlowControlState

	PendingEvents PendingEvents

	// OutstandingPackets are the sent packets neither acked nor declared lost,
	// in send order.
	OutstandingPackets []*OutstandingPacket
	// OutstandingPacketEvents tracks the clone groups that are still
	// outstanding, keyed by the original packet number.
	OutstandingPacketEvents map[PacketEvent]struct{}
	// OutstandingClonedPacketsCount counts packets in flight that belong to a
	// clone group.
	OutstandingClonedPacketsCount int

	// OutstandingPathValidation is the PATH_CHALLENGE waiting for a response.
	OutstandingPathValidation *wire.PathChallengeFrame
	// PathChallengeStartTime is when the outstanding challenge was sent.
	PathChallengeStartTime time.Time

	RTTStats utils.RTTStats

	// Pacer shapes the write rate between congestion controller and socket.
	Pacer *congestion.Pacer

	QLogger qlog.Tracer
	Stats   logging.TransportStatsCallback
	Logger  utils.Logger
}

// NewConnectionState creates the state for a fresh connection.
func NewConnectionState(nodeType protocol.Perspective, version protocol.Version) *ConnectionState {
	settings := DefaultTransportSettings()
	return &ConnectionState{
		NodeType:                nodeType,
		Version:                 version,
		TransportSettings:       settings,
		CryptoState:             newCryptoState(),
		OutstandingPacketEvents: make(map[PacketEvent]struct{}),
		Pacer: congestion.NewPacer(congestion.PacerConfig{
			DefaultBatchSize: settings.WriteConnectionDataPacketsLimit,
			TickInterval:     settings.PacingTimerTickInterval,
			MinCwndInMss:     settings.MinCwndInMss,
			UDPSendPacketLen: settings.UDPSendPacketLen,
		}),
		Stats:  logging.NopStatsCallback{},
		Logger: utils.DefaultLogger,
	}
}

func newCryptoState() *CryptoState {
	return &CryptoState{
		InitialStream:   CryptoStream{RetransmissionBuffer: make(map[protocol.ByteCount]*StreamBuffer)},
		HandshakeStream: CryptoStream{RetransmissionBuffer: make(map[protocol.ByteCount]*StreamBuffer)},
		OneRTTStream:    CryptoStream{RetransmissionBuffer: make(map[protocol.ByteCount]*StreamBuffer)},
	}
}

// PeerConnectionID is the connection ID currently used to address the peer.
func (c *ConnectionState) PeerConnectionID() *protocol.ConnectionID {
	if c.NodeType == protocol.PerspectiveClient {
		return c.ServerConnectionID
	}
	return c.ClientConnectionID
}

func (c *ConnectionState) setPeerConnectionID(connID protocol.ConnectionID) {
	if c.NodeType == protocol.PerspectiveClient {
		c.ServerConnectionID = &connID
	} else {
		c.ClientConnectionID = &connID
	}
}

// RetireAndSwitchPeerConnectionIDs retires the connection ID currently in use
// and switches to an unused one issued by the peer. It returns false if the
// peer never provided a spare.
func (c *ConnectionState) RetireAndSwitchPeerConnectionIDs() bool {
	current := c.PeerConnectionID()
	if current == nil {
		return false
	}
	currentIdx := -1
	for i, data := range c.PeerConnectionIDs {
		if data.ConnID == *current {
			currentIdx = i
			break
		}
	}
	if currentIdx == -1 {
		return false
	}
	// Pick the lowest-sequence id that is not the one in use.
	nextIdx := -1
	for i, data := range c.PeerConnectionIDs {
		if i == currentIdx {
			continue
		}
		if nextIdx == -1 || data.SequenceNumber < c.PeerConnectionIDs[nextIdx].SequenceNumber {
			nextIdx = i
		}
	}
	if nextIdx == -1 {
		return false
	}
	retired := c.PeerConnectionIDs[currentIdx]
	c.setPeerConnectionID(c.PeerConnectionIDs[nextIdx].ConnID)
	c.PeerConnectionIDs = append(c.PeerConnectionIDs[:currentIdx], c.PeerConnectionIDs[currentIdx+1:]...)
	c.PendingEvents.Frames = append(c.PendingEvents.Frames,
		&wire.RetireConnectionIDFrame{SequenceNumber: retired.SequenceNumber})
	return true
}

// generateMaxDataFrame derives a connection window update from current state.
func generateMaxDataFrame(conn *ConnectionState) *wire.MaxDataFrame {
	return &wire.MaxDataFrame{
		MaximumData: conn.FlowControlState.SumCurReadOffset + conn.FlowControlState.WindowSize,
	}
}

// generateMaxStreamDataFrame derives a stream window update from current state.
func generateMaxStreamDataFrame(stream *StreamState) *wire.MaxStreamDataFrame {
	return &wire.MaxStreamDataFrame{
		StreamID:          stream.ID,
		MaximumStreamData: stream.NextMaxStreamData(),
	}
}

// UpdateRtt feeds an RTT sample into the connection's RTT estimator.
func UpdateRtt(conn *ConnectionState, sample, ackDelay time.Duration) {
	conn.RTTStats.UpdateRTT(sample, ackDelay)
	if conn.QLogger != nil {
		conn.QLogger.AddMetricUpdate(conn.RTTStats.LatestRTT(), conn.RTTStats.MinRTT(), conn.RTTStats.SmoothedRTT(), ackDelay)
	}
}
