package mvfst

import (
	"time"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// TransportSettings are the knobs of the transmission pipeline.
type TransportSettings struct {
	// WriteConnectionDataPacketsLimit is the default number of packets written
	// in one pass when the pacer is disabled or app-limited.
	WriteConnectionDataPacketsLimit uint64
	// PacingTimerTickInterval is the resolution of the pacing timer.
	// An RTT below this disables pacing.
	PacingTimerTickInterval time.Duration
	// AckDelayExponent is the exponent the peer uses to scale ACK delays on
	// 1-RTT packets.
	AckDelayExponent uint64
	// SelfActiveConnectionIDLimit is the active_connection_id_limit transport
	// parameter this endpoint advertised.
	SelfActiveConnectionIDLimit uint64
	// MinCwndInMss is the congestion window floor handed to the pacing rate
	// calculator.
	MinCwndInMss uint64
	// UDPSendPacketLen is the maximum size of an outgoing UDP datagram.
	UDPSendPacketLen protocol.ByteCount
	// PartialReliabilityEnabled enables the MIN_STREAM_DATA / EXPIRED_STREAM_DATA
	// extension.
	PartialReliabilityEnabled bool
}

// DefaultTransportSettings returns the settings used when the application
// doesn't override anything.
func DefaultTransportSettings() TransportSettings {
	return TransportSettings{
		WriteConnectionDataPacketsLimit: protocol.DefaultWriteConnectionDataPacketsLimit,
		PacingTimerTickInterval:         protocol.DefaultPacingTimerTickInterval,
		AckDelayExponent:                protocol.DefaultAckDelayExponent,
		SelfActiveConnectionIDLimit:     protocol.DefaultActiveConnectionIDLimit,
		MinCwndInMss:                    protocol.DefaultMinCwndInMss,
		UDPSendPacketLen:                protocol.MaxPacketBufferSize,
	}
}
