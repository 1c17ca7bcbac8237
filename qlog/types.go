package qlog

import (
	"fmt"

	"github.com/francoispqt/gojay"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

type category uint8

const (
	categoryTransport category = iota
	categoryRecovery
	categoryLoss
	categoryMetricUpdate
	categoryConnectivity
	categoryHTTP3
	categoryAppLimitedUpdate
	categoryIdleUpdate
	categoryBandwidthEstUpdate
)

func (c category) String() string {
	switch c {
	case categoryTransport:
		return "TRANSPORT"
	case categoryRecovery:
		return "RECOVERY"
	case categoryLoss:
		return "LOSS"
	case categoryMetricUpdate:
		return "METRIC_UPDATE"
	case categoryConnectivity:
		return "CONNECTIVITY"
	case categoryHTTP3:
		return "HTTP3"
	case categoryAppLimitedUpdate:
		return "APP_LIMITED_UPDATE"
	case categoryIdleUpdate:
		return "IDLE_UPDATE"
	case categoryBandwidthEstUpdate:
		return "BANDWIDTH_EST_UPDATE"
	default:
		return "unknown category"
	}
}

// DefaultTrigger is the trigger attached to events that have no specific one.
const DefaultTrigger = "DEFAULT"

// PacketType is the qlog name of a packet type.
type PacketType string

// The packet types, as their qlog names.
const (
	PacketTypeInitial            PacketType = "initial"
	PacketTypeHandshake          PacketType = "handshake"
	PacketTypeRetry              PacketType = "retry"
	PacketType0RTT               PacketType = "0RTT"
	PacketType1RTT               PacketType = "1RTT"
	PacketTypeStatelessReset     PacketType = "stateless_reset"
	PacketTypeVersionNegotiation PacketType = "version_negotiation"
)

type versionNumber protocol.Version

func (v versionNumber) String() string {
	return fmt.Sprintf("%x", uint32(v))
}

type connectionID protocol.ConnectionID

func (c connectionID) String() string {
	return protocol.ConnectionID(c).String()
}

type token struct {
	Raw []byte
}

var _ gojay.MarshalerJSONObject = &token{}

func (t token) IsNil() bool { return false }
func (t token) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("data", fmt.Sprintf("%x", t.Raw))
}
