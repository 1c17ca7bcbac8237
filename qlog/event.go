package qlog

import (
	"time"

	"github.com/francoispqt/gojay"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

type eventDetails interface {
	Category() category
	Name() string
	Trigger() string
	gojay.MarshalerJSONObject
}

type event struct {
	RelativeTime time.Duration
	eventDetails
}

var _ gojay.MarshalerJSONArray = event{}

func (e event) IsNil() bool { return false }
func (e event) MarshalJSONArray(enc *gojay.Encoder) {
	enc.Float64(float64(e.RelativeTime.Microseconds()))
	enc.String(e.Category().String())
	enc.String(e.Name())
	enc.String(e.Trigger())
	enc.Object(e.eventDetails)
}

type events []event

var _ gojay.MarshalerJSONArray = events{}

func (e events) IsNil() bool { return e == nil }
func (e events) MarshalJSONArray(enc *gojay.Encoder) {
	for _, ev := range e {
		enc.Array(ev)
	}
}

// withDefaultTrigger is embedded by events that only ever use the default trigger.
type withDefaultTrigger struct{}

func (withDefaultTrigger) Trigger() string { return DefaultTrigger }

type eventPacketSent struct {
	withDefaultTrigger
	PacketType   PacketType
	PacketNumber protocol.PacketNumber
	PacketSize   protocol.ByteCount
	Frames       frames
}

func (e eventPacketSent) Category() category { return categoryTransport }
func (e eventPacketSent) Name() string       { return "packet_sent" }
func (e eventPacketSent) IsNil() bool        { return false }

func (e eventPacketSent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", string(e.PacketType))
	enc.Int64Key("packet_number", int64(e.PacketNumber))
	enc.Int64Key("packet_size", int64(e.PacketSize))
	enc.ArrayKeyOmitEmpty("frames", e.Frames)
}

type eventPacketReceived struct {
	withDefaultTrigger
	PacketType   PacketType
	PacketNumber protocol.PacketNumber
	PacketSize   protocol.ByteCount
	Frames       frames
}

func (e eventPacketReceived) Category() category { return categoryTransport }
func (e eventPacketReceived) Name() string       { return "packet_received" }
func (e eventPacketReceived) IsNil() bool        { return false }

func (e eventPacketReceived) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", string(e.PacketType))
	enc.Int64Key("packet_number", int64(e.PacketNumber))
	enc.Int64Key("packet_size", int64(e.PacketSize))
	enc.ArrayKeyOmitEmpty("frames", e.Frames)
}

type eventConnectionClose struct {
	withDefaultTrigger
	Error                string
	Reason               string
	DrainConn            bool
	SentCloseImmediately bool
}

func (e eventConnectionClose) Category() category { return categoryConnectivity }
func (e eventConnectionClose) Name() string       { return "connection_close" }
func (e eventConnectionClose) IsNil() bool        { return false }

func (e eventConnectionClose) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("error", e.Error)
	enc.StringKey("reason", e.Reason)
	enc.BoolKey("drain_connection", e.DrainConn)
	enc.BoolKey("sent_close_immediately", e.SentCloseImmediately)
}

type eventTransportSummary struct {
	withDefaultTrigger
	TotalBytesSent          protocol.ByteCount
	TotalBytesRecvd         protocol.ByteCount
	SumCurWriteOffset       protocol.ByteCount
	SumMaxObservedOffset    protocol.ByteCount
	SumCurStreamBufferLen   protocol.ByteCount
	TotalBytesRetransmitted protocol.ByteCount
	TotalStreamBytesCloned  protocol.ByteCount
	TotalBytesCloned        protocol.ByteCount
	TotalCryptoDataWritten  protocol.ByteCount
	TotalCryptoDataRecvd    protocol.ByteCount
}

func (e eventTransportSummary) Category() category { return categoryTransport }
func (e eventTransportSummary) Name() string       { return "transport_summary" }
func (e eventTransportSummary) IsNil() bool        { return false }

func (e eventTransportSummary) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("total_bytes_sent", int64(e.TotalBytesSent))
	enc.Int64Key("total_bytes_recvd", int64(e.TotalBytesRecvd))
	enc.Int64Key("sum_cur_write_offset", int64(e.SumCurWriteOffset))
	enc.Int64Key("sum_max_observed_offset", int64(e.SumMaxObservedOffset))
	enc.Int64Key("sum_cur_stream_buffer_len", int64(e.SumCurStreamBufferLen))
	enc.Int64Key("total_bytes_retransmitted", int64(e.TotalBytesRetransmitted))
	enc.Int64Key("total_stream_bytes_cloned", int64(e.TotalStreamBytesCloned))
	enc.Int64Key("total_bytes_cloned", int64(e.TotalBytesCloned))
	enc.Int64Key("total_crypto_data_written", int64(e.TotalCryptoDataWritten))
	enc.Int64Key("total_crypto_data_recvd", int64(e.TotalCryptoDataRecvd))
}

type eventCongestionMetricUpdate struct {
	BytesInFlight   protocol.ByteCount
	CurrentCwnd     protocol.ByteCount
	CongestionEvent string
	State           string
	RecoveryState   string
}

func (e eventCongestionMetricUpdate) Category() category { return categoryMetricUpdate }
func (e eventCongestionMetricUpdate) Name() string       { return "congestion_metric_update" }
func (e eventCongestionMetricUpdate) Trigger() string    { return e.CongestionEvent }
func (e eventCongestionMetricUpdate) IsNil() bool        { return false }

func (e eventCongestionMetricUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("bytes_in_flight", int64(e.BytesInFlight))
	enc.Int64Key("current_cwnd", int64(e.CurrentCwnd))
	enc.StringKey("congestion_event", e.CongestionEvent)
	enc.StringKey("state", e.State)
	enc.StringKeyOmitEmpty("recovery_state", e.RecoveryState)
}

type eventPacingMetricUpdate struct {
	withDefaultTrigger
	PacingBurstSize uint64
	PacingInterval  time.Duration
}

func (e eventPacingMetricUpdate) Category() category { return categoryMetricUpdate }
func (e eventPacingMetricUpdate) Name() string       { return "pacing_metric_update" }
func (e eventPacingMetricUpdate) IsNil() bool        { return false }

func (e eventPacingMetricUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("pacing_burst_size", e.PacingBurstSize)
	enc.Float64Key("pacing_interval", float64(e.PacingInterval.Microseconds()))
}

type eventPacingObservation struct {
	withDefaultTrigger
	ActualRate   string
	ExpectedRate string
	Conclusion   string
}

func (e eventPacingObservation) Category() category { return categoryMetricUpdate }
func (e eventPacingObservation) Name() string       { return "pacing_observation" }
func (e eventPacingObservation) IsNil() bool        { return false }

func (e eventPacingObservation) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("actual_pacing_rate", e.ActualRate)
	enc.StringKey("expected_pacing_rate", e.ExpectedRate)
	enc.StringKey("conclusion", e.Conclusion)
}

type eventAppLimitedUpdate struct {
	withDefaultTrigger
	Limited bool
}

func (e eventAppLimitedUpdate) Category() category { return categoryAppLimitedUpdate }
func (e eventAppLimitedUpdate) Name() string       { return "app_limited_update" }
func (e eventAppLimitedUpdate) IsNil() bool        { return false }

func (e eventAppLimitedUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.BoolKey("app_limited", e.Limited)
}

type eventAppIdleUpdate struct {
	withDefaultTrigger
	IdleEvent string
	Idle      bool
}

func (e eventAppIdleUpdate) Category() category { return categoryIdleUpdate }
func (e eventAppIdleUpdate) Name() string       { return "app_idle_update" }
func (e eventAppIdleUpdate) IsNil() bool        { return false }

func (e eventAppIdleUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("idle_event", e.IdleEvent)
	enc.BoolKey("idle", e.Idle)
}

type eventBandwidthEstUpdate struct {
	Bytes    protocol.ByteCount
	Interval time.Duration
}

func (e eventBandwidthEstUpdate) Category() category { return categoryBandwidthEstUpdate }
func (e eventBandwidthEstUpdate) Name() string       { return "bandwidth_est_update" }
func (e eventBandwidthEstUpdate) Trigger() string    { return "bandwidth_est_update" }
func (e eventBandwidthEstUpdate) IsNil() bool        { return false }

func (e eventBandwidthEstUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("bandwidth_bytes", int64(e.Bytes))
	enc.Float64Key("bandwidth_interval", float64(e.Interval.Microseconds()))
}

type eventPacketDrop struct {
	withDefaultTrigger
	PacketSize protocol.ByteCount
	DropReason string
}

func (e eventPacketDrop) Category() category { return categoryLoss }
func (e eventPacketDrop) Name() string       { return "packet_drop" }
func (e eventPacketDrop) IsNil() bool        { return false }

func (e eventPacketDrop) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("packet_size", int64(e.PacketSize))
	enc.StringKey("packet_drop_reason", e.DropReason)
}

type eventDatagramReceived struct {
	withDefaultTrigger
	DataLen protocol.ByteCount
}

func (e eventDatagramReceived) Category() category { return categoryTransport }
func (e eventDatagramReceived) Name() string       { return "datagram_received" }
func (e eventDatagramReceived) IsNil() bool        { return false }

func (e eventDatagramReceived) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("data_len", int64(e.DataLen))
}

type eventLossAlarm struct {
	withDefaultTrigger
	LargestSent        protocol.PacketNumber
	AlarmCount         uint64
	OutstandingPackets uint64
	Type               string
}

func (e eventLossAlarm) Category() category { return categoryLoss }
func (e eventLossAlarm) Name() string       { return "loss_alarm" }
func (e eventLossAlarm) IsNil() bool        { return false }

func (e eventLossAlarm) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("largest_sent", int64(e.LargestSent))
	enc.Uint64Key("alarm_count", e.AlarmCount)
	enc.Uint64Key("outstanding_packets", e.OutstandingPackets)
	enc.StringKey("type", e.Type)
}

type eventPacketsLost struct {
	withDefaultTrigger
	LargestLostPacketNum protocol.PacketNumber
	LostBytes            protocol.ByteCount
	LostPackets          uint64
}

func (e eventPacketsLost) Category() category { return categoryLoss }
func (e eventPacketsLost) Name() string       { return "packets_lost" }
func (e eventPacketsLost) IsNil() bool        { return false }

func (e eventPacketsLost) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("largest_lost_packet_num", int64(e.LargestLostPacketNum))
	enc.Int64Key("lost_bytes", int64(e.LostBytes))
	enc.Uint64Key("lost_packets", e.LostPackets)
}

type eventTransportStateUpdate struct {
	withDefaultTrigger
	Update string
}

func (e eventTransportStateUpdate) Category() category { return categoryTransport }
func (e eventTransportStateUpdate) Name() string       { return "transport_state_update" }
func (e eventTransportStateUpdate) IsNil() bool        { return false }

func (e eventTransportStateUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("update", e.Update)
}

type eventPacketBuffered struct {
	withDefaultTrigger
	PacketNumber   protocol.PacketNumber
	ProtectionType string
	PacketSize     protocol.ByteCount
}

func (e eventPacketBuffered) Category() category { return categoryTransport }
func (e eventPacketBuffered) Name() string       { return "packet_buffered" }
func (e eventPacketBuffered) IsNil() bool        { return false }

func (e eventPacketBuffered) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("packet_num", int64(e.PacketNumber))
	enc.StringKey("protection_type", e.ProtectionType)
	enc.Int64Key("packet_size", int64(e.PacketSize))
}

type eventPacketAck struct {
	withDefaultTrigger
	PacketNumSpace string
	PacketNumber   protocol.PacketNumber
}

func (e eventPacketAck) Category() category { return categoryTransport }
func (e eventPacketAck) Name() string       { return "packet_ack" }
func (e eventPacketAck) IsNil() bool        { return false }

func (e eventPacketAck) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_num_space", e.PacketNumSpace)
	enc.Int64Key("packet_num", int64(e.PacketNumber))
}

type eventMetricUpdate struct {
	withDefaultTrigger
	LatestRTT time.Duration
	MRTT      time.Duration
	SRTT      time.Duration
	AckDelay  time.Duration
}

func (e eventMetricUpdate) Category() category { return categoryRecovery }
func (e eventMetricUpdate) Name() string       { return "metric_update" }
func (e eventMetricUpdate) IsNil() bool        { return false }

func (e eventMetricUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Float64Key("latest_rtt", float64(e.LatestRTT.Microseconds()))
	enc.Float64Key("min_rtt", float64(e.MRTT.Microseconds()))
	enc.Float64Key("smoothed_rtt", float64(e.SRTT.Microseconds()))
	enc.Float64Key("ack_delay", float64(e.AckDelay.Microseconds()))
}

type eventStreamStateUpdate struct {
	StreamID                protocol.StreamID
	Update                  string
	TimeSinceStreamCreation time.Duration
}

func (e eventStreamStateUpdate) Category() category { return categoryHTTP3 }
func (e eventStreamStateUpdate) Name() string       { return "stream_state_update" }
func (e eventStreamStateUpdate) Trigger() string    { return e.Update }
func (e eventStreamStateUpdate) IsNil() bool        { return false }

func (e eventStreamStateUpdate) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("id", int64(e.StreamID))
	enc.StringKey("update", e.Update)
	enc.Float64Key("ms_since_creation", float64(e.TimeSinceStreamCreation.Milliseconds()))
}

type eventConnectionMigration struct {
	withDefaultTrigger
	IntentionalMigration bool
}

func (e eventConnectionMigration) Category() category { return categoryConnectivity }
func (e eventConnectionMigration) Name() string       { return "connection_migration" }
func (e eventConnectionMigration) IsNil() bool        { return false }

func (e eventConnectionMigration) MarshalJSONObject(enc *gojay.Encoder) {
	enc.BoolKey("intentional", e.IntentionalMigration)
}

type eventPathValidation struct {
	withDefaultTrigger
	Success      bool
	VantagePoint string
}

func (e eventPathValidation) Category() category { return categoryConnectivity }
func (e eventPathValidation) Name() string       { return "path_validation" }
func (e eventPathValidation) IsNil() bool        { return false }

func (e eventPathValidation) MarshalJSONObject(enc *gojay.Encoder) {
	enc.BoolKey("success", e.Success)
	enc.StringKey("vantage_point", e.VantagePoint)
}
