// Package qlog emits transport events in the qlog schema.
package qlog

import (
	"io"
	"time"

	"github.com/francoispqt/gojay"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/wire"
)

// A Tracer records qlog events for one connection.
// All methods are called from the connection's event loop.
type Tracer interface {
	AddPacketSent(pt PacketType, pn protocol.PacketNumber, size protocol.ByteCount, frames []wire.Frame)
	AddPacketReceived(pt PacketType, pn protocol.PacketNumber, size protocol.ByteCount, frames []wire.Frame)
	AddConnectionClose(err, reason string, drainConn, sentCloseImmediately bool)
	AddTransportSummary(totalBytesSent, totalBytesRecvd protocol.ByteCount)
	AddCongestionMetricUpdate(bytesInFlight, currentCwnd protocol.ByteCount, event, state string)
	AddPacingMetricUpdate(pacingBurstSize uint64, pacingInterval time.Duration)
	AddPacingObservation(actual, expected, conclusion string)
	AddAppLimitedUpdate(limited bool)
	AddAppIdleUpdate(idleEvent string, idle bool)
	AddBandwidthEstUpdate(bytes protocol.ByteCount, interval time.Duration)
	AddPacketDrop(size protocol.ByteCount, dropReason string)
	AddDatagramReceived(dataLen protocol.ByteCount)
	AddLossAlarm(largestSent protocol.PacketNumber, alarmCount, outstandingPackets uint64, typ string)
	AddPacketsLost(largestLost protocol.PacketNumber, lostBytes protocol.ByteCount, lostPackets uint64)
	AddTransportStateUpdate(update string)
	AddPacketBuffered(pn protocol.PacketNumber, protectionType string, size protocol.ByteCount)
	AddPacketAck(pnSpace protocol.PacketNumberSpace, pn protocol.PacketNumber)
	AddMetricUpdate(latestRTT, mrtt, srtt, ackDelay time.Duration)
	AddStreamStateUpdate(id protocol.StreamID, update string, sinceCreation time.Duration)
	AddConnectionMigrationUpdate(intentional bool)
	AddPathValidationEvent(success bool)
}

// A FileQLogger buffers events in memory and serializes them as a qlog trace.
type FileQLogger struct {
	vantagePoint  string
	referenceTime time.Time
	events        events
}

var _ Tracer = &FileQLogger{}

// NewFileQLogger creates a logger whose event timestamps are relative to now.
func NewFileQLogger(vantagePoint protocol.Perspective) *FileQLogger {
	return &FileQLogger{
		vantagePoint:  vantagePoint.String(),
		referenceTime: time.Now(),
	}
}

func (l *FileQLogger) addEvent(details eventDetails) {
	l.events = append(l.events, event{
		RelativeTime: time.Since(l.referenceTime),
		eventDetails: details,
	})
}

func (l *FileQLogger) AddPacketSent(pt PacketType, pn protocol.PacketNumber, size protocol.ByteCount, fs []wire.Frame) {
	l.addEvent(eventPacketSent{PacketType: pt, PacketNumber: pn, PacketSize: size, Frames: toQlogFrames(fs)})
}

func (l *FileQLogger) AddPacketReceived(pt PacketType, pn protocol.PacketNumber, size protocol.ByteCount, fs []wire.Frame) {
	l.addEvent(eventPacketReceived{PacketType: pt, PacketNumber: pn, PacketSize: size, Frames: toQlogFrames(fs)})
}

func (l *FileQLogger) AddConnectionClose(err, reason string, drainConn, sentCloseImmediately bool) {
	l.addEvent(eventConnectionClose{Error: err, Reason: reason, DrainConn: drainConn, SentCloseImmediately: sentCloseImmediately})
}

func (l *FileQLogger) AddTransportSummary(totalBytesSent, totalBytesRecvd protocol.ByteCount) {
	l.addEvent(eventTransportSummary{TotalBytesSent: totalBytesSent, TotalBytesRecvd: totalBytesRecvd})
}

func (l *FileQLogger) AddCongestionMetricUpdate(bytesInFlight, currentCwnd protocol.ByteCount, event, state string) {
	l.addEvent(eventCongestionMetricUpdate{BytesInFlight: bytesInFlight, CurrentCwnd: currentCwnd, CongestionEvent: event, State: state})
}

func (l *FileQLogger) AddPacingMetricUpdate(pacingBurstSize uint64, pacingInterval time.Duration) {
	l.addEvent(eventPacingMetricUpdate{PacingBurstSize: pacingBurstSize, PacingInterval: pacingInterval})
}

func (l *FileQLogger) AddPacingObservation(actual, expected, conclusion string) {
	l.addEvent(eventPacingObservation{ActualRate: actual, ExpectedRate: expected, Conclusion: conclusion})
}

func (l *FileQLogger) AddAppLimitedUpdate(limited bool) {
	l.addEvent(eventAppLimitedUpdate{Limited: limited})
}

func (l *FileQLogger) AddAppIdleUpdate(idleEvent string, idle bool) {
	l.addEvent(eventAppIdleUpdate{IdleEvent: idleEvent, Idle: idle})
}

func (l *FileQLogger) AddBandwidthEstUpdate(bytes protocol.ByteCount, interval time.Duration) {
	l.addEvent(eventBandwidthEstUpdate{Bytes: bytes, Interval: interval})
}

func (l *FileQLogger) AddPacketDrop(size protocol.ByteCount, dropReason string) {
	l.addEvent(eventPacketDrop{PacketSize: size, DropReason: dropReason})
}

func (l *FileQLogger) AddDatagramReceived(dataLen protocol.ByteCount) {
	l.addEvent(eventDatagramReceived{DataLen: dataLen})
}

func (l *FileQLogger) AddLossAlarm(largestSent protocol.PacketNumber, alarmCount, outstandingPackets uint64, typ string) {
	l.addEvent(eventLossAlarm{LargestSent: largestSent, AlarmCount: alarmCount, OutstandingPackets: outstandingPackets, Type: typ})
}

func (l *FileQLogger) AddPacketsLost(largestLost protocol.PacketNumber, lostBytes protocol.ByteCount, lostPackets uint64) {
	l.addEvent(eventPacketsLost{LargestLostPacketNum: largestLost, LostBytes: lostBytes, LostPackets: lostPackets})
}

func (l *FileQLogger) AddTransportStateUpdate(update string) {
	l.addEvent(eventTransportStateUpdate{Update: update})
}

func (l *FileQLogger) AddPacketBuffered(pn protocol.PacketNumber, protectionType string, size protocol.ByteCount) {
	l.addEvent(eventPacketBuffered{PacketNumber: pn, ProtectionType: protectionType, PacketSize: size})
}

func (l *FileQLogger) AddPacketAck(pnSpace protocol.PacketNumberSpace, pn protocol.PacketNumber) {
	l.addEvent(eventPacketAck{PacketNumSpace: pnSpace.String(), PacketNumber: pn})
}

func (l *FileQLogger) AddMetricUpdate(latestRTT, mrtt, srtt, ackDelay time.Duration) {
	l.addEvent(eventMetricUpdate{LatestRTT: latestRTT, MRTT: mrtt, SRTT: srtt, AckDelay: ackDelay})
}

func (l *FileQLogger) AddStreamStateUpdate(id protocol.StreamID, update string, sinceCreation time.Duration) {
	l.addEvent(eventStreamStateUpdate{StreamID: id, Update: update, TimeSinceStreamCreation: sinceCreation})
}

func (l *FileQLogger) AddConnectionMigrationUpdate(intentional bool) {
	l.addEvent(eventConnectionMigration{IntentionalMigration: intentional})
}

func (l *FileQLogger) AddPathValidationEvent(success bool) {
	l.addEvent(eventPathValidation{Success: success, VantagePoint: l.vantagePoint})
}

func toQlogFrames(fs []wire.Frame) frames {
	out := make(frames, 0, len(fs))
	for _, f := range fs {
		out = append(out, frame{Frame: f})
	}
	return out
}

type topLevel struct {
	vantagePoint string
	events       events
}

func (l topLevel) IsNil() bool { return false }
func (l topLevel) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("qlog_version", "draft-00")
	enc.ArrayKey("traces", traces{{vantagePoint: l.vantagePoint, events: l.events}})
}

type traces []trace

func (t traces) IsNil() bool { return t == nil }
func (t traces) MarshalJSONArray(enc *gojay.Encoder) {
	for _, tr := range t {
		enc.Object(tr)
	}
}

type trace struct {
	vantagePoint string
	events       events
}

func (t trace) IsNil() bool { return false }
func (t trace) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("vantage_point", vantagePoint{typ: t.vantagePoint})
	enc.ArrayKey("event_fields", eventFields)
	enc.ArrayKey("events", t.events)
}

var eventFields = stringArray{"relative_time", "category", "event", "trigger", "data"}

type stringArray []string

func (a stringArray) IsNil() bool { return a == nil }
func (a stringArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, s := range a {
		enc.String(s)
	}
}

type vantagePoint struct {
	typ string
}

func (v vantagePoint) IsNil() bool { return false }
func (v vantagePoint) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("type", v.typ)
}

// Export writes the buffered trace as qlog JSON.
func (l *FileQLogger) Export(w io.Writer) error {
	enc := gojay.NewEncoder(w)
	return enc.EncodeObject(topLevel{vantagePoint: l.vantagePoint, events: l.events})
}
