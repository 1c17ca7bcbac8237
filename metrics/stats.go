// Package metrics provides a prometheus-backed implementation of the
// transport stats callback.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yhcchaos/mvfst-old/logging"
)

const metricNamespace = "quic"

var (
	packetsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_received_total",
			Help:      "Packets Received",
		},
	)
	packetsDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_duplicate_total",
			Help:      "Duplicate Packets Received",
		},
	)
	packetsOutOfOrder = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_out_of_order_total",
			Help:      "Out of Order Packets Received",
		},
	)
	packetsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_processed_total",
			Help:      "Packets Processed",
		},
	)
	packetsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_sent_total",
			Help:      "Packets Sent",
		},
	)
	packetsRetransmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_retransmitted_total",
			Help:      "Packet Retransmissions",
		},
	)
	packetsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_dropped_total",
			Help:      "Packets Dropped",
		},
		[]string{"reason"},
	)
	packetsForwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_forwarded_total",
			Help:      "Packets Forwarded to Another Host",
		},
	)
	forwardedPacketsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "forwarded_packets_received_total",
			Help:      "Forwarded Packets Received",
		},
	)
	forwardedPacketsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "forwarded_packets_processed_total",
			Help:      "Forwarded Packets Processed",
		},
	)
	connsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "connections_created_total",
			Help:      "Connections Created",
		},
	)
	connsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "connections_closed_total",
			Help:      "Connections Closed",
		},
	)
	streamsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "streams_created_total",
			Help:      "Streams Created",
		},
	)
	streamsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "streams_closed_total",
			Help:      "Streams Closed",
		},
	)
	streamsReset = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "streams_reset_total",
			Help:      "Streams Reset",
		},
	)
	connFlowControlUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "conn_flow_control_updates_total",
			Help:      "Connection Flow Control Updates Sent",
		},
	)
	connFlowControlBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "conn_flow_control_blocked_total",
			Help:      "Times the Connection was Flow Control Blocked",
		},
	)
	statelessResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "stateless_resets_total",
			Help:      "Stateless Resets Sent",
		},
	)
	streamFlowControlUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "stream_flow_control_updates_total",
			Help:      "Stream Flow Control Updates Sent",
		},
	)
	streamFlowControlBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "stream_flow_control_blocked_total",
			Help:      "Times a Stream was Flow Control Blocked",
		},
	)
	cwndBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "cwnd_blocked_total",
			Help:      "Times a Write was Congestion Window Blocked",
		},
	)
	ptos = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "probe_timeouts_total",
			Help:      "Probe Timeouts Fired",
		},
	)
	bytesRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "read_bytes_total",
			Help:      "Bytes Read from the Socket",
		},
	)
	bytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "written_bytes_total",
			Help:      "Bytes Written to the Socket",
		},
	)
	socketWriteErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "socket_write_errors_total",
			Help:      "UDP Socket Write Errors",
		},
		[]string{"type"},
	)
)

// A StatsCallback counts transport events in prometheus metrics.
type StatsCallback struct{}

var _ logging.TransportStatsCallback = StatsCallback{}

// NewStatsCallback creates a stats callback and registers its metrics with the
// given registerer.
func NewStatsCallback(registerer prometheus.Registerer) StatsCallback {
	for _, c := range [...]prometheus.Collector{
		packetsReceived,
		packetsDuplicate,
		packetsOutOfOrder,
		packetsProcessed,
		packetsSent,
		packetsRetransmitted,
		packetsDropped,
		packetsForwarded,
		forwardedPacketsReceived,
		forwardedPacketsProcessed,
		connsCreated,
		connsClosed,
		streamsCreated,
		streamsClosed,
		streamsReset,
		connFlowControlUpdates,
		connFlowControlBlocked,
		statelessResets,
		streamFlowControlUpdates,
		streamFlowControlBlocked,
		cwndBlocked,
		ptos,
		bytesRead,
		bytesWritten,
		socketWriteErrors,
	} {
		if err := registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
	return StatsCallback{}
}

func (StatsCallback) OnPacketReceived()           { packetsReceived.Inc() }
func (StatsCallback) OnDuplicatedPacketReceived() { packetsDuplicate.Inc() }
func (StatsCallback) OnOutOfOrderPacketReceived() { packetsOutOfOrder.Inc() }
func (StatsCallback) OnPacketProcessed()          { packetsProcessed.Inc() }
func (StatsCallback) OnPacketSent()               { packetsSent.Inc() }
func (StatsCallback) OnPacketRetransmission()     { packetsRetransmitted.Inc() }

func (StatsCallback) OnPacketDropped(reason logging.PacketDropReason) {
	packetsDropped.WithLabelValues(reason.String()).Inc()
}

func (StatsCallback) OnPacketForwarded()          { packetsForwarded.Inc() }
func (StatsCallback) OnForwardedPacketReceived()  { forwardedPacketsReceived.Inc() }
func (StatsCallback) OnForwardedPacketProcessed() { forwardedPacketsProcessed.Inc() }

func (StatsCallback) OnNewConnection() { connsCreated.Inc() }

func (StatsCallback) OnConnectionClose(*logging.ConnectionCloseReason) { connsClosed.Inc() }

func (StatsCallback) OnNewQuicStream()    { streamsCreated.Inc() }
func (StatsCallback) OnQuicStreamClosed() { streamsClosed.Inc() }
func (StatsCallback) OnQuicStreamReset()  { streamsReset.Inc() }

func (StatsCallback) OnConnFlowControlUpdate()   { connFlowControlUpdates.Inc() }
func (StatsCallback) OnConnFlowControlBlocked()  { connFlowControlBlocked.Inc() }
func (StatsCallback) OnStatelessReset()          { statelessResets.Inc() }
func (StatsCallback) OnStreamFlowControlUpdate() { streamFlowControlUpdates.Inc() }
func (StatsCallback) OnStreamFlowControlBlocked() {
	streamFlowControlBlocked.Inc()
}
func (StatsCallback) OnCwndBlocked() { cwndBlocked.Inc() }

func (StatsCallback) OnPTO() { ptos.Inc() }

func (StatsCallback) OnRead(bufSize int)  { bytesRead.Add(float64(bufSize)) }
func (StatsCallback) OnWrite(bufSize int) { bytesWritten.Add(float64(bufSize)) }

func (StatsCallback) OnUDPSocketWriteError(errorType logging.SocketErrorType) {
	socketWriteErrors.WithLabelValues(errorType.String()).Inc()
}
