// Package congestion holds the rate-shaping pieces of the transmission
// pipeline. The congestion controllers themselves live behind an interface;
// only the pacer is implemented here.
package congestion

import (
	"math"
	"time"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/internal/utils"
	"github.com/yhcchaos/mvfst-old/qlog"
)

// A PacingRate is the shape of one pacing interval.
type PacingRate struct {
	Interval  time.Duration
	BurstSize uint64
}

// A PacingRateCalculator turns a congestion window and an RTT into a pacing rate.
type PacingRateCalculator func(cwndBytes protocol.ByteCount, minCwndInMss uint64, rtt time.Duration) PacingRate

// PacerConfig carries the transport settings the pacer depends on.
type PacerConfig struct {
	// DefaultBatchSize is the burst used when pacing is disabled or the sender
	// is app-limited.
	DefaultBatchSize uint64
	// TickInterval is the pacing timer resolution. An RTT below it disables
	// pacing.
	TickInterval time.Duration
	// MinCwndInMss is the floor of the congestion window, in packets.
	MinCwndInMss uint64
	// UDPSendPacketLen is the assumed packet size when converting the window
	// into packets.
	UDPSendPacketLen protocol.ByteCount

	QLogger qlog.Tracer
	Logger  utils.Logger
}

// A Pacer is a token-bucket write-rate shaper. Tokens are packets: each write
// pass asks for a batch size, each sent packet consumes one token, and every
// pacing-rate refresh adds a burst of tokens.
type Pacer struct {
	cfg PacerConfig

	writeInterval   time.Duration
	batchSize       uint64
	tokens          uint64
	cachedBatchSize uint64

	scheduledWriteTime time.Time
	appLimited         bool

	rateCalculator PacingRateCalculator
}

// NewPacer creates a pacer. Until the first RefreshPacingRate call, writes are
// released in bursts of the default batch size.
func NewPacer(cfg PacerConfig) *Pacer {
	if cfg.Logger == nil {
		cfg.Logger = utils.DefaultLogger
	}
	return &Pacer{
		cfg:             cfg,
		batchSize:       cfg.DefaultBatchSize,
		tokens:          cfg.DefaultBatchSize,
		cachedBatchSize: cfg.DefaultBatchSize,
		rateCalculator:  defaultPacingRateCalculator(cfg.TickInterval, cfg.UDPSendPacketLen),
	}
}

// SetPacingRateCalculator replaces the function deriving the pacing rate.
func (p *Pacer) SetPacingRateCalculator(calculator PacingRateCalculator) {
	p.rateCalculator = calculator
}

// SetAppLimited marks the sender as application limited.
func (p *Pacer) SetAppLimited(limited bool) {
	p.appLimited = limited
}

// RefreshPacingRate recomputes interval and burst from the congestion window
// and the RTT. The new burst is added to the token bucket, so credit from
// earlier refreshes is retained.
func (p *Pacer) RefreshPacingRate(cwndBytes protocol.ByteCount, rtt time.Duration) {
	if rtt < p.cfg.TickInterval {
		p.writeInterval = 0
		p.batchSize = p.cfg.DefaultBatchSize
	} else {
		rate := p.rateCalculator(cwndBytes, p.cfg.MinCwndInMss, rtt)
		p.writeInterval = rate.Interval
		p.batchSize = rate.BurstSize
		p.tokens += p.batchSize
	}
	if p.cfg.QLogger != nil {
		p.cfg.QLogger.AddPacingMetricUpdate(p.batchSize, p.writeInterval)
	}
	p.cachedBatchSize = p.batchSize
}

// OnPacedWriteScheduled records when the pacing timer was armed.
func (p *Pacer) OnPacedWriteScheduled(currentTime time.Time) {
	p.scheduledWriteTime = currentTime
}

// OnPacketSent consumes one token.
func (p *Pacer) OnPacketSent() {
	if p.tokens > 0 {
		p.tokens--
	}
}

// OnPacketsLoss empties the token bucket.
func (p *Pacer) OnPacketsLoss() {
	p.tokens = 0
}

// GetTimeUntilNextWrite is how long the caller should wait before the next
// write pass.
func (p *Pacer) GetTimeUntilNextWrite() time.Duration {
	if p.appLimited || p.tokens > 0 {
		return 0
	}
	return p.writeInterval
}

// UpdateAndGetWriteBatchSize returns how many packets the current write pass
// may send. When the pacing timer fired late, the burst is scaled up to
// compensate for the drift, and the excess is credited to the token bucket.
func (p *Pacer) UpdateAndGetWriteBatchSize(currentTime time.Time) uint64 {
	scheduled := p.scheduledWriteTime
	p.scheduledWriteTime = time.Time{}
	if p.appLimited {
		p.cachedBatchSize = p.cfg.DefaultBatchSize
		return p.cachedBatchSize
	}
	if p.writeInterval == 0 {
		return p.batchSize
	}
	if scheduled.IsZero() || !currentTime.After(scheduled) {
		return p.tokens
	}
	adjustedInterval := currentTime.Sub(scheduled) + p.writeInterval
	p.cachedBatchSize = uint64(math.Ceil(
		float64(adjustedInterval.Microseconds()) * float64(p.batchSize) / float64(p.writeInterval.Microseconds())))
	if p.cachedBatchSize < p.batchSize {
		p.cfg.Logger.Errorf("pacer batch size calculation: cachedBatchSize %d < batchSize %d", p.cachedBatchSize, p.batchSize)
	}
	if p.cachedBatchSize > p.batchSize {
		p.tokens += p.cachedBatchSize - p.batchSize
	}
	return p.tokens
}

// GetCachedWriteBatchSize returns the batch size computed by the most recent
// refresh or write pass.
func (p *Pacer) GetCachedWriteBatchSize() uint64 {
	return p.cachedBatchSize
}

// defaultPacingRateCalculator spreads the congestion window evenly over the
// RTT, at the granularity of the pacing timer.
func defaultPacingRateCalculator(tickInterval time.Duration, packetLen protocol.ByteCount) PacingRateCalculator {
	return func(cwndBytes protocol.ByteCount, minCwndInMss uint64, rtt time.Duration) PacingRate {
		minCwndBytes := protocol.ByteCount(minCwndInMss) * packetLen
		if cwndBytes < minCwndBytes {
			cwndBytes = minCwndBytes
		}
		numIntervals := uint64(rtt / tickInterval)
		if numIntervals == 0 {
			numIntervals = 1
		}
		cwndInPackets := uint64(math.Ceil(float64(cwndBytes) / float64(packetLen)))
		burst := (cwndInPackets + numIntervals - 1) / numIntervals
		if burst < minCwndInMss {
			burst = minCwndInMss
		}
		return PacingRate{Interval: tickInterval, BurstSize: burst}
	}
}
