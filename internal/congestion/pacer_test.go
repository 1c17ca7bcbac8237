package congestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

func newTestPacer() *Pacer {
	return NewPacer(PacerConfig{
		DefaultBatchSize: protocol.DefaultWriteConnectionDataPacketsLimit,
		TickInterval:     time.Millisecond,
		MinCwndInMss:     protocol.DefaultMinCwndInMss,
		UDPSendPacketLen: protocol.MaxPacketBufferSize,
	})
}

func fixedRate(interval time.Duration, burst uint64) PacingRateCalculator {
	return func(protocol.ByteCount, uint64, time.Duration) PacingRate {
		return PacingRate{Interval: interval, BurstSize: burst}
	}
}

func TestPacerDisabledBelowTickInterval(t *testing.T) {
	p := newTestPacer()
	p.RefreshPacingRate(100000, 100*time.Microsecond)
	require.Equal(t, time.Duration(0), p.GetTimeUntilNextWrite())
	require.Equal(t, uint64(protocol.DefaultWriteConnectionDataPacketsLimit), p.UpdateAndGetWriteBatchSize(time.Now()))
}

func TestPacerRefreshAccumulatesTokens(t *testing.T) {
	p := newTestPacer()
	p.SetPacingRateCalculator(fixedRate(10*time.Millisecond, 10))
	p.RefreshPacingRate(100000, 100*time.Millisecond)
	p.RefreshPacingRate(100000, 100*time.Millisecond)
	// initial tokens plus two bursts
	require.Equal(t, uint64(protocol.DefaultWriteConnectionDataPacketsLimit+20), p.UpdateAndGetWriteBatchSize(time.Now()))
}

func TestPacerTokensNeverNegative(t *testing.T) {
	p := newTestPacer()
	p.SetPacingRateCalculator(fixedRate(10*time.Millisecond, 2))
	p.RefreshPacingRate(100000, 100*time.Millisecond)
	for i := 0; i < 50; i++ {
		p.OnPacketSent()
	}
	require.Equal(t, uint64(0), p.UpdateAndGetWriteBatchSize(time.Now()))
	require.Equal(t, 10*time.Millisecond, p.GetTimeUntilNextWrite())
}

func TestPacerLossEmptiesBucket(t *testing.T) {
	p := newTestPacer()
	p.SetPacingRateCalculator(fixedRate(10*time.Millisecond, 10))
	p.RefreshPacingRate(100000, 100*time.Millisecond)
	p.OnPacketsLoss()
	require.Equal(t, uint64(0), p.UpdateAndGetWriteBatchSize(time.Now()))
}

func TestPacerTimerDriftCompensation(t *testing.T) {
	p := NewPacer(PacerConfig{
		DefaultBatchSize: 10,
		TickInterval:     time.Millisecond,
		MinCwndInMss:     2,
		UDPSendPacketLen: protocol.MaxPacketBufferSize,
	})
	p.SetPacingRateCalculator(fixedRate(10*time.Millisecond, 10))
	p.RefreshPacingRate(100000, 100*time.Millisecond)

	// drain the initial tokens plus the refresh burst
	for i := 0; i < 20; i++ {
		p.OnPacketSent()
	}
	require.Equal(t, 10*time.Millisecond, p.GetTimeUntilNextWrite())

	t0 := time.Now()
	p.OnPacedWriteScheduled(t0)
	// the timer fires exactly one interval late: one extra burst of credit
	require.Equal(t, uint64(10), p.UpdateAndGetWriteBatchSize(t0.Add(10*time.Millisecond)))

	// unused credit is retained across the next pass
	p.OnPacedWriteScheduled(t0.Add(10 * time.Millisecond))
	require.Equal(t, uint64(20), p.UpdateAndGetWriteBatchSize(t0.Add(20*time.Millisecond)))
}

func TestPacerAppLimited(t *testing.T) {
	p := newTestPacer()
	p.SetPacingRateCalculator(fixedRate(10*time.Millisecond, 10))
	p.RefreshPacingRate(100000, 100*time.Millisecond)
	for i := 0; i < 50; i++ {
		p.OnPacketSent()
	}
	p.SetAppLimited(true)
	require.Equal(t, time.Duration(0), p.GetTimeUntilNextWrite())
	require.Equal(t, uint64(protocol.DefaultWriteConnectionDataPacketsLimit), p.UpdateAndGetWriteBatchSize(time.Now()))
}

func TestPacerNotYetScheduledReturnsTokens(t *testing.T) {
	p := newTestPacer()
	p.SetPacingRateCalculator(fixedRate(10*time.Millisecond, 10))
	p.RefreshPacingRate(100000, 100*time.Millisecond)
	now := time.Now()
	p.OnPacedWriteScheduled(now.Add(time.Hour))
	tokens := p.UpdateAndGetWriteBatchSize(now)
	require.Equal(t, uint64(protocol.DefaultWriteConnectionDataPacketsLimit+10), tokens)
}

func TestDefaultPacingRateCalculator(t *testing.T) {
	calc := defaultPacingRateCalculator(time.Millisecond, 1000)
	rate := calc(100_000, 2, 10*time.Millisecond)
	require.Equal(t, time.Millisecond, rate.Interval)
	// 100 packets spread over 10 intervals
	require.Equal(t, uint64(10), rate.BurstSize)

	// the window floor kicks in for tiny cwnds
	rate = calc(100, 2, 10*time.Millisecond)
	require.Equal(t, uint64(2), rate.BurstSize)
}
