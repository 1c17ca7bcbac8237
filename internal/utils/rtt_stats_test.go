package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRTTStatsFirstSample(t *testing.T) {
	var rtt RTTStats
	require.Equal(t, defaultInitialRTT, rtt.SmoothedOrInitialRTT())

	rtt.UpdateRTT(100*time.Millisecond, 0)
	require.Equal(t, 100*time.Millisecond, rtt.MinRTT())
	require.Equal(t, 100*time.Millisecond, rtt.SmoothedRTT())
	require.Equal(t, 50*time.Millisecond, rtt.MeanDeviation())
}

func TestRTTStatsSmoothing(t *testing.T) {
	var rtt RTTStats
	rtt.UpdateRTT(100*time.Millisecond, 0)
	rtt.UpdateRTT(200*time.Millisecond, 0)
	// smoothed = 7/8 * 100ms + 1/8 * 200ms
	require.Equal(t, 112500*time.Microsecond, rtt.SmoothedRTT())
	require.Equal(t, 200*time.Millisecond, rtt.LatestRTT())
	require.Equal(t, 100*time.Millisecond, rtt.MinRTT())
}

func TestRTTStatsAckDelay(t *testing.T) {
	var rtt RTTStats
	rtt.UpdateRTT(100*time.Millisecond, 0)
	// the ack delay is subtracted if doing so doesn't go below minRTT
	rtt.UpdateRTT(300*time.Millisecond, 100*time.Millisecond)
	require.Equal(t, 200*time.Millisecond, rtt.LatestRTT())

	// ignore non-positive samples
	rtt.UpdateRTT(0, 0)
	require.Equal(t, 200*time.Millisecond, rtt.LatestRTT())
}
