package mvfst

import (
	"time"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// A PendingPathRateLimiter bounds the bytes sent to a peer address that has
// not completed path validation, to limit the amplification an attacker can
// get out of a spoofed address. The credit replenishes once per RTT.
type PendingPathRateLimiter struct {
	maxCredit   protocol.ByteCount
	credit      protocol.ByteCount
	lastChecked time.Time
}

// NewPendingPathRateLimiter creates a limiter granting maxCredit bytes per RTT.
func NewPendingPathRateLimiter(maxCredit protocol.ByteCount) *PendingPathRateLimiter {
	return &PendingPathRateLimiter{maxCredit: maxCredit, credit: maxCredit}
}

// CurrentCredit returns the bytes still allowed in this RTT window, resetting
// the window if a full RTT has passed since the last check.
func (l *PendingPathRateLimiter) CurrentCredit(checkTime time.Time, rtt time.Duration) protocol.ByteCount {
	if l.lastChecked.IsZero() || checkTime.After(l.lastChecked.Add(rtt)) {
		l.lastChecked = checkTime
		l.credit = l.maxCredit
	}
	return l.credit
}

// OnPacketSent consumes credit. The caller must have checked CurrentCredit:
// sentBytes must not exceed the remaining credit.
func (l *PendingPathRateLimiter) OnPacketSent(sentBytes protocol.ByteCount) {
	if sentBytes > l.credit {
		sentBytes = l.credit
	}
	l.credit -= sentBytes
}
