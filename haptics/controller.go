package haptics

import (
	"context"
	"time"
)

// DefaultHoldPeriod matches the 20 Hz tick of the reference hold loop.
const DefaultHoldPeriod = 50 * time.Millisecond

// HoldLoop keeps the arm parked while the operator is not commanding motion:
// with the coag pedal down it streams a zero wrench so the arm floats freely,
// otherwise it re-commands the pre-coag pose snapshot. Runs until ctx is
// cancelled. Send errors are ignored here; the transport reports them.
func HoldLoop(ctx context.Context, m *MTM, period time.Duration) {
	if period <= 0 {
		period = DefaultHoldPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.CoagPressed() {
				m.CommandWrench(Wrench{})
				continue
			}
			if !m.IsActive() {
				continue
			}
			if pose, ok := m.PreCoagPose(); ok {
				m.CommandPose(pose)
			}
		}
	}
}
