package haptics

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	simInterval = time.Second / 20
	simDrift    = 0.002
)

// SimulatedFeed drives an MTM with a synthetic random-walk pose and twist
// stream, for developing against no hardware. The pedals stay untouched so
// shell-driven pedal injection still works.
type SimulatedFeed struct {
	mtm *MTM
	pos mgl64.Vec3
	rng *rand.Rand
}

func NewSimulatedFeed(m *MTM) *SimulatedFeed {
	return &SimulatedFeed{
		mtm: m,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run feeds the device until ctx is cancelled.
func (s *SimulatedFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(simInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.step(now)
		}
	}
}

func (s *SimulatedFeed) step(now time.Time) {
	var delta mgl64.Vec3
	for i := range delta {
		delta[i] = (s.rng.Float64()*2 - 1) * simDrift
	}
	s.pos = s.pos.Add(delta)

	s.mtm.OnPose(Frame{Rot: mgl64.QuatIdent(), Pos: s.pos}, now)
	s.mtm.OnTwist(Twist{Linear: delta.Mul(1 / simInterval.Seconds())})
	s.mtm.OnGripper(s.rng.Float64() * gripperMax)
}
