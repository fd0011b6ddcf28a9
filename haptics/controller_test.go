package haptics

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/smartystreets/goconvey/convey"
)

func runHold(m *MTM, d time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	go HoldLoop(ctx, m, time.Millisecond)
	time.Sleep(d)
	cancel()
	time.Sleep(5 * time.Millisecond)
}

func TestHoldLoop(t *testing.T) {
	Convey("the hold loop", t, func() {
		pub := new(mockPublisher)
		m := NewMTM("MTMR", nil, pub)

		Convey("does nothing before the device is active", func() {
			runHold(m, 20*time.Millisecond)
			_, poses := pub.lastPose()
			_, wrenches := pub.lastWrench()
			So(poses, ShouldEqual, 0)
			So(wrenches, ShouldEqual, 0)
		})

		Convey("re-commands the pre-coag pose while the pedal is up", func() {
			m.OnPose(Frame{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{1, 0, 0}}, at(0))
			m.OnPose(Frame{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{5, 0, 0}}, at(1))

			runHold(m, 20*time.Millisecond)

			pose, poses := pub.lastPose()
			So(poses, ShouldBeGreaterThan, 0)
			// the snapshot is the first pose, never the latest
			shouldAlmostEqualVec(pose.Pos, mgl64.Vec3{1, 0, 0})
		})

		Convey("streams a zero wrench while the pedal is down", func() {
			m.OnPose(Frame{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{1, 0, 0}}, at(0))
			m.OnCoag(true, at(1))

			runHold(m, 20*time.Millisecond)

			wrench, wrenches := pub.lastWrench()
			So(wrenches, ShouldBeGreaterThan, 0)
			shouldAlmostEqualVec(wrench.Force, mgl64.Vec3{})
			shouldAlmostEqualVec(wrench.Torque, mgl64.Vec3{})
			_, poses := pub.lastPose()
			So(poses, ShouldEqual, 0)
		})
	})
}
