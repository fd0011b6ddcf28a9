package haptics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/smartystreets/goconvey/convey"
)

const kFrameTolerance = 1e-9

func shouldAlmostEqualVec(actual mgl64.Vec3, expected mgl64.Vec3) {
	So(actual.X(), ShouldAlmostEqual, expected.X(), kFrameTolerance)
	So(actual.Y(), ShouldAlmostEqual, expected.Y(), kFrameTolerance)
	So(actual.Z(), ShouldAlmostEqual, expected.Z(), kFrameTolerance)
}

func TestFrame(t *testing.T) {
	Convey("a frame built from roll/pitch/yaw and a translation", t, func() {
		f := Frame{Rot: RPY(math.Pi/2, 0, 0), Pos: mgl64.Vec3{1, 2, 3}}

		Convey("rotates points before translating", func() {
			g := Frame{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{0, 1, 0}}
			// rotating (0,1,0) by 90 degrees about x gives (0,0,1)
			shouldAlmostEqualVec(f.Mul(g).Pos, mgl64.Vec3{1, 2, 4})
		})

		Convey("composed with its inverse it collapses to identity", func() {
			id := f.Mul(f.Inv())
			shouldAlmostEqualVec(id.Pos, mgl64.Vec3{})
			So(math.Abs(id.Rot.W), ShouldAlmostEqual, 1, kFrameTolerance)
		})

		Convey("roll/pitch/yaw round-trips through the quaternion", func() {
			r, p, y := f.RollPitchYaw()
			So(r, ShouldAlmostEqual, math.Pi/2, kFrameTolerance)
			So(p, ShouldAlmostEqual, 0, kFrameTolerance)
			So(y, ShouldAlmostEqual, 0, kFrameTolerance)
		})

		Convey("scaling the translation leaves the rotation alone", func() {
			s := f.ScaleTranslation(2)
			shouldAlmostEqualVec(s.Pos, mgl64.Vec3{2, 4, 6})
			So(s.Rot, ShouldResemble, f.Rot)
		})
	})

	Convey("twist and wrench transforms", t, func() {
		rot := Frame{Rot: RPY(0, 0, math.Pi/2)} // 90 degrees about z

		Convey("a pure rotation rotates both components", func() {
			tw := rot.TransformTwist(Twist{
				Linear:  mgl64.Vec3{1, 0, 0},
				Angular: mgl64.Vec3{0, 1, 0},
			})
			shouldAlmostEqualVec(tw.Linear, mgl64.Vec3{0, 1, 0})
			shouldAlmostEqualVec(tw.Angular, mgl64.Vec3{-1, 0, 0})
		})

		Convey("a translated frame adds the lever-arm term", func() {
			f := Frame{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{0, 0, 1}}
			tw := f.TransformTwist(Twist{Angular: mgl64.Vec3{0, 1, 0}})
			// p x w = (0,0,1) x (0,1,0) = (-1,0,0)
			shouldAlmostEqualVec(tw.Linear, mgl64.Vec3{-1, 0, 0})

			w := f.TransformWrench(Wrench{Force: mgl64.Vec3{0, 1, 0}})
			shouldAlmostEqualVec(w.Force, mgl64.Vec3{0, 1, 0})
			shouldAlmostEqualVec(w.Torque, mgl64.Vec3{-1, 0, 0})
		})
	})
}

func BenchmarkFrame_Mul(b *testing.B) {
	f := Frame{Rot: RPY(math.Pi/4, math.Pi/3, 0), Pos: mgl64.Vec3{1, 2, 3}}
	g := Frame{Rot: RPY(0, 0, math.Pi/2), Pos: mgl64.Vec3{-1, 0, 1}}

	for n := 0; n < b.N; n++ {
		f.Mul(g)
	}
}

func BenchmarkFrame_Inv(b *testing.B) {
	f := Frame{Rot: RPY(math.Pi/4, math.Pi/3, 0), Pos: mgl64.Vec3{1, 2, 3}}

	for n := 0; n < b.N; n++ {
		f.Inv()
	}
}
