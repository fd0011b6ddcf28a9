package haptics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is a rigid transform: a rotation followed by a translation.
// Composition and inversion follow the usual homogeneous-transform rules,
// kept in quaternion + vector form so repeated composition stays cheap.
type Frame struct {
	Rot mgl64.Quat
	Pos mgl64.Vec3
}

// Twist is a body velocity expressed at a reference point.
type Twist struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// Wrench is a force/torque pair expressed at a reference point.
type Wrench struct {
	Force  mgl64.Vec3
	Torque mgl64.Vec3
}

func IdentityFrame() Frame {
	return Frame{Rot: mgl64.QuatIdent()}
}

// RPY builds a rotation from fixed-axis roll/pitch/yaw angles in radians,
// applied X then Y then Z.
func RPY(roll, pitch, yaw float64) mgl64.Quat {
	return mgl64.AnglesToQuat(yaw, pitch, roll, mgl64.ZYX)
}

// RollPitchYaw recovers the fixed-axis angles from f's rotation. Pitch is
// clamped to ±π/2 at the gimbal singularity.
func (f Frame) RollPitchYaw() (roll, pitch, yaw float64) {
	q := f.Rot.Normalize()
	x, y, z, w := q.X(), q.Y(), q.Z(), q.W

	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sp := 2 * (w*y - z*x)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	pitch = math.Asin(sp)

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return
}

// Mul composes two transforms: the result maps a point through g then f.
func (f Frame) Mul(g Frame) Frame {
	return Frame{
		Rot: f.Rot.Mul(g.Rot),
		Pos: f.Rot.Rotate(g.Pos).Add(f.Pos),
	}
}

// Inv returns the algebraic inverse, so f.Mul(f.Inv()) is the identity.
func (f Frame) Inv() Frame {
	ri := f.Rot.Inverse()
	return Frame{
		Rot: ri,
		Pos: ri.Rotate(f.Pos).Mul(-1),
	}
}

// ScaleTranslation returns a copy of f with its translation scaled; the
// rotation is untouched.
func (f Frame) ScaleTranslation(s float64) Frame {
	return Frame{Rot: f.Rot, Pos: f.Pos.Mul(s)}
}

// TransformTwist re-expresses a twist through f. The angular part is rotated;
// the linear part picks up the lever-arm term from f's translation.
func (f Frame) TransformTwist(t Twist) Twist {
	ang := f.Rot.Rotate(t.Angular)
	return Twist{
		Linear:  f.Rot.Rotate(t.Linear).Add(f.Pos.Cross(ang)),
		Angular: ang,
	}
}

// TransformWrench re-expresses a wrench through f, the dual of TransformTwist:
// the force is rotated and the torque picks up the lever-arm term.
func (f Frame) TransformWrench(w Wrench) Wrench {
	force := f.Rot.Rotate(w.Force)
	return Wrench{
		Force:  force,
		Torque: f.Rot.Rotate(w.Torque).Add(f.Pos.Cross(force)),
	}
}
