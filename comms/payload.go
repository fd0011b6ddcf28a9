package comms

import (
	"github.com/adnanmunawar/surgical-robotics-challenge/haptics"
	"github.com/go-gl/mathgl/mgl64"
)

// Wire shapes mirror the geometry_msgs / sensor_msgs layouts the dVRK
// publishes, as rosbridge serializes them to JSON.

type Vector3Msg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type QuaternionMsg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

type PoseMsg struct {
	Position    Vector3Msg    `json:"position"`
	Orientation QuaternionMsg `json:"orientation"`
}

type PoseStampedMsg struct {
	Pose PoseMsg `json:"pose"`
}

type TwistMsg struct {
	Linear  Vector3Msg `json:"linear"`
	Angular Vector3Msg `json:"angular"`
}

type TwistStampedMsg struct {
	Twist TwistMsg `json:"twist"`
}

type WrenchMsg struct {
	Force  Vector3Msg `json:"force"`
	Torque Vector3Msg `json:"torque"`
}

type JointStateMsg struct {
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
}

type JoyMsg struct {
	Buttons []int32 `json:"buttons"`
}

func vec3(v mgl64.Vec3) Vector3Msg {
	return Vector3Msg{X: v.X(), Y: v.Y(), Z: v.Z()}
}

func (v Vector3Msg) vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FrameFromPose converts a wire pose into a rigid transform.
func FrameFromPose(p PoseMsg) haptics.Frame {
	return haptics.Frame{
		Rot: mgl64.Quat{
			W: p.Orientation.W,
			V: mgl64.Vec3{p.Orientation.X, p.Orientation.Y, p.Orientation.Z},
		},
		Pos: p.Position.vec(),
	}
}

// PoseFromFrame converts a rigid transform into its wire pose.
func PoseFromFrame(f haptics.Frame) PoseMsg {
	return PoseMsg{
		Position: vec3(f.Pos),
		Orientation: QuaternionMsg{
			X: f.Rot.X(),
			Y: f.Rot.Y(),
			Z: f.Rot.Z(),
			W: f.Rot.W,
		},
	}
}

// TwistFromMsg converts a wire twist.
func TwistFromMsg(t TwistMsg) haptics.Twist {
	return haptics.Twist{Linear: t.Linear.vec(), Angular: t.Angular.vec()}
}

// WrenchFromCore converts an outbound wrench to its wire form.
func WrenchFromCore(w haptics.Wrench) WrenchMsg {
	return WrenchMsg{Force: vec3(w.Force), Torque: vec3(w.Torque)}
}

// Pressed reads a footpedal Joy message the way the dVRK publishes it: the
// first button slot carries the pedal state.
func (j JoyMsg) Pressed() bool {
	return len(j.Buttons) > 0 && j.Buttons[0] != 0
}
