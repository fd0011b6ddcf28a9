package haptics

import (
	"sync"
	"time"
)

const (
	// Gripper joint travel limits in radians, from the dVRK MTM hardware.
	gripperMin = -1.8
	gripperMax = 1.4

	// DefaultDebounce is the window inside which a second pedal press counts
	// as a double-press.
	DefaultDebounce = 500 * time.Millisecond
)

// Publisher carries outbound commands back to the device. Sends are fire and
// forget; the transport logs its own failures.
type Publisher interface {
	PublishPose(Frame) error
	PublishWrench(Wrench) error
}

// MTM mirrors the state of one master tele-manipulator as reported over its
// topics. Inbound handlers each take the lock, apply one atomic field update
// and return; readers get per-field snapshots with no cross-field consistency
// promise, since the topics tick on independent clocks.
type MTM struct {
	Name string

	mu  sync.Mutex
	cal *CalibrationFrame
	pub Publisher

	pose         Frame
	twist        Twist
	gripperAngle float64

	clutchPressed bool
	coagPressed   bool

	active      bool
	switchSlave bool

	rawPose     Frame
	haveRawPose bool
	preCoagPose Frame
	havePreCoag bool

	lastPress time.Time
	havePress bool
	debounce  time.Duration
}

// NewMTM builds a device record around its calibration frame. pub may be nil
// for read-only use; Command* calls then drop their payload.
func NewMTM(name string, cal *CalibrationFrame, pub Publisher) *MTM {
	if cal == nil {
		cal = NewCalibrationFrame()
	}
	return &MTM{
		Name:     name,
		cal:      cal,
		pub:      pub,
		pose:     IdentityFrame(),
		debounce: DefaultDebounce,
	}
}

// Calibration exposes the owned calibration frame for configuration.
func (m *MTM) Calibration() *CalibrationFrame { return m.cal }

func (m *MTM) SetDebounce(d time.Duration) {
	m.mu.Lock()
	m.debounce = d
	m.mu.Unlock()
}

// OnPose ingests a raw device pose. The first message ever received also
// seeds the pre-coag snapshot and flips the device active; active never
// reverts afterwards.
func (m *MTM) OnPose(raw Frame, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rawPose = raw
	m.haveRawPose = true
	if !m.havePreCoag {
		m.preCoagPose = raw
		m.havePreCoag = true
	}
	m.pose = m.cal.CorrectPose(raw)
	m.active = true
}

// OnTwist ingests a raw device twist.
func (m *MTM) OnTwist(raw Twist) {
	m.mu.Lock()
	m.twist = m.cal.CorrectTwist(raw)
	m.mu.Unlock()
}

// OnGripper ingests the gripper joint position. The additive offset mapping
// is carried over verbatim from the reference dVRK adapter; it offsets the
// joint angle by min/(max-min) rather than normalizing over the range.
func (m *MTM) OnGripper(jointPos float64) {
	m.mu.Lock()
	m.gripperAngle = jointPos + gripperMin/(gripperMax-gripperMin)
	m.mu.Unlock()
}

// OnClutch latches the clutch pedal state and runs the double-press check on
// a press edge.
func (m *MTM) OnClutch(pressed bool, t time.Time) {
	m.mu.Lock()
	m.clutchPressed = pressed
	if pressed {
		m.checkDoublePress(t)
	}
	m.mu.Unlock()
}

// OnCoag latches the coag pedal state and refreshes the pre-coag pose
// snapshot from the last raw pose, on press and release alike, then runs the
// double-press check on a press edge.
func (m *MTM) OnCoag(pressed bool, t time.Time) {
	m.mu.Lock()
	m.coagPressed = pressed
	if m.haveRawPose {
		m.preCoagPose = m.rawPose
		m.havePreCoag = true
	}
	if pressed {
		m.checkDoublePress(t)
	}
	m.mu.Unlock()
}

// checkDoublePress shares one clock between both pedals: a rapid second press
// of either requests a slave switch. Callers hold the lock.
func (m *MTM) checkDoublePress(t time.Time) {
	if m.havePress && t.Sub(m.lastPress) < m.debounce {
		m.switchSlave = true
	}
	m.lastPress = t
	m.havePress = true
}

// MeasuredCP returns the current calibrated pose.
func (m *MTM) MeasuredCP() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pose
}

// MeasuredCV returns the current calibrated twist.
func (m *MTM) MeasuredCV() Twist {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.twist
}

func (m *MTM) GripperAngle() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gripperAngle
}

// IsActive reports whether the device has been seen on the bus.
func (m *MTM) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SwitchSlaveRequested reports a pending double-press gesture. The flag stays
// up until the consumer clears it.
func (m *MTM) SwitchSlaveRequested() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.switchSlave
}

// ClearSwitchSlave acknowledges the gesture.
func (m *MTM) ClearSwitchSlave() {
	m.mu.Lock()
	m.switchSlave = false
	m.mu.Unlock()
}

// PreCoagPose returns the pose snapshot taken at the most recent coag pedal
// activity, and false if no pose has been seen yet.
func (m *MTM) PreCoagPose() (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preCoagPose, m.havePreCoag
}

func (m *MTM) ClutchPressed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clutchPressed
}

func (m *MTM) CoagPressed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coagPressed
}

func (m *MTM) Scale() float64     { return m.cal.Scale() }
func (m *MTM) SetScale(s float64) { m.cal.SetScale(s) }

// CommandPose sends a pose verbatim. Pose commands come from a controller
// already working in the base frame, so no correction is applied.
func (m *MTM) CommandPose(p Frame) error {
	if m.pub == nil {
		return nil
	}
	return m.pub.PublishPose(p)
}

// CommandWrench corrects a wrench through the calibration frame before
// sending it to the device.
func (m *MTM) CommandWrench(w Wrench) error {
	if m.pub == nil {
		return nil
	}
	return m.pub.PublishWrench(m.cal.CorrectWrench(w))
}
