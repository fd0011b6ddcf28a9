package haptics

import "sync"

// CalibrationFrame corrects between the device's native frame and the tool
// frame the teleoperation controller works in. It carries two mounting
// offsets and a translation gain. The inverse of the base offset is cached
// and refreshed whenever the offset changes, so the hot correction path
// never inverts.
type CalibrationFrame struct {
	mu         sync.RWMutex
	baseOffset Frame
	baseInv    Frame
	tipOffset  Frame
	scale      float64
}

func NewCalibrationFrame() *CalibrationFrame {
	return &CalibrationFrame{
		baseOffset: IdentityFrame(),
		baseInv:    IdentityFrame(),
		tipOffset:  IdentityFrame(),
		scale:      1.0,
	}
}

// SetBaseOffset replaces the base mounting offset and recomputes its cached
// inverse in the same critical section.
func (c *CalibrationFrame) SetBaseOffset(f Frame) {
	c.mu.Lock()
	c.baseOffset = f
	c.baseInv = f.Inv()
	c.mu.Unlock()
}

func (c *CalibrationFrame) BaseOffset() Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseOffset
}

func (c *CalibrationFrame) SetTipOffset(f Frame) {
	c.mu.Lock()
	c.tipOffset = f
	c.mu.Unlock()
}

func (c *CalibrationFrame) TipOffset() Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tipOffset
}

// SetScale replaces the translation gain. No range check: zero and negative
// gains pass through, matching the reference driver.
func (c *CalibrationFrame) SetScale(s float64) {
	c.mu.Lock()
	c.scale = s
	c.mu.Unlock()
}

func (c *CalibrationFrame) Scale() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale
}

// CorrectPose maps a raw device pose into the tool frame:
// baseInv * scaled(raw) * tipOffset.
func (c *CalibrationFrame) CorrectPose(raw Frame) Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseInv.Mul(raw.ScaleTranslation(c.scale)).Mul(c.tipOffset)
}

// CorrectTwist rotates a raw device twist into the base-corrected frame. The
// tip offset is deliberately not applied here: velocity is re-oriented but
// not re-expressed at the tool tip.
func (c *CalibrationFrame) CorrectTwist(raw Twist) Twist {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseInv.TransformTwist(raw)
}

// CorrectWrench maps an outbound wrench command through the same base-offset
// inverse used on the inbound side.
func (c *CalibrationFrame) CorrectWrench(w Wrench) Wrench {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseInv.TransformWrench(w)
}
