package haptics

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// YAMLFrame is the on-disk form of a Frame: fixed-axis angles plus a
// translation, both as three-element lists.
type YAMLFrame struct {
	RPY []float64 `yaml:"rpy,flow"`
	XYZ []float64 `yaml:"xyz,flow"`
}

func (f Frame) MarshalYAML() (interface{}, error) {
	r, p, y := f.RollPitchYaw()
	return &YAMLFrame{
		RPY: []float64{r, p, y},
		XYZ: []float64{f.Pos.X(), f.Pos.Y(), f.Pos.Z()},
	}, nil
}

func (f *Frame) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var yf YAMLFrame
	if err := unmarshal(&yf); err != nil {
		return err
	}
	*f = IdentityFrame()
	if yf.RPY != nil {
		if len(yf.RPY) != 3 {
			return fmt.Errorf("frame rpy needs 3 elements, got %d", len(yf.RPY))
		}
		f.Rot = RPY(yf.RPY[0], yf.RPY[1], yf.RPY[2])
	}
	if yf.XYZ != nil {
		if len(yf.XYZ) != 3 {
			return fmt.Errorf("frame xyz needs 3 elements, got %d", len(yf.XYZ))
		}
		f.Pos[0], f.Pos[1], f.Pos[2] = yf.XYZ[0], yf.XYZ[1], yf.XYZ[2]
	}
	return nil
}

// DeviceConfig describes one master arm on the bus.
type DeviceConfig struct {
	Prefix     string  `yaml:"prefix"`
	BaseOffset Frame   `yaml:"base_offset"`
	TipOffset  Frame   `yaml:"tip_offset"`
	Scale      float64 `yaml:"scale"`
	DebounceMs int     `yaml:"debounce_ms"`
}

// Debounce returns the configured double-press window, or the default when
// the field is absent.
func (d DeviceConfig) Debounce() time.Duration {
	if d.DebounceMs <= 0 {
		return DefaultDebounce
	}
	return time.Duration(d.DebounceMs) * time.Millisecond
}

// Config is the top level of the adapter's yaml file.
type Config struct {
	Interface string                  `yaml:"interface"` // dVRK interface version the topics follow
	Bridge    string                  `yaml:"bridge"`    // websocket url of the message bridge
	Devices   map[string]DeviceConfig `yaml:"devices"`
}

// orIdentity maps the zero Frame, left behind when a yaml key is absent, to
// the identity transform.
func orIdentity(f Frame) Frame {
	if f.Rot.W == 0 && f.Rot.V == (mgl64.Vec3{}) {
		f.Rot = mgl64.QuatIdent()
	}
	return f
}

// Apply pushes a device's configured calibration onto an MTM.
func (d DeviceConfig) Apply(m *MTM) {
	cal := m.Calibration()
	cal.SetBaseOffset(orIdentity(d.BaseOffset))
	cal.SetTipOffset(orIdentity(d.TipOffset))
	if d.Scale != 0 {
		cal.SetScale(d.Scale)
	}
	m.SetDebounce(d.Debounce())
}
