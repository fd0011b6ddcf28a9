package haptics

// DeviceState is a point-in-time copy of everything the controller layer can
// read from an MTM, in a form that serializes cleanly. Fields sampled under
// one lock acquisition, but the topics feeding them tick independently, so
// treat the aggregate as advisory.
type DeviceState struct {
	Name         string     `json:"name"`
	Active       bool       `json:"active"`
	Position     [3]float64 `json:"position"`
	Orientation  [4]float64 `json:"orientation"` // x, y, z, w
	Linear       [3]float64 `json:"linear"`
	Angular      [3]float64 `json:"angular"`
	GripperAngle float64    `json:"gripper_angle"`
	Clutch       bool       `json:"clutch"`
	Coag         bool       `json:"coag"`
	SwitchSlave  bool       `json:"switch_slave"`
	Scale        float64    `json:"scale"`
}

// State samples the device record.
func (m *MTM) State() DeviceState {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.pose.Rot
	return DeviceState{
		Name:         m.Name,
		Active:       m.active,
		Position:     [3]float64{m.pose.Pos.X(), m.pose.Pos.Y(), m.pose.Pos.Z()},
		Orientation:  [4]float64{q.X(), q.Y(), q.Z(), q.W},
		Linear:       [3]float64{m.twist.Linear.X(), m.twist.Linear.Y(), m.twist.Linear.Z()},
		Angular:      [3]float64{m.twist.Angular.X(), m.twist.Angular.Y(), m.twist.Angular.Z()},
		GripperAngle: m.gripperAngle,
		Clutch:       m.clutchPressed,
		Coag:         m.coagPressed,
		SwitchSlave:  m.switchSlave,
		Scale:        m.cal.Scale(),
	}
}
