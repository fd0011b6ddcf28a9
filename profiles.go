package main

import (
	"github.com/adnanmunawar/surgical-robotics-challenge/haptics"
)

// CalibrationProfile is a named calibration snapshot persisted in the local
// storm database, so a good registration can be recalled across runs.
type CalibrationProfile struct {
	ID         int    `storm:"id,increment"`
	Name       string `storm:"unique"`
	BaseOffset haptics.Frame
	TipOffset  haptics.Frame
	Scale      float64
}

// SaveProfile stores the device's current calibration under name, replacing
// any profile already saved with that name.
func (a *Adapter) SaveProfile(name string, m *haptics.MTM) error {
	cal := m.Calibration()

	var existing CalibrationProfile
	if err := a.db.One("Name", name, &existing); err == nil {
		if err := a.db.DeleteStruct(&existing); err != nil {
			return err
		}
	}

	return a.db.Save(&CalibrationProfile{
		Name:       name,
		BaseOffset: cal.BaseOffset(),
		TipOffset:  cal.TipOffset(),
		Scale:      cal.Scale(),
	})
}

// LoadProfile applies a saved calibration to the device.
func (a *Adapter) LoadProfile(name string, m *haptics.MTM) error {
	var p CalibrationProfile
	if err := a.db.One("Name", name, &p); err != nil {
		return err
	}

	cal := m.Calibration()
	cal.SetBaseOffset(p.BaseOffset)
	cal.SetTipOffset(p.TipOffset)
	cal.SetScale(p.Scale)
	return nil
}

// Profiles lists every saved calibration profile.
func (a *Adapter) Profiles() ([]CalibrationProfile, error) {
	var profiles []CalibrationProfile
	err := a.db.All(&profiles)
	return profiles, err
}
