package device

import (
	"github.com/holoplot/go-evdev"

	"github.com/soar/unipad/internal/canon"
	"github.com/soar/unipad/internal/dispatch"
)

// Calibration is a device's native stick and trigger ranges, captured once
// after the grab.
type Calibration struct {
	Stick   canon.Domain
	Trigger canon.Domain
}

// Calibrate reads the native ranges of src. The stick range spans the
// minimum of X to the maximum of Y and the trigger range the minimum of Z
// to the maximum of RZ. When the ranges cannot be read they stay zero and
// values pass through unscaled.
func Calibrate(src Source) Calibration {
	infos, err := src.AbsInfos()
	if err != nil {
		return Calibration{}
	}
	return Calibration{
		Stick:   canon.Domain{Min: infos[evdev.ABS_X].Minimum, Max: infos[evdev.ABS_Y].Maximum},
		Trigger: canon.Domain{Min: infos[evdev.ABS_Z].Minimum, Max: infos[evdev.ABS_RZ].Maximum},
	}
}

// Translate converts a native event into a canonical one. Events that are
// neither keys nor absolute axes are dropped.
func (c Calibration) Translate(ev *evdev.InputEvent) (dispatch.RawInput, bool) {
	switch ev.Type {
	case evdev.EV_KEY:
		return dispatch.Button(ev.Code, ev.Value), true
	case evdev.EV_ABS:
		switch {
		case canon.IsHat(ev.Code):
			return dispatch.Abs(ev.Code, ev.Value), true
		case canon.IsTrigger(ev.Code):
			return dispatch.Abs(ev.Code, canon.Into(ev.Value, c.Trigger, canon.Trigger)), true
		default:
			return dispatch.Abs(ev.Code, canon.Into(ev.Value, c.Stick, canon.Analog)), true
		}
	}
	return dispatch.RawInput{}, false
}
