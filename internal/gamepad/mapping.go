package gamepad

import (
	"math"

	"github.com/holoplot/go-evdev"

	"github.com/soar/unipad/internal/canon"
)

// AxisMapping defines how a virtual pad axis maps to a state field.
type AxisMapping struct {
	Code      evdev.EvCode
	Target    string // "left_x", "left_y", "right_x", "right_y", "lt", "rt", "hat_x", "hat_y"
	IsTrigger bool
	Invert    bool
}

// ButtonMapping defines how a virtual pad button maps to a state field.
type ButtonMapping struct {
	Code   evdev.EvCode
	Target string // "a", "b", "x", "y", "lb", "rb", "select", "start", "home", "l3", "r3"
}

var padAxes = []AxisMapping{
	{Code: evdev.ABS_X, Target: "left_x"},
	{Code: evdev.ABS_Y, Target: "left_y", Invert: true},
	{Code: evdev.ABS_RX, Target: "right_x"},
	{Code: evdev.ABS_RY, Target: "right_y", Invert: true},
	{Code: evdev.ABS_Z, Target: "lt", IsTrigger: true},
	{Code: evdev.ABS_RZ, Target: "rt", IsTrigger: true},
	{Code: evdev.ABS_HAT0X, Target: "hat_x"},
	{Code: evdev.ABS_HAT0Y, Target: "hat_y"},
}

var padButtons = []ButtonMapping{
	{Code: evdev.BTN_SOUTH, Target: "a"},
	{Code: evdev.BTN_EAST, Target: "b"},
	{Code: evdev.BTN_NORTH, Target: "x"},
	{Code: evdev.BTN_WEST, Target: "y"},
	{Code: evdev.BTN_TL, Target: "lb"},
	{Code: evdev.BTN_TR, Target: "rb"},
	{Code: evdev.BTN_SELECT, Target: "select"},
	{Code: evdev.BTN_START, Target: "start"},
	{Code: evdev.BTN_MODE, Target: "home"},
	{Code: evdev.BTN_THUMBL, Target: "l3"},
	{Code: evdev.BTN_THUMBR, Target: "r3"},
}

var (
	axisByCode   = make(map[evdev.EvCode]AxisMapping, len(padAxes))
	buttonByCode = make(map[evdev.EvCode]ButtonMapping, len(padButtons))
)

func init() {
	for _, a := range padAxes {
		axisByCode[a.Code] = a
	}
	for _, b := range padButtons {
		buttonByCode[b.Code] = b
	}
}

// LookupAxis returns the state field an emitted axis drives.
func LookupAxis(code evdev.EvCode) (AxisMapping, bool) {
	m, ok := axisByCode[code]
	return m, ok
}

// LookupButton returns the state field an emitted button drives.
func LookupButton(code evdev.EvCode) (ButtonMapping, bool) {
	m, ok := buttonByCode[code]
	return m, ok
}

// NormalizeAxis converts a canonical stick value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(v int32) float64 {
	f := float64(v) / math.MaxInt16
	if f < -1.0 {
		f = -1.0
	}
	if f > 1.0 {
		f = 1.0
	}
	return f
}

// NormalizeTrigger converts a canonical trigger value to 0.0..1.0.
func NormalizeTrigger(v int32) float64 {
	f := float64(v-canon.Trigger.Min) / float64(canon.Trigger.Max-canon.Trigger.Min)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f
}

// ApplyDeadzone returns 0 if the value is within the deadzone threshold.
func ApplyDeadzone(v float64, threshold float64) float64 {
	if math.Abs(v) < threshold {
		return 0
	}
	return v
}
