// Package gamepad mirrors what the virtual pad currently reports, for the
// monitor page.
package gamepad

import (
	"math"

	"github.com/holoplot/go-evdev"
)

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type StickState struct {
	Position Vector `json:"position"`
	Pressed  bool   `json:"pressed"`
}

type TriggerState struct {
	Value float64 `json:"value"`
}

type ButtonState struct {
	A      bool `json:"a"`
	B      bool `json:"b"`
	X      bool `json:"x"`
	Y      bool `json:"y"`
	LB     bool `json:"lb"`
	RB     bool `json:"rb"`
	Select bool `json:"select"`
	Start  bool `json:"start"`
	Home   bool `json:"home"`
}

type DpadState struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

type SticksState struct {
	Left  StickState `json:"left"`
	Right StickState `json:"right"`
}

type TriggersState struct {
	LT TriggerState `json:"lt"`
	RT TriggerState `json:"rt"`
}

type PadState struct {
	Connected      bool          `json:"connected"`
	ControllerType string        `json:"controllerType"`
	Name           string        `json:"name"`
	Buttons        ButtonState   `json:"buttons"`
	Dpad           DpadState     `json:"dpad"`
	Sticks         SticksState   `json:"sticks"`
	Triggers       TriggersState `json:"triggers"`
}

type DeltaChanges struct {
	Connected      *bool          `json:"connected,omitempty"`
	ControllerType *string        `json:"controllerType,omitempty"`
	Name           *string        `json:"name,omitempty"`
	Buttons        *ButtonState   `json:"buttons,omitempty"`
	Dpad           *DpadState     `json:"dpad,omitempty"`
	Sticks         *SticksState   `json:"sticks,omitempty"`
	Triggers       *TriggersState `json:"triggers,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.ControllerType == nil &&
		d.Name == nil &&
		d.Buttons == nil &&
		d.Dpad == nil &&
		d.Sticks == nil &&
		d.Triggers == nil
}

const (
	analogThreshold = 0.01
	deadzone        = 0.05
)

// Apply folds one emitted event into the state and reports whether a
// field changed.
func (s *PadState) Apply(ev *evdev.InputEvent) bool {
	old := *s
	switch ev.Type {
	case evdev.EV_KEY:
		m, ok := LookupButton(ev.Code)
		if !ok {
			return false
		}
		s.setButton(m.Target, ev.Value != 0)
	case evdev.EV_ABS:
		m, ok := LookupAxis(ev.Code)
		if !ok {
			return false
		}
		s.setAxis(m, ev.Value)
	default:
		return false
	}
	return old != *s
}

func (s *PadState) setButton(target string, pressed bool) {
	switch target {
	case "a":
		s.Buttons.A = pressed
	case "b":
		s.Buttons.B = pressed
	case "x":
		s.Buttons.X = pressed
	case "y":
		s.Buttons.Y = pressed
	case "lb":
		s.Buttons.LB = pressed
	case "rb":
		s.Buttons.RB = pressed
	case "select":
		s.Buttons.Select = pressed
	case "start":
		s.Buttons.Start = pressed
	case "home":
		s.Buttons.Home = pressed
	case "l3":
		s.Sticks.Left.Pressed = pressed
	case "r3":
		s.Sticks.Right.Pressed = pressed
	}
}

func (s *PadState) setAxis(m AxisMapping, v int32) {
	if m.IsTrigger {
		t := NormalizeTrigger(v)
		if m.Target == "lt" {
			s.Triggers.LT.Value = t
		} else {
			s.Triggers.RT.Value = t
		}
		return
	}

	switch m.Target {
	case "hat_x":
		s.Dpad.Left, s.Dpad.Right = v < 0, v > 0
		return
	case "hat_y":
		s.Dpad.Up, s.Dpad.Down = v < 0, v > 0
		return
	}

	f := ApplyDeadzone(NormalizeAxis(v), deadzone)
	if m.Invert {
		f = -f
	}
	switch m.Target {
	case "left_x":
		s.Sticks.Left.Position.X = f
	case "left_y":
		s.Sticks.Left.Position.Y = f
	case "right_x":
		s.Sticks.Right.Position.X = f
	case "right_y":
		s.Sticks.Right.Position.Y = f
	}
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func ComputeDelta(old, new_ PadState) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.ControllerType != new_.ControllerType {
		d.ControllerType = &new_.ControllerType
	}
	if old.Name != new_.Name {
		d.Name = &new_.Name
	}
	if old.Buttons != new_.Buttons {
		d.Buttons = &new_.Buttons
	}
	if old.Dpad != new_.Dpad {
		d.Dpad = &new_.Dpad
	}

	if !floatEqual(old.Sticks.Left.Position.X, new_.Sticks.Left.Position.X) ||
		!floatEqual(old.Sticks.Left.Position.Y, new_.Sticks.Left.Position.Y) ||
		old.Sticks.Left.Pressed != new_.Sticks.Left.Pressed ||
		!floatEqual(old.Sticks.Right.Position.X, new_.Sticks.Right.Position.X) ||
		!floatEqual(old.Sticks.Right.Position.Y, new_.Sticks.Right.Position.Y) ||
		old.Sticks.Right.Pressed != new_.Sticks.Right.Pressed {
		d.Sticks = &new_.Sticks
	}

	if !floatEqual(old.Triggers.LT.Value, new_.Triggers.LT.Value) ||
		!floatEqual(old.Triggers.RT.Value, new_.Triggers.RT.Value) {
		d.Triggers = &new_.Triggers
	}

	return d
}
