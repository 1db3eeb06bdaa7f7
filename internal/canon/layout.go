package canon

import "github.com/holoplot/go-evdev"

// The virtual pad presents itself as a wired Xbox 360 controller so games
// pick it up without configuration. PadVersion is not used by real pads and
// marks the device as ours.
const (
	PadName    = "Microsoft X-Box 360 pad"
	PadVersion = 0x2137
)

var PadID = evdev.InputID{
	BusType: 0x03, // BUS_USB
	Vendor:  0x045e,
	Product: 0x028e,
	Version: PadVersion,
}

// Buttons are the digital controls the virtual pad exposes.
var Buttons = []evdev.EvCode{
	evdev.BTN_SOUTH,
	evdev.BTN_EAST,
	evdev.BTN_NORTH,
	evdev.BTN_WEST,
	evdev.BTN_TL,
	evdev.BTN_TR,
	evdev.BTN_SELECT,
	evdev.BTN_START,
	evdev.BTN_MODE,
	evdev.BTN_THUMBL,
	evdev.BTN_THUMBR,
}

// Axes are the absolute axes the virtual pad exposes.
var Axes = []evdev.EvCode{
	evdev.ABS_X,
	evdev.ABS_Y,
	evdev.ABS_RX,
	evdev.ABS_RY,
	evdev.ABS_Z,
	evdev.ABS_RZ,
	evdev.ABS_HAT0X,
	evdev.ABS_HAT0Y,
}

var buttonSet = func() map[evdev.EvCode]bool {
	m := make(map[evdev.EvCode]bool, len(Buttons))
	for _, b := range Buttons {
		m[b] = true
	}
	return m
}()

// HasButton reports whether the virtual pad can emit code.
func HasButton(code evdev.EvCode) bool {
	return buttonSet[code]
}
