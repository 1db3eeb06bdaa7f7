package device

import (
	"strings"

	"github.com/holoplot/go-evdev"

	"github.com/soar/unipad/internal/canon"
)

const busI8042 = 0x11

// Rejection reasons, also used as metric labels.
const (
	RejectSelf     = "self"
	RejectNoSouth  = "no_south_button"
	RejectKeyboard = "keyboard"
	RejectTouch    = "touch"
	RejectEmulated = "emulated_pad"
)

// Classify decides whether src looks like a gamepad worth grabbing. It
// returns an empty reason when the device is accepted.
func Classify(src Source) string {
	id, err := src.InputID()
	if err == nil && id.Version == canon.PadVersion {
		return RejectSelf
	}

	if !hasCode(src, evdev.EV_KEY, evdev.BTN_SOUTH) {
		return RejectNoSouth
	}
	// built-in i8042 keyboards on handhelds share a node with the pad
	if hasCode(src, evdev.EV_KEY, evdev.KEY_LEFTMETA) && id.BusType != busI8042 {
		return RejectKeyboard
	}
	if hasCode(src, evdev.EV_KEY, evdev.BTN_TOUCH) {
		return RejectTouch
	}

	// Steam Input and friends append an index to the name
	name, err := src.Name()
	if err != nil || strings.HasPrefix(name, canon.PadName+" ") {
		return RejectEmulated
	}
	return ""
}
