// Package canon defines the canonical output ranges of the virtual pad and
// the affine normalization from a physical device's native range into them.
package canon

import "github.com/holoplot/go-evdev"

// Domain is a closed integer range an axis value is expressed in.
type Domain struct {
	Min int32
	Max int32
}

var (
	Analog  = Domain{Min: -32768, Max: 32767}
	Hat     = Domain{Min: -1, Max: 1}
	Trigger = Domain{Min: 0, Max: 255}
)

// Degenerate reports whether the range collapsed to a single point.
// Such a range cannot be normalized from.
func (d Domain) Degenerate() bool {
	return d.Min == d.Max
}

// Normalize maps x from [min, max] onto [outMin, outMax] with truncating
// integer division. min must differ from max.
func Normalize(x, min, max, outMin, outMax int32) int32 {
	return int32((int64(x)-int64(min))*(int64(outMax)-int64(outMin))/(int64(max)-int64(min)) + int64(outMin))
}

// Into normalizes x from src into dst. A degenerate src passes x through.
func Into(x int32, src, dst Domain) int32 {
	if src.Degenerate() {
		return x
	}
	return Normalize(x, src.Min, src.Max, dst.Min, dst.Max)
}

// IsHat reports whether code is one of the hat switch axes.
func IsHat(code evdev.EvCode) bool {
	return code >= evdev.ABS_HAT0X && code <= evdev.ABS_HAT3Y
}

// IsTrigger reports whether code is one of the two analog trigger axes.
func IsTrigger(code evdev.EvCode) bool {
	return code == evdev.ABS_Z || code == evdev.ABS_RZ
}

// DomainOf returns the canonical domain an absolute axis is emitted in.
func DomainOf(code evdev.EvCode) Domain {
	switch {
	case IsHat(code):
		return Hat
	case IsTrigger(code):
		return Trigger
	default:
		return Analog
	}
}
