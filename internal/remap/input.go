// Package remap holds the remap table that maps a canonical source input to
// a target action, and the text encoding shared by the control channel and
// config profiles.
//
// Axis identities compare by sign bucket, not by value: ABS_Z@5 and
// ABS_Z@100 are the same key, ABS_Z@5 and ABS_Z@-5 are not. The table
// derives its map key from the same rule so lookups and equality agree.
package remap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
)

// SpecialToken is the text form of the reserved host-level action.
const SpecialToken = "QuickAccess"

// ErrUnrecognized is returned by Parse for text that names no input.
var ErrUnrecognized = errors.New("unrecognized input")

type Kind uint8

const (
	KindButton Kind = iota + 1
	KindAxis
	KindSpecial
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindAxis:
		return "axis"
	case KindSpecial:
		return "special"
	default:
		return "invalid"
	}
}

// Input is a source identity or a target action. Value is only meaningful
// for axes: as a source it is the press threshold, as a target the output
// scale (button→axis) or the upper end of the output range (axis→axis).
type Input struct {
	Kind  Kind
	Code  evdev.EvCode
	Value int32
}

func Button(code evdev.EvCode) Input {
	return Input{Kind: KindButton, Code: code}
}

func Axis(code evdev.EvCode, value int32) Input {
	return Input{Kind: KindAxis, Code: code, Value: value}
}

func Special() Input {
	return Input{Kind: KindSpecial}
}

func bucket(v int32) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Equal reports sign-bucket equivalence.
func (i Input) Equal(o Input) bool {
	return i.key() == o.key()
}

type key struct {
	kind   Kind
	code   evdev.EvCode
	bucket int8
}

func (i Input) key() key {
	switch i.Kind {
	case KindButton:
		return key{kind: KindButton, code: i.Code}
	case KindAxis:
		return key{kind: KindAxis, code: i.Code, bucket: bucket(i.Value)}
	default:
		return key{kind: i.Kind}
	}
}

// Pressed binarizes an axis value against i used as a threshold key.
// Reaching the threshold exactly always counts as pressed. Otherwise a
// positive threshold presses above it and any other threshold below it.
func (i Input) Pressed(v int32) bool {
	switch {
	case v == i.Value:
		return true
	case i.Value > 0:
		return v > i.Value
	default:
		return v < i.Value
	}
}

func (i Input) String() string {
	switch i.Kind {
	case KindButton:
		return KeyName(i.Code)
	case KindAxis:
		return AbsName(i.Code) + "@" + strconv.FormatInt(int64(i.Value), 10)
	case KindSpecial:
		return SpecialToken
	default:
		return "<invalid>"
	}
}

func (i Input) MarshalText() ([]byte, error) {
	if i.Kind < KindButton || i.Kind > KindSpecial {
		return nil, errors.Errorf("cannot encode input of kind %d", i.Kind)
	}
	return []byte(i.String()), nil
}

func (i *Input) UnmarshalText(text []byte) error {
	in, err := Parse(string(text))
	if err != nil {
		return err
	}
	*i = in
	return nil
}

// Parse decodes a bare button name (BTN_SOUTH), an axis with a signed
// value (ABS_HAT0Y@-1) or the special action token.
func Parse(s string) (Input, error) {
	s = strings.TrimSpace(s)
	if code, ok := evdev.KEYFromString[s]; ok {
		return Button(code), nil
	}
	if name, num, ok := strings.Cut(s, "@"); ok {
		code, known := evdev.ABSFromString[name]
		if !known || strings.Contains(num, "@") {
			return Input{}, errors.Wrapf(ErrUnrecognized, "axis %q", s)
		}
		v, err := strconv.ParseInt(num, 10, 32)
		if err != nil {
			return Input{}, errors.Wrapf(ErrUnrecognized, "axis value %q", num)
		}
		return Axis(code, int32(v)), nil
	}
	if s == SpecialToken {
		return Special(), nil
	}
	return Input{}, errors.Wrapf(ErrUnrecognized, "%q", s)
}

// Gamepad codes have several aliases in input-event-codes.h; these are the
// names we print.
var keyNames = map[evdev.EvCode]string{
	evdev.BTN_SOUTH:      "BTN_SOUTH",
	evdev.BTN_EAST:       "BTN_EAST",
	evdev.BTN_NORTH:      "BTN_NORTH",
	evdev.BTN_WEST:       "BTN_WEST",
	evdev.BTN_C:          "BTN_C",
	evdev.BTN_Z:          "BTN_Z",
	evdev.BTN_TL:         "BTN_TL",
	evdev.BTN_TR:         "BTN_TR",
	evdev.BTN_TL2:        "BTN_TL2",
	evdev.BTN_TR2:        "BTN_TR2",
	evdev.BTN_SELECT:     "BTN_SELECT",
	evdev.BTN_START:      "BTN_START",
	evdev.BTN_MODE:       "BTN_MODE",
	evdev.BTN_THUMBL:     "BTN_THUMBL",
	evdev.BTN_THUMBR:     "BTN_THUMBR",
	evdev.BTN_DPAD_UP:    "BTN_DPAD_UP",
	evdev.BTN_DPAD_DOWN:  "BTN_DPAD_DOWN",
	evdev.BTN_DPAD_LEFT:  "BTN_DPAD_LEFT",
	evdev.BTN_DPAD_RIGHT: "BTN_DPAD_RIGHT",
}

func KeyName(code evdev.EvCode) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	if name, ok := evdev.KEYToString[code]; ok {
		return name
	}
	return fmt.Sprintf("KEY_0x%03x", uint16(code))
}

func AbsName(code evdev.EvCode) string {
	if name, ok := evdev.ABSToString[code]; ok {
		return name
	}
	return fmt.Sprintf("ABS_0x%02x", uint16(code))
}
