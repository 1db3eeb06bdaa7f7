package remap

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
)

func TestAxisEquivalence(t *testing.T) {
	var a evdev.EvCode = evdev.ABS_X
	cases := []struct {
		x, y Input
		want bool
	}{
		{Axis(a, 5), Axis(a, 100), true},
		{Axis(a, 5), Axis(a, -5), false},
		{Axis(a, 0), Axis(a, 0), true},
		{Axis(a, 0), Axis(a, 1), false},
		{Axis(a, -100), Axis(a, -50), true},
		{Axis(a, 5), Axis(evdev.ABS_Y, 5), false},
		{Button(evdev.BTN_SOUTH), Button(evdev.BTN_SOUTH), true},
		{Button(evdev.BTN_SOUTH), Button(evdev.BTN_EAST), false},
		{Button(evdev.ABS_X), Axis(evdev.ABS_X, 0), false},
		{Special(), Special(), true},
	}
	for _, tc := range cases {
		if got := tc.x.Equal(tc.y); got != tc.want {
			t.Errorf("%v == %v: got %v, want %v", tc.x, tc.y, got, tc.want)
		}
		if got := tc.y.Equal(tc.x); got != tc.want {
			t.Errorf("%v == %v (swapped): got %v, want %v", tc.y, tc.x, got, tc.want)
		}
		if tc.want && tc.x.key() != tc.y.key() {
			t.Errorf("%v and %v are equal but derive different keys", tc.x, tc.y)
		}
	}
}

func TestPressed(t *testing.T) {
	pos := Axis(evdev.ABS_Z, 256)
	for v, want := range map[int32]bool{256: true, 255: false, 300: true, 0: false} {
		if got := pos.Pressed(v); got != want {
			t.Errorf("threshold 256, value %d: got %v, want %v", v, got, want)
		}
	}
	neg := Axis(evdev.ABS_Y, -16000)
	for v, want := range map[int32]bool{-16000: true, -20000: true, -15999: false, 10: false} {
		if got := neg.Pressed(v); got != want {
			t.Errorf("threshold -16000, value %d: got %v, want %v", v, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Input{
		"BTN_SOUTH":      Button(evdev.BTN_SOUTH),
		"  BTN_DPAD_UP ": Button(evdev.BTN_DPAD_UP),
		"ABS_HAT0Y@-1":   Axis(evdev.ABS_HAT0Y, -1),
		"ABS_Z@256":      Axis(evdev.ABS_Z, 256),
		"ABS_X@0":        Axis(evdev.ABS_X, 0),
		SpecialToken:     Special(),
		"ABS_RX@+2000":   Axis(evdev.ABS_RX, 2000),
		"BTN_TR2":        Button(evdev.BTN_TR2),
		"ABS_RZ@-32768":  Axis(evdev.ABS_RZ, -32768),
	}
	for text, want := range cases {
		got, err := Parse(text)
		if err != nil {
			t.Errorf("Parse(%q): %v", text, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %+v, want %+v", text, got, want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, text := range []string{
		"", "BTN_NOPE", "ABS_X", "ABS_X@", "ABS_X@abc", "ABS_NOPE@1",
		"BTN_SOUTH@1", "ABS_X@1@2", "ABS_X@99999999999", "quickaccess",
	} {
		if _, err := Parse(text); !errors.Is(err, ErrUnrecognized) {
			t.Errorf("Parse(%q) error = %v, want ErrUnrecognized", text, err)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, in := range []Input{
		Button(evdev.BTN_SOUTH),
		Button(evdev.BTN_MODE),
		Axis(evdev.ABS_HAT0X, 1),
		Axis(evdev.ABS_RZ, -42),
		Special(),
	} {
		back, err := Parse(in.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", in.String(), err)
		}
		if back != in {
			t.Fatalf("round trip of %+v gave %+v", in, back)
		}
	}
}
