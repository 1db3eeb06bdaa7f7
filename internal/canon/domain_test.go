package canon

import (
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestNormalizeEndpoints(t *testing.T) {
	cases := []struct {
		name           string
		min, max       int32
		outMin, outMax int32
	}{
		{"byte stick to analog", 0, 255, Analog.Min, Analog.Max},
		{"signed stick to analog", -32768, 32767, Analog.Min, Analog.Max},
		{"wide stick to analog", -65536, 65535, Analog.Min, Analog.Max},
		{"10 bit trigger", 0, 1023, Trigger.Min, Trigger.Max},
		{"inverted output", 0, 100, 10, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.min, tc.min, tc.max, tc.outMin, tc.outMax); got != tc.outMin {
				t.Fatalf("Normalize(min) = %d, want %d", got, tc.outMin)
			}
			if got := Normalize(tc.max, tc.min, tc.max, tc.outMin, tc.outMax); got != tc.outMax {
				t.Fatalf("Normalize(max) = %d, want %d", got, tc.outMax)
			}
		})
	}
}

func TestNormalizeTruncates(t *testing.T) {
	// 1 * 255 / 2 = 127.5, truncated
	if got := Normalize(1, 0, 2, 0, 255); got != 127 {
		t.Fatalf("got %d, want 127", got)
	}
	// byte stick centre
	if got := Normalize(128, 0, 255, Analog.Min, Analog.Max); got != 128 {
		t.Fatalf("got %d, want 128", got)
	}
}

func TestIntoDegeneratePassesThrough(t *testing.T) {
	for _, x := range []int32{-500, 0, 17, 40000} {
		if got := Into(x, Domain{}, Analog); got != x {
			t.Fatalf("Into(%d, zero range) = %d", x, got)
		}
	}
}

func TestHatValuesStayCanonical(t *testing.T) {
	for _, x := range []int32{-1, 0, 1} {
		if got := Into(x, Hat, Hat); got != x {
			t.Fatalf("hat %d became %d", x, got)
		}
	}
}

func TestDomainOf(t *testing.T) {
	cases := map[evdev.EvCode]Domain{
		evdev.ABS_X:     Analog,
		evdev.ABS_RY:    Analog,
		evdev.ABS_Z:     Trigger,
		evdev.ABS_RZ:    Trigger,
		evdev.ABS_HAT0X: Hat,
		evdev.ABS_HAT0Y: Hat,
		evdev.ABS_HAT2Y: Hat,
	}
	for code, want := range cases {
		if got := DomainOf(code); got != want {
			t.Errorf("DomainOf(%d) = %+v, want %+v", code, got, want)
		}
	}
}
