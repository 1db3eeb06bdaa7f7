package device

import (
	"errors"
	"testing"

	"github.com/holoplot/go-evdev"

	"github.com/soar/unipad/internal/canon"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *fakeSource)
		want   string
	}{
		{"gamepad", func(f *fakeSource) {}, ""},
		{"real xbox pad", func(f *fakeSource) { f.name = canon.PadName }, ""},
		{"own virtual pad", func(f *fakeSource) { f.id = canon.PadID }, RejectSelf},
		{"mouse", func(f *fakeSource) { f.keys = []evdev.EvCode{evdev.BTN_LEFT} }, RejectNoSouth},
		{"usb keyboard", func(f *fakeSource) {
			f.keys = append(f.keys, evdev.KEY_LEFTMETA)
		}, RejectKeyboard},
		{"i8042 keyboard", func(f *fakeSource) {
			f.keys = append(f.keys, evdev.KEY_LEFTMETA)
			f.id.BusType = busI8042
		}, ""},
		{"touchpad", func(f *fakeSource) { f.keys = append(f.keys, evdev.BTN_TOUCH) }, RejectTouch},
		{"steam input pad", func(f *fakeSource) { f.name = canon.PadName + " 0" }, RejectEmulated},
		{"unreadable name", func(f *fakeSource) { f.nameErr = errors.New("ioctl") }, RejectEmulated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPad("/dev/input/event0")
			tt.modify(f)
			if got := Classify(f); got != tt.want {
				t.Fatalf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}
