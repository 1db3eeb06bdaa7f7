package device

import (
	"io"
	"sync"

	"github.com/holoplot/go-evdev"
)

type fakeSource struct {
	path    string
	name    string
	nameErr error
	id      evdev.InputID
	keys    []evdev.EvCode
	abs     map[evdev.EvCode]evdev.AbsInfo
	absErr  error
	grabErr error
	queue   []*evdev.InputEvent

	mu      sync.Mutex
	grabbed bool
	closed  bool
}

func newPad(path string) *fakeSource {
	return &fakeSource{
		path: path,
		name: "Generic USB Gamepad",
		id:   evdev.InputID{BusType: 0x03, Vendor: 0x1234, Product: 0x5678, Version: 0x0111},
		keys: []evdev.EvCode{evdev.BTN_SOUTH, evdev.BTN_EAST, evdev.BTN_DPAD_UP},
		abs: map[evdev.EvCode]evdev.AbsInfo{
			evdev.ABS_X:  {Minimum: 0, Maximum: 255},
			evdev.ABS_Y:  {Minimum: 0, Maximum: 255},
			evdev.ABS_Z:  {Minimum: 0, Maximum: 1023},
			evdev.ABS_RZ: {Minimum: 0, Maximum: 1023},
		},
	}
}

func (f *fakeSource) Name() (string, error)           { return f.name, f.nameErr }
func (f *fakeSource) InputID() (evdev.InputID, error) { return f.id, nil }
func (f *fakeSource) Path() string                    { return f.path }

func (f *fakeSource) CapableEvents(t evdev.EvType) []evdev.EvCode {
	switch t {
	case evdev.EV_KEY:
		return f.keys
	case evdev.EV_ABS:
		codes := make([]evdev.EvCode, 0, len(f.abs))
		for c := range f.abs {
			codes = append(codes, c)
		}
		return codes
	}
	return nil
}

func (f *fakeSource) AbsInfos() (map[evdev.EvCode]evdev.AbsInfo, error) {
	if f.absErr != nil {
		return nil, f.absErr
	}
	return f.abs, nil
}

func (f *fakeSource) Grab() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grabErr != nil {
		return f.grabErr
	}
	f.grabbed = true
	return nil
}

func (f *fakeSource) ReadOne() (*evdev.InputEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || len(f.queue) == 0 {
		return nil, io.EOF
	}
	ev := f.queue[0]
	f.queue = f.queue[1:]
	return ev, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) state() (grabbed, closed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grabbed, f.closed
}

