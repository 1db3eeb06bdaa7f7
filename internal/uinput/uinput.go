// Package uinput creates the virtual pad through /dev/uinput and writes
// events to it.
package uinput

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/soar/unipad/internal/canon"
)

const DefaultPath = "/dev/uinput"

// from uinput.h
const (
	uinputMaxNameSize = 80
	absCnt            = 64

	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetAbsBit  = 0x40045567
)

type inputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type userDev struct {
	Name       [uinputMaxNameSize]byte
	ID         inputID
	EffectsMax uint32
	AbsMax     [absCnt]int32
	AbsMin     [absCnt]int32
	AbsFuzz    [absCnt]int32
	AbsFlat    [absCnt]int32
}

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// AbsSetup describes the range the device reports for one axis.
type AbsSetup struct {
	Min  int32
	Max  int32
	Fuzz int32
	Flat int32
}

// Spec is everything needed to register a device.
type Spec struct {
	Name     string
	ID       evdev.InputID
	Keys     []evdev.EvCode
	Absolute map[evdev.EvCode]AbsSetup
}

// Device is a created uinput device. It is not safe for concurrent use.
type Device struct {
	f *os.File
}

// PadSpec is the canonical virtual pad.
func PadSpec() Spec {
	stick := AbsSetup{Min: canon.Analog.Min, Max: canon.Analog.Max, Fuzz: 16, Flat: 256}
	trigger := AbsSetup{Min: canon.Trigger.Min, Max: canon.Trigger.Max}
	hat := AbsSetup{Min: canon.Hat.Min, Max: canon.Hat.Max}

	abs := make(map[evdev.EvCode]AbsSetup, len(canon.Axes))
	for _, code := range canon.Axes {
		switch {
		case canon.IsHat(code):
			abs[code] = hat
		case canon.IsTrigger(code):
			abs[code] = trigger
		default:
			abs[code] = stick
		}
	}
	return Spec{
		Name:     canon.PadName,
		ID:       canon.PadID,
		Keys:     canon.Buttons,
		Absolute: abs,
	}
}

// Create registers spec with the uinput node at path.
func Create(path string, spec Spec) (*Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if err := setup(f, spec); err != nil {
		f.Close()
		return nil, err
	}
	return &Device{f: f}, nil
}

func setup(f *os.File, spec Spec) error {
	fd := int(f.Fd())
	dev := userDev{
		ID: inputID{
			BusType: spec.ID.BusType,
			Vendor:  spec.ID.Vendor,
			Product: spec.ID.Product,
			Version: spec.ID.Version,
		},
	}
	copy(dev.Name[:uinputMaxNameSize-1], spec.Name)

	if len(spec.Keys) > 0 {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, int(evdev.EV_KEY)); err != nil {
			return errors.Wrap(err, "UI_SET_EVBIT EV_KEY")
		}
		for _, k := range spec.Keys {
			if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(k)); err != nil {
				return errors.Wrapf(err, "UI_SET_KEYBIT %d", k)
			}
		}
	}

	if len(spec.Absolute) > 0 {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, int(evdev.EV_ABS)); err != nil {
			return errors.Wrap(err, "UI_SET_EVBIT EV_ABS")
		}
		for code, a := range spec.Absolute {
			if int(code) >= absCnt {
				return errors.Errorf("absolute axis %d out of range", code)
			}
			if err := unix.IoctlSetInt(fd, uiSetAbsBit, int(code)); err != nil {
				return errors.Wrapf(err, "UI_SET_ABSBIT %d", code)
			}
			dev.AbsMin[code] = a.Min
			dev.AbsMax[code] = a.Max
			dev.AbsFuzz[code] = a.Fuzz
			dev.AbsFlat[code] = a.Flat
		}
	}

	if err := binary.Write(f, binary.NativeEndian, &dev); err != nil {
		return errors.Wrap(err, "write uinput_user_dev")
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return errors.Wrap(err, "UI_DEV_CREATE")
	}
	return nil
}

// Emit writes ev followed by a SYN_REPORT.
func (d *Device) Emit(ev *evdev.InputEvent) error {
	var buf bytes.Buffer
	binary.Write(&buf, binary.NativeEndian, inputEvent{Type: uint16(ev.Type), Code: uint16(ev.Code), Value: ev.Value})
	binary.Write(&buf, binary.NativeEndian, inputEvent{Type: uint16(evdev.EV_SYN), Code: uint16(evdev.SYN_REPORT)})
	_, err := d.f.Write(buf.Bytes())
	return err
}

// Close destroys the device and releases the node.
func (d *Device) Close() error {
	err := unix.IoctlSetInt(int(d.f.Fd()), uiDevDestroy, 0)
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}
