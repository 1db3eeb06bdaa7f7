// Package device finds physical gamepads, grabs them and translates their
// native events into canonical ones for the aggregator.
package device

import (
	"github.com/holoplot/go-evdev"
)

// Source is an opened evdev node. *evdev.InputDevice satisfies it.
type Source interface {
	Name() (string, error)
	InputID() (evdev.InputID, error)
	Path() string
	CapableEvents(t evdev.EvType) []evdev.EvCode
	AbsInfos() (map[evdev.EvCode]evdev.AbsInfo, error)
	Grab() error
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Open opens the evdev node at path.
func Open(path string) (Source, error) {
	d, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func hasCode(src Source, t evdev.EvType, code evdev.EvCode) bool {
	for _, c := range src.CapableEvents(t) {
		if c == code {
			return true
		}
	}
	return false
}

func displayName(src Source) string {
	name, err := src.Name()
	if err != nil {
		return "<invalid name>"
	}
	return name
}
