package dispatch

import (
	"fmt"
	"io"

	"github.com/holoplot/go-evdev"
	"github.com/soar/unipad/internal/remap"
)

// Event is a message on the aggregator's channel. It is one of RawInput,
// MapRequest, ResetRequest or PrintRequest.
type Event interface {
	kind() string
}

// RawInput is a button or axis event already normalized into the
// canonical domain by a device reader.
type RawInput struct {
	Type  evdev.EvType
	Code  evdev.EvCode
	Value int32
}

// MapRequest asks for From to be remapped to To.
type MapRequest struct {
	From remap.Input
	To   remap.Input
}

// ResetRequest restores the built-in remap table.
type ResetRequest struct{}

// PrintRequest asks for a table snapshot. A nil Sink means the default
// control response sink. If Sink has a Flush() error method it is called
// after the snapshot is written.
type PrintRequest struct {
	Sink io.Writer
}

func (RawInput) kind() string     { return "input" }
func (MapRequest) kind() string   { return "map" }
func (ResetRequest) kind() string { return "reset" }
func (PrintRequest) kind() string { return "print" }

func Button(code evdev.EvCode, value int32) RawInput {
	return RawInput{Type: evdev.EV_KEY, Code: code, Value: value}
}

func Abs(code evdev.EvCode, value int32) RawInput {
	return RawInput{Type: evdev.EV_ABS, Code: code, Value: value}
}

func (r RawInput) String() string {
	switch r.Type {
	case evdev.EV_KEY:
		return fmt.Sprintf("%s=%d", remap.KeyName(r.Code), r.Value)
	case evdev.EV_ABS:
		return fmt.Sprintf("%s=%d", remap.AbsName(r.Code), r.Value)
	default:
		return fmt.Sprintf("type %d code %d=%d", r.Type, r.Code, r.Value)
	}
}
