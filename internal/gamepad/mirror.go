package gamepad

import (
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/soar/unipad/internal/canon"
)

// Emitter is the virtual pad the Mirror forwards to.
type Emitter interface {
	Emit(ev *evdev.InputEvent) error
}

// Mirror sits in front of the virtual pad and keeps a copy of its state.
// Every successful Emit that changes the state is published on Changes.
type Mirror struct {
	out     Emitter
	state   PadState
	changes chan PadState
	mu      sync.RWMutex
}

func NewMirror(out Emitter) *Mirror {
	return &Mirror{
		out: out,
		state: PadState{
			Connected:      true,
			ControllerType: "xbox",
			Name:           canon.PadName,
		},
		changes: make(chan PadState, 64),
	}
}

// Emit forwards ev and records its effect.
func (m *Mirror) Emit(ev *evdev.InputEvent) error {
	if err := m.out.Emit(ev); err != nil {
		return err
	}

	m.mu.Lock()
	changed := m.state.Apply(ev)
	state := m.state
	m.mu.Unlock()

	if changed {
		// the broadcaster resyncs periodically, so a full buffer only
		// delays the monitor
		select {
		case m.changes <- state:
		default:
		}
	}
	return nil
}

// Changes returns the channel on which state changes are sent.
func (m *Mirror) Changes() <-chan PadState {
	return m.changes
}

// CurrentState returns a snapshot of the current pad state.
func (m *Mirror) CurrentState() PadState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
