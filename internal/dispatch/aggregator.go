// Package dispatch is the single consumer of every canonical event. The
// Aggregator owns the remap table and the virtual pad; producers only ever
// send it messages, so the table needs no lock.
package dispatch

import (
	"bufio"
	"context"
	"io"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/canon"
	"github.com/soar/unipad/internal/metrics"
	"github.com/soar/unipad/internal/remap"
)

const (
	queueSize   = 256
	printHeader = "Config:\n"
)

// Emitter writes one event to the virtual pad, followed by a sync report.
type Emitter interface {
	Emit(ev *evdev.InputEvent) error
}

type flusher interface {
	Flush() error
}

type Aggregator struct {
	events chan Event
	table  *remap.Table
	out    Emitter
	sink   io.Writer
}

// New returns an Aggregator that starts from the default remap table.
// sink receives print responses that do not name their own sink; it may
// be nil.
func New(out Emitter, sink io.Writer) *Aggregator {
	return &Aggregator{
		events: make(chan Event, queueSize),
		table:  remap.DefaultTable(),
		out:    out,
		sink:   sink,
	}
}

// Events returns the channel every producer sends on.
func (a *Aggregator) Events() chan<- Event {
	return a.events
}

// Run consumes events in arrival order until ctx is cancelled. It returns
// an error only when the virtual pad can no longer be written.
func (a *Aggregator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.events:
			if err := a.Handle(ev); err != nil {
				return err
			}
		}
	}
}

// Handle applies a single event. It must only be called from the goroutine
// that owns the Aggregator.
func (a *Aggregator) Handle(ev Event) error {
	metrics.EventsReceived.WithLabelValues(ev.kind()).Inc()

	switch ev := ev.(type) {
	case RawInput:
		switch ev.Type {
		case evdev.EV_KEY:
			return a.button(ev)
		case evdev.EV_ABS:
			return a.axis(ev)
		}
	case MapRequest:
		replaced := a.table.Upsert(ev.From, ev.To)
		log.WithFields(log.Fields{
			"from":     ev.From.String(),
			"to":       ev.To.String(),
			"replaced": replaced,
		}).Info("Remap updated")
	case ResetRequest:
		a.table.Reset()
		log.Info("Remap table reset to defaults")
	case PrintRequest:
		a.print(ev.Sink)
	}
	return nil
}

func (a *Aggregator) button(ev RawInput) error {
	code := ev.Code
	if to, ok := a.table.LookupButton(code); ok {
		metrics.RemapHits.WithLabelValues(remap.KindButton.String(), to.Kind.String()).Inc()
		switch to.Kind {
		case remap.KindButton:
			code = to.Code
		case remap.KindAxis:
			return a.emit(evdev.EV_ABS, to.Code, to.Value*ev.Value)
		case remap.KindSpecial:
			a.special(ev)
			return nil
		}
	}

	if !canon.HasButton(code) {
		return nil
	}
	return a.emit(evdev.EV_KEY, code, ev.Value)
}

func (a *Aggregator) axis(ev RawInput) error {
	e, ok := a.table.LookupAxis(ev.Code, ev.Value)
	if !ok {
		return a.emit(evdev.EV_ABS, ev.Code, ev.Value)
	}

	metrics.RemapHits.WithLabelValues(remap.KindAxis.String(), e.To.Kind.String()).Inc()
	switch e.To.Kind {
	case remap.KindButton:
		var pressed int32
		if e.From.Pressed(ev.Value) {
			pressed = 1
		}
		return a.emit(evdev.EV_KEY, e.To.Code, pressed)
	case remap.KindAxis:
		// Scale from the domain of the incoming axis, not the target's: a
		// trigger driving a stick spans 0..255 here, never the stick range.
		out := canon.Into(ev.Value, canon.DomainOf(ev.Code), canon.Domain{Min: 0, Max: e.To.Value})
		return a.emit(evdev.EV_ABS, e.To.Code, out)
	default:
		a.special(ev)
		return nil
	}
}

// special has no host integration yet; reaching it is logged and dropped.
func (a *Aggregator) special(ev RawInput) {
	log.WithField("event", ev.String()).Warn("Special action is not implemented, ignoring")
}

func (a *Aggregator) emit(typ evdev.EvType, code evdev.EvCode, value int32) error {
	err := a.out.Emit(&evdev.InputEvent{Type: typ, Code: code, Value: value})
	if err != nil {
		return errors.Wrap(err, "emit to virtual pad")
	}
	metrics.EventsEmitted.Inc()
	return nil
}

func (a *Aggregator) print(sink io.Writer) {
	if sink == nil {
		sink = a.sink
	}
	if sink == nil {
		log.Warn("Print requested but no response sink is configured")
		return
	}

	body, err := a.table.Dump()
	if err != nil {
		log.Errorf("Error serializing remap table: %v", err)
		return
	}

	w := bufio.NewWriter(sink)
	w.WriteString(printHeader)
	w.Write(body)
	if err := w.Flush(); err != nil {
		log.Warnf("Error writing remap table: %v", err)
		return
	}
	if f, ok := sink.(flusher); ok {
		if err := f.Flush(); err != nil {
			log.Warnf("Error flushing remap table: %v", err)
		}
	}
}
