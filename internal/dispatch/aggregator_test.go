package dispatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/holoplot/go-evdev"

	"github.com/soar/unipad/internal/remap"
)

type recorder struct {
	events []evdev.InputEvent
	err    error
}

func (r *recorder) Emit(ev *evdev.InputEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *ev)
	return nil
}

func (r *recorder) last(t *testing.T) evdev.InputEvent {
	t.Helper()
	if len(r.events) == 0 {
		t.Fatal("nothing emitted")
	}
	return r.events[len(r.events)-1]
}

func newTestAggregator() (*Aggregator, *recorder) {
	rec := &recorder{}
	return New(rec, nil), rec
}

func mustHandle(t *testing.T, a *Aggregator, ev Event) {
	t.Helper()
	if err := a.Handle(ev); err != nil {
		t.Fatalf("Handle(%+v): %v", ev, err)
	}
}

func expect(t *testing.T, got evdev.InputEvent, typ evdev.EvType, code evdev.EvCode, value int32) {
	t.Helper()
	if got.Type != typ || got.Code != code || got.Value != value {
		t.Fatalf("emitted type=%d code=%d value=%d, want type=%d code=%d value=%d",
			got.Type, got.Code, got.Value, typ, code, value)
	}
}

func TestButtonToHat(t *testing.T) {
	a, rec := newTestAggregator()
	a.table = remap.NewTable(remap.Entry{
		From: remap.Button(evdev.BTN_DPAD_UP),
		To:   remap.Axis(evdev.ABS_HAT0Y, -1),
	})

	mustHandle(t, a, Button(evdev.BTN_DPAD_UP, 1))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_HAT0Y, -1)

	mustHandle(t, a, Button(evdev.BTN_DPAD_UP, 0))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_HAT0Y, 0)

	for _, ev := range rec.events {
		if ev.Type == evdev.EV_KEY {
			t.Fatalf("original button leaked: %+v", ev)
		}
	}
}

func TestDefaultTriggerButtons(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, Button(evdev.BTN_TL2, 1))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_Z, 256)
	mustHandle(t, a, Button(evdev.BTN_TR2, 0))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_RZ, 0)
}

func TestButtonToButton(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, MapRequest{From: remap.Button(evdev.BTN_SOUTH), To: remap.Button(evdev.BTN_EAST)})
	mustHandle(t, a, Button(evdev.BTN_SOUTH, 1))
	expect(t, rec.last(t), evdev.EV_KEY, evdev.BTN_EAST, 1)
}

func TestUnsupportedButtonDropped(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, Button(evdev.BTN_TRIGGER_HAPPY1, 1))
	mustHandle(t, a, Button(evdev.KEY_A, 1))
	if len(rec.events) != 0 {
		t.Fatalf("emitted %+v", rec.events)
	}

	mustHandle(t, a, MapRequest{From: remap.Button(evdev.BTN_TRIGGER_HAPPY1), To: remap.Button(evdev.BTN_MODE)})
	mustHandle(t, a, Button(evdev.BTN_TRIGGER_HAPPY1, 1))
	expect(t, rec.last(t), evdev.EV_KEY, evdev.BTN_MODE, 1)
}

func TestAxisToButtonThreshold(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, MapRequest{From: remap.Axis(evdev.ABS_Z, 256), To: remap.Button(evdev.BTN_TL)})

	for _, tc := range []struct {
		in   int32
		want int32
	}{
		{256, 1},
		{255, 0},
		{300, 1},
	} {
		mustHandle(t, a, Abs(evdev.ABS_Z, tc.in))
		expect(t, rec.last(t), evdev.EV_KEY, evdev.BTN_TL, tc.want)
	}
}

func TestAxisToAxis(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, MapRequest{From: remap.Axis(evdev.ABS_Z, 1), To: remap.Axis(evdev.ABS_RX, 32767)})

	mustHandle(t, a, Abs(evdev.ABS_Z, 255))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_RX, 32767)

	mustHandle(t, a, Abs(evdev.ABS_Z, 1))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_RX, 128)

	// zero bucket has no entry
	mustHandle(t, a, Abs(evdev.ABS_Z, 0))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_Z, 0)
}

func TestUnmappedAxisPassesThrough(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, Abs(evdev.ABS_X, -12345))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_X, -12345)
	mustHandle(t, a, Abs(evdev.ABS_RZ, 200))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_RZ, 200)
	mustHandle(t, a, Abs(evdev.ABS_HAT0X, 1))
	expect(t, rec.last(t), evdev.EV_ABS, evdev.ABS_HAT0X, 1)
}

func TestSpecialIsIgnored(t *testing.T) {
	a, rec := newTestAggregator()
	mustHandle(t, a, MapRequest{From: remap.Button(evdev.BTN_MODE), To: remap.Special()})
	mustHandle(t, a, MapRequest{From: remap.Axis(evdev.ABS_RZ, 100), To: remap.Special()})
	mustHandle(t, a, Button(evdev.BTN_MODE, 1))
	mustHandle(t, a, Abs(evdev.ABS_RZ, 200))
	if len(rec.events) != 0 {
		t.Fatalf("special action emitted %+v", rec.events)
	}
}

func TestEmitFailureIsFatal(t *testing.T) {
	a, rec := newTestAggregator()
	rec.err = errors.New("device gone")
	if err := a.Handle(Abs(evdev.ABS_X, 0)); err == nil {
		t.Fatal("expected error")
	}
	// mutations never touch the pad
	if err := a.Handle(ResetRequest{}); err != nil {
		t.Fatalf("reset: %v", err)
	}
}

func TestPrintWritesHeaderAndEntries(t *testing.T) {
	var buf bytes.Buffer
	a := New(&recorder{}, &buf)
	mustHandle(t, a, MapRequest{From: remap.Button(evdev.BTN_SOUTH), To: remap.Button(evdev.BTN_EAST)})
	mustHandle(t, a, PrintRequest{})

	out := buf.String()
	if !strings.HasPrefix(out, printHeader) {
		t.Fatalf("missing header: %q", out)
	}
	if got := strings.Count(out, "from: "); got != len(remap.DefaultEntries())+1 {
		t.Fatalf("printed %d entries:\n%s", got, out)
	}
	if !strings.Contains(out, "from: BTN_SOUTH\n  to: BTN_EAST") {
		t.Fatalf("new entry missing:\n%s", out)
	}
}

func TestPrintWithoutSink(t *testing.T) {
	a, _ := newTestAggregator()
	mustHandle(t, a, PrintRequest{})
}

type barrier struct {
	bytes.Buffer
	done chan struct{}
}

func (b *barrier) Flush() error {
	close(b.done)
	return nil
}

func TestConcurrentProducers(t *testing.T) {
	a, _ := newTestAggregator()
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- a.Run(ctx) }()

	const producers, rounds = 8, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			src := remap.Button(evdev.BTN_TRIGGER_HAPPY1 + evdev.EvCode(p))
			for i := 1; i <= rounds; i++ {
				a.Events() <- MapRequest{From: src, To: remap.Axis(evdev.ABS_RX, int32(i))}
				a.Events() <- Abs(evdev.ABS_X, int32(i))
				a.Events() <- Button(src.Code, 1)
			}
		}(p)
	}
	wg.Wait()

	b := &barrier{done: make(chan struct{})}
	a.Events() <- PrintRequest{Sink: b}
	<-b.done
	cancel()
	if err := <-runDone; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := a.table.Len(); got != len(remap.DefaultEntries())+producers {
		t.Fatalf("table has %d entries", got)
	}
	for p := 0; p < producers; p++ {
		to, ok := a.table.LookupButton(evdev.BTN_TRIGGER_HAPPY1 + evdev.EvCode(p))
		if !ok || to != remap.Axis(evdev.ABS_RX, rounds) {
			t.Fatalf("producer %d: last mapping is %v (%v)", p, to, ok)
		}
	}
}
