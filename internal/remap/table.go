package remap

import (
	"bytes"
	"sort"

	"github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

// Entry is one mapping. From keeps the representative value it was stored
// with; for axis sources that value is the press threshold.
type Entry struct {
	From Input `yaml:"from"`
	To   Input `yaml:"to"`
}

// DefaultEntries is the built-in profile: D-pad buttons drive the hat and
// digital trigger buttons drive the analog triggers.
func DefaultEntries() []Entry {
	return []Entry{
		{Button(evdev.BTN_DPAD_UP), Axis(evdev.ABS_HAT0Y, -1)},
		{Button(evdev.BTN_DPAD_DOWN), Axis(evdev.ABS_HAT0Y, 1)},
		{Button(evdev.BTN_DPAD_LEFT), Axis(evdev.ABS_HAT0X, -1)},
		{Button(evdev.BTN_DPAD_RIGHT), Axis(evdev.ABS_HAT0X, 1)},

		{Button(evdev.BTN_TL2), Axis(evdev.ABS_Z, 256)},
		{Button(evdev.BTN_TR2), Axis(evdev.ABS_RZ, 256)},
	}
}

// Table is not safe for concurrent use. It has a single owner, the
// aggregator goroutine; everyone else sends it requests.
type Table struct {
	entries map[key]Entry
}

func NewTable(entries ...Entry) *Table {
	t := &Table{entries: make(map[key]Entry, len(entries))}
	for _, e := range entries {
		t.Upsert(e.From, e.To)
	}
	return t
}

// DefaultTable returns a table holding DefaultEntries.
func DefaultTable() *Table {
	return NewTable(DefaultEntries()...)
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Upsert inserts or replaces the mapping for from. Replacing an axis source
// with a new threshold in the same sign bucket also replaces the stored
// threshold. It reports whether an existing entry was replaced.
func (t *Table) Upsert(from, to Input) bool {
	k := from.key()
	_, replaced := t.entries[k]
	t.entries[k] = Entry{From: from, To: to}
	return replaced
}

// Reset replaces every entry with the built-in defaults.
func (t *Table) Reset() {
	t.entries = make(map[key]Entry, len(t.entries))
	for _, e := range DefaultEntries() {
		t.entries[e.From.key()] = e
	}
}

// LookupButton returns the target for a button source.
func (t *Table) LookupButton(code evdev.EvCode) (Input, bool) {
	e, ok := t.entries[key{kind: KindButton, code: code}]
	return e.To, ok
}

// LookupAxis finds the entry in the sign bucket of value. The returned
// entry's From holds the stored threshold.
func (t *Table) LookupAxis(code evdev.EvCode, value int32) (Entry, bool) {
	e, ok := t.entries[key{kind: KindAxis, code: code, bucket: bucket(value)}]
	return e, ok
}

// Snapshot copies the entries in a stable order.
func (t *Table) Snapshot() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].From.key(), out[j].From.key()
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if a.code != b.code {
			return a.code < b.code
		}
		return a.bucket < b.bucket
	})
	return out
}

// MarshalYAML renders the snapshot as a list of from/to pairs.
func (t *Table) MarshalYAML() (interface{}, error) {
	return t.Snapshot(), nil
}

// Dump is the text written in reply to a print request.
func (t *Table) Dump() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
