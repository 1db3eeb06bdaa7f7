// Package control implements the line protocol used to change the remap
// table at runtime, and the named pipes it is spoken over.
//
//	map <source> as <target>
//	reset
//	print
package control

import (
	"strings"

	"github.com/soar/unipad/internal/dispatch"
	"github.com/soar/unipad/internal/metrics"
	"github.com/soar/unipad/internal/remap"
)

// ParseLine turns one control line into an event for the aggregator.
// Malformed lines report false. A print request carries no sink; the
// caller sets one if the reply should go somewhere other than the default.
func ParseLine(line string) (dispatch.Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	ev, cmd := parse(line)
	if ev == nil {
		metrics.ControlCommands.WithLabelValues("invalid").Inc()
		return nil, false
	}
	metrics.ControlCommands.WithLabelValues(cmd).Inc()
	return ev, true
}

func parse(line string) (dispatch.Event, string) {
	switch {
	case strings.HasPrefix(line, "map"):
		rest, ok := strings.CutPrefix(line, "map ")
		if !ok {
			return nil, ""
		}
		parts := strings.Split(rest, " as ")
		if len(parts) != 2 {
			return nil, ""
		}
		from, err := remap.Parse(parts[0])
		if err != nil {
			return nil, ""
		}
		to, err := remap.Parse(parts[1])
		if err != nil {
			return nil, ""
		}
		return dispatch.MapRequest{From: from, To: to}, "map"
	case strings.HasPrefix(line, "reset"):
		return dispatch.ResetRequest{}, "reset"
	case strings.HasPrefix(line, "print"):
		return dispatch.PrintRequest{}, "print"
	}
	return nil, ""
}
