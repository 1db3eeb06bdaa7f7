// Package metrics holds the daemon's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unipad_events_received_total",
			Help: "Canonical events consumed by the aggregator, by kind.",
		},
		[]string{"kind"},
	)
	EventsEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unipad_events_emitted_total",
			Help: "Events written to the virtual pad.",
		},
	)
	RemapHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unipad_remap_hits_total",
			Help: "Input events that matched a remap entry, by source and target kind.",
		},
		[]string{"from", "to"},
	)
	ControlCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unipad_control_commands_total",
			Help: "Control lines read, by command. Unparseable lines count as \"invalid\".",
		},
		[]string{"command"},
	)
	DeviceRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unipad_device_rejections_total",
			Help: "Devices skipped by the gamepad filter, by reason.",
		},
		[]string{"reason"},
	)
	ActiveReaders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unipad_active_readers",
			Help: "Physical devices currently grabbed and read.",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsReceived, EventsEmitted, RemapHits, ControlCommands, DeviceRejections, ActiveReaders)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
