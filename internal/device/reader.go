package device

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/dispatch"
	"github.com/soar/unipad/internal/metrics"
)

// ErrRejected is returned by Serve for devices that are not gamepads.
var ErrRejected = errors.New("not a gamepad")

// Serve owns src until it fails. It classifies the device, grabs it
// exclusively, calibrates it and then forwards every translated event to
// events. src is always closed on return; cancelling ctx closes it early,
// which unblocks the pending read.
func Serve(ctx context.Context, src Source, events chan<- dispatch.Event) error {
	var once sync.Once
	closeSrc := func() { once.Do(func() { src.Close() }) }
	defer closeSrc()
	stop := context.AfterFunc(ctx, closeSrc)
	defer stop()

	path := src.Path()
	if reason := Classify(src); reason != "" {
		metrics.DeviceRejections.WithLabelValues(reason).Inc()
		return errors.Wrapf(ErrRejected, "%s: %s", path, reason)
	}

	logger := log.WithFields(log.Fields{"device": displayName(src), "path": path})
	if err := src.Grab(); err != nil {
		return errors.Wrapf(err, "grab %s", path)
	}
	cal := Calibrate(src)
	logger.WithFields(log.Fields{
		"stick":   cal.Stick,
		"trigger": cal.Trigger,
	}).Info("Device deemed useful")

	metrics.ActiveReaders.Inc()
	defer metrics.ActiveReaders.Dec()

	for {
		ev, err := src.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrapf(err, "read %s", path)
		}
		in, ok := cal.Translate(ev)
		if !ok {
			continue
		}
		select {
		case events <- in:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
