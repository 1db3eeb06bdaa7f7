package device

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/soar/unipad/internal/dispatch"
)

const (
	DefaultInputDir     = "/dev/input"
	DefaultScanInterval = 10 * time.Second
)

// Watcher spawns a reader for every event node it finds. It does not
// remember what it already claimed: a second reader on a grabbed pad fails
// at the grab and exits.
type Watcher struct {
	dir      string
	interval time.Duration
	hotplug  bool
	events   chan<- dispatch.Event

	// replaced in tests
	list func(dir string) ([]string, error)
	open func(path string) (Source, error)
}

func NewWatcher(events chan<- dispatch.Event, dir string, interval time.Duration, hotplug bool) *Watcher {
	if dir == "" {
		dir = DefaultInputDir
	}
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		hotplug:  hotplug,
		events:   events,
		list:     listEventNodes,
		open:     Open,
	}
}

func listEventNodes(dir string) ([]string, error) {
	if filepath.Clean(dir) == DefaultInputDir {
		nodes, err := evdev.ListDevicePaths()
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(nodes))
		for _, n := range nodes {
			paths = append(paths, n.Path)
		}
		return paths, nil
	}
	return filepath.Glob(filepath.Join(dir, "event*"))
}

// Run scans immediately, then every interval and on every new event node
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		created <-chan fsnotify.Event
		failed  <-chan error
	)
	if w.hotplug {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			log.Warnf("Hotplug disabled: %v", err)
		} else {
			defer fw.Close()
			if err := fw.Add(w.dir); err != nil {
				log.Warnf("Hotplug disabled, cannot watch %s: %v", w.dir, err)
			} else {
				created, failed = fw.Events, fw.Errors
			}
		}
	}

	w.Scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Scan(ctx)
		case ev, ok := <-created:
			if !ok {
				created = nil
				continue
			}
			if ev.Has(fsnotify.Create) && strings.HasPrefix(filepath.Base(ev.Name), "event") {
				log.WithField("path", ev.Name).Debug("Input node appeared")
				w.attach(ctx, ev.Name)
			}
		case err, ok := <-failed:
			if !ok {
				failed = nil
				continue
			}
			log.Warnf("Hotplug watch error: %v", err)
		}
	}
}

// Scan attaches a reader to every event node currently present.
func (w *Watcher) Scan(ctx context.Context) {
	paths, err := w.list(w.dir)
	if err != nil {
		log.Warnf("Error listing input devices: %v", err)
		return
	}
	for _, p := range paths {
		w.attach(ctx, p)
	}
}

func (w *Watcher) attach(ctx context.Context, path string) {
	src, err := w.open(path)
	if err != nil {
		log.WithField("path", path).Debugf("Error opening device: %v", err)
		return
	}
	go w.serve(ctx, src)
}

func (w *Watcher) serve(ctx context.Context, src Source) {
	path := src.Path()
	err := Serve(ctx, src, w.events)
	logger := log.WithField("path", path)
	switch {
	case err == nil, ctx.Err() != nil:
	case errors.Is(err, ErrRejected):
		logger.Debugf("Device ignored: %v", err)
	case errors.Is(err, unix.EBUSY):
		logger.Debug("Device already grabbed")
	default:
		logger.Warnf("Device reader stopped: %v", err)
	}
}
