// Package tray shows an optional system tray menu for the daemon.
package tray

import (
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/dispatch"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	events       chan<- dispatch.Event
	monitorURL   string
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuReset    *systray.MenuItem
	menuPrint    *systray.MenuItem
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. monitorURL may be empty, in which case
// the menu has no entry for the monitor page.
func New(events chan<- dispatch.Event, monitorURL string, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		events:       events,
		monitorURL:   monitorURL,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon; Run returns afterwards.
func (t *Tray) Quit() {
	t.shuttingDown.Store(true)
	systray.Quit()
}

// onReady is called when the tray is ready
func (t *Tray) onReady() {
	systray.SetTitle("unipad")
	systray.SetTooltip("unipad - gamepad aggregator")

	t.menuReset = systray.AddMenuItem("Reset mapping", "Restore the default remap table")
	t.menuPrint = systray.AddMenuItem("Print mapping", "Write the remap table to the response FIFO")
	if t.monitorURL != "" {
		t.menuOpen = systray.AddMenuItem("Open monitor", "Open web interface")
	}
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Info("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	var openCh <-chan struct{}
	if t.menuOpen != nil {
		openCh = t.menuOpen.ClickedCh
	}
	for {
		select {
		case <-t.menuReset.ClickedCh:
			t.submit(dispatch.ResetRequest{})
		case <-t.menuPrint.ClickedCh:
			t.submit(dispatch.PrintRequest{})
		case <-openCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) submit(ev dispatch.Event) {
	if t.shuttingDown.Load() {
		return
	}
	select {
	case t.events <- ev:
	default:
		log.Warn("Aggregator busy, tray request dropped")
	}
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Info("System tray exiting")
}

// openBrowser opens the default web browser
func (t *Tray) openBrowser() {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", t.monitorURL)
	default:
		cmd = exec.Command("xdg-open", t.monitorURL)
	}

	if err := cmd.Start(); err != nil {
		log.Warnf("Failed to open browser: %v", err)
	}
}
