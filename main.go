package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/soar/unipad/internal/config"
	"github.com/soar/unipad/internal/control"
	"github.com/soar/unipad/internal/device"
	"github.com/soar/unipad/internal/dispatch"
	"github.com/soar/unipad/internal/gamepad"
	"github.com/soar/unipad/internal/hub"
	"github.com/soar/unipad/internal/profile"
	"github.com/soar/unipad/internal/server"
	"github.com/soar/unipad/internal/tray"
	"github.com/soar/unipad/internal/uinput"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	if cfg.File == "" {
		log.Warn("No config supplied, using the built-in mapping only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
	log.Info("unipad stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	pad, err := uinput.Create(cfg.Uinput, uinput.PadSpec())
	if err != nil {
		return errors.Wrap(err, "create virtual pad")
	}
	defer pad.Close()

	var (
		out    dispatch.Emitter = pad
		mirror *gamepad.Mirror
	)
	if cfg.Listen != "" {
		mirror = gamepad.NewMirror(pad)
		out = mirror
	}

	var sink io.Writer
	if cfg.IPC {
		resp, err := control.NewResponse(cfg.Control.Response)
		if err != nil {
			return err
		}
		sink = resp
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	agg := dispatch.New(out, sink)
	g.Go(func() error {
		return agg.Run(gctx)
	})

	// profile pairs land before any device or control input
	if err := cfg.Profiles().Apply(gctx, profile.ReadIdentity(""), agg.Events()); err != nil {
		cancel()
		return g.Wait()
	}

	if cfg.IPC {
		g.Go(func() error {
			if err := control.Serve(gctx, cfg.Control.Path, agg.Events()); err != nil {
				log.Errorf("Control channel stopped: %v", err)
			}
			return nil
		})
	}

	watcher := device.NewWatcher(agg.Events(), cfg.InputDir, cfg.ScanInterval, cfg.Hotplug)
	g.Go(func() error {
		return watcher.Run(gctx)
	})

	if cfg.Listen != "" {
		startMonitor(gctx, g, cfg.Listen, mirror, agg.Events())
	}

	if cfg.Tray {
		t := tray.New(agg.Events(), monitorURL(cfg.Listen), func() {
			log.Info("Shutdown requested from tray")
			cancel()
		})
		go t.Run()
		g.Go(func() error {
			<-gctx.Done()
			t.Quit()
			return nil
		})
	}

	log.Info("unipad started")
	return g.Wait()
}

func startMonitor(ctx context.Context, g *errgroup.Group, addr string, mirror *gamepad.Mirror, events chan<- dispatch.Event) {
	h := hub.NewHub()
	go h.Run()

	broadcaster := hub.NewBroadcaster(h, mirror.Changes(), mirror.CurrentState())
	go broadcaster.Run()

	srv := server.New(ctx, h, broadcaster, events, server.MinifyPage(statusPage), addr)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Monitor server stopped: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("HTTP server shutdown error: %v", err)
		}
		return nil
	})
}

func monitorURL(listen string) string {
	if listen == "" {
		return ""
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
