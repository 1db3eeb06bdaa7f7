// Package server serves the monitor: a status page, a websocket that
// streams the virtual pad's state and accepts control commands, and the
// Prometheus metrics.
package server

import (
	"context"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/dispatch"
	"github.com/soar/unipad/internal/hub"
	"github.com/soar/unipad/internal/metrics"
)

type Server struct {
	ctx         context.Context
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	events      chan<- dispatch.Event
	page        []byte
	addr        string
	httpServer  *http.Server
}

// New builds the monitor server. Websocket commands are refused once ctx
// is done.
func New(ctx context.Context, h *hub.Hub, b *hub.Broadcaster, events chan<- dispatch.Event, page []byte, addr string) *Server {
	s := &Server{
		ctx:         ctx,
		hub:         h,
		broadcaster: b,
		events:      events,
		page:        page,
		addr:        addr,
	}
	s.httpServer = &http.Server{Handler: s.Handler()}
	return s
}

// Handler returns the monitor's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWebSocket(s.ctx, s.hub, s.broadcaster, s.events))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", handlePage(s.page))
	return mux
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	log.Infof("HTTP server listening on %s", ln.Addr())
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
