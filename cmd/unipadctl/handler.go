package main

import (
	"encoding/json"
	"strings"

	"github.com/lxzan/gws"
	"github.com/pkg/errors"

	"github.com/soar/unipad/internal/hub"
)

type result struct {
	text string
	err  error
}

// handler sends the command once the socket is open and resolves on the
// first reply that concerns it. State broadcasts are skipped.
type handler struct {
	gws.BuiltinEventHandler
	command    string
	wantConfig bool
	done       chan result
}

func newHandler(command string) *handler {
	return &handler{
		command:    command,
		wantConfig: strings.HasPrefix(command, "print"),
		done:       make(chan result, 1),
	}
}

func (h *handler) finish(r result) {
	select {
	case h.done <- r:
	default:
	}
}

func (h *handler) OnOpen(socket *gws.Conn) {
	data, err := json.Marshal(hub.ClientMessage{Type: "command", Command: h.command})
	if err != nil {
		h.finish(result{err: err})
		return
	}
	if err := socket.WriteMessage(gws.OpcodeText, data); err != nil {
		h.finish(result{err: errors.Wrap(err, "send command")})
	}
}

func (h *handler) OnClose(socket *gws.Conn, err error) {
	if err == nil {
		err = errors.New("connection closed")
	}
	h.finish(result{err: errors.Wrap(err, "before a reply arrived")})
}

func (h *handler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	h.handle(message.Bytes())
}

func (h *handler) handle(data []byte) {
	var msg hub.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.finish(result{err: errors.Wrap(err, "bad reply")})
		return
	}
	switch msg.Type {
	case "error":
		h.finish(result{err: errors.Errorf("%s: %q", msg.Error, msg.Command)})
	case "ack":
		if !h.wantConfig {
			h.finish(result{text: "ok\n"})
		}
	case "config":
		h.finish(result{text: msg.Config})
	}
}
