package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/control"
	"github.com/soar/unipad/internal/dispatch"
)

// Conn is the part of *websocket.Conn a Client uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// trySend queues msg without blocking. It reports false if the client is
// gone or its buffer is full.
func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) sendMessage(msg *WSMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error marshaling %s message: %v", msg.Type, err)
		return false
	}
	return c.trySend(data)
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads client messages until the connection drops. Commands are
// parsed like control lines and queued on events; a print reply comes
// back to this client only. Once ctx is done commands are refused.
func (c *Client) ReadPump(ctx context.Context, events chan<- dispatch.Event) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		// Parse client message
		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Warnf("Error parsing client message: %v", err)
			continue
		}

		switch clientMsg.Type {
		case "command":
			c.handleCommand(ctx, clientMsg.Command, events)
		default:
			c.sendMessage(NewErrorMessage("", "unknown message type "+clientMsg.Type))
		}
	}
}

func (c *Client) handleCommand(ctx context.Context, line string, events chan<- dispatch.Event) {
	ev, ok := control.ParseLine(line)
	if !ok {
		c.sendMessage(NewErrorMessage(line, "unrecognized command"))
		return
	}
	if _, isPrint := ev.(dispatch.PrintRequest); isPrint {
		ev = dispatch.PrintRequest{Sink: &replySink{client: c}}
	}
	select {
	case events <- ev:
	case <-ctx.Done():
		c.sendMessage(NewErrorMessage(line, "daemon is shutting down"))
		return
	}
	c.sendMessage(NewAckMessage(line))
	log.WithField("command", line).Debug("Command from monitor client")
}

// replySink collects a print reply and delivers it as one "config"
// message when the aggregator flushes it.
type replySink struct {
	client *Client
	buf    bytes.Buffer
}

func (s *replySink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *replySink) Flush() error {
	defer s.buf.Reset()
	if !s.client.sendMessage(NewConfigMessage(s.buf.String())) {
		return errors.New("monitor client went away")
	}
	return nil
}
