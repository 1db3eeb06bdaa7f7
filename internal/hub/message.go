package hub

import (
	"time"

	"github.com/soar/unipad/internal/gamepad"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string                `json:"type"`              // "full", "delta", "config", "ack" or "error"
	Seq       int64                 `json:"seq"`               // Sequence number for ordering
	Timestamp int64                 `json:"timestamp"`         // Unix timestamp in milliseconds
	Data      *gamepad.PadState     `json:"data,omitempty"`    // Full pad state for type "full"
	Changes   *gamepad.DeltaChanges `json:"changes,omitempty"` // Delta changes for type "delta"
	Command   string                `json:"command,omitempty"` // Echoed command for "ack" and "error"
	Config    string                `json:"config,omitempty"`  // Remap table dump for type "config"
	Error     string                `json:"error,omitempty"`
}

// NewFullMessage creates a "full" type message containing complete pad state.
func NewFullMessage(seq int64, state *gamepad.PadState) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      state,
	}
}

// NewDeltaMessage creates a "delta" type message containing only changed fields.
func NewDeltaMessage(seq int64, changes *gamepad.DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// NewConfigMessage carries the reply to a print command.
func NewConfigMessage(dump string) *WSMessage {
	return &WSMessage{
		Type:      "config",
		Timestamp: time.Now().UnixMilli(),
		Config:    dump,
	}
}

// NewAckMessage confirms that a command was queued.
func NewAckMessage(command string) *WSMessage {
	return &WSMessage{
		Type:      "ack",
		Timestamp: time.Now().UnixMilli(),
		Command:   command,
	}
}

func NewErrorMessage(command, reason string) *WSMessage {
	return &WSMessage{
		Type:      "error",
		Timestamp: time.Now().UnixMilli(),
		Command:   command,
		Error:     reason,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
}
