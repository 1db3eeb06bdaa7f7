package hub

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soar/unipad/internal/gamepad"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for pad state changes and broadcasts them to the hub.
type Broadcaster struct {
	hub       *Hub
	changes   <-chan gamepad.PadState
	lastState gamepad.PadState
	seq       int64
	mu        sync.Mutex
}

func NewBroadcaster(h *Hub, changes <-chan gamepad.PadState, initial gamepad.PadState) *Broadcaster {
	return &Broadcaster{
		hub:       h,
		changes:   changes,
		lastState: initial,
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case state, ok := <-b.changes:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := gamepad.ComputeDelta(b.lastState, state)
			b.lastState = state
			if delta.IsEmpty() {
				b.mu.Unlock()
				continue
			}
			b.seq++
			seq := b.seq
			b.mu.Unlock()

			deltaCount++

			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.sendFull(seq, state)
				deltaCount = 0
			} else {
				b.sendDelta(seq, delta)
			}

		case <-ticker.C:
			b.mu.Lock()
			b.seq++
			seq, state := b.seq, b.lastState
			b.mu.Unlock()
			if state.Connected {
				b.sendFull(seq, state)
			}
		}
	}
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	b.seq++
	seq, state := b.seq, b.lastState
	b.mu.Unlock()
	c.sendMessage(NewFullMessage(seq, &state))
}

func (b *Broadcaster) sendFull(seq int64, state gamepad.PadState) {
	data, err := json.Marshal(NewFullMessage(seq, &state))
	if err != nil {
		log.Errorf("Error marshaling full message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}

func (b *Broadcaster) sendDelta(seq int64, delta *gamepad.DeltaChanges) {
	data, err := json.Marshal(NewDeltaMessage(seq, delta))
	if err != nil {
		log.Errorf("Error marshaling delta message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
