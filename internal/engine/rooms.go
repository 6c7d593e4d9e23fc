package engine

import (
	"sync"

	"boardroom/internal/domain"
	"boardroom/internal/logger"
)

// Event is one entry on a room's live-update channel.
type Event struct {
	Type  string            `json:"type"`
	State *domain.GameState `json:"state,omitempty"`
}

// RoomHub serializes same-room mutations and fans state updates out to live
// subscribers. Locks are per room: no action ever blocks on another room.
type RoomHub struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	subs  map[string]map[int64]chan Event
	seq   int64
}

func NewRoomHub() *RoomHub {
	return &RoomHub{
		locks: make(map[string]*sync.Mutex),
		subs:  make(map[string]map[int64]chan Event),
	}
}

// Lock acquires the room's mutex for the span of one logical action and
// returns the unlock func.
func (h *RoomHub) Lock(roomID string) func() {
	h.mu.Lock()
	l, ok := h.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[roomID] = l
	}
	h.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Subscribe registers a live viewer of the room and returns its event channel
// plus a cancel func. The channel is buffered; a viewer that cannot keep up
// loses intermediate updates, never blocking the publisher.
func (h *RoomHub) Subscribe(roomID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.seq++
	id := h.seq
	if h.subs[roomID] == nil {
		h.subs[roomID] = make(map[int64]chan Event)
	}
	h.subs[roomID][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subs[roomID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subs, roomID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the room.
func (h *RoomHub) Publish(roomID string, ev Event) {
	h.mu.Lock()
	targets := make([]chan Event, 0, len(h.subs[roomID]))
	for _, ch := range h.subs[roomID] {
		targets = append(targets, ch)
	}
	h.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- ev:
		default:
			logger.Debug("dropping event for slow subscriber", "room", roomID, "type", ev.Type)
		}
	}
	if len(targets) > 0 {
		broadcastsTotal.Add(float64(len(targets)))
	}
}

// SubscriberCount reports how many live viewers a room has.
func (h *RoomHub) SubscriberCount(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[roomID])
}
