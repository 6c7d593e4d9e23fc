package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"boardroom/internal/domain"
)

// MemoryStore is the default, process-local store. States are deep-copied on
// both read and write so callers never share a live pointer with the store;
// a concurrent reinit replaces the stored state wholesale.
type MemoryStore struct {
	mu     sync.RWMutex
	rooms  map[string]*memoryRoom
	setups map[string]SetupRecord
}

type memoryRoom struct {
	state     json.RawMessage
	version   int64
	createdAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:  make(map[string]*memoryRoom),
		setups: make(map[string]SetupRecord),
	}
}

func (m *MemoryStore) Get(_ context.Context, roomID string) (*domain.GameState, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, 0, nil
	}
	var state domain.GameState
	if err := json.Unmarshal(room.state, &state); err != nil {
		return nil, 0, err
	}
	return &state, room.version, nil
}

func (m *MemoryStore) Init(_ context.Context, roomID string, state *domain.GameState) (int64, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[roomID] = &memoryRoom{state: raw, version: 1, createdAt: time.Now()}
	return 1, nil
}

func (m *MemoryStore) Set(_ context.Context, roomID string, state *domain.GameState, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		room = &memoryRoom{createdAt: time.Now()}
		m.rooms[roomID] = room
	} else if expectedVersion != 0 && expectedVersion != room.version {
		return 0, ErrVersionConflict
	}
	room.state = raw
	room.version++
	return room.version, nil
}

func (m *MemoryStore) ListRooms(_ context.Context) ([]RoomInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]RoomInfo, 0, len(m.rooms))
	for id, room := range m.rooms {
		infos = append(infos, RoomInfo{ID: id, CreatedAt: room.createdAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })
	return infos, nil
}

func (m *MemoryStore) SaveSetup(_ context.Context, rec SetupRecord) (SetupRecord, error) {
	if rec.ID == "" {
		rec.ID = "setup-" + uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setups[rec.ID] = rec
	return rec, nil
}

func (m *MemoryStore) GetSetup(_ context.Context, id string) (SetupRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.setups[id]
	if !ok {
		return SetupRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) ListSetups(_ context.Context) ([]SetupRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]SetupRecord, 0, len(m.setups))
	for _, rec := range m.setups {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	return recs, nil
}
