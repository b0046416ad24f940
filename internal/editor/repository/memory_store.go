package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/noder-app/noder-backend/internal/editor/domain"
)

// MemoryStore is the Store used when no Redis is configured. Sessions are
// deep-copied on the way in and out so callers never share graphs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	owners   map[string]string
	locks    map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string][]byte{},
		owners:   map[string]string{},
		locks:    map[string]time.Time{},
	}
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	m.owners[s.ID] = s.UserID
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	delete(m.owners, id)
	delete(m.locks, id)
	return nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for id, owner := range m.owners {
		if owner == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) AcquireLock(_ context.Context, id string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.locks[id]; ok && time.Now().Before(exp) {
		return false, nil
	}
	m.locks[id] = time.Now().Add(ttl)
	return true, nil
}

func (m *MemoryStore) ReleaseLock(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, id)
	return nil
}

func (m *MemoryStore) Locked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.locks[id]
	return ok && time.Now().Before(exp), nil
}
