package repository

import (
	"context"
	"sync"
	"time"

	"github.com/set-night/oilbot/internal/domain"
)

// MemoryStore keeps sessions for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*domain.Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, chatID int64) (*domain.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[chatID]
	m.mu.RUnlock()
	if !ok {
		return domain.NewSession(chatID, m.now()), nil
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := s.Clone()
	// History only changes through SaveWithHistory/ClearHistory.
	if prev, ok := m.sessions[s.ChatID]; ok {
		stored.History = prev.History
	} else {
		stored.History = []domain.Assessment{}
	}
	m.sessions[s.ChatID] = stored
	return nil
}

func (m *MemoryStore) SaveWithHistory(_ context.Context, s *domain.Session, entries []domain.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := s.Clone()
	var prev []domain.Assessment
	if old, ok := m.sessions[s.ChatID]; ok {
		prev = old.History
	}
	history := make([]domain.Assessment, 0, len(prev)+len(entries))
	history = append(history, prev...)
	stored.History = append(history, entries...)
	m.sessions[s.ChatID] = stored
	return nil
}

func (m *MemoryStore) ClearHistory(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		s.History = []domain.Assessment{}
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

func (m *MemoryStore) DeleteIdle(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.LastSeen.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
