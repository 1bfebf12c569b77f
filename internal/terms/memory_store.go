package terms

import (
	"context"
	"sync"
)

// MemoryStore is an in-process agreement store for tests. Append
// order stands in for agreed_at ordering.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Agreement
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(_ context.Context, a Agreement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, a)
	return nil
}

func (m *MemoryStore) Latest(_ context.Context, accountID, kind string) (*Agreement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].AccountID == accountID && m.rows[i].Kind == kind {
			cp := m.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}
