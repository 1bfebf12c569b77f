package magiclink

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and local runs
// without redis.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]memoryEntry
}

type memoryEntry struct {
	accountID string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Put(_ context.Context, token, accountID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = memoryEntry{
		accountID: accountID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	delete(m.tokens, token)

	if time.Now().After(entry.expiresAt) {
		return "", ErrInvalidToken
	}
	return entry.accountID, nil
}
