package auth

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/studymate/internal/store"
)

// MemoryTokenStore keeps the token for the life of the process only.
type MemoryTokenStore struct {
	mu   sync.Mutex
	cred *store.Credential
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Save(_ context.Context, c store.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now().UTC()
	}
	m.cred = &c
	return nil
}

func (m *MemoryTokenStore) Load(context.Context) (*store.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return nil, nil
	}
	c := *m.cred
	return &c, nil
}

func (m *MemoryTokenStore) Clear(context.Context) error {
	m.mu.Lock()
	m.cred = nil
	m.mu.Unlock()
	return nil
}
