// Package store holds the session table: one ClientProfile per client_id.
// The contract is create-on-start, read/update under the client key,
// explicit delete-on-request. No eviction: callers own session lifetime.
package store

import (
	"sync"

	"github.com/wealthops/risk-profiler/internal/models"
)

// Store abstracts the session table so the state machine never touches a
// concrete map, and a persistent backend can be swapped in later.
type Store interface {
	Get(clientID string) (*models.ClientProfile, bool)
	Put(p *models.ClientProfile)
	Delete(clientID string) bool
	Len() int
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ClientProfile
}

// NewMemory returns the in-process implementation.
func NewMemory() Store {
	return &memoryStore{sessions: make(map[string]*models.ClientProfile)}
}

func (s *memoryStore) Get(clientID string) (*models.ClientProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.sessions[clientID]
	return p, ok
}

func (s *memoryStore) Put(p *models.ClientProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[p.ClientID] = p
}

func (s *memoryStore) Delete(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[clientID]; !ok {
		return false
	}
	delete(s.sessions, clientID)
	return true
}

func (s *memoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
