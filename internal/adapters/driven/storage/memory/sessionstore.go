package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore
// for testing.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Session
	active   map[string]string
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]domain.Session),
		active:   make(map[string]string),
	}
}

// ActiveSession returns the active session id for an assistant.
func (s *SessionStore) ActiveSession(_ context.Context, assistantID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.active[assistantID]
	if !ok {
		return "", fmt.Errorf("%w: no active session for assistant %s", domain.ErrNotFound, assistantID)
	}
	return sessionID, nil
}

// SaveSession records a session and marks it active for its assistant.
func (s *SessionStore) SaveSession(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.AssistantID] = append(s.sessions[session.AssistantID], session)
	s.active[session.AssistantID] = session.ID
	return nil
}

// ClearActive drops the active pointer for an assistant.
func (s *SessionStore) ClearActive(_ context.Context, assistantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, assistantID)
	return nil
}

// Sessions lists all recorded sessions for an assistant, newest first.
func (s *SessionStore) Sessions(_ context.Context, assistantID string) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recorded := s.sessions[assistantID]
	out := make([]domain.Session, len(recorded))
	copy(out, recorded)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
