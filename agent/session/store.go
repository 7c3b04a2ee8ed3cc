package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	orchestratorx "github.com/calendon/schedpilot/agent/orchestrator"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrNilFactory     = errors.New("session factory is nil")
)

// Factory builds the orchestrator session for a previously unseen id.
type Factory func(id string) (*orchestratorx.Session, error)

// Store maps session ids to live orchestrator sessions. Unknown ids are
// materialized through the factory on first use, so a client never has to
// create a session explicitly.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*orchestratorx.Session
	factory  Factory
}

func NewStore(factory Factory) (*Store, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &Store{
		sessions: make(map[string]*orchestratorx.Session, 8),
		factory:  factory,
	}, nil
}

// Get returns the session for id, creating it on first use. Two concurrent
// Get calls for the same new id observe the same instance.
func (s *Store) Get(id string) (*orchestratorx.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	sess, err := s.factory(id)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}
	s.sessions[id] = sess
	return sess, nil
}

// Reset clears the conversation for id. The instance survives so in-flight
// references stay valid; an unknown id is a no-op.
func (s *Store) Reset(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if ok {
		sess.Reset()
	}
}

// Delete removes the session for id entirely.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(id))
}

// IDs returns the known session ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
