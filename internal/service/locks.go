package service

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks hands out one mutex per session so every mutating operation
// on a session's booking aggregate runs single-writer within this process.
// The database row lock still guards against other processes; this keeps
// local goroutines from burning transaction retries against each other.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *sessionLocks) forSession(sessionID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[sessionID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[sessionID] = l
	return l
}
