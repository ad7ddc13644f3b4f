package auth

import (
	"sync"

	"github.com/devstudy/devstudy-backend/internal/auth/domain"
)

// Sessions fans sign-in and sign-out events out to in-process listeners.
type Sessions struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func(domain.AuthEvent)
}

func NewSessions() *Sessions {
	return &Sessions{listeners: make(map[int]func(domain.AuthEvent))}
}

// OnAuthChange registers cb and returns a func that removes it. Calling the
// returned func more than once is safe.
func (s *Sessions) OnAuthChange(cb func(domain.AuthEvent)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = cb
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current listener, synchronously.
func (s *Sessions) Publish(ev domain.AuthEvent) {
	s.mu.RLock()
	cbs := make([]func(domain.AuthEvent), 0, len(s.listeners))
	for _, cb := range s.listeners {
		cbs = append(cbs, cb)
	}
	s.mu.RUnlock()

	for _, cb := range cbs {
		cb(ev)
	}
}
