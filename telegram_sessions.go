package main

import (
	"context"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

// chatSession is the last dataset uploaded in a chat.
type chatSession struct {
	ID       string
	Filename string
	Dataset  *models.Dataset
	touched  time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]*chatSession
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		sessions: make(map[int64]*chatSession),
		now:      time.Now,
	}
}

func (s *sessionStore) Put(chatID int64, filename string, ds *models.Dataset) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &chatSession{
		ID:       uuid.NewV4().String(),
		Filename: filename,
		Dataset:  ds,
		touched:  s.now(),
	}
	s.sessions[chatID] = session
	return session
}

// Get returns the chat's session and refreshes its expiry.
func (s *sessionStore) Get(chatID int64) (*chatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[chatID]
	if !ok || s.expired(session) {
		delete(s.sessions, chatID)
		return nil, false
	}
	session.touched = s.now()
	return session, true
}

// Sweep drops expired sessions and returns how many were removed.
func (s *sessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for chatID, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) expired(session *chatSession) bool {
	return s.now().After(session.touched.Add(s.ttl))
}

// run sweeps every minute until ctx is done.
func (s *sessionStore) run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
