// Package memstore keeps survey sessions in process memory.
//
// Sessions are deliberately not persisted: a restart drops every survey in
// progress and users simply start again.
package memstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/qamqor/screening-bot/internal/domain"
)

// SessionStore holds at most one in-flight survey session per user.
// It is safe for concurrent use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]domain.SurveySession

	locksMu sync.Mutex
	locks   map[int64]*userLock

	ttl time.Duration
	now func() time.Time
	log *slog.Logger
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a store. Sessions whose UpdatedAt is older than ttl are treated
// as abandoned. A zero ttl disables expiry.
func New(log *slog.Logger, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]domain.SurveySession),
		locks:    make(map[int64]*userLock),
		ttl:      ttl,
		now:      time.Now,
		log:      log.With("adapter", "memstore"),
	}
}

// Get returns a deep copy of the user's session. Expired sessions are reported
// as absent.
func (s *SessionStore) Get(userID int64) (domain.SurveySession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return domain.SurveySession{}, false
	}
	if s.expired(sess, s.now()) {
		delete(s.sessions, userID)
		return domain.SurveySession{}, false
	}
	return sess.Clone(), true
}

// Put stores a copy of session, replacing any existing one.
func (s *SessionStore) Put(userID int64, session domain.SurveySession) {
	s.mu.Lock()
	s.sessions[userID] = session.Clone()
	s.mu.Unlock()
}

// Remove deletes the user's session. Removing an absent session is a no-op.
func (s *SessionStore) Remove(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Lock acquires the per-user mutex and returns its release function.
// Holders for different users never block each other.
func (s *SessionStore) Lock(userID int64) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.locksMu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, userID)
			}
			s.locksMu.Unlock()
		})
	}
}

// Start runs the expiry sweeper until ctx is cancelled.
func (s *SessionStore) Start(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	go s.sweep(ctx, interval)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("expired survey sessions dropped", slog.Int("count", n))
			}
		}
	}
}

func (s *SessionStore) expired(sess domain.SurveySession, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.UpdatedAt) > s.ttl
}
