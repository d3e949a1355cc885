// Package memory provides in-process adapters for sessions and drafts,
// used when Redis is not configured. Entries expire through timedmap.
package memory

import (
	"context"
	"errors"
	"time"

	"github.com/zekroTJA/timedmap"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

// SessionStore keeps sessions in memory until their ExpiresAt.
type SessionStore struct {
	m *timedmap.TimedMap
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a store whose cleaner runs every sweep.
func NewSessionStore(sweep time.Duration) *SessionStore {
	if sweep <= 0 {
		sweep = time.Minute
	}
	return &SessionStore{m: timedmap.New(sweep)}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}
	s.m.Set(sess.ID, sess, ttl)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	sess, ok := s.m.GetValue(id).(domainauth.Session)
	if !ok || time.Now().After(sess.ExpiresAt) {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.m.Remove(id)
	return nil
}

// Close stops the background cleaner.
func (s *SessionStore) Close() error {
	s.m.StopCleaner()
	return nil
}
