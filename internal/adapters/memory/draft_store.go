package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zekroTJA/timedmap"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/ports"
)

// DraftStore keeps add-user drafts in memory. Each save renews the TTL.
type DraftStore struct {
	mu  sync.Mutex // serializes Claim against writes
	m   *timedmap.TimedMap
	ttl time.Duration
}

var _ ports.DraftStore = (*DraftStore)(nil)

// NewDraftStore creates a draft store with the given lifetime per draft.
func NewDraftStore(ttl, sweep time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if sweep <= 0 {
		sweep = time.Minute
	}
	return &DraftStore{m: timedmap.New(sweep), ttl: ttl}
}

func (s *DraftStore) Load(_ context.Context, sessionID string) (user.Draft, error) {
	d, _ := s.m.GetValue(sessionID).(user.Draft)
	return d, nil
}

func (s *DraftStore) Save(_ context.Context, sessionID string, d user.Draft) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Set(sessionID, d, s.ttl)
	return nil
}

func (s *DraftStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Remove(sessionID)
	return nil
}

// Claim consumes the draft's submission token.
func (s *DraftStore) Claim(_ context.Context, sessionID, token string) (user.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := s.m.GetValue(sessionID).(user.Draft)
	claimed := d
	if err := claimed.Claim(token); err != nil {
		return d, err
	}
	s.m.Set(sessionID, claimed, s.ttl)
	return d, nil
}

// Close stops the background cleaner.
func (s *DraftStore) Close() error {
	s.m.StopCleaner()
	return nil
}
