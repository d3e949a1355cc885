// Package redis provides Redis-based adapters for sessions and add-user drafts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visitrack/frontdesk/internal/cryptoutil"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

const scanBatch = 100

// SessionStore is a Redis-based session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	sealer cryptoutil.Sealer
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis session store; prefix namespaces its keys.
func NewSessionStore(client redis.UniversalClient, prefix string, opts ...Option) *SessionStore {
	o := applyOptions(opts)
	return &SessionStore{
		client: client,
		prefix: prefix + "session:",
		sealer: o.sealer,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	key := s.prefix + sess.ID
	sealed, err := s.sealer.Seal(data, []byte(key))
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	return s.client.Set(ctx, key, sealed, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	key := s.prefix + id
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	sess, err := s.decode(key, data)
	if err != nil {
		return domainauth.Session{}, err
	}

	// Redis expiry is second-granular; recheck.
	if time.Now().After(sess.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// Scan calls fn for every stored session. Keys that expire mid-scan are
// skipped; a session that cannot be decoded stops the scan.
func (s *SessionStore) Scan(ctx context.Context, fn func(domainauth.Session) error) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis get %s: %w", key, err)
		}
		sess, err := s.decode(key, data)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := fn(sess); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

func (s *SessionStore) decode(key string, data []byte) (domainauth.Session, error) {
	plain, err := s.sealer.Open(data, []byte(key))
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("open session: %w", err)
	}
	var sess domainauth.Session
	if err := json.Unmarshal(plain, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}
