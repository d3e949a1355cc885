package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visitrack/frontdesk/internal/cryptoutil"
	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/ports"
)

// DraftStore keeps add-user drafts in Redis. Each save renews the TTL.
type DraftStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	sealer cryptoutil.Sealer
}

var _ ports.DraftStore = (*DraftStore)(nil)

// NewDraftStore creates a Redis draft store.
func NewDraftStore(client redis.UniversalClient, prefix string, ttl time.Duration, opts ...Option) *DraftStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	o := applyOptions(opts)
	return &DraftStore{client: client, prefix: prefix + "draft:", ttl: ttl, sealer: o.sealer}
}

func (s *DraftStore) Load(ctx context.Context, sessionID string) (user.Draft, error) {
	return s.load(ctx, s.client, s.prefix+sessionID)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *DraftStore) load(ctx context.Context, c stringGetter, key string) (user.Draft, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user.Draft{}, nil
		}
		return user.Draft{}, fmt.Errorf("redis get draft: %w", err)
	}

	plain, err := s.sealer.Open(data, []byte(key))
	if err != nil {
		return user.Draft{}, fmt.Errorf("open draft: %w", err)
	}
	var d user.Draft
	if err := json.Unmarshal(plain, &d); err != nil {
		return user.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return d, nil
}

func (s *DraftStore) Save(ctx context.Context, sessionID string, d user.Draft) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	key := s.prefix + sessionID
	sealed, err := s.encode(key, d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, sealed, s.ttl).Err()
}

func (s *DraftStore) encode(key string, d user.Draft) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	sealed, err := s.sealer.Seal(data, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("seal draft: %w", err)
	}
	return sealed, nil
}

func (s *DraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}

// Claim consumes the draft's submission token inside a WATCH transaction.
// A concurrent write to the draft makes the claim fail as stale.
func (s *DraftStore) Claim(ctx context.Context, sessionID, token string) (user.Draft, error) {
	key := s.prefix + sessionID
	var before user.Draft
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		d, err := s.load(ctx, tx, key)
		if err != nil {
			return err
		}
		before = d
		claimed := d
		if err := claimed.Claim(token); err != nil {
			return err
		}
		sealed, err := s.encode(key, claimed)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sealed, s.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return before, fmt.Errorf("draft changed during claim: %w", user.ErrStaleSubmission)
	}
	return before, err
}

// Count returns the number of stored drafts.
func (s *DraftStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}
