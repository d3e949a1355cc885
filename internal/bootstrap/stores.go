package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/visitrack/frontdesk/config"
	"github.com/visitrack/frontdesk/internal/adapters/memory"
	redisadapter "github.com/visitrack/frontdesk/internal/adapters/redis"
	"github.com/visitrack/frontdesk/internal/cryptoutil"
	"github.com/visitrack/frontdesk/internal/ports"
)

// Stores holds the session and add-user draft storage.
type Stores struct {
	Sessions ports.SessionStore
	Drafts   ports.DraftStore
	closers  []io.Closer
}

// Close stops background sweepers of in-memory stores.
func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// BuildStores picks Redis or in-memory storage. A Redis store without a
// client falls back to memory with a warning so local runs still work.
func BuildStores(cfg config.AppConfig, client redis.UniversalClient, logger *slog.Logger) (*Stores, error) {
	if cfg.Session.Store == config.SessionStoreRedis && client != nil {
		sealer, err := cryptoutil.New(cfg.Session.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("session encryption key: %w", err)
		}
		if _, plain := sealer.(cryptoutil.Plaintext); plain && logger != nil {
			logger.Warn("SESSION_ENCRYPTION_KEY not set; sessions are stored in redis unencrypted")
		}
		return &Stores{
			Sessions: redisadapter.NewSessionStore(client, cfg.Redis.KeyPrefix, redisadapter.WithSealer(sealer)),
			Drafts:   redisadapter.NewDraftStore(client, cfg.Redis.KeyPrefix, cfg.Session.DraftTTL, redisadapter.WithSealer(sealer)),
		}, nil
	}
	if cfg.Session.Store == config.SessionStoreRedis && logger != nil {
		logger.Warn("redis session store selected without a redis client; using memory")
	}

	sessions := memory.NewSessionStore(cfg.Session.SweepInterval)
	drafts := memory.NewDraftStore(cfg.Session.DraftTTL, cfg.Session.SweepInterval)
	return &Stores{
		Sessions: sessions,
		Drafts:   drafts,
		closers:  []io.Closer{sessions, drafts},
	}, nil
}
