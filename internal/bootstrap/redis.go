package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visitrack/frontdesk/config"
)

const redisPingTimeout = 5 * time.Second

// ConnectRedis opens a single-node, sentinel or cluster client from cfg and
// verifies it answers PING.
//
//nolint:ireturn // the concrete client type depends on the topology.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", desc, pingErr)
	}

	if logger != nil {
		logger.InfoContext(ctx, "redis connected", "addr", desc)
	}
	return client, nil
}

// redisOptions maps config onto UniversalOptions. The returned description
// is safe to log.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		addrs := nonEmpty(cfg.ClusterNodes)
		opts := &redis.UniversalOptions{Password: cfg.Password, IsClusterMode: true}
		if len(addrs) == 0 {
			// Fall back to the single URI as a cluster seed.
			single, _, err := redisOptions(config.RedisConfig{URI: cfg.URI, Password: cfg.Password})
			if err != nil {
				return nil, "", fmt.Errorf("redis cluster needs CLUSTER_NODES or URI: %w", err)
			}
			single.IsClusterMode = true
			return single, "cluster:" + strings.Join(single.Addrs, ","), nil
		}
		opts.Addrs = addrs
		return opts, "cluster:" + strings.Join(addrs, ","), nil

	case cfg.UseSentinel:
		nodes := nonEmpty(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, "sentinel:" + cfg.SentinelMasterName, nil

	default:
		uri := strings.TrimSpace(cfg.URI)
		if uri == "" {
			return nil, "", errors.New("redis configuration requires a URI")
		}
		if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
			return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password}, uri, nil
		}
		parsed, err := redis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		password := parsed.Password
		if password == "" {
			password = cfg.Password
		}
		return &redis.UniversalOptions{
			Addrs:     []string{parsed.Addr},
			Username:  parsed.Username,
			Password:  password,
			DB:        parsed.DB,
			TLSConfig: parsed.TLSConfig,
		}, parsed.Addr, nil
	}
}

func nonEmpty(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
