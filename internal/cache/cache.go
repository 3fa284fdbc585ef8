package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/config"
)

// Client abstracts the lookup cache used by the platform facades. Entries
// are opportunistic: a miss always falls back to a remote fetch, and stale
// reads are tolerated by callers.
type Client interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Ping(ctx context.Context) error
	Close() error
}

// New selects a cache backend from configuration. Unknown drivers fall back
// to the in-process backend.
func New(cfg config.CacheConfig, logger *zap.Logger) Client {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg, logger)
	default:
		return NewMemory(cfg.TTL())
	}
}
