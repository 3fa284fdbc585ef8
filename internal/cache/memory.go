package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	c *gocache.Cache
}

// NewMemory returns an in-process cache backend.
func NewMemory(defaultTTL time.Duration) Client {
	return &memoryCache{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

func (m *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

func (m *memoryCache) Delete(_ context.Context, key string) {
	m.c.Delete(key)
}

func (m *memoryCache) Ping(_ context.Context) error {
	return nil
}

func (m *memoryCache) Close() error {
	return nil
}
