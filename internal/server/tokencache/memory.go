package tokencache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local cache; entries expire after ttl.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, cleanupInterval)}
}

func (m *Memory) Get(_ context.Context, token string) (int64, bool) {
	v, ok := m.c.Get(token)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func (m *Memory) Set(_ context.Context, token string, userID int64) {
	m.c.SetDefault(token, userID)
}
