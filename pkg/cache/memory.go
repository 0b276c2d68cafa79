package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		c: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, found := s.c.Get(key)

	if !found {
		return nil, false
	}

	data, ok := value.([]byte)

	if !ok {
		return nil, false
	}

	return data, true
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

func (s *MemoryStore) Delete(ctx context.Context, key string) {
	s.c.Delete(key)
}

func (s *MemoryStore) Flush(ctx context.Context) {
	s.c.Flush()
}

func (s *MemoryStore) Len(ctx context.Context) int {
	return s.c.ItemCount()
}
