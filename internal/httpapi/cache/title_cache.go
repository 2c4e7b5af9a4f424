package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TitleCache keeps rendered title detail payloads in Redis. A nil *TitleCache
// or nil client is a valid no-op cache, so the API runs fine without Redis.
type TitleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTitleCache(client *redis.Client, ttl time.Duration) *TitleCache {
	return &TitleCache{client: client, ttl: ttl}
}

func key(titleID int64) string {
	return fmt.Sprintf("title:%d", titleID)
}

// Get returns the cached payload, or ok=false on a miss or any Redis error.
func (c *TitleCache) Get(ctx context.Context, titleID int64) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(titleID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *TitleCache) Set(ctx context.Context, titleID int64, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	// best effort, a failed write just means a later cache miss
	_ = c.client.Set(ctx, key(titleID), payload, c.ttl).Err()
}

// Invalidate drops the cached payload after any mutation that can change the
// title's read representation, including review score changes.
func (c *TitleCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, key(titleID)).Err()
}
