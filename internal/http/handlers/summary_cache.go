package handlers

import (
	"context"
	"time"

	"github.com/paisatrack/paisatrack/internal/cache"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/queue/redisclient"
)

// RedisSummaryCache stores summaries in Redis so multiple API instances share
// one cache.
type RedisSummaryCache struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redisclient.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(userID string) string {
	return "summary:" + userID
}

func (c *RedisSummaryCache) Get(ctx context.Context, userID string) (record.Summary, bool) {
	var s record.Summary

	ok := c.client.GetJSON(ctx, summaryKey(userID), &s)

	return s, ok
}

func (c *RedisSummaryCache) Set(ctx context.Context, userID string, s record.Summary) {
	c.client.SetJSON(ctx, summaryKey(userID), s, c.ttl)
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, userID string) {
	c.client.Delete(ctx, summaryKey(userID))
}

// MemorySummaryCache is the single-instance fallback when Redis is not
// configured.
type MemorySummaryCache struct {
	inner *cache.Cache
}

func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	return &MemorySummaryCache{inner: cache.New(ttl)}
}

func (c *MemorySummaryCache) Get(_ context.Context, userID string) (record.Summary, bool) {
	v, ok := c.inner.Get(summaryKey(userID))

	if !ok {
		return record.Summary{}, false
	}

	s, ok := v.(record.Summary)

	return s, ok
}

func (c *MemorySummaryCache) Set(_ context.Context, userID string, s record.Summary) {
	c.inner.Set(summaryKey(userID), s)
}

func (c *MemorySummaryCache) Invalidate(_ context.Context, userID string) {
	c.inner.Delete(summaryKey(userID))
}
