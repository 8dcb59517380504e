// Package redis provides a Redis-backed cache in front of a document store.
// Only the question pool is cached: the content changes rarely and every
// session reads it whole. Scores pass through untouched so the ranking is
// always recomputed on demand.
package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/gateway"
)

const poolKey = "quiz:question-pool"

// PoolCache decorates a DocumentStore with a Redis-cached question pool.
type PoolCache struct {
	client *redis.Client
	inner  gateway.DocumentStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPoolCache(client *redis.Client, inner gateway.DocumentStore, ttl time.Duration) *PoolCache {
	return &PoolCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *PoolCache) FetchQuestionPool(ctx context.Context) ([]domain.Question, error) {
	if pool, ok := c.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := c.sf.Do(poolKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if pool, ok := c.cached(ctx); ok {
			return pool, nil
		}

		pool, err := c.inner.FetchQuestionPool(ctx)
		if err != nil {
			return nil, err
		}
		// An empty pool is a content gap; keep asking the store so newly
		// authored questions show up without waiting out a TTL.
		if len(pool) > 0 {
			if data, err := json.Marshal(pool); err == nil {
				_ = c.client.Set(ctx, poolKey, data, c.ttlWithJitter()).Err()
			}
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *PoolCache) InsertScore(ctx context.Context, rec domain.ScoreRecord) error {
	return c.inner.InsertScore(ctx, rec)
}

func (c *PoolCache) FetchTopScores(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	return c.inner.FetchTopScores(ctx, limit)
}

func (c *PoolCache) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, poolKey).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

func (c *PoolCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
