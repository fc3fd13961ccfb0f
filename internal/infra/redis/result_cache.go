package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"dota-picker-service/internal/app"
	"dota-picker-service/internal/domain"
)

// ResultCache is a read-through cache over another ResultRepository.
// Loads are deduplicated with singleflight and cached with a jittered TTL;
// saves write through to the backing repository and refresh the cache.
// Cached payloads go through the same tagged-variant decoder as stored
// ones, so legacy entries cached before a migration still adapt.
type ResultCache struct {
	client *redis.Client
	inner  app.ResultRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewResultCache(client *redis.Client, inner app.ResultRepository, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ResultCache) Load(ctx context.Context, userID int64) (domain.QuizResults, bool, error) {
	key := c.key(userID)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		results, err := domain.DecodeResults(raw)
		if err == nil {
			return results, true, nil
		}
		// Corrupt cache entry: fall through to the backing store.
	}

	type loaded struct {
		results domain.QuizResults
		ok      bool
	}
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			if results, err := domain.DecodeResults(raw); err == nil {
				return loaded{results: results, ok: true}, nil
			}
		}

		results, ok, err := c.inner.Load(ctx, userID)
		if err != nil {
			return loaded{}, err
		}
		if ok {
			c.fill(ctx, key, results)
		}
		return loaded{results: results, ok: ok}, nil
	})
	if err != nil {
		return domain.QuizResults{}, false, err
	}
	l := v.(loaded)
	return l.results, l.ok, nil
}

func (c *ResultCache) Save(ctx context.Context, userID int64, results domain.QuizResults) error {
	if err := c.inner.Save(ctx, userID, results); err != nil {
		return err
	}
	c.fill(ctx, c.key(userID), results)
	return nil
}

// fill is best-effort: a cache write failure must not fail the request.
func (c *ResultCache) fill(ctx context.Context, key string, results domain.QuizResults) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
}

func (c *ResultCache) key(userID int64) string {
	return "picker:results:" + strconv.FormatInt(userID, 10)
}

func (c *ResultCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
