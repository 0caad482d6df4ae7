// Package cache provides a two-tier cache for classifier outputs: an
// in-memory LRU for hot entries and an optional Redis tier shared between
// instances. Only the symptom-set to disease-label mapping is cached;
// reference-table lookups always re-scan the in-memory tables.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/prescripto/health-recommender/internal/domain"
)

const redisKeyPrefix = "prescripto:prediction:"

// PredictionCache caches disease labels keyed by an encoded symptom set.
type PredictionCache struct {
	memory *lru.Cache[string, string]
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// New creates a prediction cache. When cfg.RedisURL is empty the cache runs
// memory-only; a Redis connection failure at startup is an error rather than
// a silent downgrade.
func New(cfg domain.CacheConfig, logger *logrus.Logger) (*PredictionCache, error) {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	memory, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, err
	}

	c := &PredictionCache{
		memory: memory,
		ttl:    cfg.TTL,
		logger: logger,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		c.redis = client
	}

	return c, nil
}

// Key derives a stable cache key from a symptom set. Order and duplicates do
// not affect the key, matching the boolean-per-position encoding semantics.
func Key(symptoms []string) string {
	names := make([]string, len(symptoms))
	copy(names, symptoms)
	sort.Strings(names)

	h := sha1.New()
	var prev string
	for i, n := range names {
		if i > 0 && n == prev {
			continue
		}
		prev = n
		_, _ = io.WriteString(h, n)
		_, _ = io.WriteString(h, "|")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a cached label, memory tier first, then Redis. A Redis hit is
// promoted into the memory tier.
func (c *PredictionCache) Get(ctx context.Context, key string) (domain.DiseaseLabel, bool) {
	if label, ok := c.memory.Get(key); ok {
		return domain.DiseaseLabel(label), true
	}
	if c.redis != nil {
		val, err := c.redis.Get(ctx, redisKeyPrefix+key).Result()
		if err == nil {
			c.memory.Add(key, val)
			return domain.DiseaseLabel(val), true
		}
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Redis cache read failed")
		}
	}
	return "", false
}

// Set stores a label in both tiers. Redis write failures are logged and
// otherwise ignored; the memory tier already holds the entry.
func (c *PredictionCache) Set(ctx context.Context, key string, label domain.DiseaseLabel) {
	c.memory.Add(key, string(label))
	if c.redis != nil {
		if err := c.redis.Set(ctx, redisKeyPrefix+key, string(label), c.ttl).Err(); err != nil {
			c.logger.WithError(err).Warn("Redis cache write failed")
		}
	}
}

// Close releases the Redis connection, if any.
func (c *PredictionCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
