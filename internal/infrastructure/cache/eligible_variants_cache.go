// Package cache holds Redis-backed read caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/returns"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects a Redis client and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// EligibleVariantsCache wraps a variant eligibility strategy with a Redis
// cache-aside layer. Exchange previews hit the same variant lists
// repeatedly while a customer browses replacement options; the underlying
// query joins variants against the stock ledger. Staleness is bounded by
// the TTL and tolerated: the exchange itself re-checks stock before
// performing.
type EligibleVariantsCache struct {
	inner     returns.VariantEligibility
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewEligibleVariantsCache creates the caching wrapper
func NewEligibleVariantsCache(inner returns.VariantEligibility, client *redis.Client, ttl time.Duration, logger *zap.Logger) *EligibleVariantsCache {
	return &EligibleVariantsCache{
		inner:     inner,
		client:    client,
		ttl:       ttl,
		keyPrefix: "returns:eligible_variants:",
		logger:    logger,
	}
}

// EligibleVariants returns the cached variant list, falling through to the
// wrapped strategy on a miss. Cache failures degrade to the uncached path.
func (c *EligibleVariantsCache) EligibleVariants(ctx context.Context, variant *catalog.Variant) ([]*catalog.Variant, error) {
	key := c.keyPrefix + variant.ID.String()

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var variants []*catalog.Variant
		if err := json.Unmarshal(cached, &variants); err == nil {
			return variants, nil
		}
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Eligible variants cache read failed", zap.String("key", key), zap.Error(err))
	}

	variants, err := c.inner.EligibleVariants(ctx, variant)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(variants); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("Eligible variants cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return variants, nil
}

// Invalidate drops the cached list for a variant, used when its product's
// stock changes
func (c *EligibleVariantsCache) Invalidate(ctx context.Context, variantID string) error {
	return c.client.Del(ctx, c.keyPrefix+variantID).Err()
}
