package redis

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RateCache implements ports.RateCache using Redis. Rates are stored as
// decimal strings so no precision is lost across the round trip.
type RateCache struct {
	client *goredis.Client
	prefix string
}

// NewRateCache creates a new Redis-backed FX rate cache.
func NewRateCache(client *goredis.Client) *RateCache {
	return &RateCache{
		client: client,
		prefix: "fxrate:",
	}
}

func (c *RateCache) key(from, to domain.Currency) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, from, to)
}

// Get retrieves a cached rate for the currency pair.
// Returns nil, nil if the pair is not cached.
func (c *RateCache) Get(ctx context.Context, from, to domain.Currency) (*decimal.Decimal, error) {
	val, err := c.client.Get(ctx, c.key(from, to)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis rate get: %w", err)
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		return nil, fmt.Errorf("redis rate parse %q: %w", val, err)
	}
	return &rate, nil
}

// Set stores a rate for the currency pair with TTL.
func (c *RateCache) Set(ctx context.Context, from, to domain.Currency, rate decimal.Decimal, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(from, to), rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis rate set: %w", err)
	}
	return nil
}
