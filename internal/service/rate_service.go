package service

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateServiceImpl implements ports.RateProvider with a cache in front of an
// upstream provider. Cache failures are logged and fall through to the
// upstream: a degraded cache must never make rates unavailable.
type RateServiceImpl struct {
	provider ports.RateProvider
	cache    ports.RateCache
	ttl      time.Duration
	log      zerolog.Logger
}

// NewRateService creates a new RateServiceImpl.
func NewRateService(provider ports.RateProvider, cache ports.RateCache, ttl time.Duration, log zerolog.Logger) *RateServiceImpl {
	return &RateServiceImpl{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		log:      log,
	}
}

// GetRate returns the rate for the pair, consulting the cache first.
// Same-currency pairs short-circuit to 1 without touching cache or upstream.
func (s *RateServiceImpl) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	cached, err := s.cache.Get(ctx, from, to)
	if err != nil {
		s.log.Warn().Err(err).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("rate cache read failed, falling through to provider")
	}
	if cached != nil {
		return *cached, nil
	}

	rate, err := s.provider.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := s.cache.Set(ctx, from, to, rate, s.ttl); err != nil {
		s.log.Warn().Err(err).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("rate cache write failed")
	}
	return rate, nil
}
