package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kurooo23/AsiqTIX/ports"
)

const (
	priceCacheTTL = 8 * time.Second
	fxCacheTTL    = 10 * time.Minute
)

// ErrPriceUnavailable is returned when every quote source failed and no
// cached value exists.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceQuote is the aggregated POL price in IDR.
type PriceQuote struct {
	PriceIDR    decimal.Decimal
	Source      string
	UpdatedAt   time.Time
	Stale       bool
	StaleReason string
}

// PriceService aggregates a POL→IDR price by walking ordered spot (POL→USDT)
// and fx (USD→IDR) source chains. Results are cached briefly; when all
// sources fail a stale cached value is served with the failure reason. The
// authentication core never depends on this cache.
type PriceService struct {
	spot     []ports.QuoteSource
	fx       []ports.QuoteSource
	override decimal.Decimal // static price, zero disables
	now      func() time.Time

	mu       sync.Mutex
	cached   PriceQuote
	fxRate   decimal.Decimal
	fxAt     time.Time
	hasCache bool
}

// NewPriceService creates the aggregator. staticOverride, when non-empty,
// short-circuits every lookup with a fixed IDR price.
func NewPriceService(spot, fx []ports.QuoteSource, staticOverride string) *PriceService {
	ps := &PriceService{
		spot: spot,
		fx:   fx,
		now:  time.Now,
	}
	if staticOverride != "" {
		if v, err := decimal.NewFromString(staticOverride); err == nil && v.IsPositive() {
			ps.override = v
		}
	}
	return ps
}

// Current returns the POL price in IDR per the fallback policy.
func (s *PriceService) Current(ctx context.Context) (PriceQuote, error) {
	if s.override.IsPositive() {
		return PriceQuote{
			PriceIDR:  s.override,
			Source:    "static",
			UpdatedAt: s.now(),
		}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.hasCache && now.Sub(s.cached.UpdatedAt) < priceCacheTTL {
		q := s.cached
		q.Source += " (cached)"
		return q, nil
	}

	spotPrice, spotSrc, spotErr := firstQuote(ctx, s.spot)
	if spotErr == nil {
		fxRate, fxErr := s.usdIDRLocked(ctx, now)
		if fxErr == nil {
			quote := PriceQuote{
				PriceIDR:  spotPrice.Mul(fxRate),
				Source:    spotSrc,
				UpdatedAt: now,
			}
			s.cached = quote
			s.hasCache = true
			return quote, nil
		}
		spotErr = fxErr
	}

	// Serve the last good value when one exists.
	if s.hasCache {
		q := s.cached
		q.Stale = true
		q.StaleReason = spotErr.Error()
		q.Source += " (stale)"
		return q, nil
	}
	return PriceQuote{}, ErrPriceUnavailable
}

// usdIDRLocked returns the cached USD→IDR rate, refreshing it from the fx
// chain when older than fxCacheTTL. Caller holds s.mu.
func (s *PriceService) usdIDRLocked(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	if s.fxRate.IsPositive() && now.Sub(s.fxAt) < fxCacheTTL {
		return s.fxRate, nil
	}

	rate, _, err := firstQuote(ctx, s.fx)
	if err != nil {
		if s.fxRate.IsPositive() {
			return s.fxRate, nil
		}
		return decimal.Zero, err
	}

	s.fxRate = rate
	s.fxAt = now
	return rate, nil
}

// firstQuote walks sources in order and returns the first answer.
func firstQuote(ctx context.Context, sources []ports.QuoteSource) (decimal.Decimal, string, error) {
	var lastErr error
	for _, src := range sources {
		p, err := src.Quote(ctx)
		if err == nil {
			return p, src.Name(), nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrPriceUnavailable
	}
	return decimal.Zero, "", lastErr
}
