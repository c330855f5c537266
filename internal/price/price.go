package price

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	cacheSize  = 64
	maxFetches = 4
)

// Source provides live USD prices by CoinPaprika id.
type Source interface {
	SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
}

// Cache keeps recently fetched prices for a short time so repeated price commands do not
// spend the provider quota.
type Cache struct {
	source Source
	prices *expirable.LRU[string, decimal.Decimal]
}

func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source: source,
		prices: expirable.NewLRU[string, decimal.Decimal](cacheSize, nil, ttl),
	}
}

// Get returns the price of assetID, from cache when still fresh.
func (c *Cache) Get(ctx context.Context, assetID string) (decimal.Decimal, error) {
	if p, ok := c.prices.Get(assetID); ok {
		return p, nil
	}

	p, err := c.source.SpotPrice(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	c.prices.Add(assetID, p)
	return p, nil
}

// GetAll fetches every id and returns the prices that could be loaded. err is the last failure
// and is only returned when no price at all was loaded.
func (c *Cache) GetAll(ctx context.Context, assetIDs []string) (map[string]decimal.Decimal, error) {
	var (
		mu      sync.Mutex
		prices  = make(map[string]decimal.Decimal, len(assetIDs))
		lastErr error
	)

	g := new(errgroup.Group)
	g.SetLimit(maxFetches)
	for _, id := range assetIDs {
		id := id
		g.Go(func() error {
			p, err := c.Get(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithField("asset", id).Warnf("⚠️ Price not available: %v", err)
				lastErr = err
				return nil
			}
			prices[id] = p
			return nil
		})
	}
	_ = g.Wait()

	if len(prices) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return prices, nil
}
