package gateway

import (
	"context"
	"net/http"
	"time"

	"eth-telegram-bot/internal/types"
	"github.com/coinpaprika/coinpaprika-api-go-client/v2/coinpaprika"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type paprika struct {
	client  *coinpaprika.Client
	limiter *Limiter
}

func newPaprika(apiProKey string, httpClient *http.Client, limiter *Limiter) *paprika {
	var client *coinpaprika.Client
	if apiProKey != "" {
		client = coinpaprika.NewClient(httpClient, coinpaprika.WithAPIKey(apiProKey))
	} else {
		client = coinpaprika.NewClient(httpClient)
	}
	return &paprika{client: client, limiter: limiter}
}

func (p *paprika) spotPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	const op = "spot price"

	if err := p.limiter.Wait(ctx); err != nil {
		return decimal.Zero, newError(Network, op, err)
	}

	ticker, err := p.client.Tickers.GetByID(assetID, &coinpaprika.TickersOptions{Quotes: "USD"})
	if err != nil {
		return decimal.Zero, newError(classify(err), op, errors.Wrapf(err, "ticker %s", assetID))
	}
	if ticker == nil {
		return decimal.Zero, newError(NotFound, op, errors.Errorf("ticker %s", assetID))
	}

	quote, ok := ticker.Quotes["USD"]
	if !ok || quote.Price == nil {
		return decimal.Zero, newError(Malformed, op, errors.Errorf("ticker %s has no USD price", assetID))
	}
	return decimal.NewFromFloat(*quote.Price), nil
}

func (p *paprika) history(ctx context.Context, assetID string, since time.Time) ([]types.PricePoint, error) {
	const op = "price history"

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, newError(Network, op, err)
	}

	tickers, err := p.client.Tickers.GetHistoricalTickersByID(assetID, &coinpaprika.TickersHistoricalOptions{
		Start:    since,
		Quote:    "USD",
		Interval: "2h",
		Limit:    120,
	})
	if err != nil {
		return nil, newError(classify(err), op, errors.Wrapf(err, "historical tickers %s", assetID))
	}

	points := make([]types.PricePoint, 0, len(tickers))
	for _, t := range tickers {
		if t == nil || t.Timestamp == nil || t.Price == nil {
			continue
		}
		points = append(points, types.PricePoint{Time: *t.Timestamp, Price: *t.Price})
	}
	if len(points) == 0 {
		return nil, newError(NotFound, op, errors.Errorf("no history for %s", assetID))
	}
	return points, nil
}
