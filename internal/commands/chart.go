package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eth-telegram-bot/internal/chart"
	"eth-telegram-bot/lib/helpers"
	"eth-telegram-bot/lib/translation"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	chartPeriod    = 7 * 24 * time.Hour
	chartCacheSize = 32
)

type chartItem struct {
	ChartData []byte
	Caption   string
}

type chartCache struct {
	items *expirable.LRU[string, chartItem]
}

func newChartCache(ttl time.Duration) *chartCache {
	return &chartCache{items: expirable.NewLRU[string, chartItem](chartCacheSize, nil, ttl)}
}

func (c *chartCache) get(symbol string) (chartItem, bool) {
	return c.items.Get(symbol)
}

func (c *chartCache) set(symbol string, item chartItem) {
	c.items.Add(symbol, item)
}

// CommandChart renders the 7-day price chart of a supported coin. It returns the PNG and its
// MarkdownV2 caption, or nil data and a plain text reply when there is nothing to draw.
func (c *Commands) CommandChart(ctx context.Context, argument string) ([]byte, string, error) {
	log.Debugf("processing command /price_chart with argument :%s", argument)

	symbol := strings.ToLower(strings.TrimSpace(argument))
	if symbol == "" {
		return nil, "", invalid("📊 Please provide a coin symbol.\nSupported symbols: %s\n\nExample: /price_chart eth", supportedSymbols())
	}

	coin, ok := LookupCoin(symbol)
	if !ok {
		return nil, "", invalid("❌ Unknown coin symbol: \"%s\". Please try again.", symbol)
	}

	if item, found := c.charts.get(coin.Symbol); found {
		log.Debugf("returning cached chart for %s", coin.Symbol)
		return item.ChartData, item.Caption, nil
	}

	points, err := c.gateway.PriceHistory(ctx, coin.ID, time.Now().Add(-chartPeriod))
	if err != nil {
		return nil, "", errors.Wrapf(err, "command /price_chart %s", coin.Symbol)
	}
	if len(points) < 2 {
		return nil, translation.Translate("⚠️ No price history available for %s.", strings.ToUpper(coin.Symbol)), nil
	}

	data, err := chart.LineRender(points, chart.Options{
		Title: fmt.Sprintf("%s (%s) 7 days price chart", coin.Name, strings.ToUpper(coin.Symbol)),
		Font:  c.font,
		ValueFormatter: func(v float64) string {
			return helpers.FormatUSD(decimal.NewFromFloat(v))
		},
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "command /price_chart %s", coin.Symbol)
	}

	last := points[len(points)-1]
	first := points[0]
	change := 0.0
	if first.Price != 0 {
		change = (last.Price - first.Price) / first.Price * 100
	}

	caption := fmt.Sprintf("*%s* \\(%s\\)\n%s *$%s*\n%s *%s%%*",
		helpers.EscapeMarkdownV2(coin.Name),
		strings.ToUpper(coin.Symbol),
		helpers.EscapeMarkdownV2(translation.Translate("Price:")),
		helpers.EscapeMarkdownV2(helpers.FormatUSD(decimal.NewFromFloat(last.Price))),
		helpers.EscapeMarkdownV2(translation.Translate("7d change:")),
		helpers.EscapeMarkdownV2(fmt.Sprintf("%+.2f", change)),
	)

	c.charts.set(coin.Symbol, chartItem{ChartData: data, Caption: caption})
	return data, caption, nil
}
