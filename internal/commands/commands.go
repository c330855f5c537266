package commands

import (
	"context"
	"time"

	"eth-telegram-bot/internal/chart"
	"eth-telegram-bot/internal/price"
	"eth-telegram-bot/internal/registry"
	"eth-telegram-bot/internal/types"
	"github.com/golang/freetype/truetype"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Gateway is every external read a chat command can make.
type Gateway interface {
	GasOracle(ctx context.Context) (types.GasOracle, error)
	SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	Balance(ctx context.Context, address string) (decimal.Decimal, error)
	Transactions(ctx context.Context, address string, limit int) ([]types.Transaction, error)
	TokenTransfers(ctx context.Context, address string) ([]types.TokenTransfer, error)
	TokenBalance(ctx context.Context, contract, address string, decimals int32) (decimal.Decimal, error)
	PriceHistory(ctx context.Context, assetID string, since time.Time) ([]types.PricePoint, error)
}

type Config struct {
	ChartCacheTTL time.Duration
	// ChartFontPath is an optional TrueType font used for chart labels.
	ChartFontPath string
}

// Commands executes chat commands against the registry and the gateway and renders their replies.
type Commands struct {
	registry *registry.Registry
	gateway  Gateway
	prices   *price.Cache
	charts   *chartCache
	font     *truetype.Font
}

func New(reg *registry.Registry, gw Gateway, cfg Config) *Commands {
	if cfg.ChartCacheTTL <= 0 {
		cfg.ChartCacheTTL = time.Minute
	}

	c := &Commands{
		registry: reg,
		gateway:  gw,
		prices:   price.NewCache(gw, cfg.ChartCacheTTL),
		charts:   newChartCache(cfg.ChartCacheTTL),
	}

	if cfg.ChartFontPath != "" {
		font, err := chart.LoadFont(cfg.ChartFontPath)
		if err != nil {
			log.Warnf("⚠️ Using the default chart font: %v", err)
		} else {
			c.font = font
		}
	}

	return c
}
