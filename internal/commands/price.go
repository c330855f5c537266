package commands

import (
	"context"
	"strings"

	"eth-telegram-bot/lib/helpers"
	"eth-telegram-bot/lib/translation"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Coin is a symbol the price commands accept.
type Coin struct {
	Symbol string
	Name   string
	ID     string // CoinPaprika id
}

// SupportedCoins in display order.
var SupportedCoins = []Coin{
	{Symbol: "eth", Name: "Ethereum", ID: "eth-ethereum"},
	{Symbol: "sol", Name: "Solana", ID: "sol-solana"},
	{Symbol: "btc", Name: "Bitcoin", ID: "btc-bitcoin"},
	{Symbol: "wncg", Name: "Wrapped NCG", ID: "wncg-wrapped-ncg"},
	{Symbol: "doge", Name: "Dogecoin", ID: "doge-dogecoin"},
	{Symbol: "bonk", Name: "Bonk", ID: "bonk-bonk"},
	{Symbol: "matic", Name: "Polygon", ID: "matic-polygon"},
	{Symbol: "usdt", Name: "Tether", ID: "usdt-tether"},
	{Symbol: "apt", Name: "Aptos", ID: "apt-aptos"},
	{Symbol: "bnb", Name: "Binance Coin", ID: "bnb-binance-coin"},
}

// LookupCoin finds a supported coin by symbol, case-insensitively.
func LookupCoin(symbol string) (Coin, bool) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	for _, c := range SupportedCoins {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Coin{}, false
}

func supportedSymbols() string {
	symbols := make([]string, 0, len(SupportedCoins))
	for _, c := range SupportedCoins {
		symbols = append(symbols, c.Symbol)
	}
	return strings.Join(symbols, ", ")
}

// CommandPrice answers /price: ETH and SOL without an argument, otherwise the requested coin.
func (c *Commands) CommandPrice(ctx context.Context, argument string) (string, error) {
	log.Debugf("processing command /price with argument :%s", argument)

	if strings.TrimSpace(argument) == "" {
		eth, _ := LookupCoin("eth")
		sol, _ := LookupCoin("sol")
		return c.priceList(ctx, []Coin{eth, sol})
	}

	coin, ok := LookupCoin(argument)
	if !ok {
		return "", invalid("❌ Unsupported symbol: \"%s\". Type /supported_coins to see available coins.", strings.TrimSpace(argument))
	}

	p, err := c.prices.Get(ctx, coin.ID)
	if err != nil {
		return "", errors.Wrapf(err, "command /price %s", coin.Symbol)
	}

	return translation.Translate("💰 %s: $%s", strings.ToUpper(coin.Symbol), helpers.FormatUSD(p)), nil
}

func (c *Commands) CommandPriceAll(ctx context.Context) (string, error) {
	log.Debug("processing command /price_all")
	return c.priceList(ctx, SupportedCoins)
}

func (c *Commands) priceList(ctx context.Context, coins []Coin) (string, error) {
	ids := make([]string, 0, len(coins))
	for _, coin := range coins {
		ids = append(ids, coin.ID)
	}

	prices, err := c.prices.GetAll(ctx, ids)
	if err != nil {
		return "", errors.Wrap(err, "price list")
	}

	var sb strings.Builder
	sb.WriteString(translation.Translate("📊 Current Crypto Prices:"))
	sb.WriteString("\n")
	for _, coin := range coins {
		value := "N/A"
		if p, ok := prices[coin.ID]; ok {
			value = helpers.FormatUSD(p)
		}
		sb.WriteString(translation.Translate("🔹 %s (%s): $%s", coin.Name, strings.ToUpper(coin.Symbol), value))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func CommandSupportedCoins() string {
	var sb strings.Builder
	sb.WriteString(translation.Translate("📋 Supported Coins:"))
	sb.WriteString("\n\n")
	for _, coin := range SupportedCoins {
		sb.WriteString("• " + strings.ToUpper(coin.Symbol) + " (" + coin.Name + ")\n")
	}
	return sb.String()
}
