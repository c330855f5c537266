package commands

import (
	"context"
	"strings"

	"eth-telegram-bot/internal/types"
	"eth-telegram-bot/lib/helpers"
	"eth-telegram-bot/lib/translation"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	usdtContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	usdtDecimals = 6
)

type tokenHolding struct {
	Contract string
	Name     string
	Symbol   string
	Amount   decimal.Decimal
}

// netHoldings sums the transfers of address per token contract: received minus sent.
// Holdings keep the order in which their contract first appears.
func netHoldings(address string, transfers []types.TokenTransfer) []tokenHolding {
	index := make(map[string]int)
	var holdings []tokenHolding

	for _, t := range transfers {
		contract := strings.ToLower(t.ContractAddress)
		i, ok := index[contract]
		if !ok {
			name, symbol := t.TokenName, t.TokenSymbol
			if name == "" {
				name = "Unknown Token"
			}
			if symbol == "" {
				symbol = "???"
			}
			i = len(holdings)
			index[contract] = i
			holdings = append(holdings, tokenHolding{Contract: t.ContractAddress, Name: name, Symbol: symbol})
		}

		if strings.EqualFold(t.To, address) {
			holdings[i].Amount = holdings[i].Amount.Add(t.Amount)
		}
		if strings.EqualFold(t.From, address) {
			holdings[i].Amount = holdings[i].Amount.Sub(t.Amount)
		}
	}
	return holdings
}

func (c *Commands) CommandTokens(ctx context.Context, argument string) (string, error) {
	log.Debugf("processing command /tokens with argument :%s", argument)

	address, err := addressArg(argument, "/tokens 0x123...abc")
	if err != nil {
		return "", err
	}

	transfers, err := c.gateway.TokenTransfers(ctx, address)
	if err != nil {
		return "", errors.Wrap(err, "command /tokens")
	}

	holdings := netHoldings(address, transfers)
	if len(holdings) == 0 {
		return translation.Translate("🪙 No ERC-20 tokens found for address: %s", address), nil
	}

	var sb strings.Builder
	sb.WriteString(translation.Translate("📊 ERC-20 Token Balances for %s:", address))
	sb.WriteString("\n\n")
	for _, h := range holdings {
		sb.WriteString(translation.Translate(
			"🪙 %s (%s)\n   🔹 Quantity: %s\n   📄 Contract: %s\n\n",
			h.Name, h.Symbol, helpers.FormatAmount(h.Amount, 4), helpers.ShortAddress(h.Contract),
		))
	}
	return sb.String(), nil
}

func (c *Commands) CommandPortfolio(ctx context.Context, argument string) (string, error) {
	log.Debugf("processing command /portfolio with argument :%s", argument)

	address, err := addressArg(argument, "/portfolio 0x123...abc")
	if err != nil {
		return "", err
	}

	eth, err := c.gateway.Balance(ctx, address)
	if err != nil {
		return "", errors.Wrap(err, "command /portfolio: eth balance")
	}

	usdt, err := c.gateway.TokenBalance(ctx, usdtContract, address, usdtDecimals)
	if err != nil {
		return "", errors.Wrap(err, "command /portfolio: usdt balance")
	}

	transfers, err := c.gateway.TokenTransfers(ctx, address)
	if err != nil {
		return "", errors.Wrap(err, "command /portfolio: token transfers")
	}

	var sb strings.Builder
	sb.WriteString(translation.Translate("📊 Portfolio for %s", address))
	sb.WriteString("\n\n")
	sb.WriteString(translation.Translate("💰 ETH Balance: %s ETH", eth.String()))
	sb.WriteString("\n")
	sb.WriteString(translation.Translate("💵 USDT Balance: %s USDT", usdt.StringFixed(2)))
	sb.WriteString("\n\n")
	sb.WriteString(translation.Translate("🪙 ERC-20 Tokens:"))
	sb.WriteString("\n")

	byName := make(map[string]decimal.Decimal)
	var names []string
	for _, h := range netHoldings(address, transfers) {
		if _, ok := byName[h.Name]; !ok {
			names = append(names, h.Name)
		}
		byName[h.Name] = byName[h.Name].Add(h.Amount)
	}

	if len(names) == 0 {
		sb.WriteString(translation.Translate("No tokens found."))
		sb.WriteString("\n")
	}
	for _, name := range names {
		sb.WriteString("- " + name + ": " + byName[name].StringFixed(4) + "\n")
	}
	return sb.String(), nil
}
