package telegram

import (
	"context"

	"eth-telegram-bot/internal/commands"
	"eth-telegram-bot/internal/types"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// failures are the replies used when a command fails for a reason other than bad input.
var failures = map[string]string{
	"gas":          "⚠️ Failed to fetch gas prices.",
	"balance":      "🚨 Error fetching balance.",
	"transactions": "⚠️ Error fetching transactions.",
	"portfolio":    "⚠️ Error fetching portfolio data. Please try again later.",
	"tokens":       "⚠️ Unable to retrieve token balances. Please check the address or try again later.",
	"newwallet":    "⚠️ Error creating new wallet. Please try again.",
	"price":        "⚠️ Error fetching coin price.",
	"price_all":    "⚠️ Failed to fetch full price list.",
	"price_chart":  "⚠️ Failed to load the chart. Please try again with a different symbol.",
}

// HandleUpdate runs the command carried by u and returns the reply to send.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) Reply {
	m := u.Message
	chatID := types.ChatID(m.Chat.ID)
	args := m.CommandArguments()
	command := m.Command()
	log.Debugf("received command: %s", command)

	var (
		text string
		err  error
	)

	switch command {
	case "start", "help":
		text = commands.CommandStart()
	case "gas":
		text, err = b.commands.CommandGas(ctx)
	case "gasalert":
		text, err = b.commands.CommandGasAlert(chatID, args)
	case "alert":
		text, err = b.commands.CommandPriceAlert(chatID, args)
	case "pricemonitor":
		text = b.commands.CommandPriceMonitor(chatID)
	case "watch":
		text, err = b.commands.CommandWatch(chatID, args)
	case "watchlist":
		text = b.commands.CommandWatchlist(chatID)
	case "balance":
		text, err = b.commands.CommandBalance(ctx, args)
	case "portfolio":
		text, err = b.commands.CommandPortfolio(ctx, args)
	case "tokens":
		text, err = b.commands.CommandTokens(ctx, args)
	case "transactions":
		text, err = b.commands.CommandTransactions(ctx, args)
	case "newwallet":
		text, err = commands.CommandNewWallet()
	case "price":
		text, err = b.commands.CommandPrice(ctx, args)
	case "price_all":
		text, err = b.commands.CommandPriceAll(ctx)
	case "supported_coins":
		text = commands.CommandSupportedCoins()
	case "price_chart":
		var chartData []byte
		chartData, text, err = b.commands.CommandChart(ctx, args)
		if err == nil && chartData != nil {
			return Reply{Text: text, ParseMode: markdownV2, Photo: chartData}
		}
	default:
		text = commands.CommandUnknown()
	}

	if err != nil {
		log.WithField("command", command).Error(err)
		text = commands.ErrorReply(err, failures[command])
	}

	return Reply{Text: text}
}
