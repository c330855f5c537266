package commands

import (
	"strings"

	"eth-telegram-bot/internal/metrics"
	"eth-telegram-bot/internal/types"
	"eth-telegram-bot/lib/helpers"
	"eth-telegram-bot/lib/translation"
	log "github.com/sirupsen/logrus"
)

// CommandWatch adds address to the watch list on behalf of chatID. Watching the same address twice
// is harmless.
func (c *Commands) CommandWatch(chatID types.ChatID, argument string) (string, error) {
	log.Debugf("processing command /watch with argument :%s", argument)

	address, err := addressArg(argument, "/watch 0x123...abc")
	if err != nil {
		return "", err
	}

	if !c.registry.AddWatch(address, chatID) {
		return translation.Translate("👀 Already watching transactions for %s.", address), nil
	}
	metrics.Default.WatchedAddresses.Set(float64(c.registry.WatchCount()))

	return translation.Translate("👀 Watching transactions for %s.", address), nil
}

func (c *Commands) CommandWatchlist(chatID types.ChatID) string {
	watches := c.registry.WatchesFor(chatID)
	if len(watches) == 0 {
		return translation.Translate("👀 You are not watching any address. Use /watch <address> to start.")
	}

	var sb strings.Builder
	sb.WriteString(translation.Translate("👀 Watched addresses:"))
	sb.WriteString("\n")
	for _, w := range watches {
		sb.WriteString(translation.Translate("▫️ %s (since %s)", w.Address, helpers.FormatSince(w.Since)))
		sb.WriteString("\n")
	}
	return sb.String()
}
