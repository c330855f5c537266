package commands

import (
	"context"
	"strings"

	"eth-telegram-bot/internal/types"
	"eth-telegram-bot/lib/translation"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (c *Commands) CommandGas(ctx context.Context) (string, error) {
	log.Debug("processing command /gas")

	gas, err := c.gateway.GasOracle(ctx)
	if err != nil {
		return "", errors.Wrap(err, "command /gas")
	}

	return translation.Translate(
		"⛽ Ethereum Gas Prices:\n\n🚀 Fast: %s Gwei\n🚶 Standard: %s Gwei\n🐢 Slow: %s Gwei\n📊 Base Fee: %s Gwei",
		gas.Fast.String(), gas.Standard.String(), gas.Slow.String(), gas.BaseFee.StringFixed(2),
	), nil
}

// CommandGasAlert stores the process-wide gas alert; a previous alert is replaced.
func (c *Commands) CommandGasAlert(chatID types.ChatID, argument string) (string, error) {
	log.Debugf("processing command /gasalert with argument :%s", argument)

	threshold, err := ParsePositiveDecimal(argument)
	if err != nil {
		return "", invalid("⚠️ Please enter a valid gas price (Gwei). Example: /gasalert 30")
	}

	c.registry.SetGasAlert(chatID, threshold)
	return translation.Translate(
		"🚨 Gas price alert set at %s Gwei. You will be notified when gas price drops to this level.",
		threshold.String(),
	), nil
}

// CommandPriceAlert stores the process-wide ETH price alert; a previous alert is replaced.
func (c *Commands) CommandPriceAlert(chatID types.ChatID, argument string) (string, error) {
	log.Debugf("processing command /alert with argument :%s", argument)

	threshold, err := ParsePositiveDecimal(strings.TrimPrefix(strings.TrimSpace(argument), "$"))
	if err != nil {
		return "", invalid("⚠️ Please enter a valid price. Example: /alert 2500")
	}

	c.registry.SetPriceAlert(chatID, threshold)
	return translation.Translate("🚨 Price alert set at $%s.", threshold.String()), nil
}

func (c *Commands) CommandPriceMonitor(chatID types.ChatID) string {
	c.registry.StartPriceMonitor(chatID)
	return translation.Translate("📈 Price monitoring started! I will notify you when ETH price changes significantly.")
}
