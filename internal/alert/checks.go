package alert

import (
	"context"

	"eth-telegram-bot/internal/metrics"
	"eth-telegram-bot/internal/types"
	"eth-telegram-bot/lib/helpers"
	"eth-telegram-bot/lib/translation"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CheckGasAlert fires the gas alert once the standard gas price is at or below its threshold.
func (s *Service) CheckGasAlert(ctx context.Context) error {
	a, ok := s.registry.GasAlert()
	if !ok {
		return nil
	}

	gas, err := s.gateway.GasOracle(ctx)
	if err != nil {
		return errors.Wrap(err, "gas alert")
	}

	log.Debugf("⛽ Checking gas price... Current: %s Gwei, Alert Threshold: %s Gwei", gas.Standard, a.Threshold)
	if gas.Standard.GreaterThan(a.Threshold) {
		return nil
	}

	// claim before notifying so an alert replaced meanwhile is neither cleared nor reported twice
	if !s.registry.ClearGasAlert(a.Seq) {
		log.WithField("check", CheckGasAlert).Debug("alert replaced during check, leaving it for the next run")
		return nil
	}

	s.notify(CheckGasAlert, a.ChatID, translation.Translate(
		"🚨 Gas Price Alert! Current: %s Gwei (threshold %s)",
		gas.Standard.String(), a.Threshold.String(),
	))
	return nil
}

// CheckPriceAlert fires the price alert once the spot price is at or above its threshold.
func (s *Service) CheckPriceAlert(ctx context.Context) error {
	a, ok := s.registry.PriceAlert()
	if !ok {
		return nil
	}

	price, err := s.gateway.SpotPrice(ctx, s.cfg.Asset)
	if err != nil {
		return errors.Wrap(err, "price alert")
	}

	log.Debugf("🔍 Checking price alert | Target: %s | Current: %s", a.Threshold, price)
	if price.LessThan(a.Threshold) {
		return nil
	}

	if !s.registry.ClearPriceAlert(a.Seq) {
		log.WithField("check", CheckPriceAlert).Debug("alert replaced during check, leaving it for the next run")
		return nil
	}

	s.notify(CheckPriceAlert, a.ChatID, translation.Translate(
		"🚨 Price Alert! ETH hit $%s (current $%s)",
		helpers.FormatUSD(a.Threshold), helpers.FormatUSD(price),
	))
	return nil
}

// CheckPriceMove notifies the monitoring chat whenever the price moved by at least the
// configured fraction since the previous poll. The previous price is replaced on every poll.
func (s *Service) CheckPriceMove(ctx context.Context) error {
	chatID, ok := s.registry.PriceMonitor()
	if !ok {
		return nil
	}

	price, err := s.gateway.SpotPrice(ctx, s.cfg.Asset)
	if err != nil {
		return errors.Wrap(err, "price monitor")
	}

	last, seen := s.registry.SwapLastPrice(price)
	if !seen || last.IsZero() {
		return nil
	}

	change := price.Sub(last).Abs().Div(last)
	log.Debugf("📈 Price monitor | Last: %s | Current: %s | Change: %s", last, price, change)
	if change.LessThan(s.cfg.PriceMoveThreshold) {
		return nil
	}

	s.notify(CheckPriceMove, chatID, translation.Translate(
		"🚀 ETH Price Alert! Price moved %s%% since the last check.\n💰 Current Price: $%s",
		change.Shift(2).StringFixed(2), helpers.FormatUSD(price),
	))
	return nil
}

// CheckWatchedWallets reports the newest transaction of every watched address once per hash.
// A failing address is logged and skipped; the others are still checked.
func (s *Service) CheckWatchedWallets(ctx context.Context) error {
	watches := s.registry.Watches()
	metrics.Default.WatchedAddresses.Set(float64(len(watches)))

	var failed int
	for _, w := range watches {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := safely(func() error { return s.checkWallet(ctx, w) }); err != nil {
			failed++
			log.WithField("address", w.Address).Errorf("🚨 Error fetching transactions: %v", err)
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d watched addresses failed", failed, len(watches))
	}
	return nil
}

func (s *Service) checkWallet(ctx context.Context, w types.Watch) error {
	tx, err := s.gateway.LatestTransaction(ctx, w.Address)
	if err != nil {
		return err
	}
	if tx == nil || tx.Hash == "" {
		return nil
	}

	if !s.registry.MarkSeen(w.Address, tx.Hash) {
		return nil
	}

	log.WithField("address", w.Address).Infof("🔔 New transaction: %s", tx.Hash)
	text := translation.Translate(
		"🔔 New transaction detected for %s\n\n📤 From: %s\n📥 To: %s\n💰 Value: %s ETH\n🔗 %s%s",
		w.Address, tx.From, tx.To, tx.Value.String(), s.cfg.ExplorerTxURL, tx.Hash,
	)
	for _, chatID := range w.ChatIDs {
		s.notify(CheckWalletWatch, chatID, text)
	}
	return nil
}
