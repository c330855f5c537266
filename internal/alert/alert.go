package alert

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"eth-telegram-bot/internal/metrics"
	"eth-telegram-bot/internal/registry"
	"eth-telegram-bot/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Check kinds, also used as metric and log labels.
const (
	CheckGasAlert    = "gas_alert"
	CheckPriceAlert  = "price_alert"
	CheckPriceMove   = "price_move"
	CheckWalletWatch = "wallet_watch"
)

var (
	// ErrBusy is returned when a check is started while its previous run is still going.
	ErrBusy = errors.New("check already running")
	// ErrInternal marks a check that panicked.
	ErrInternal = errors.New("internal error")
)

// Notifier delivers a text message to a chat.
type Notifier interface {
	Notify(chatID types.ChatID, text string) error
}

// Gateway is the subset of external reads the checks need.
type Gateway interface {
	GasOracle(ctx context.Context) (types.GasOracle, error)
	SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	LatestTransaction(ctx context.Context, address string) (*types.Transaction, error)
}

type Config struct {
	Interval time.Duration
	// PriceMoveThreshold is the relative change between two polls that triggers a notification.
	PriceMoveThreshold decimal.Decimal
	// Asset is the CoinPaprika id polled by the price alert and the price-move monitor.
	Asset string
	// ExplorerTxURL is prefixed to transaction hashes in wallet notifications.
	ExplorerTxURL string
}

type check struct {
	run     func(ctx context.Context) error
	running atomic.Bool
}

// Service evaluates the registry against live data on a fixed period.
type Service struct {
	registry *registry.Registry
	gateway  Gateway
	notifier Notifier
	cfg      Config
	checks   map[string]*check
}

func NewService(reg *registry.Registry, gw Gateway, notifier Notifier, cfg Config) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.PriceMoveThreshold.IsZero() {
		cfg.PriceMoveThreshold = decimal.RequireFromString("0.05")
	}
	if cfg.Asset == "" {
		cfg.Asset = "eth-ethereum"
	}
	if cfg.ExplorerTxURL == "" {
		cfg.ExplorerTxURL = "https://etherscan.io/tx/"
	}

	s := &Service{
		registry: reg,
		gateway:  gw,
		notifier: notifier,
		cfg:      cfg,
	}
	s.checks = map[string]*check{
		CheckGasAlert:    {run: s.CheckGasAlert},
		CheckPriceAlert:  {run: s.CheckPriceAlert},
		CheckPriceMove:   {run: s.CheckPriceMove},
		CheckWalletWatch: {run: s.CheckWatchedWallets},
	}
	return s
}

// Start schedules one loop per check kind. The loops stop when ctx is done.
func (s *Service) Start(ctx context.Context) {
	for name := range s.checks {
		go s.loop(ctx, name)
	}
	log.Infof("🚀 Alert service started, checking every %s.", s.cfg.Interval)
}

func (s *Service) loop(ctx context.Context, name string) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Run(ctx, name); err != nil && !errors.Is(err, ErrBusy) {
				log.WithField("check", name).Errorf("❌ Check failed: %v", err)
			}
		}
	}
}

// Run executes one check by name. Overlapping runs of the same check are refused with ErrBusy
// and a panic inside the check is returned as ErrInternal.
func (s *Service) Run(ctx context.Context, name string) error {
	c, ok := s.checks[name]
	if !ok {
		return errors.Errorf("unknown check %q", name)
	}

	if !c.running.CompareAndSwap(false, true) {
		log.WithField("check", name).Warn("⚠️ Previous run still in progress, skipping.")
		metrics.Default.ChecksRun.WithLabelValues(name, "skipped").Inc()
		return ErrBusy
	}
	defer c.running.Store(false)

	err := safely(func() error { return c.run(ctx) })

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.Default.ChecksRun.WithLabelValues(name, result).Inc()
	return err
}

func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 Panic recovered: %v\n%s", r, debug.Stack())
			err = errors.Wrap(ErrInternal, fmt.Sprintf("panic: %v", r))
		}
	}()
	return fn()
}

func (s *Service) notify(kind string, chatID types.ChatID, text string) {
	logger := log.WithFields(log.Fields{"kind": kind, "chat_id": chatID})

	if err := s.notifier.Notify(chatID, text); err != nil {
		logger.Errorf("❌ Failed to send notification: %v", err)
		metrics.Default.NotificationsSent.WithLabelValues(kind, "error").Inc()
		return
	}
	logger.Info("✅ Notification sent.")
	metrics.Default.NotificationsSent.WithLabelValues(kind, "ok").Inc()
}
