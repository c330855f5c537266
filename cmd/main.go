package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eth-telegram-bot/config"
	"eth-telegram-bot/internal/alert"
	"eth-telegram-bot/internal/commands"
	"eth-telegram-bot/internal/database"
	"eth-telegram-bot/internal/gateway"
	"eth-telegram-bot/internal/metrics"
	"eth-telegram-bot/internal/registry"
	"eth-telegram-bot/internal/telegram"
	"eth-telegram-bot/lib/translation"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	metricsSaveInterval = 5 * time.Minute
	minCheckInterval    = time.Second
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ethbot",
		Short:        "Telegram bot for Ethereum gas, price and wallet alerts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "wallet",
		Short: "Generate a new Ethereum key pair offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := commands.NewWallet()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Address:     %s\nPrivate key: %s\n", w.Address, w.PrivateKey)
			return nil
		},
	})

	return root
}

func setupLogging() {
	log.SetLevel(log.InfoLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func run(ctx context.Context) error {
	translation.Configure("locales", config.GetString("lang"))
	log.Infof("Bot language: %s", translation.GetLanguage())

	store, err := database.Open(config.GetString("db_path"))
	if err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}
	defer store.Close()

	metrics.Default.Load(store)

	gw, err := gateway.New(gateway.Config{
		EtherscanURL:    config.GetString("etherscan_url"),
		EtherscanAPIKey: config.GetString("etherscan_api_key"),
		ChainID:         config.GetInt("etherscan_chain_id"),
		EtherscanRPS:    config.GetFloat64("etherscan_rps"),
		NodeURL:         config.GetString("eth_rpc_url"),
		PaprikaAPIKey:   config.GetString("api_pro_key"),
		PaprikaRPS:      config.GetFloat64("paprika_rps"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create gateway")
	}

	reg := registry.New()
	cmds := commands.New(reg, gw, commands.Config{
		ChartCacheTTL: config.GetDuration("chart_cache_ttl"),
		ChartFontPath: config.GetString("chart_font_path"),
	})

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_bot_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
		WebhookURL:     config.GetString("webhook_url"),
	}, cmds)
	if err != nil {
		return errors.Wrap(err, "failed to create bot")
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		return errors.Wrap(err, "failed to get updates channel")
	}

	service := alert.NewService(reg, gw, bot, alert.Config{
		Interval:           checkInterval(config.GetDuration("check_interval")),
		PriceMoveThreshold: decimal.NewFromFloat(config.GetFloat64("price_move_threshold")),
		Asset:              gateway.AssetETH,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthCheckHandler)
	if config.GetString("webhook_url") != "" {
		mux.Handle(bot.WebhookPath(), bot)
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.GetInt("metrics_port")),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	service.Start(ctx)

	g.Go(func() error {
		bot.HandleUpdates(ctx, updates)
		return nil
	})

	g.Go(func() error {
		saveMetricsPeriodically(ctx, store)
		return nil
	})

	g.Go(func() error {
		log.Infof("Launching metrics and health endpoint on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "metrics and health server")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		bot.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Println("Shutting down...")
	return err
}

func checkInterval(d time.Duration) time.Duration {
	if d < minCheckInterval {
		log.Warnf("check_interval %s is below %s, using %s", d, minCheckInterval, minCheckInterval)
		return minCheckInterval
	}
	return d
}

func saveMetricsPeriodically(ctx context.Context, store metrics.Store) {
	ticker := time.NewTicker(metricsSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			metrics.Default.Save(store)
			log.Println("Metrics saved.")
			return
		case <-ticker.C:
			metrics.Default.Save(store)
		}
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
