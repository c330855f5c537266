package config

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		// .env is optional, real environment variables win
		_ = godotenv.Load()

		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("webhook_url", "WEBHOOK_URL")
		viper.BindEnv("etherscan_api_key", "ETHERSCAN_API_KEY")
		viper.BindEnv("etherscan_url", "ETHERSCAN_URL")
		viper.BindEnv("etherscan_chain_id", "ETHERSCAN_CHAIN_ID")
		viper.BindEnv("etherscan_rps", "ETHERSCAN_RPS")
		viper.BindEnv("eth_rpc_url", "ETH_RPC_URL")
		viper.BindEnv("api_pro_key", "API_PRO_KEY")
		viper.BindEnv("paprika_rps", "PAPRIKA_RPS")
		viper.BindEnv("check_interval", "CHECK_INTERVAL")
		viper.BindEnv("price_move_threshold", "PRICE_MOVE_THRESHOLD")
		viper.BindEnv("chart_cache_ttl", "CHART_CACHE_TTL")
		viper.BindEnv("chart_font_path", "CHART_FONT_PATH")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("etherscan_url", "https://api.etherscan.io/v2/api")
		viper.SetDefault("etherscan_chain_id", 1)
		viper.SetDefault("etherscan_rps", 4)
		viper.SetDefault("paprika_rps", 2)
		viper.SetDefault("check_interval", time.Minute)
		viper.SetDefault("price_move_threshold", 0.05)
		viper.SetDefault("chart_cache_ttl", time.Minute)
		viper.SetDefault("db_path", "data/bot.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetFloat64(key string) float64 {
	InitConfig()
	return viper.GetFloat64(key)
}

// GetDuration accepts Go duration strings ("90s", "2m") from the environment.
// A bare integer is taken as milliseconds.
func GetDuration(key string) time.Duration {
	InitConfig()
	if ms, err := strconv.ParseInt(strings.TrimSpace(viper.GetString(key)), 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return viper.GetDuration(key)
}
