package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, time.Minute, GetDuration("check_interval"))
	assert.Equal(t, 0.05, GetFloat64("price_move_threshold"))
	assert.Equal(t, time.Minute, GetDuration("chart_cache_ttl"))
	assert.Equal(t, 1, GetInt("etherscan_chain_id"))
	assert.Equal(t, "https://api.etherscan.io/v2/api", GetString("etherscan_url"))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CHECK_INTERVAL", "90s")
	t.Setenv("DEBUG", "true")

	assert.Equal(t, 90*time.Second, GetDuration("check_interval"))
	assert.True(t, GetBool("debug"))
}

func TestDurationWithoutUnitIsMilliseconds(t *testing.T) {
	t.Setenv("CHECK_INTERVAL", "60000")
	assert.Equal(t, time.Minute, GetDuration("check_interval"))

	t.Setenv("CHECK_INTERVAL", " 1500 ")
	assert.Equal(t, 1500*time.Millisecond, GetDuration("check_interval"))
}
