package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMetricMissingDefaultsToZero(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMetric("commands_processed")
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestSaveMetricOverwrites(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveMetric("commands_processed", 3))
	require.NoError(t, s.SaveMetric("commands_processed", 7))

	v, err := s.GetMetric("commands_processed")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestLabeledMetricsAreSeparateFromPlain(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveMetric("messages_per_channel", 1))
	require.NoError(t, s.SaveMetricWithLabels("messages_per_channel", "42", "PrivateChat-42", 5))
	require.NoError(t, s.SaveMetricWithLabels("messages_per_channel", "42", "renamed", 2))
	require.NoError(t, s.SaveMetricWithLabels("messages_per_channel", "7", "group", 9))

	got, err := s.GetMetricsWithLabels("messages_per_channel")
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]float64{
		"42": {"PrivateChat-42": 5, "renamed": 2},
		"7":  {"group": 9},
	}, got)
}
