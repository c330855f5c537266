package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type memoryStore struct {
	plain   map[string]float64
	labeled map[string]map[string]map[string]float64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		plain:   make(map[string]float64),
		labeled: make(map[string]map[string]map[string]float64),
	}
}

func (s *memoryStore) SaveMetric(name string, value float64) error {
	s.plain[name] = value
	return nil
}

func (s *memoryStore) SaveMetricWithLabels(name, key, value string, v float64) error {
	if s.labeled[name] == nil {
		s.labeled[name] = make(map[string]map[string]float64)
	}
	if s.labeled[name][key] == nil {
		s.labeled[name][key] = make(map[string]float64)
	}
	s.labeled[name][key][value] = v
	return nil
}

func (s *memoryStore) GetMetric(name string) (float64, error) {
	return s.plain[name], nil
}

func (s *memoryStore) GetMetricsWithLabels(name string) (map[string]map[string]float64, error) {
	return s.labeled[name], nil
}

func TestTrackChannel(t *testing.T) {
	m := NewBotMetrics(prometheus.NewRegistry())

	m.TrackChannel(42, "PrivateChat-42")
	m.TrackChannel(42, "PrivateChat-42")
	m.TrackChannel(7, "group")

	assert.Equal(t, 3.0, GetMetricValue(m.MessagesHandled))
	assert.Equal(t, 2.0, GetMetricValue(m.ChannelsCount))
	assert.Equal(t, 2.0, GetMetricValue(m.MessagesPerChannel.WithLabelValues("42", "PrivateChat-42")))
}

func TestSaveThenLoadRestoresCounters(t *testing.T) {
	store := newMemoryStore()

	first := NewBotMetrics(prometheus.NewRegistry())
	first.CommandsProcessed.Add(5)
	first.TrackChannel(42, "PrivateChat-42")
	first.TrackChannel(42, "PrivateChat-42")
	first.Save(store)

	assert.Equal(t, 5.0, store.plain["commands_processed"])
	assert.Equal(t, 1.0, store.plain["channels_count"])

	second := NewBotMetrics(prometheus.NewRegistry())
	second.Load(store)

	assert.Equal(t, 5.0, GetMetricValue(second.CommandsProcessed))
	assert.Equal(t, 2.0, GetMetricValue(second.MessagesHandled))
	assert.Equal(t, 1.0, GetMetricValue(second.ChannelsCount))
	assert.Equal(t, 2.0, GetMetricValue(second.MessagesPerChannel.WithLabelValues("42", "PrivateChat-42")))
	assert.Equal(t, "PrivateChat-42", second.ChannelsSet[42])
}
