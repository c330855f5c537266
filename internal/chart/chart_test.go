package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eth-telegram-bot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []types.PricePoint {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []types.PricePoint{
		{Time: start, Price: 3500},
		{Time: start.Add(24 * time.Hour), Price: 3620.5},
		{Time: start.Add(48 * time.Hour), Price: 3580},
	}
}

func TestLineRenderDefaultSize(t *testing.T) {
	calls := 0
	data, err := LineRender(samplePoints(), Options{
		Title: "Ethereum",
		ValueFormatter: func(v float64) string {
			calls++
			return "$"
		},
	})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Positive(t, calls, "y axis labels go through the formatter")
}

func TestLineRenderCustomSize(t *testing.T) {
	data, err := LineRender(samplePoints(), Options{Width: 400, Height: 300})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestLineRenderNeedsTwoPoints(t *testing.T) {
	_, err := LineRender(nil, Options{})
	assert.Error(t, err)

	_, err = LineRender(samplePoints()[:1], Options{})
	assert.Error(t, err)
}

func TestLineRenderFlatSeries(t *testing.T) {
	points := samplePoints()
	for i := range points {
		points[i].Price = 1
	}
	_, err := LineRender(points, Options{})
	assert.NoError(t, err)
}

func TestPaddedRange(t *testing.T) {
	lo, hi := paddedRange([]float64{100, 200, 150})
	assert.InDelta(t, 90, lo, 1e-9)
	assert.InDelta(t, 210, hi, 1e-9)

	lo, hi = paddedRange([]float64{2500, 2500})
	assert.InDelta(t, 2475, lo, 1e-9)
	assert.InDelta(t, 2525, hi, 1e-9)

	lo, hi = paddedRange([]float64{-4, -4})
	assert.Less(t, lo, hi)

	lo, hi = paddedRange([]float64{0, 0})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestLoadFont(t *testing.T) {
	_, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o600))
	_, err = LoadFont(path)
	assert.Error(t, err)
}
