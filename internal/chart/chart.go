package chart

import (
	"bytes"
	"math"
	"os"
	"time"

	"eth-telegram-bot/internal/types"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	backgroundColor = drawing.Color{R: 55, G: 55, B: 55, A: 255}
	textColor       = drawing.Color{R: 200, G: 200, B: 200, A: 255}
	gridColor       = drawing.Color{R: 100, G: 100, B: 100, A: 128}
	lineColor       = drawing.Color{R: 0, G: 122, B: 255, A: 255}
	fillColor       = drawing.Color{R: 0, G: 122, B: 255, A: 40}
)

type Options struct {
	Title  string
	Width  int
	Height int
	// Font replaces the built-in font when set.
	Font *truetype.Font
	// ValueFormatter renders y axis labels.
	ValueFormatter func(v float64) string
}

// LoadFont parses a TrueType font file.
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read font")
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse font")
	}
	return font, nil
}

// LineRender draws points as a filled dark-theme line chart and returns it as PNG bytes.
func LineRender(points []types.PricePoint, opt Options) ([]byte, error) {
	if len(points) < 2 {
		return nil, errors.Errorf("need at least 2 points, got %d", len(points))
	}
	if opt.Width == 0 {
		opt.Width = 1200
	}
	if opt.Height == 0 {
		opt.Height = 600
	}

	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, p.Time)
		ys = append(ys, p.Price)
	}

	minValue, maxValue := paddedRange(ys)

	yAxis := chart.YAxis{
		Style: chart.Style{FontColor: textColor, FontSize: 12},
		Range: &chart.ContinuousRange{Min: minValue, Max: maxValue},
		GridMajorStyle: chart.Style{
			StrokeColor: gridColor,
			StrokeWidth: 1,
		},
	}
	if opt.ValueFormatter != nil {
		yAxis.ValueFormatter = func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return opt.ValueFormatter(f)
			}
			return ""
		}
	}

	graph := chart.Chart{
		Title:      opt.Title,
		TitleStyle: chart.Style{FontColor: textColor, FontSize: 16},
		Width:      opt.Width,
		Height:     opt.Height,
		Font:       opt.Font,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: backgroundColor},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: textColor, FontSize: 12},
			ValueFormatter: chart.TimeValueFormatterWithFormat("02-Jan"),
		},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "could not render chart")
	}
	return buf.Bytes(), nil
}

// paddedRange returns the value range widened by 10% on both sides, never empty.
func paddedRange(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	padding := (hi - lo) * 0.1
	if padding == 0 {
		padding = math.Abs(hi) * 0.01
		if padding == 0 {
			padding = 1
		}
	}
	return lo - padding, hi + padding
}
