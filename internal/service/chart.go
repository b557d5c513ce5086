package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartMetric selects which valuation a bar chart plots.
type ChartMetric int

const (
	ChartUSD ChartMetric = iota
	ChartLocal
)

const maxBarLabel = 12

// categoryOrder fixes one palette slot per category so colours are stable
// between charts and batches.
var categoryOrder = []string{
	"Light & Sweet", "Light & Sour",
	"Medium & Sweet", "Medium & Sour",
	"Heavy & Sweet", "Heavy & Sour",
}

var (
	paletteUSD   = []string{"66c2a5", "fc8d62", "8da0cb", "e78ac3", "a6d854", "ffd92f"}
	paletteLocal = []string{"8dd3c7", "ffffb3", "bebada", "fb8072", "80b1d3", "fdb462"}
)

// CategoryColor returns the hex colour used for a category in the given chart.
func CategoryColor(category string, metric ChartMetric) string {
	palette := paletteUSD
	if metric == ChartLocal {
		palette = paletteLocal
	}
	for i, c := range categoryOrder {
		if c == category {
			return palette[i]
		}
	}
	return "b3b3b3"
}

// RenderValueChart draws one bar per assessment and returns the PNG bytes.
func RenderValueChart(assessments []domain.Assessment, metric ChartMetric, currency string) ([]byte, error) {
	if len(assessments) == 0 {
		return nil, errors.New("no samples to chart")
	}

	bars := make([]chart.Value, 0, len(assessments))
	maxValue := 0.0
	for i := range assessments {
		a := &assessments[i]
		v := a.RoundedUSD().InexactFloat64()
		if metric == ChartLocal {
			v = a.WholeLocal().InexactFloat64()
		}
		if v > maxValue {
			maxValue = v
		}
		color := drawing.ColorFromHex(CategoryColor(a.Category, metric))
		bars = append(bars, chart.Value{
			Label: shortLabel(a.Name),
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	title := "Estimasi Nilai per Sampel (USD)"
	formatter := func(v interface{}) string {
		f, _ := v.(float64)
		return "$" + humanize.FormatFloat("#,###.", f)
	}
	if metric == ChartLocal {
		title = fmt.Sprintf("Estimasi Nilai per Sampel (%s)", CurrencySymbol(currency))
		formatter = func(v interface{}) string {
			f, _ := v.(float64)
			return humanize.Comma(int64(f))
		}
	}

	barWidth, spacing := barGeometry(len(bars))
	graph := chart.BarChart{
		Title:      title,
		Width:      config.ChartWidth,
		Height:     config.ChartHeight,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: formatter,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// barGeometry shrinks bars so large batches still fit the canvas.
func barGeometry(n int) (width, spacing int) {
	usable := config.ChartWidth - 140
	slot := usable / n
	width = slot * 2 / 3
	if width > 60 {
		width = 60
	}
	if width < 4 {
		width = 4
	}
	spacing = slot - width
	if spacing > 40 {
		spacing = 40
	}
	if spacing < 2 {
		spacing = 2
	}
	return width, spacing
}

func shortLabel(name string) string {
	r := []rune(name)
	if len(r) <= maxBarLabel {
		return name
	}
	return string(r[:maxBarLabel-1]) + "…"
}
