// Package chart renders the analysis PNG charts: log-log cost-vs-context
// scatter plots and top-N price bar charts.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/everstacklabs/pricescope/internal/analysis"
	"github.com/everstacklabs/pricescope/internal/dataset"
)

// Quadrant colors, matching the CSV outputs' ordering of labels.
var quadrantColors = map[string]drawing.Color{
	analysis.QuadrantLowCostHighContext:  drawing.ColorFromHex("2ecc71"),
	analysis.QuadrantHighCostHighContext: drawing.ColorFromHex("3498db"),
	analysis.QuadrantLowCostLowContext:   drawing.ColorFromHex("f39c12"),
	analysis.QuadrantHighCostLowContext:  drawing.ColorFromHex("e74c3c"),
}

// Vendor series cycle through this palette.
var vendorPalette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// VendorScatter renders a cost-vs-context scatter with one series per vendor.
// Both axes are logarithmic; context is plotted in K tokens.
func VendorScatter(path string, paid []dataset.Record) error {
	byVendor := make(map[string][]dataset.Record)
	for i := range paid {
		byVendor[paid[i].Vendor] = append(byVendor[paid[i].Vendor], paid[i])
	}

	vendors := make([]string, 0, len(byVendor))
	for v := range byVendor {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	series := make([]chart.Series, 0, len(vendors))
	for i, v := range vendors {
		series = append(series, scatterSeries(v, byVendor[v], vendorPalette[i%len(vendorPalette)]))
	}

	graph := logLogChart("Cost vs Context Window by Vendor", series)
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return renderPNG(path, &graph)
}

// QuadrantScatter renders the paid subset colored by quadrant, with the
// median dividing lines.
func QuadrantScatter(path string, paid []dataset.Record, t analysis.Thresholds) error {
	parts := analysis.Partition(paid)

	var series []chart.Series
	for _, q := range analysis.Quadrants {
		records := parts[q]
		if len(records) == 0 {
			continue
		}
		name := fmt.Sprintf("%s (%d models)", q, len(records))
		series = append(series, scatterSeries(name, records, quadrantColors[q]))
	}
	series = append(series, medianLines(paid, t)...)

	graph := logLogChart("Cost vs Context Window: Quadrants", series)
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return renderPNG(path, &graph)
}

// QuadrantDetail renders a single quadrant's records in its color.
func QuadrantDetail(path, quadrant string, records []dataset.Record) error {
	if len(records) == 0 {
		return nil
	}
	title := fmt.Sprintf("%s (%d models)", quadrant, len(records))
	series := []chart.Series{scatterSeries(quadrant, records, quadrantColors[quadrant])}
	graph := logLogChart(title, series)
	return renderPNG(path, &graph)
}

func scatterSeries(name string, records []dataset.Record, color drawing.Color) chart.ContinuousSeries {
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i := range records {
		xs[i] = float64(records[i].ContextLength) / 1000
		ys[i] = records[i].AvgPrice
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    5,
			DotColor:    color,
		},
	}
}

// medianLines returns a vertical and a horizontal dashed line at the medians,
// spanning the data extent.
func medianLines(paid []dataset.Record, t analysis.Thresholds) []chart.Series {
	if len(paid) == 0 {
		return nil
	}

	minX, maxX := float64(paid[0].ContextLength)/1000, float64(paid[0].ContextLength)/1000
	minY, maxY := paid[0].AvgPrice, paid[0].AvgPrice
	for i := range paid {
		x := float64(paid[i].ContextLength) / 1000
		y := paid[i].AvgPrice
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	lineStyle := chart.Style{
		StrokeWidth:     2,
		StrokeColor:     drawing.ColorFromHex("666666"),
		StrokeDashArray: []float64{5, 5},
	}
	return []chart.Series{
		chart.ContinuousSeries{
			Name:    "Median Context",
			XValues: []float64{t.MedianContext / 1000, t.MedianContext / 1000},
			YValues: []float64{minY, maxY},
			Style:   lineStyle,
		},
		chart.ContinuousSeries{
			Name:    "Median Cost",
			XValues: []float64{minX, maxX},
			YValues: []float64{t.MedianCost, t.MedianCost},
			Style:   lineStyle,
		},
	}
}

func logLogChart(title string, series []chart.Series) chart.Chart {
	return chart.Chart{
		Title:  title,
		Width:  1400,
		Height: 1000,
		XAxis: chart.XAxis{
			Name:  "Context Window (K tokens, log scale)",
			Range: &chart.LogarithmicRange{},
		},
		YAxis: chart.YAxis{
			Name:  "Average Cost ($/M tokens, log scale)",
			Range: &chart.LogarithmicRange{},
		},
		Series: series,
	}
}

func renderPNG(path string, graph *chart.Chart) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating charts dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
