package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/everstacklabs/pricescope/internal/dataset"
)

var barColor = drawing.ColorFromHex("4682b4") // steel blue

// PriceBar renders a descending bar chart of record prices. The caller is
// expected to pass an already top-N-selected, descending-sorted slice along
// with a price accessor and a human title for the axis.
func PriceBar(path, title string, records []dataset.Record, price func(*dataset.Record) float64) error {
	if len(records) == 0 {
		return nil
	}

	bars := make([]chart.Value, len(records))
	var max float64
	for i := range records {
		v := price(&records[i])
		if v > max {
			max = v
		}
		bars[i] = chart.Value{
			Value: v,
			Label: fmt.Sprintf("%s ($%.2f)", truncate(dataset.ShortName(records[i].ModelName), 24), v),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    1400,
		Height:   800,
		BarWidth: 80,
		YAxis: chart.YAxis{
			Name:  "Price per 1M Tokens ($)",
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}

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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
