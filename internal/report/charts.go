package report

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/everstacklabs/pricescope/internal/analysis"
	"github.com/everstacklabs/pricescope/internal/chart"
	"github.com/everstacklabs/pricescope/internal/dataset"
)

// Charts renders the scatter set and a most-expensive bar chart for every CSV
// under the analysis directory. A failure on one file is logged and the batch
// continues.
func (p *Pipeline) Charts() error {
	records, err := p.LoadDerived()
	if err != nil {
		return err
	}
	paid := analysis.Paid(records)
	if len(paid) == 0 {
		return fmt.Errorf("no paid models in dataset; nothing to chart")
	}
	thresholds := analysis.ClassifyAll(paid)

	scatters := []struct {
		path   string
		render func(string) error
	}{
		{"cost_vs_context_full.png", func(path string) error {
			return chart.VendorScatter(path, paid)
		}},
		{"cost_vs_context_quadrants.png", func(path string) error {
			return chart.QuadrantScatter(path, paid, thresholds)
		}},
	}
	for _, s := range scatters {
		path := filepath.Join(p.cfg.ChartsDir, s.path)
		if err := s.render(path); err != nil {
			slog.Error("chart failed", "path", path, "error", err)
			continue
		}
		slog.Info("chart written", "path", path)
	}

	parts := analysis.Partition(paid)
	for _, q := range analysis.Quadrants {
		path := filepath.Join(p.cfg.ChartsDir, "quadrant_"+QuadrantSlug(q)+".png")
		if err := chart.QuadrantDetail(path, q, parts[q]); err != nil {
			slog.Error("chart failed", "path", path, "error", err)
			continue
		}
		slog.Info("chart written", "path", path)
	}

	return p.barChartsForCSVs()
}

// barChartsForCSVs walks the analysis directory and renders a top-N
// most-expensive bar chart beside each CSV, with the price column picked
// from the header.
func (p *Pipeline) barChartsForCSVs() error {
	var csvPaths []string
	err := filepath.WalkDir(p.cfg.AnalysisDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".csv") {
			csvPaths = append(csvPaths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", p.cfg.AnalysisDir, err)
	}

	for _, csvPath := range csvPaths {
		if err := p.barChartForCSV(csvPath); err != nil {
			slog.Error("bar chart failed", "csv", csvPath, "error", err)
		}
	}
	return nil
}

func (p *Pipeline) barChartForCSV(csvPath string) error {
	key, keyTitle, err := detectPriceColumn(csvPath)
	if err != nil {
		return err
	}

	records, err := dataset.Load(csvPath)
	if err != nil {
		return err
	}
	records = analysis.Derive(records)
	subset := analysis.RankInput(key, analysis.Priced(records))
	top := analysis.TopN(subset, key, p.cfg.TopN)
	if len(top) == 0 {
		slog.Info("skipping empty csv", "path", csvPath)
		return nil
	}

	stem := strings.TrimSuffix(filepath.Base(csvPath), ".csv")
	outPath := filepath.Join(filepath.Dir(csvPath), stem+".png")
	title := fmt.Sprintf("Top %d Most Expensive Models - %s (%s)", len(top), keyTitle, stem)

	price := func(r *dataset.Record) float64 {
		switch key {
		case analysis.ByInputPrice:
			return r.InputPrice
		case analysis.ByOutputPrice:
			return r.OutputPrice
		default:
			return r.AvgPrice
		}
	}
	if err := chart.PriceBar(outPath, title, top, price); err != nil {
		return err
	}
	slog.Info("chart written", "path", outPath)
	return nil
}

// detectPriceColumn reads only the header and picks the ranking column:
// average price when present, then input, then output.
func detectPriceColumn(path string) (analysis.SortKey, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return "", "", fmt.Errorf("reading header of %s: %w", path, err)
	}

	cols := make(map[string]bool, len(header))
	for _, c := range header {
		cols[c] = true
	}
	switch {
	case cols["avg_price_usd_per_m"]:
		return analysis.ByAvgPrice, "Average Price", nil
	case cols["input_price_usd_per_m"]:
		return analysis.ByInputPrice, "Input Price", nil
	case cols["output_price_usd_per_m"]:
		return analysis.ByOutputPrice, "Output Price", nil
	}
	return "", "", fmt.Errorf("%s: no price column found", path)
}
