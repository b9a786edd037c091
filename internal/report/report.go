// Package report orchestrates the analysis pipeline: fetch the model
// listing, derive metrics, write ranked and quadrant CSVs, and render charts.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/everstacklabs/pricescope/internal/analysis"
	"github.com/everstacklabs/pricescope/internal/cache"
	"github.com/everstacklabs/pricescope/internal/chart"
	"github.com/everstacklabs/pricescope/internal/config"
	"github.com/everstacklabs/pricescope/internal/dataset"
	"github.com/everstacklabs/pricescope/internal/httpclient"
	"github.com/everstacklabs/pricescope/internal/openrouter"
)

// Exit codes for the CLI.
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2 // Diff mode: snapshots differ
)

// Pipeline runs the analysis stages against one configuration.
type Pipeline struct {
	cfg    *config.Config
	client *httpclient.Client
}

// New builds a pipeline with a rate-limited, optionally caching HTTP client.
func New(cfg *config.Config) *Pipeline {
	opts := []httpclient.Option{
		httpclient.WithRateLimit(2),
	}
	if cfg.NoCache {
		opts = append(opts, httpclient.WithNoCache())
	} else {
		ttl, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			ttl = time.Hour
		}
		if fc, err := cache.New(cfg.CacheDir, ttl); err != nil {
			slog.Warn("failed to create cache, continuing without", "error", err)
		} else {
			opts = append(opts, httpclient.WithCache(fc))
		}
	}
	return &Pipeline{cfg: cfg, client: httpclient.New(opts...)}
}

// FetchResult is the outcome of a fetch stage.
type FetchResult struct {
	Records  []dataset.Record
	Manifest *dataset.Manifest
}

// Fetch pulls the tool-capable model listing, condenses it, and writes the
// raw snapshot, the dataset CSV, and the manifest. Nothing is written when
// the upstream response cannot be parsed.
func (p *Pipeline) Fetch(ctx context.Context) (*FetchResult, error) {
	or := openrouter.New(p.cfg.OpenRouter.APIKey, p.cfg.OpenRouter.BaseURL, p.client)

	models, err := or.FetchToolModels(ctx)
	if err != nil {
		return nil, err
	}

	records := openrouter.Condense(models)
	manifest := dataset.NewManifest(or.ModelsURL(), records)

	if err := writeSnapshot(p.cfg.SnapshotPath(), models); err != nil {
		return nil, err
	}
	if err := dataset.WriteFile(p.cfg.DatasetPath(), records, dataset.SourceColumns); err != nil {
		return nil, err
	}
	if err := dataset.WriteManifest(p.cfg.ManifestPath(), manifest); err != nil {
		return nil, err
	}

	slog.Info("dataset written",
		"path", p.cfg.DatasetPath(),
		"models", manifest.Stats.TotalModels,
		"paid", manifest.Stats.PaidModels,
		"free", manifest.Stats.FreeModels)

	return &FetchResult{Records: records, Manifest: manifest}, nil
}

func writeSnapshot(path string, models []openrouter.Model) error {
	data, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadDerived loads the dataset CSV and computes derived metrics.
func (p *Pipeline) LoadDerived() ([]dataset.Record, error) {
	records, err := dataset.Load(p.cfg.DatasetPath())
	if err != nil {
		return nil, err
	}
	return analysis.Derive(records), nil
}

// Ranking is one written ranking view.
type Ranking struct {
	Title   string
	Path    string
	Records []dataset.Record
}

// RankDefault writes the three cheapest-N CSVs the toolkit has always
// produced: bottom-N by input, output, and average price.
func (p *Pipeline) RankDefault() ([]Ranking, error) {
	records, err := p.LoadDerived()
	if err != nil {
		return nil, err
	}
	priced := analysis.Priced(records)
	n := p.cfg.TopN

	views := []struct {
		key   analysis.SortKey
		title string
		file  string
	}{
		{analysis.ByInputPrice, "Cheapest by Input Price", "bottom-%d-by-input-price.csv"},
		{analysis.ByOutputPrice, "Cheapest by Output Price", "bottom-%d-by-output-price.csv"},
		{analysis.ByAvgPrice, "Cheapest by Average Price", "bottom-%d-by-average-price.csv"},
	}

	var rankings []Ranking
	for _, v := range views {
		subset := analysis.RankInput(v.key, priced)
		ranked := analysis.BottomN(subset, v.key, n)
		path := filepath.Join(p.cfg.AnalysisDir, fmt.Sprintf(v.file, n))
		if err := dataset.WriteFile(path, ranked, dataset.RankColumns); err != nil {
			return nil, err
		}
		rankings = append(rankings, Ranking{Title: v.title, Path: path, Records: ranked})
	}
	return rankings, nil
}

// Rank runs a single custom ranking and writes it.
func (p *Pipeline) Rank(key analysis.SortKey, ascending bool, n int) (*Ranking, error) {
	records, err := p.LoadDerived()
	if err != nil {
		return nil, err
	}
	subset := analysis.RankInput(key, analysis.Priced(records))

	var (
		ranked []dataset.Record
		dir    string
	)
	if ascending {
		ranked = analysis.BottomN(subset, key, n)
		dir = "bottom"
	} else {
		ranked = analysis.TopN(subset, key, n)
		dir = "top"
	}

	name := fmt.Sprintf("%s-%d-by-%s-price.csv", dir, n, key)
	path := filepath.Join(p.cfg.AnalysisDir, name)
	if err := dataset.WriteFile(path, ranked, dataset.RankColumns); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s %d by %s price", strings.ToUpper(dir[:1])+dir[1:], n, key)
	return &Ranking{Title: title, Path: path, Records: ranked}, nil
}

// QuadrantResult is the outcome of the quadrant stage.
type QuadrantResult struct {
	Thresholds analysis.Thresholds
	Paid       []dataset.Record
	Summaries  []analysis.QuadrantSummary
	MasterPath string
	ChartPath  string
}

// Quadrants classifies the paid subset, writes the master and per-quadrant
// CSVs, renders the overview chart, and computes summary statistics.
func (p *Pipeline) Quadrants() (*QuadrantResult, error) {
	records, err := p.LoadDerived()
	if err != nil {
		return nil, err
	}
	paid := analysis.Paid(records)
	if len(paid) == 0 {
		return nil, fmt.Errorf("no paid models in dataset; nothing to classify")
	}

	thresholds := analysis.ClassifyAll(paid)
	slog.Info("quadrant thresholds",
		"median_context", thresholds.MedianContext,
		"median_cost", thresholds.MedianCost)

	dataDir := filepath.Join(p.cfg.AnalysisDir, "data")

	master := analysis.RankByValue(paid)
	masterPath := filepath.Join(dataDir, "all_models_with_quadrants.csv")
	if err := dataset.WriteFile(masterPath, master, dataset.QuadrantColumns); err != nil {
		return nil, err
	}

	parts := analysis.Partition(paid)
	for _, q := range analysis.Quadrants {
		quadPath := filepath.Join(dataDir, "quadrant_"+QuadrantSlug(q)+".csv")
		if err := dataset.WriteFile(quadPath, analysis.RankByValue(parts[q]), dataset.QuadrantColumns); err != nil {
			return nil, err
		}
	}

	chartPath := filepath.Join(p.cfg.ChartsDir, "quadrant_overview.png")
	if err := chart.QuadrantScatter(chartPath, paid, thresholds); err != nil {
		slog.Error("chart failed", "path", chartPath, "error", err)
		chartPath = ""
	}

	return &QuadrantResult{
		Thresholds: thresholds,
		Paid:       paid,
		Summaries:  analysis.Summarize(parts, 5),
		MasterPath: masterPath,
		ChartPath:  chartPath,
	}, nil
}

// QuadrantSlug converts a quadrant label into a filename fragment, e.g.
// "Low Cost / High Context" -> "low_cost_high_context".
func QuadrantSlug(quadrant string) string {
	s := strings.ToLower(quadrant)
	s = strings.ReplaceAll(s, " / ", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// Run executes the full pipeline: fetch, rankings, quadrants, charts.
func (p *Pipeline) Run(ctx context.Context) (*QuadrantResult, error) {
	if _, err := p.Fetch(ctx); err != nil {
		return nil, err
	}
	if _, err := p.RankDefault(); err != nil {
		return nil, err
	}
	result, err := p.Quadrants()
	if err != nil {
		return nil, err
	}
	if err := p.Charts(); err != nil {
		return nil, err
	}
	return result, nil
}
