package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/pricescope/internal/analysis"
	"github.com/everstacklabs/pricescope/internal/config"
	"github.com/everstacklabs/pricescope/internal/dataset"
	"github.com/everstacklabs/pricescope/internal/diff"
	"github.com/everstacklabs/pricescope/internal/publish"
	"github.com/everstacklabs/pricescope/internal/report"
	"github.com/everstacklabs/pricescope/internal/validate"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "pricescope",
		Short: "Model pricing analyzer",
		Long:  "Fetches the OpenRouter model listing and produces ranked and quadrant-classified pricing CSVs plus charts.",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		fetchCmd(),
		rankCmd(),
		quadrantsCmd(),
		chartsCmd(),
		diffCmd(),
		validateCmd(),
		reportCmd(),
		publishCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(report.ExitError)
	}
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch tool-capable models from OpenRouter and write the dataset CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			p := report.New(cfg)
			result, err := p.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Fetched %d tool-capable models (%d paid, %d free)\n",
				result.Manifest.Stats.TotalModels,
				result.Manifest.Stats.PaidModels,
				result.Manifest.Stats.FreeModels)
			fmt.Printf("Dataset: %s\n", cfg.DatasetPath())
			return nil
		},
	}
}

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Write cheapest/most-expensive model rankings",
		Long:  "Without flags, writes the bottom-N by input, output, and average price. With --by, runs a single ranking.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			by, _ := cmd.Flags().GetString("by")
			order, _ := cmd.Flags().GetString("order")
			n, _ := cmd.Flags().GetInt("n")
			if n <= 0 {
				n = cfg.TopN
			}

			p := report.New(cfg)

			if by == "" {
				rankings, err := p.RankDefault()
				if err != nil {
					return err
				}
				for _, r := range rankings {
					printRanking(&r)
				}
				return nil
			}

			key, err := analysis.ParseSortKey(by)
			if err != nil {
				return err
			}
			if order != "asc" && order != "desc" {
				return fmt.Errorf("unknown order %q (want asc or desc)", order)
			}

			ranking, err := p.Rank(key, order == "asc", n)
			if err != nil {
				return err
			}
			printRanking(ranking)
			return nil
		},
	}

	cmd.Flags().String("by", "", "sort key: input, output, or avg")
	cmd.Flags().String("order", "asc", "sort order: asc (cheapest) or desc (most expensive)")
	cmd.Flags().Int("n", 0, "number of models (default: top_n from config)")

	return cmd
}

func printRanking(r *report.Ranking) {
	fmt.Printf("\n=== %s ===\n", r.Title)
	for i, rec := range r.Records {
		fmt.Printf("%d. %s (%s) - $%.4f/M avg (In: $%.4f, Out: $%.4f)\n",
			i+1, rec.ModelName, rec.Vendor, rec.AvgPrice, rec.InputPrice, rec.OutputPrice)
	}
	fmt.Printf("Created %s\n", r.Path)
}

func quadrantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quadrants",
		Short: "Classify paid models into cost/context quadrants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			p := report.New(cfg)
			result, err := p.Quadrants()
			if err != nil {
				return err
			}

			fmt.Printf("Median context: %.0f tokens (%.0fK)\n",
				result.Thresholds.MedianContext, result.Thresholds.MedianContext/1000)
			fmt.Printf("Median cost: $%.2f/M tokens\n", result.Thresholds.MedianCost)
			fmt.Print(analysis.FormatSummaries(result.Summaries))
			fmt.Printf("\nMaster CSV: %s\n", result.MasterPath)
			if result.ChartPath != "" {
				fmt.Printf("Overview chart: %s\n", result.ChartPath)
			}
			return nil
		},
	}
}

func chartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Render scatter and bar charts for the analysis outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return report.New(cfg).Charts()
		},
	}
}

func diffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the current dataset against a previous snapshot CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			previousPath, _ := cmd.Flags().GetString("previous")
			if previousPath == "" {
				return fmt.Errorf("--previous is required")
			}

			previous, err := dataset.Load(previousPath)
			if err != nil {
				return err
			}
			current, err := dataset.Load(cfg.DatasetPath())
			if err != nil {
				return err
			}

			cs := diff.Compute(previous, current)
			fmt.Print(diff.RenderSummary(cs))

			if cs.HasChanges() {
				os.Exit(report.ExitChanges)
			}
			return nil
		},
	}

	cmd.Flags().String("previous", "", "Path to the previous snapshot CSV")
	_ = cmd.MarkFlagRequired("previous")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Sanity-check a dataset CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("dataset")
			if path == "" {
				path = cfg.DatasetPath()
			}

			records, err := dataset.Load(path)
			if err != nil {
				return err
			}

			result := validate.ValidateAll(records)
			fmt.Println(validate.FormatResult(result))

			if result.HasErrors() {
				os.Exit(report.ExitError)
			}
			return nil
		},
	}

	cmd.Flags().String("dataset", "", "Path to dataset CSV (default: from config)")

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Full pipeline: fetch, rank, quadrants, charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			p := report.New(cfg)
			result, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Print(analysis.FormatSummaries(result.Summaries))
			fmt.Printf("\nComplete. Check %s for CSVs and %s for charts.\n",
				cfg.AnalysisDir, cfg.ChartsDir)

			doPublish, _ := cmd.Flags().GetBool("publish")
			if !doPublish {
				return nil
			}
			return runPublish(cmd, cfg, false)
		},
	}

	cmd.Flags().Bool("publish", false, "Commit and push the analysis outputs after the run")

	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Commit the analysis outputs and optionally open a PR",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			openPR, _ := cmd.Flags().GetBool("pr")
			return runPublish(cmd, cfg, openPR)
		},
	}

	cmd.Flags().Bool("pr", false, "Open a GitHub pull request after pushing")

	return cmd
}

func runPublish(cmd *cobra.Command, cfg *config.Config, openPR bool) error {
	manifest, err := dataset.LoadManifest(cfg.ManifestPath())
	if err != nil {
		slog.Warn("no manifest for publish", "error", err)
		manifest = nil
	}

	prNumber, err := publish.Publish(cmd.Context(), &cfg.GitHub, publish.Options{
		Paths:    []string{cfg.DataDir, cfg.AnalysisDir},
		OpenPR:   openPR,
		Manifest: manifest,
	})
	if err != nil {
		return err
	}
	if prNumber > 0 {
		fmt.Printf("Opened PR #%d\n", prNumber)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	configureLogging(cfg.LogLevel)
	return cfg, nil
}

func configureLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
