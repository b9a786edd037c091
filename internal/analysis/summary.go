package analysis

import (
	"fmt"
	"strings"

	"github.com/everstacklabs/pricescope/internal/dataset"
)

// QuadrantSummary holds aggregate statistics for one quadrant.
type QuadrantSummary struct {
	Quadrant   string
	Count      int
	MeanCost   float64
	MinCost    float64
	MaxCost    float64
	MeanCtx    float64
	MinCtx     int
	MaxCtx     int
	TopByValue []dataset.Record
}

// Summarize computes per-quadrant statistics with the top-k records by value
// score in each quadrant. Quadrants with no records are omitted.
func Summarize(parts map[string][]dataset.Record, topK int) []QuadrantSummary {
	var summaries []QuadrantSummary
	for _, q := range Quadrants {
		records := parts[q]
		if len(records) == 0 {
			continue
		}

		s := QuadrantSummary{
			Quadrant: q,
			Count:    len(records),
			MinCost:  records[0].AvgPrice,
			MaxCost:  records[0].AvgPrice,
			MinCtx:   records[0].ContextLength,
			MaxCtx:   records[0].ContextLength,
		}
		var costSum, ctxSum float64
		for i := range records {
			r := &records[i]
			costSum += r.AvgPrice
			ctxSum += float64(r.ContextLength)
			if r.AvgPrice < s.MinCost {
				s.MinCost = r.AvgPrice
			}
			if r.AvgPrice > s.MaxCost {
				s.MaxCost = r.AvgPrice
			}
			if r.ContextLength < s.MinCtx {
				s.MinCtx = r.ContextLength
			}
			if r.ContextLength > s.MaxCtx {
				s.MaxCtx = r.ContextLength
			}
		}
		s.MeanCost = costSum / float64(len(records))
		s.MeanCtx = ctxSum / float64(len(records))
		s.TopByValue = TopByValue(records, topK)

		summaries = append(summaries, s)
	}
	return summaries
}

// FormatSummaries renders quadrant summaries for terminal output.
func FormatSummaries(summaries []QuadrantSummary) string {
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "\n%s\n", s.Quadrant)
		fmt.Fprintf(&b, "  Count: %d\n", s.Count)
		fmt.Fprintf(&b, "  Avg Cost: $%.2f/M\n", s.MeanCost)
		fmt.Fprintf(&b, "  Cost Range: $%.2f - $%.2f\n", s.MinCost, s.MaxCost)
		fmt.Fprintf(&b, "  Avg Context: %.0fK tokens\n", s.MeanCtx/1000)
		fmt.Fprintf(&b, "  Context Range: %.0fK - %.0fK\n", float64(s.MinCtx)/1000, float64(s.MaxCtx)/1000)

		if len(s.TopByValue) > 0 {
			fmt.Fprintf(&b, "\n  Top %d by value (context/cost):\n", len(s.TopByValue))
			for i, r := range s.TopByValue {
				fmt.Fprintf(&b, "    %d. %s (%s)\n", i+1, r.ModelName, r.Vendor)
				fmt.Fprintf(&b, "       Context: %.0fK | Cost: $%.2f/M\n", float64(r.ContextLength)/1000, r.AvgPrice)
			}
		}
	}
	return b.String()
}
