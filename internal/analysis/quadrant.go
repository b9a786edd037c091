package analysis

import "github.com/everstacklabs/pricescope/internal/dataset"

// Quadrant labels. Every paid record lands in exactly one.
const (
	QuadrantLowCostHighContext  = "Low Cost / High Context"
	QuadrantHighCostHighContext = "High Cost / High Context"
	QuadrantLowCostLowContext   = "Low Cost / Low Context"
	QuadrantHighCostLowContext  = "High Cost / Low Context"
)

// Quadrants lists all labels in display order.
var Quadrants = []string{
	QuadrantLowCostHighContext,
	QuadrantHighCostHighContext,
	QuadrantLowCostLowContext,
	QuadrantHighCostLowContext,
}

// Thresholds holds the median dividing lines for quadrant classification,
// computed fresh from the paid subset on every run.
type Thresholds struct {
	MedianCost    float64
	MedianContext float64
}

// ComputeThresholds calculates the medians over the paid subset.
func ComputeThresholds(paid []dataset.Record) Thresholds {
	costs := make([]float64, len(paid))
	contexts := make([]float64, len(paid))
	for i := range paid {
		costs[i] = paid[i].AvgPrice
		contexts[i] = float64(paid[i].ContextLength)
	}
	return Thresholds{
		MedianCost:    Median(costs),
		MedianContext: Median(contexts),
	}
}

// Classify returns the quadrant label for a record. A record exactly at the
// median is "high" on that axis; the >= boundary on both axes must not change.
func (t Thresholds) Classify(r *dataset.Record) string {
	highCost := r.AvgPrice >= t.MedianCost
	highContext := float64(r.ContextLength) >= t.MedianContext

	switch {
	case !highCost && highContext:
		return QuadrantLowCostHighContext
	case highCost && highContext:
		return QuadrantHighCostHighContext
	case !highCost && !highContext:
		return QuadrantLowCostLowContext
	default:
		return QuadrantHighCostLowContext
	}
}

// ClassifyAll assigns a quadrant to every record in place and returns the
// thresholds used.
func ClassifyAll(paid []dataset.Record) Thresholds {
	t := ComputeThresholds(paid)
	for i := range paid {
		paid[i].Quadrant = t.Classify(&paid[i])
	}
	return t
}

// Partition groups records by quadrant label, preserving input order within
// each group.
func Partition(records []dataset.Record) map[string][]dataset.Record {
	parts := make(map[string][]dataset.Record, len(Quadrants))
	for i := range records {
		q := records[i].Quadrant
		parts[q] = append(parts[q], records[i])
	}
	return parts
}
