package analysis

import (
	"fmt"
	"sort"

	"github.com/everstacklabs/pricescope/internal/dataset"
)

// SortKey selects which price column a ranking sorts on.
type SortKey string

const (
	ByInputPrice  SortKey = "input"
	ByOutputPrice SortKey = "output"
	ByAvgPrice    SortKey = "avg"
)

// ParseSortKey validates a --by flag value.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case ByInputPrice, ByOutputPrice, ByAvgPrice:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q (want input, output, or avg)", s)
}

func (k SortKey) value(r *dataset.Record) float64 {
	switch k {
	case ByInputPrice:
		return r.InputPrice
	case ByOutputPrice:
		return r.OutputPrice
	default:
		return r.AvgPrice
	}
}

// RankInput returns the subset a ranking on key operates over. Rankings on a
// single price axis additionally drop rows that are zero on that axis, since
// a zero price has no meaningful rank.
func RankInput(key SortKey, priced []dataset.Record) []dataset.Record {
	if key == ByAvgPrice {
		return priced
	}
	var out []dataset.Record
	for i := range priced {
		if key.value(&priced[i]) > 0 {
			out = append(out, priced[i])
		}
	}
	return out
}

// BottomN returns the n records with the smallest key values. Ties keep their
// original relative order. If fewer than n records exist, all are returned.
func BottomN(records []dataset.Record, key SortKey, n int) []dataset.Record {
	return rank(records, key, n, true)
}

// TopN returns the n records with the largest key values, stable for ties.
func TopN(records []dataset.Record, key SortKey, n int) []dataset.Record {
	return rank(records, key, n, false)
}

func rank(records []dataset.Record, key SortKey, n int, ascending bool) []dataset.Record {
	sorted := make([]dataset.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return key.value(&sorted[i]) < key.value(&sorted[j])
		}
		return key.value(&sorted[i]) > key.value(&sorted[j])
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// RankByValue sorts records descending by value score, stable for ties.
func RankByValue(records []dataset.Record) []dataset.Record {
	sorted := make([]dataset.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ValueScore > sorted[j].ValueScore
	})
	return sorted
}

// TopByValue returns the k best-value records.
func TopByValue(records []dataset.Record, k int) []dataset.Record {
	ranked := RankByValue(records)
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
