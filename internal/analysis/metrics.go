// Package analysis derives pricing metrics over a model dataset: average
// price, value score, median-based quadrant classification, and top/bottom-N
// price rankings. Every pass is pure and operates on in-memory slices.
package analysis

import "github.com/everstacklabs/pricescope/internal/dataset"

// Derive computes AvgPrice for every record and returns the same slice.
// ValueScore is computed only for paid records; free records keep zero so the
// division is never attempted on a zero average.
func Derive(records []dataset.Record) []dataset.Record {
	for i := range records {
		r := &records[i]
		r.AvgPrice = (r.InputPrice + r.OutputPrice) / 2
		if r.AvgPrice > 0 {
			r.ValueScore = float64(r.ContextLength) / r.AvgPrice
		}
	}
	return records
}

// Priced returns records that are not simultaneously free on both axes.
// This is the subset used for price-ranking views.
func Priced(records []dataset.Record) []dataset.Record {
	var out []dataset.Record
	for i := range records {
		if !records[i].Free() {
			out = append(out, records[i])
		}
	}
	return out
}

// Paid returns records with a strictly positive average price. Quadrant and
// value views use this stricter subset so medians and value scores are never
// computed over zero-cost rows.
func Paid(records []dataset.Record) []dataset.Record {
	var out []dataset.Record
	for i := range records {
		if records[i].AvgPrice > 0 {
			out = append(out, records[i])
		}
	}
	return out
}
