package dataset

import "strings"

// Record is one priced model offering in the dataset.
// Prices are USD per million tokens.
type Record struct {
	ModelName     string
	ModelID       string
	Vendor        string
	ContextLength int
	InputPrice    float64
	OutputPrice   float64
	Description   string

	// Derived fields, recomputed every run and never read back from disk
	// as authoritative.
	AvgPrice   float64
	ValueScore float64
	Quadrant   string
}

// Free reports whether the record is free on both axes. Free records are
// excluded from price rankings and quadrant views.
func (r *Record) Free() bool {
	return r.InputPrice == 0 && r.OutputPrice == 0
}

// VendorFromID derives the vendor from a model ID of the form
// "vendor/model-slug". IDs without a separator map to "Unknown".
func VendorFromID(modelID string) string {
	if idx := strings.Index(modelID, "/"); idx > 0 {
		return modelID[:idx]
	}
	return "Unknown"
}

// ShortName strips the vendor prefix from a display name like
// "OpenAI: GPT-4o", for chart labels.
func ShortName(name string) string {
	if idx := strings.Index(name, ": "); idx >= 0 {
		return name[idx+2:]
	}
	return name
}
