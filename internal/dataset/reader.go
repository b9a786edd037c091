package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
)

// ErrMissingDataset is returned when the source CSV does not exist yet.
var ErrMissingDataset = errors.New("dataset file not found; run `pricescope fetch` first")

// Columns recognized in the source CSV. model_id and description are optional.
const (
	colModelName   = "model_name"
	colModelID     = "model_id"
	colVendor      = "vendor"
	colContext     = "context_length"
	colInputPrice  = "input_price_usd_per_m"
	colOutputPrice = "output_price_usd_per_m"
	colDescription = "description"
	colAvgPrice    = "avg_price_usd_per_m"
	colQuadrant    = "quadrant"
	colValueScore  = "value_score"
)

// Load reads a dataset CSV from disk. Rows with malformed numeric fields are
// skipped with a log line rather than failing the whole load.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingDataset)
	} else if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	records, skipped, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed rows", "path", path, "skipped", skipped)
	}
	return records, nil
}

// Read parses dataset CSV content. It returns the parsed records and the
// number of rows skipped due to malformed or missing numeric fields.
func Read(r io.Reader) ([]Record, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, errors.New("empty dataset")
	} else if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	for _, required := range []string{colModelName, colVendor, colContext, colInputPrice, colOutputPrice} {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var (
		records []Record
		skipped int
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, fmt.Errorf("reading row %d: %w", line, err)
		}

		rec, err := parseRow(row, idx)
		if err != nil {
			slog.Warn("skipping row", "line", line, "error", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(row []string, idx map[string]int) (Record, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	ctx, err := strconv.Atoi(field(colContext))
	if err != nil {
		return Record{}, fmt.Errorf("context_length: %w", err)
	}
	input, err := strconv.ParseFloat(field(colInputPrice), 64)
	if err != nil {
		return Record{}, fmt.Errorf("input_price_usd_per_m: %w", err)
	}
	output, err := strconv.ParseFloat(field(colOutputPrice), 64)
	if err != nil {
		return Record{}, fmt.Errorf("output_price_usd_per_m: %w", err)
	}

	rec := Record{
		ModelName:     field(colModelName),
		ModelID:       field(colModelID),
		Vendor:        field(colVendor),
		ContextLength: ctx,
		InputPrice:    input,
		OutputPrice:   output,
		Description:   field(colDescription),
	}
	if rec.Vendor == "" {
		rec.Vendor = VendorFromID(rec.ModelID)
	}
	return rec, nil
}
