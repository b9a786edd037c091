package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Column sets for the output CSVs. Ranking views keep the original columns;
// quadrant views add the classification fields.
var (
	RankColumns = []string{
		colModelName, colVendor, colContext,
		colInputPrice, colOutputPrice, colAvgPrice,
	}
	QuadrantColumns = []string{
		colModelName, colModelID, colVendor, colContext,
		colInputPrice, colOutputPrice, colAvgPrice,
		colQuadrant, colValueScore, colDescription,
	}
	SourceColumns = []string{
		colModelName, colModelID, colVendor, colContext,
		colInputPrice, colOutputPrice, colDescription,
	}
)

// WriteFile writes records to path with the given column set, creating parent
// directories as needed.
func WriteFile(path string, records []Record, columns []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, records, columns); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Write emits records as CSV. Floats use shortest round-trip formatting so a
// written dataset re-reads to identical values.
func Write(w io.Writer, records []Record, columns []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(rowFor(&records[i], columns)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func rowFor(r *Record, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case colModelName:
			row[i] = r.ModelName
		case colModelID:
			row[i] = r.ModelID
		case colVendor:
			row[i] = r.Vendor
		case colContext:
			row[i] = strconv.Itoa(r.ContextLength)
		case colInputPrice:
			row[i] = formatFloat(r.InputPrice)
		case colOutputPrice:
			row[i] = formatFloat(r.OutputPrice)
		case colAvgPrice:
			row[i] = formatFloat(r.AvgPrice)
		case colQuadrant:
			row[i] = r.Quadrant
		case colValueScore:
			row[i] = formatFloat(r.ValueScore)
		case colDescription:
			row[i] = r.Description
		}
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
