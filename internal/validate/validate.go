// Package validate sanity-checks dataset rows before they feed rankings and
// charts.
package validate

import (
	"fmt"
	"strings"

	"github.com/everstacklabs/pricescope/internal/dataset"
)

// Severity classifies validation issues.
type Severity int

const (
	SeverityError   Severity = iota // Blocks downstream analysis
	SeverityWarning                 // Reported but doesn't block
)

// Issue is a single validation problem.
type Issue struct {
	Severity Severity
	Model    string
	Field    string
	Message  string
}

func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s — %s", sev, i.Model, i.Field, i.Message)
}

// Result collects all issues found in a dataset.
type Result struct {
	Issues []Issue
}

// HasErrors reports whether any blocking errors were found.
func (r *Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (r *Result) Errors() []Issue {
	var errs []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (r *Result) Warnings() []Issue {
	var warns []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			warns = append(warns, i)
		}
	}
	return warns
}

// Prices above this are assumed to be data errors, not real offerings.
const maxPlausiblePrice = 10_000.0

// ValidateRecord checks a single dataset row.
func ValidateRecord(r *dataset.Record) *Result {
	res := &Result{}
	name := r.ModelName
	if name == "" {
		name = r.ModelID
	}

	if r.ModelName == "" {
		res.Issues = append(res.Issues, Issue{SeverityError, name, "model_name", "required field is empty"})
	}
	if r.ContextLength <= 0 {
		res.Issues = append(res.Issues, Issue{SeverityError, name, "context_length",
			fmt.Sprintf("must be a positive token count, got %d", r.ContextLength)})
	}
	if r.InputPrice < 0 {
		res.Issues = append(res.Issues, Issue{SeverityError, name, "input_price_usd_per_m",
			fmt.Sprintf("negative price %.4f", r.InputPrice)})
	}
	if r.OutputPrice < 0 {
		res.Issues = append(res.Issues, Issue{SeverityError, name, "output_price_usd_per_m",
			fmt.Sprintf("negative price %.4f", r.OutputPrice)})
	}

	if r.InputPrice > maxPlausiblePrice {
		res.Issues = append(res.Issues, Issue{SeverityWarning, name, "input_price_usd_per_m",
			fmt.Sprintf("value %.2f outside expected range [0, %.0f]", r.InputPrice, maxPlausiblePrice)})
	}
	if r.OutputPrice > maxPlausiblePrice {
		res.Issues = append(res.Issues, Issue{SeverityWarning, name, "output_price_usd_per_m",
			fmt.Sprintf("value %.2f outside expected range [0, %.0f]", r.OutputPrice, maxPlausiblePrice)})
	}
	if r.Vendor == "" || r.Vendor == "Unknown" {
		res.Issues = append(res.Issues, Issue{SeverityWarning, name, "vendor", "vendor could not be determined"})
	}
	if r.Free() {
		res.Issues = append(res.Issues, Issue{SeverityWarning, name, "pricing",
			"free on both axes; excluded from rankings and quadrants"})
	}

	return res
}

// ValidateAll validates every record in a dataset.
func ValidateAll(records []dataset.Record) *Result {
	res := &Result{}
	for i := range records {
		r := ValidateRecord(&records[i])
		res.Issues = append(res.Issues, r.Issues...)
	}
	return res
}

// FormatResult renders validation output for display.
func FormatResult(r *Result) string {
	if len(r.Issues) == 0 {
		return "Validation passed: no issues found."
	}

	var b strings.Builder
	errors := r.Errors()
	warnings := r.Warnings()

	if len(errors) > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", len(errors))
		for _, e := range errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}
	return b.String()
}
