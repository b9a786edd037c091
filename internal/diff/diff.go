// Package diff compares two dataset snapshots and reports model additions,
// removals, and price or context changes.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/everstacklabs/pricescope/internal/dataset"
)

// Compute diffs current against previous. Records are keyed by model ID,
// falling back to model name when the ID column is absent.
func Compute(previous, current []dataset.Record) *ChangeSet {
	cs := &ChangeSet{}

	prevByKey := make(map[string]*dataset.Record, len(previous))
	for i := range previous {
		prevByKey[key(&previous[i])] = &previous[i]
	}

	currentKeys := make(map[string]bool, len(current))
	for i := range current {
		r := &current[i]
		k := key(r)
		currentKeys[k] = true

		prev, ok := prevByKey[k]
		if !ok {
			cs.New = append(cs.New, *r)
			continue
		}

		changes := fieldChanges(prev, r)
		if len(changes) > 0 {
			cs.Updated = append(cs.Updated, ModelUpdate{
				ModelID: r.ModelID,
				Name:    r.ModelName,
				Changes: changes,
			})
		} else {
			cs.Unchanged++
		}
	}

	for i := range previous {
		if !currentKeys[key(&previous[i])] {
			cs.Removed = append(cs.Removed, previous[i])
		}
	}
	sort.Slice(cs.Removed, func(i, j int) bool {
		return key(&cs.Removed[i]) < key(&cs.Removed[j])
	})

	return cs
}

func key(r *dataset.Record) string {
	if r.ModelID != "" {
		return r.ModelID
	}
	return r.ModelName
}

func fieldChanges(prev, curr *dataset.Record) []FieldChange {
	var changes []FieldChange
	if prev.InputPrice != curr.InputPrice {
		changes = append(changes, FieldChange{"input_price_usd_per_m", prev.InputPrice, curr.InputPrice})
	}
	if prev.OutputPrice != curr.OutputPrice {
		changes = append(changes, FieldChange{"output_price_usd_per_m", prev.OutputPrice, curr.OutputPrice})
	}
	if prev.ContextLength != curr.ContextLength {
		changes = append(changes, FieldChange{"context_length", prev.ContextLength, curr.ContextLength})
	}
	return changes
}

// RenderSummary formats a changeset for terminal output.
func RenderSummary(cs *ChangeSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New: %d, Removed: %d, Updated: %d, Unchanged: %d\n",
		len(cs.New), len(cs.Removed), len(cs.Updated), cs.Unchanged)

	if len(cs.New) > 0 {
		b.WriteString("\nNew models:\n")
		for _, r := range cs.New {
			fmt.Fprintf(&b, "  + %s (%s) $%.4f/$%.4f per M, %d ctx\n",
				r.ModelName, r.Vendor, r.InputPrice, r.OutputPrice, r.ContextLength)
		}
	}
	if len(cs.Removed) > 0 {
		b.WriteString("\nRemoved models:\n")
		for _, r := range cs.Removed {
			fmt.Fprintf(&b, "  - %s (%s)\n", r.ModelName, r.Vendor)
		}
	}
	if len(cs.Updated) > 0 {
		b.WriteString("\nUpdated models:\n")
		for _, u := range cs.Updated {
			fmt.Fprintf(&b, "  ~ %s\n", u.Name)
			for _, c := range u.Changes {
				fmt.Fprintf(&b, "      %s: %v -> %v\n", c.Field, c.OldValue, c.NewValue)
			}
		}
	}

	return b.String()
}
