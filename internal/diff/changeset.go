package diff

import "github.com/everstacklabs/pricescope/internal/dataset"

// ChangeSet is the complete diff between two dataset snapshots.
type ChangeSet struct {
	New       []dataset.Record
	Removed   []dataset.Record
	Updated   []ModelUpdate
	Unchanged int
}

// FieldChange records one changed field on a model.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// ModelUpdate is a model present in both snapshots with field changes.
type ModelUpdate struct {
	ModelID string
	Name    string
	Changes []FieldChange
}

// HasChanges reports whether anything differs between the snapshots.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.New) > 0 || len(cs.Removed) > 0 || len(cs.Updated) > 0
}
