package analysis

import (
	"testing"

	"github.com/everstacklabs/pricescope/internal/dataset"
)

func testRecords() []dataset.Record {
	return Derive([]dataset.Record{
		{ModelName: "free", ContextLength: 1000, InputPrice: 0, OutputPrice: 0},
		{ModelName: "cheap", ContextLength: 8000, InputPrice: 0.1, OutputPrice: 0.3},
		{ModelName: "mid", ContextLength: 32000, InputPrice: 1, OutputPrice: 2},
		{ModelName: "pricey", ContextLength: 128000, InputPrice: 5, OutputPrice: 15},
		{ModelName: "free-input", ContextLength: 4000, InputPrice: 0, OutputPrice: 0.5},
	})
}

func TestBottomNExcludesFreeRecords(t *testing.T) {
	priced := Priced(testRecords())
	bottom := BottomN(RankInput(ByAvgPrice, priced), ByAvgPrice, 10)

	for _, r := range bottom {
		if r.Free() {
			t.Errorf("free record %q in ranking", r.ModelName)
		}
	}
	if len(bottom) != 4 {
		t.Errorf("expected 4 priced records, got %d", len(bottom))
	}
	if bottom[0].ModelName != "cheap" {
		t.Errorf("cheapest by avg = %q, want cheap", bottom[0].ModelName)
	}
}

func TestRankInputDropsZeroAxis(t *testing.T) {
	priced := Priced(testRecords())

	byInput := RankInput(ByInputPrice, priced)
	for _, r := range byInput {
		if r.InputPrice == 0 {
			t.Errorf("zero-input record %q in input ranking", r.ModelName)
		}
	}
	if len(byInput) != 3 {
		t.Errorf("expected 3 records with input price, got %d", len(byInput))
	}

	// Average ranking keeps half-free rows.
	byAvg := RankInput(ByAvgPrice, priced)
	if len(byAvg) != 4 {
		t.Errorf("expected 4 records in avg ranking, got %d", len(byAvg))
	}
}

func TestTopNLargerThanSubset(t *testing.T) {
	priced := Priced(testRecords())
	top := TopN(priced, ByAvgPrice, 100)
	if len(top) != len(priced) {
		t.Errorf("expected full subset (%d), got %d", len(priced), len(top))
	}
}

func TestRankStableForTies(t *testing.T) {
	records := Derive([]dataset.Record{
		{ModelName: "first", ContextLength: 1000, InputPrice: 1, OutputPrice: 1},
		{ModelName: "second", ContextLength: 2000, InputPrice: 1, OutputPrice: 1},
		{ModelName: "third", ContextLength: 3000, InputPrice: 1, OutputPrice: 1},
	})

	bottom := BottomN(records, ByAvgPrice, 3)
	want := []string{"first", "second", "third"}
	for i, name := range want {
		if bottom[i].ModelName != name {
			t.Errorf("position %d = %q, want %q (stable order)", i, bottom[i].ModelName, name)
		}
	}

	top := TopN(records, ByAvgPrice, 3)
	for i, name := range want {
		if top[i].ModelName != name {
			t.Errorf("descending position %d = %q, want %q (stable order)", i, top[i].ModelName, name)
		}
	}
}

func TestRankByValue(t *testing.T) {
	paid := Paid(testRecords())
	ranked := RankByValue(paid)

	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].ValueScore < ranked[i].ValueScore {
			t.Errorf("value ranking not descending at %d: %v < %v",
				i, ranked[i-1].ValueScore, ranked[i].ValueScore)
		}
	}
}

func TestTopByValueCapsAtSubsetSize(t *testing.T) {
	paid := Paid(testRecords())
	top := TopByValue(paid, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2, got %d", len(top))
	}
	all := TopByValue(paid, 50)
	if len(all) != len(paid) {
		t.Errorf("expected %d, got %d", len(paid), len(all))
	}
}

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"input", "output", "avg"} {
		if _, err := ParseSortKey(valid); err != nil {
			t.Errorf("ParseSortKey(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseSortKey("context"); err == nil {
		t.Error("ParseSortKey(\"context\") expected error")
	}
}
