package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestVendorFromID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"anthropic/claude-3", "anthropic"},
		{"openai/gpt-4o", "openai"},
		{"mistralai/mistral-large-2", "mistralai"},
		{"no-separator", "Unknown"},
		{"", "Unknown"},
		{"/leading-separator", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := VendorFromID(tt.id); got != tt.want {
				t.Errorf("VendorFromID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"OpenAI: GPT-4o", "GPT-4o"},
		{"Anthropic: Claude 3.5 Sonnet", "Claude 3.5 Sonnet"},
		{"Plain Name", "Plain Name"},
	}

	for _, tt := range tests {
		if got := ShortName(tt.name); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestReadSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"model_name,vendor,context_length,input_price_usd_per_m,output_price_usd_per_m",
		"Good Model,acme,128000,1.5,3.0",
		"Bad Context,acme,not-a-number,1.5,3.0",
		"Bad Price,acme,4000,oops,3.0",
		"Another Good,acme,4000,0.5,0.5",
	}, "\n")

	records, skipped, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}
	if records[0].ModelName != "Good Model" || records[1].ModelName != "Another Good" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestReadMissingColumn(t *testing.T) {
	input := "model_name,vendor\nX,acme\n"
	if _, _, err := Read(strings.NewReader(input)); err == nil {
		t.Error("expected error for missing required columns")
	}
}

func TestReadDerivesVendorFromID(t *testing.T) {
	input := strings.Join([]string{
		"model_name,model_id,vendor,context_length,input_price_usd_per_m,output_price_usd_per_m",
		"Claude,anthropic/claude-3,,200000,3,15",
	}, "\n")

	records, _, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if records[0].Vendor != "anthropic" {
		t.Errorf("vendor = %q, want anthropic", records[0].Vendor)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrMissingDataset) {
		t.Errorf("expected ErrMissingDataset, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	records := []Record{
		{
			ModelName:     "Acme: Large",
			ModelID:       "acme/large",
			Vendor:        "acme",
			ContextLength: 131072,
			InputPrice:    0.1875,
			OutputPrice:   0.8125,
			Description:   "a model, with commas",
			AvgPrice:      0.5,
			ValueScore:    262144,
			Quadrant:      "Low Cost / High Context",
		},
		{
			ModelName:     "Acme: Small",
			ModelID:       "acme/small",
			Vendor:        "acme",
			ContextLength: 4096,
			InputPrice:    0.0001,
			OutputPrice:   0.0003,
			AvgPrice:      0.0002,
			ValueScore:    20480000,
			Quadrant:      "Low Cost / Low Context",
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, records, QuadrantColumns); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reread, skipped, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped %d rows on round trip", skipped)
	}
	if len(reread) != len(records) {
		t.Fatalf("round trip lost records: %d != %d", len(reread), len(records))
	}

	for i, r := range reread {
		orig := records[i]
		if r.InputPrice != orig.InputPrice || r.OutputPrice != orig.OutputPrice {
			t.Errorf("record %d prices drifted: %+v", i, r)
		}
		if r.ContextLength != orig.ContextLength {
			t.Errorf("record %d context drifted: %d != %d", i, r.ContextLength, orig.ContextLength)
		}
		// Derived average from the re-read prices must match the written one
		// exactly.
		if avg := (r.InputPrice + r.OutputPrice) / 2; avg != orig.AvgPrice {
			t.Errorf("record %d avg drifted: %v != %v", i, avg, orig.AvgPrice)
		}
		if r.Description != orig.Description {
			t.Errorf("record %d description = %q, want %q", i, r.Description, orig.Description)
		}
	}
}

func TestWriteFileCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	records := []Record{{ModelName: "X", Vendor: "acme", ContextLength: 1000, InputPrice: 1, OutputPrice: 2}}
	if err := WriteFile(path, records, RankColumns); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ModelName != "X" {
		t.Errorf("unexpected content: %+v", loaded)
	}
}

func TestManifestStats(t *testing.T) {
	records := []Record{
		{ModelName: "free", InputPrice: 0, OutputPrice: 0},
		{ModelName: "paid", InputPrice: 1, OutputPrice: 2},
		{ModelName: "half", InputPrice: 0, OutputPrice: 0.5},
	}

	m := NewManifest("https://openrouter.ai/api/v1/models", records)
	if m.Stats.TotalModels != 3 {
		t.Errorf("total = %d, want 3", m.Stats.TotalModels)
	}
	if m.Stats.FreeModels != 1 {
		t.Errorf("free = %d, want 1", m.Stats.FreeModels)
	}
	if m.Stats.PaidModels != 2 {
		t.Errorf("paid = %d, want 2", m.Stats.PaidModels)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	m := NewManifest("https://example.test/models", []Record{{ModelName: "x", InputPrice: 1, OutputPrice: 1}})

	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if loaded.SourceURL != m.SourceURL || loaded.Stats != m.Stats {
		t.Errorf("round trip mismatch: %+v != %+v", loaded, m)
	}
}
