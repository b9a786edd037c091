package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/everstacklabs/pricescope/internal/httpclient"
)

const sampleListing = `{
  "data": [
    {
      "id": "anthropic/claude-sonnet",
      "name": "Anthropic: Claude Sonnet",
      "description": "General purpose model",
      "context_length": 200000,
      "pricing": {"prompt": "0.000003", "completion": "0.000015"},
      "supported_parameters": ["tools", "temperature"]
    },
    {
      "id": "acme/no-tools",
      "name": "Acme: No Tools",
      "context_length": 8192,
      "pricing": {"prompt": "0.0000001", "completion": "0.0000002"},
      "supported_parameters": ["temperature"]
    },
    {
      "id": "acme/free-model",
      "name": "Acme: Free",
      "context_length": 4096,
      "pricing": {"prompt": "0", "completion": "0"},
      "supported_parameters": ["tools"]
    }
  ]
}`

func TestFetchToolModels(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleListing))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, httpclient.New())
	models, err := c.FetchToolModels(context.Background())
	if err != nil {
		t.Fatalf("FetchToolModels failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2 (tool-capable only)", len(models))
	}
	for _, m := range models {
		if m.ID == "acme/no-tools" {
			t.Error("model without tools support should be filtered")
		}
	}
}

func TestFetchToolModelsNoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := New("", srv.URL, httpclient.New())
	if _, err := c.FetchToolModels(context.Background()); err != nil {
		t.Fatalf("FetchToolModels failed: %v", err)
	}
}

func TestFetchToolModelsUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New("", srv.URL, httpclient.New())
	if _, err := c.FetchToolModels(context.Background()); err == nil {
		t.Error("expected error for unparseable response")
	}
}

func TestCondensePricingConversion(t *testing.T) {
	records := Condense([]Model{
		{
			ID:            "anthropic/claude-sonnet",
			Name:          "Anthropic: Claude Sonnet",
			ContextLength: 200000,
			Pricing:       Pricing{Prompt: "0.000003", Completion: "0.000015"},
		},
	})

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.InputPrice != 3.0 {
		t.Errorf("input price = %v, want 3.0 ($/M)", r.InputPrice)
	}
	if r.OutputPrice != 15.0 {
		t.Errorf("output price = %v, want 15.0 ($/M)", r.OutputPrice)
	}
	if r.Vendor != "anthropic" {
		t.Errorf("vendor = %q, want anthropic", r.Vendor)
	}
}

func TestCondenseRoundsToFourDecimals(t *testing.T) {
	records := Condense([]Model{
		{
			ID:      "acme/tiny",
			Name:    "Tiny",
			Pricing: Pricing{Prompt: "0.000000123456", Completion: "0"},
		},
	})
	if records[0].InputPrice != 0.1235 {
		t.Errorf("input price = %v, want 0.1235", records[0].InputPrice)
	}
}

func TestCondenseSkipsBadPrices(t *testing.T) {
	records := Condense([]Model{
		{ID: "acme/bad", Name: "Bad", Pricing: Pricing{Prompt: "not-a-price", Completion: "0"}},
		{ID: "acme/good", Name: "Good", Pricing: Pricing{Prompt: "0.000001", Completion: "0.000002"}},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ModelID != "acme/good" {
		t.Errorf("kept %q, want acme/good", records[0].ModelID)
	}
}

func TestCondenseEmptyPriceIsZero(t *testing.T) {
	records := Condense([]Model{
		{ID: "acme/free", Name: "Free", Pricing: Pricing{}},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].InputPrice != 0 || records[0].OutputPrice != 0 {
		t.Errorf("expected zero prices, got %+v", records[0])
	}
}
