// Package openrouter fetches the OpenRouter model listing and condenses it
// into dataset records with USD-per-million-token pricing.
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/everstacklabs/pricescope/internal/dataset"
	"github.com/everstacklabs/pricescope/internal/httpclient"
)

// DefaultBaseURL is the public OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Client fetches model listings from OpenRouter.
type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
}

// New creates a client. The API key may be empty; the models endpoint is
// public.
func New(apiKey, baseURL string, http *httpclient.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, http: http}
}

// ModelsURL returns the endpoint the client fetches from.
func (c *Client) ModelsURL() string {
	return c.baseURL + "/models"
}

// Model is one entry of the upstream listing. Pricing values are strings in
// USD per single token.
type Model struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	ContextLength       int      `json:"context_length"`
	Pricing             Pricing  `json:"pricing"`
	SupportedParameters []string `json:"supported_parameters"`
}

// Pricing is the upstream per-token price pair.
type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type modelsResponse struct {
	Data []Model `json:"data"`
}

// FetchToolModels retrieves all models and keeps those that support tool
// calling. An unparseable response body is an error; no partial result is
// returned.
func (c *Client) FetchToolModels(ctx context.Context) ([]Model, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	resp, err := c.http.Get(ctx, c.ModelsURL(), headers)
	if err != nil {
		return nil, fmt.Errorf("fetching models: %w", err)
	}

	var parsed modelsResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing models response: %w", err)
	}

	var tools []Model
	for _, m := range parsed.Data {
		if supportsTools(m.SupportedParameters) {
			tools = append(tools, m)
		}
	}

	slog.Info("model listing fetched",
		"total", len(parsed.Data),
		"tool_capable", len(tools),
		"from_cache", resp.FromCache)
	return tools, nil
}

func supportsTools(params []string) bool {
	for _, p := range params {
		if p == "tools" {
			return true
		}
	}
	return false
}

// Condense converts upstream models into dataset records. Per-token prices
// become USD per million tokens, rounded to 4 decimal places. Models with an
// unparseable price are skipped with a log line.
func Condense(models []Model) []dataset.Record {
	var records []dataset.Record
	for _, m := range models {
		input, err := perMillion(m.Pricing.Prompt)
		if err != nil {
			slog.Warn("skipping model with bad prompt price", "id", m.ID, "error", err)
			continue
		}
		output, err := perMillion(m.Pricing.Completion)
		if err != nil {
			slog.Warn("skipping model with bad completion price", "id", m.ID, "error", err)
			continue
		}

		records = append(records, dataset.Record{
			ModelName:     m.Name,
			ModelID:       m.ID,
			Vendor:        dataset.VendorFromID(m.ID),
			ContextLength: m.ContextLength,
			InputPrice:    input,
			OutputPrice:   output,
			Description:   m.Description,
		})
	}
	return records
}

// perMillion converts a per-token price string to USD per million tokens.
// Empty strings count as zero (some free models omit pricing).
func perMillion(perToken string) (float64, error) {
	if perToken == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(perToken, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing price %q: %w", perToken, err)
	}
	return math.Round(v*1_000_000*10_000) / 10_000, nil
}
