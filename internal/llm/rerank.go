package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrRerankUnavailable is returned while the rerank circuit breaker is open.
var ErrRerankUnavailable = errors.New("rerank service unavailable")

// RerankClient scores (query, document) pairs with a cross-encoder served over
// an OpenAI-style /v1/rerank endpoint (llama.cpp, TEI, Infinity, Jina).
type RerankClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewRerankClient creates a rerank client guarded by a circuit breaker, so a dead
// reranker costs one fast failure per call instead of a timeout.
func NewRerankClient(baseURL, apiKey, model string) *RerankClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rerank",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &RerankClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: breaker,
	}
}

// RerankRequest represents the request payload for the rerank API.
type RerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

// RerankResult is the score of one document, identified by its input index.
type RerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RerankResponse represents the response from the rerank API.
type RerankResponse struct {
	Results []RerankResult `json:"results"`
}

// Score returns one relevance score per document, aligned with documents.
func (c *RerankClient) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.score(ctx, query, documents)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrRerankUnavailable, err)
		}
		return nil, err
	}
	return result.([]float64), nil
}

func (c *RerankClient) score(ctx context.Context, query string, documents []string) ([]float64, error) {
	url := fmt.Sprintf("%s/v1/rerank", c.BaseURL)

	body, err := json.Marshal(RerankRequest{
		Model:     c.Model,
		Query:     query,
		Documents: documents,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var rerankResp RerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(rerankResp.Results) != len(documents) {
		return nil, fmt.Errorf("expected %d scores, got %d", len(documents), len(rerankResp.Results))
	}

	scores := make([]float64, len(documents))
	seen := make([]bool, len(documents))
	for _, r := range rerankResp.Results {
		if r.Index < 0 || r.Index >= len(documents) || seen[r.Index] {
			return nil, fmt.Errorf("invalid result index %d", r.Index)
		}
		seen[r.Index] = true
		scores[r.Index] = r.RelevanceScore
	}

	return scores, nil
}
