package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iksnae/tourmate/internal"
)

const defaultTavilyURL = "https://api.tavily.com"

// Tavily is a Searcher backed by the Tavily REST API
type Tavily struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewTavily creates a Tavily client from config
func NewTavily(cfg internal.TavilyConfig) *Tavily {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTavilyURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Tavily{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// SearchTravel runs a travel-flavoured search
func (t *Tavily) SearchTravel(ctx context.Context, query string, category internal.Category, location string) ([]Result, error) {
	q := TravelQuery(query, category, location)
	internal.LogDebug("Tavily search: %s", internal.Preview(q, 80))

	body, err := json.Marshal(tavilyRequest{
		Query:       q,
		SearchDepth: "advanced",
		MaxResults:  t.maxResults,
	})
	if err != nil {
		return nil, &internal.CollaboratorError{Service: "tavily", Op: "search", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &internal.CollaboratorError{Service: "tavily", Op: "search", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &internal.CollaboratorError{Service: "tavily", Op: "search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &internal.CollaboratorError{
			Service: "tavily",
			Op:      "search",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
		}
	}

	var out tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &internal.CollaboratorError{Service: "tavily", Op: "decode", Err: err}
	}
	internal.LogDebug("Tavily returned %d results", len(out.Results))
	return out.Results, nil
}

// Ping checks that the API answers with the configured key
func (t *Tavily) Ping(ctx context.Context) error {
	_, err := t.SearchTravel(ctx, "Hà Nội", internal.CategoryGeneral, "")
	return err
}
