// Package llm talks to the hosted language model that classifies queries and
// writes the travel answers.
package llm

import (
	"context"
	"errors"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/search"
)

// ErrNotTravelRelated is returned by AnalyzeQuery for off-topic queries
var ErrNotTravelRelated = errors.New("query is not travel-related")

// Roles used in conversation turns
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior message passed to the analyzer as context
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Analysis is the structured reading of a user query
type Analysis struct {
	Category    internal.Category `json:"category"`
	Location    string            `json:"location"`
	Intent      string            `json:"intent"`
	Keywords    []string          `json:"keywords"`
	Urgency     string            `json:"urgency"`
	SearchQuery string            `json:"searchQuery"`
}

// Agent is the LLM collaborator used by the workflow
type Agent interface {
	AnalyzeQuery(ctx context.Context, query string, history []Turn) (Analysis, error)
	GenerateResponse(ctx context.Context, query string, results []search.Result) (string, error)
	GenerateSimpleResponse(ctx context.Context, query string) (string, error)
}
