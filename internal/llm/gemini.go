package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/search"
)

const defaultModel = "gemini-2.0-flash"

// contentGenerator is the part of the genai client Gemini uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is an Agent backed by Google's Gemini models
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini agent from config
func NewGemini(ctx context.Context, cfg internal.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, &internal.ConfigError{Key: "gemini.api_key", Err: errors.New("not set")}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &internal.CollaboratorError{Service: "gemini", Op: "connect", Err: err}
	}
	return newGemini(client.Models, cfg.Model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = defaultModel
	}
	return &Gemini{models: models, model: model}
}

// AnalyzeQuery classifies a query. Off-topic queries yield ErrNotTravelRelated.
func (g *Gemini) AnalyzeQuery(ctx context.Context, query string, history []Turn) (Analysis, error) {
	temperature := float32(0.1)
	text, err := g.generate(ctx, "analyze", fmt.Sprintf(analysisPrompt, formatHistory(history), query), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Analysis{}, err
	}

	var a Analysis
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &a); err != nil {
		return Analysis{}, &internal.CollaboratorError{Service: "gemini", Op: "analyze", Err: fmt.Errorf("invalid analysis JSON: %w", err)}
	}
	if a.Category == "non_travel" || a.Intent == "not_travel_related" {
		return Analysis{}, ErrNotTravelRelated
	}

	a.Category = internal.ParseCategory(string(a.Category))
	if a.SearchQuery == "" {
		a.SearchQuery = query
	}
	internal.LogDebug("Analysis: category=%s location=%q intent=%s", a.Category, a.Location, a.Intent)
	return a, nil
}

// GenerateResponse answers a query from search results
func (g *Gemini) GenerateResponse(ctx context.Context, query string, results []search.Result) (string, error) {
	prompt := fmt.Sprintf(responsePrompt, query, formatResults(results))
	return g.generate(ctx, "respond", prompt, g.answerConfig())
}

// GenerateSimpleResponse answers a query from model knowledge alone
func (g *Gemini) GenerateSimpleResponse(ctx context.Context, query string) (string, error) {
	return g.generate(ctx, "respond", query, g.answerConfig())
}

// Ping checks that the model answers
func (g *Gemini) Ping(ctx context.Context) error {
	_, err := g.generate(ctx, "ping", "Xin chào", nil)
	return err
}

func (g *Gemini) answerConfig() *genai.GenerateContentConfig {
	temperature := float32(0.7)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       &temperature,
	}
}

func (g *Gemini) generate(ctx context.Context, op, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", &internal.CollaboratorError{Service: "gemini", Op: op, Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &internal.CollaboratorError{Service: "gemini", Op: op, Err: errors.New("empty response (check safety filters)")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

// stripCodeFence removes a ```json fence some models wrap JSON in
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
