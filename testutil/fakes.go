package testutil

import (
	"context"
	"sync"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/search"
)

// FakeAgent is a scripted llm.Agent that records every call
type FakeAgent struct {
	mu sync.Mutex

	Analysis       llm.Analysis
	AnalyzeErr     error
	Response       string
	ResponseErr    error
	SimpleResponse string
	SimpleErr      error
	PanicOnAnalyze bool

	AnalyzeCalls  []string
	HistorySeen   [][]llm.Turn
	ResponseCalls []string
	ResultsSeen   [][]search.Result
	SimpleCalls   []string
}

// NewFakeAgent returns an agent that classifies everything as food in Hà Nội
func NewFakeAgent() *FakeAgent {
	return &FakeAgent{
		Analysis: llm.Analysis{
			Category:    internal.CategoryFood,
			Location:    "Hà Nội",
			Intent:      "restaurant_recommendation",
			Keywords:    []string{"phở", "ngon"},
			Urgency:     "medium",
			SearchQuery: "best pho Hanoi",
		},
		Response:       "Phở Thìn ở 13 Lò Đúc là lựa chọn tuyệt vời.",
		SimpleResponse: "Đây là gợi ý du lịch của tôi.",
	}
}

func (f *FakeAgent) AnalyzeQuery(ctx context.Context, query string, history []llm.Turn) (llm.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AnalyzeCalls = append(f.AnalyzeCalls, query)
	f.HistorySeen = append(f.HistorySeen, history)
	if f.PanicOnAnalyze {
		panic("analyzer exploded")
	}
	if f.AnalyzeErr != nil {
		return llm.Analysis{}, f.AnalyzeErr
	}
	return f.Analysis, nil
}

func (f *FakeAgent) GenerateResponse(ctx context.Context, query string, results []search.Result) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResponseCalls = append(f.ResponseCalls, query)
	f.ResultsSeen = append(f.ResultsSeen, results)
	if f.ResponseErr != nil {
		return "", f.ResponseErr
	}
	return f.Response, nil
}

func (f *FakeAgent) GenerateSimpleResponse(ctx context.Context, query string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SimpleCalls = append(f.SimpleCalls, query)
	if f.SimpleErr != nil {
		return "", f.SimpleErr
	}
	return f.SimpleResponse, nil
}

// Calls returns the total number of agent calls made so far
func (f *FakeAgent) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.AnalyzeCalls) + len(f.ResponseCalls) + len(f.SimpleCalls)
}

// SearchCall is one recorded SearchTravel invocation
type SearchCall struct {
	Query    string
	Category internal.Category
	Location string
}

// FakeSearcher is a scripted search.Searcher
type FakeSearcher struct {
	mu      sync.Mutex
	Results []search.Result
	Err     error
	Calls   []SearchCall
}

// NewFakeSearcher returns a searcher with n canned results
func NewFakeSearcher(n int) *FakeSearcher {
	results := make([]search.Result, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, search.Result{
			Title:   "Kết quả",
			URL:     "https://example.com/" + string(rune('a'+i)),
			Content: "Thông tin du lịch",
			Score:   0.5,
		})
	}
	return &FakeSearcher{Results: results}
}

func (f *FakeSearcher) SearchTravel(ctx context.Context, query string, category internal.Category, location string) ([]search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, SearchCall{Query: query, Category: category, Location: location})
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Results, nil
}

// CallCount returns how many searches were made
func (f *FakeSearcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
