package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/keywords"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/search"
)

type stages struct {
	agent    llm.Agent
	searcher search.Searcher
}

// newTravelPipeline wires the six travel stages into their fixed graph
func newTravelPipeline(agent llm.Agent, searcher search.Searcher) *Pipeline {
	st := &stages{agent: agent, searcher: searcher}
	return NewPipeline(StageAnalyze,
		Stage{Name: StageAnalyze, Run: st.analyze, Route: func(Step) string { return StageDecide }},
		Stage{Name: StageDecide, Run: st.decide, Route: routeDecision},
		Stage{Name: StageSearch, Run: st.search, Route: routeOn(StageGenerate)},
		Stage{Name: StageGenerate, Run: st.generate, Route: routeOn(StageCheck)},
		Stage{Name: StageCheck, Run: st.checkFollowUp, Route: routeOn(End)},
		Stage{Name: StageError, Run: handleError, Route: func(Step) string { return End }},
	)
}

func (st *stages) analyze(ctx context.Context, s State) Step {
	if s.FollowUp.IsBudget() {
		location := s.FollowUp.State.PrimaryLocation
		if location == "" {
			location = unknownDestination
		}
		s.Analysis = llm.Analysis{
			Category:    internal.CategoryBudget,
			Location:    location,
			Intent:      "budget_advice",
			Keywords:    []string{"ngân sách", "budget", "chi phí"},
			Urgency:     "high",
			SearchQuery: fmt.Sprintf("%s travel budget itinerary %s", location, s.Query),
		}
		internal.LogDebug("Budget follow-up for %s, skipping analyzer", location)
		return next(s)
	}

	analysis, err := st.agent.AnalyzeQuery(ctx, s.Query, s.History)
	if err != nil {
		if errors.Is(err, llm.ErrNotTravelRelated) {
			s.FinalResponse = nonTravelMessage
			s.Canned = CannedNonTravel
		} else {
			internal.LogWarn("Query analysis failed: %v", err)
			s.FinalResponse = unclearMessage
			s.Canned = CannedUnclear
		}
		return fail(s, &internal.StageError{Stage: StageAnalyze, Err: err})
	}
	s.Analysis = analysis
	return next(s)
}

// decide settles whether fresh search results are needed. A canned answer
// left by analyze ends the run here.
func (st *stages) decide(ctx context.Context, s State) Step {
	if s.Err != nil {
		if s.FinalResponse != "" {
			s.Err = nil
			return done(s)
		}
		return Step{Kind: Error, State: s}
	}
	s.NeedsSearch = needsSearch(s.Analysis)
	return next(s)
}

func needsSearch(a llm.Analysis) bool {
	if a.Category.NeedsSearch() || a.Urgency == "high" || a.Location != "" {
		return true
	}
	for _, k := range a.Keywords {
		if keywords.IsFreshnessKeyword(k) {
			return true
		}
	}
	return false
}

func routeDecision(step Step) string {
	switch {
	case step.Kind == Error:
		return StageError
	case step.State.NeedsSearch:
		return StageSearch
	default:
		return StageGenerate
	}
}

func (st *stages) search(ctx context.Context, s State) Step {
	results, err := st.searcher.SearchTravel(ctx, s.Analysis.SearchQuery, s.Analysis.Category, s.Analysis.Location)
	if err != nil {
		internal.LogWarn("Search failed: %v", err)
		s.Results = []search.Result{}
		return fail(s, &internal.StageError{Stage: StageSearch, Err: err})
	}
	internal.LogDebug("Search returned %d results", len(results))
	s.Results = results
	return next(s)
}

func (st *stages) generate(ctx context.Context, s State) Step {
	var (
		response string
		err      error
	)
	switch {
	case s.FollowUp.IsBudget():
		prompt := llm.BudgetPrompt(
			s.Query,
			s.Analysis.Location,
			keywords.Topic(lastTurn(s.History, llm.RoleUser)),
			keywords.BudgetAmount(s.Query),
			lastTurn(s.History, llm.RoleAssistant),
		)
		if len(s.Results) > 0 {
			response, err = st.agent.GenerateResponse(ctx, prompt, s.Results)
		} else {
			response, err = st.agent.GenerateSimpleResponse(ctx, prompt)
		}
	case len(s.Results) > 0:
		response, err = st.agent.GenerateResponse(ctx, s.Query, s.Results)
	case s.NeedsSearch:
		response, err = st.agent.GenerateSimpleResponse(ctx, s.Query)
		if err == nil {
			response += noResultsDisclaimer
		}
	default:
		response, err = st.agent.GenerateSimpleResponse(ctx, s.Query)
	}

	if err != nil {
		internal.LogWarn("Response generation failed: %v", err)
		s.FinalResponse = generateFailedMessage
		return fail(s, &internal.StageError{Stage: StageGenerate, Err: err})
	}
	s.FinalResponse = response
	return next(s)
}

// checkFollowUp flags replies that would benefit from more detail. It never
// changes the response.
func (st *stages) checkFollowUp(ctx context.Context, s State) Step {
	a := s.Analysis
	s.NeedsMoreInfo = (a.Category == internal.CategoryGeneral && len(a.Keywords) < 3) ||
		len(s.Results) < 2 ||
		(a.Category.LocationDependent() && a.Location == "")
	return done(s)
}

func handleError(ctx context.Context, s State) Step {
	if s.Err != nil {
		s.Failure = s.Err.Error()
	}
	if s.FinalResponse == "" {
		s.FinalResponse = fallbackMessage
	}
	s.Err = nil
	return done(s)
}

func lastTurn(history []llm.Turn, role string) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == role {
			return history[i].Content
		}
	}
	return ""
}
