package workflow

import (
	"context"
	"fmt"

	"github.com/iksnae/tourmate/internal"
)

// Stage names
const (
	StageAnalyze  = "analyze_query"
	StageDecide   = "decide_search_needed"
	StageSearch   = "search_information"
	StageGenerate = "generate_response"
	StageCheck    = "check_follow_up"
	StageError    = "handle_error"

	// End is the router target that stops the run
	End = "__end__"
)

const maxSteps = 16

// Stage is one node of the graph
type Stage struct {
	Name  string
	Run   func(ctx context.Context, s State) Step
	Route func(step Step) string
}

// Trail records the stages a run visited, in order
type Trail []string

// Pipeline interprets a fixed graph of stages
type Pipeline struct {
	start  string
	stages map[string]Stage
}

// NewPipeline builds a pipeline that begins at start
func NewPipeline(start string, stages ...Stage) *Pipeline {
	p := &Pipeline{start: start, stages: make(map[string]Stage, len(stages))}
	for _, st := range stages {
		p.stages[st.Name] = st
	}
	return p
}

// Run threads state through the stages until a router returns End. A Done
// step always ends the run regardless of the stage's router.
func (p *Pipeline) Run(ctx context.Context, s State) (State, Trail) {
	var trail Trail
	current := p.start

	for steps := 0; current != End; steps++ {
		if steps >= maxSteps {
			s.Failure = fmt.Sprintf("pipeline exceeded %d steps", maxSteps)
			internal.LogError("Pipeline aborted after %v", trail)
			return s, trail
		}

		stage, ok := p.stages[current]
		if !ok {
			s.Failure = fmt.Sprintf("unknown stage %q", current)
			internal.LogError("Pipeline routed to unknown stage %q", current)
			return s, trail
		}

		trail = append(trail, current)
		step := stage.Run(ctx, s)
		s = step.State
		internal.LogDebug("Stage %s → %s", current, step.Kind)

		if step.Kind == Done {
			break
		}
		current = stage.Route(step)
	}
	return s, trail
}

// routeOn builds the usual router: Continue goes to onContinue, Error goes
// to handle_error.
func routeOn(onContinue string) func(Step) string {
	return func(step Step) string {
		if step.Kind == Error {
			return StageError
		}
		return onContinue
	}
}
