// Package workflow runs a chat turn through the fixed stage graph
// analyze → decide → search → generate → check, with a single error exit.
package workflow

import (
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/memory"
	"github.com/iksnae/tourmate/internal/search"
)

// State is the value threaded through the stages. Stages receive a copy and
// return a new one; slices are replaced, never mutated in place.
type State struct {
	Query     string
	SessionID string
	History   []llm.Turn
	Summary   memory.Summary
	FollowUp  memory.FollowUp

	Analysis      llm.Analysis
	NeedsSearch   bool
	Results       []search.Result
	FinalResponse string
	NeedsMoreInfo bool

	// Canned names a fixed answer given instead of a generated one
	Canned string
	// Err is the failure the next router has to deal with
	Err error
	// Failure is the error handle_error absorbed, if any
	Failure string
}

// Kind tags the outcome of a stage
type Kind int

const (
	// Continue moves along the stage's normal edge
	Continue Kind = iota
	// Error hands the state to the error edge
	Error
	// Done ends the run
	Done
)

func (k Kind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Error:
		return "error"
	case Done:
		return "done"
	}
	return "unknown"
}

// Step is what every stage returns
type Step struct {
	Kind  Kind
	State State
}

func next(s State) Step {
	return Step{Kind: Continue, State: s}
}

func fail(s State, err error) Step {
	s.Err = err
	return Step{Kind: Error, State: s}
}

func done(s State) Step {
	return Step{Kind: Done, State: s}
}
