package memory

import (
	"github.com/iksnae/tourmate/internal/keywords"
)

// ContextType names the strongest kind of context a session carries
type ContextType string

const (
	ContextNone       ContextType = "none"
	ContextItinerary  ContextType = "itinerary_context"
	ContextLocation   ContextType = "location_context"
	ContextPlanning   ContextType = "planning_context"
	ContextPreference ContextType = "preference_context"
	ContextGeneral    ContextType = "general_context"
)

// ConversationState is the slice of a Summary passed on to the pipeline
type ConversationState struct {
	PrimaryLocation  string     `json:"primaryLocation,omitempty"`
	Budget           string     `json:"budget,omitempty"`
	Duration         string     `json:"duration,omitempty"`
	GroupType        string     `json:"groupType,omitempty"`
	Preferences      []string   `json:"preferences,omitempty"`
	LastItinerary    *Itinerary `json:"lastItinerary,omitempty"`
	PendingQuestions []string   `json:"pendingQuestions,omitempty"`
}

// FollowUp describes whether a query continues earlier context
type FollowUp struct {
	IsFollowUp       bool              `json:"isFollowUp"`
	Type             string            `json:"followUpType,omitempty"`
	Confidence       int               `json:"confidence"`
	ContextType      ContextType       `json:"contextType"`
	SuggestedContext string            `json:"suggestedContext,omitempty"`
	State            ConversationState `json:"conversationState"`
}

// IsBudget reports whether the query was read as a budget follow-up
func (f FollowUp) IsBudget() bool {
	return f.IsFollowUp && f.Type == keywords.FollowUpBudget
}

// AnalyzeFollowUp classifies query against the session's current context.
// Call it before the query itself is added to the session.
func (s *Store) AnalyzeFollowUp(sessionID, query string) FollowUp {
	return Classify(s.Summarize(sessionID), query)
}

// Classify is the pure follow-up decision over a summary and a query.
// The follow-up type is the best scoring keyword group; equal scores go to
// the group listed later.
func Classify(sum Summary, query string) FollowUp {
	if !sum.HasContext {
		return FollowUp{IsFollowUp: false, ContextType: ContextNone}
	}

	followUpType, confidence, matched := keywords.FollowUps.Best(query)

	if !matched && len(sum.RecentLocations) > 0 && keywords.ContainsAny(query, keywords.BudgetIndicators) {
		followUpType, confidence, matched = keywords.FollowUpBudget, 1, true
	}

	return FollowUp{
		IsFollowUp:       matched,
		Type:             followUpType,
		Confidence:       confidence,
		ContextType:      contextType(sum),
		SuggestedContext: suggestedContext(sum, followUpType),
		State: ConversationState{
			PrimaryLocation:  sum.PrimaryLocation,
			Budget:           sum.Budget,
			Duration:         sum.Duration,
			GroupType:        sum.GroupType,
			Preferences:      sum.Preferences,
			LastItinerary:    sum.LastItinerary,
			PendingQuestions: sum.PendingQuestions,
		},
	}
}

func contextType(sum Summary) ContextType {
	switch {
	case sum.LastItinerary != nil:
		return ContextItinerary
	case sum.PrimaryLocation != "":
		return ContextLocation
	case sum.Budget != "" || sum.Duration != "":
		return ContextPlanning
	case len(sum.Preferences) > 0:
		return ContextPreference
	}
	return ContextGeneral
}

func suggestedContext(sum Summary, followUpType string) string {
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	switch followUpType {
	case keywords.FollowUpLocation:
		return "Location context: " + sum.PrimaryLocation
	case keywords.FollowUpDetails:
		return "Budget context: " + orDefault(sum.Budget, "not specified")
	case keywords.FollowUpBudget:
		return "Budget planning for: " + orDefault(sum.PrimaryLocation, "previous destination")
	case keywords.FollowUpContinuation:
		lastTopic := ""
		if n := len(sum.RecentCategories); n > 0 {
			lastTopic = string(sum.RecentCategories[n-1])
		}
		return "Topic context: " + lastTopic
	}
	return "General context: " + orDefault(sum.PrimaryLocation, "various topics discussed")
}
