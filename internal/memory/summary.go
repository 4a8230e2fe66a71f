package memory

import (
	"strings"
	"time"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/keywords"
)

// Flow classifies the shape of the recent conversation
type Flow string

const (
	FlowInitial       Flow = "initial"
	FlowItinerary     Flow = "itinerary_planning"
	FlowComprehensive Flow = "comprehensive_planning"
	FlowFocused       Flow = "focused_topic"
	FlowExploratory   Flow = "exploratory"
)

// Itinerary is the most recent itinerary the bot produced
type Itinerary struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata"`
}

// Summary is derived on demand from the recent window; it is never stored
type Summary struct {
	HasContext   bool      `json:"hasContext"`
	MessageCount int       `json:"messageCount,omitempty"`
	LastActivity time.Time `json:"lastActivity,omitzero"`

	RecentLocations []string `json:"recentLocations,omitempty"`
	PrimaryLocation string   `json:"primaryLocation,omitempty"`

	RecentCategories []internal.Category `json:"recentCategories,omitempty"`
	RecentTopics     []string            `json:"recentTopics,omitempty"`
	Flow             Flow                `json:"conversationFlow,omitempty"`

	Budget      string   `json:"budget,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	GroupType   string   `json:"groupType,omitempty"`
	Preferences []string `json:"preferences,omitempty"`

	LastItinerary       *Itinerary `json:"lastItinerary,omitempty"`
	PendingQuestions    []string   `json:"pendingQuestions,omitempty"`
	ClarificationNeeded bool       `json:"clarificationNeeded"`
}

// recencySet keeps distinct values ordered by their latest mention
type recencySet []string

func (r *recencySet) add(v string) {
	if v == "" {
		return
	}
	for i, existing := range *r {
		if existing == v {
			*r = append((*r)[:i], (*r)[i+1:]...)
			break
		}
	}
	*r = append(*r, v)
}

func (r recencySet) has(v string) bool {
	for _, existing := range r {
		if existing == v {
			return true
		}
	}
	return false
}

func (r recencySet) last() string {
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1]
}

// Summarize derives the context of a session from its recent window
func (s *Store) Summarize(sessionID string) Summary {
	messages := s.RecentContext(sessionID, s.contextWindow)
	if len(messages) == 0 {
		return Summary{HasContext: false}
	}

	sum := summarizeMessages(messages)
	sum.LastActivity = s.lastActivity(sessionID)
	return sum
}

func summarizeMessages(messages []Message) Summary {
	var locations, categories, topics, budgets, durations, groups, prefs recencySet

	for _, msg := range messages {
		meta := msg.Metadata
		locations.add(meta.Location)
		categories.add(string(meta.Category))
		topics.add(meta.Topic)
		budgets.add(meta.Budget)
		durations.add(meta.Duration)
		groups.add(meta.GroupType)

		for _, tier := range keywords.BudgetTiers.Matches(msg.Text) {
			budgets.add(tier)
		}
		for _, d := range keywords.Durations(msg.Text) {
			durations.add(d)
		}
		for _, g := range keywords.GroupTypes.Matches(msg.Text) {
			groups.add(g)
		}
		for _, p := range keywords.Preferences.Matches(msg.Text) {
			prefs.add(p)
		}
	}

	sum := Summary{
		HasContext:      true,
		MessageCount:    len(messages),
		RecentLocations: []string(locations),
		PrimaryLocation: locations.last(),
		RecentTopics:    []string(topics),
		Flow:            conversationFlow(messages),
		Budget:          budgetTier(budgets),
		Duration:        durations.last(),
		GroupType:       groups.last(),
		Preferences:     []string(prefs),

		LastItinerary:       lastItinerary(messages),
		PendingQuestions:    pendingQuestions(messages),
		ClarificationNeeded: clarificationNeeded(messages),
	}
	for _, c := range categories {
		sum.RecentCategories = append(sum.RecentCategories, internal.Category(c))
	}
	return sum
}

// budgetTier resolves several mentioned tiers by rule priority, not recency
func budgetTier(mentioned recencySet) string {
	for _, rule := range keywords.BudgetTiers.Rules {
		if mentioned.has(rule.Label) {
			return rule.Label
		}
	}
	return ""
}

func conversationFlow(messages []Message) Flow {
	if len(messages) < 2 {
		return FlowInitial
	}

	var cats []internal.Category
	for _, m := range messages {
		if m.Metadata.Category != "" {
			cats = append(cats, m.Metadata.Category)
		}
	}
	if len(cats) > 3 {
		cats = cats[len(cats)-3:]
	}
	hasFood, hasAttractions, same := false, false, true
	for _, c := range cats {
		switch c {
		case internal.CategoryItinerary:
			return FlowItinerary
		case internal.CategoryFood:
			hasFood = true
		case internal.CategoryAttractions:
			hasAttractions = true
		}
		if c != cats[0] {
			same = false
		}
	}
	switch {
	case hasFood && hasAttractions:
		return FlowComprehensive
	case same:
		return FlowFocused
	}
	return FlowExploratory
}

func lastItinerary(messages []Message) *Itinerary {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if !m.IsUser && m.Metadata.Category == internal.CategoryItinerary {
			return &Itinerary{Content: m.Text, Timestamp: m.Timestamp, Metadata: m.Metadata}
		}
	}
	return nil
}

// pendingQuestions returns bot questions with no later user message, newest first
func pendingQuestions(messages []Message) []string {
	var pending []string
	answered := false
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.IsUser {
			answered = true
			continue
		}
		if !answered && strings.Contains(m.Text, "?") {
			pending = append(pending, m.Text)
		}
	}
	return pending
}

func clarificationNeeded(messages []Message) bool {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsUser {
			return keywords.ContainsAny(messages[i].Text, keywords.ClarificationPhrases)
		}
	}
	return false
}
