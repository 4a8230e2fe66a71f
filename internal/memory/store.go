// Package memory keeps a short, bounded message log per chat session and
// derives conversation context from it.
package memory

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/keywords"
)

const (
	// DefaultMaxMessages keeps four question/answer pairs per session.
	DefaultMaxMessages = 8
	// DefaultSessionTimeout is how long an idle session survives.
	DefaultSessionTimeout = 30 * time.Minute
	// DefaultContextWindow is how many messages the summarizer reads.
	DefaultContextWindow = 8
)

// Metadata is what the pipeline records alongside a message
type Metadata struct {
	Category           internal.Category `json:"category,omitempty"`
	Location           string            `json:"location,omitempty"`
	Topic              string            `json:"topic,omitempty"`
	Budget             string            `json:"budget,omitempty"`
	Duration           string            `json:"duration,omitempty"`
	GroupType          string            `json:"groupType,omitempty"`
	SearchResultsCount int               `json:"searchResultsCount,omitempty"`
	NeedsMoreInfo      bool              `json:"needsMoreInfo,omitempty"`
	FollowUp           bool              `json:"followUp,omitempty"`
	FollowUpType       string            `json:"followUpType,omitempty"`
}

// Attributes flattens the non-empty fields for export
func (m Metadata) Attributes() map[string]string {
	attrs := make(map[string]string)
	set := func(k, v string) {
		if v != "" {
			attrs[k] = v
		}
	}
	set("category", string(m.Category))
	set("location", m.Location)
	set("topic", m.Topic)
	set("budget", m.Budget)
	set("duration", m.Duration)
	set("group_type", m.GroupType)
	set("follow_up_type", m.FollowUpType)
	if m.SearchResultsCount > 0 {
		attrs["search_results"] = strconv.Itoa(m.SearchResultsCount)
	}
	if m.NeedsMoreInfo {
		attrs["needs_more_info"] = "true"
	}
	if m.FollowUp {
		attrs["follow_up"] = "true"
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// FromReply builds the metadata stored with an assistant reply. Budget,
// duration and group type are read from the reply text.
func FromReply(r internal.Reply) Metadata {
	return Metadata{
		Category:           r.Metadata.Category,
		Location:           r.Metadata.Location,
		Topic:              string(r.Metadata.Category),
		Budget:             keywords.BudgetTiers.First(r.Response),
		Duration:           keywords.Duration(r.Response),
		GroupType:          keywords.GroupTypes.First(r.Response),
		SearchResultsCount: r.Metadata.SearchResultsCount,
		NeedsMoreInfo:      r.Metadata.NeedsMoreInfo,
		FollowUp:           r.Metadata.FollowUpDetected,
		FollowUpType:       r.Metadata.FollowUpType,
	}
}

// Message is one immutable entry in a session log
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata"`
}

type session struct {
	messages     []Message
	createdAt    time.Time
	lastActivity time.Time
}

// Stats summarizes store usage
type Stats struct {
	TotalSessions  int `json:"totalSessions"`
	ActiveSessions int `json:"activeSessions"`
	TotalMessages  int `json:"totalMessages"`
}

// Store holds the per-session message logs. It is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	sessions      map[string]*session
	maxMessages   int
	timeout       time.Duration
	contextWindow int
	now           func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithMaxMessages bounds how many messages a session keeps
func WithMaxMessages(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxMessages = n
		}
	}
}

// WithSessionTimeout sets the idle time after which a session is swept
func WithSessionTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithContextWindow sets how many recent messages Summarize reads
func WithContextWindow(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.contextWindow = n
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:      make(map[string]*session),
		maxMessages:   DefaultMaxMessages,
		timeout:       DefaultSessionTimeout,
		contextWindow: DefaultContextWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddMessage appends a message, creating the session on first use and
// dropping the oldest messages beyond the per-session limit.
func (s *Store) AddMessage(sessionID, text string, isUser bool, meta Metadata) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{createdAt: now}
		s.sessions[sessionID] = sess
	}

	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: now,
		Metadata:  meta,
	}
	sess.messages = append(sess.messages, msg)
	sess.lastActivity = now

	if over := len(sess.messages) - s.maxMessages; over > 0 {
		kept := make([]Message, s.maxMessages)
		copy(kept, sess.messages[over:])
		sess.messages = kept
	}

	who := "Bot"
	if isUser {
		who = "User"
	}
	internal.LogDebug("Added message to session %s: %s - %s", sessionID, who, internal.Preview(text, 50))
	return msg
}

// RecentContext returns up to the last n messages of a session, oldest first.
// Unknown sessions yield an empty slice.
func (s *Store) RecentContext(sessionID string, n int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || n <= 0 {
		return []Message{}
	}
	start := len(sess.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(sess.messages)-start)
	copy(out, sess.messages[start:])
	return out
}

// ContextWindow is how many recent messages the pipeline reads per turn
func (s *Store) ContextWindow() int {
	return s.contextWindow
}

// MessageCount returns how many messages a session currently holds
func (s *Store) MessageCount(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return len(sess.messages)
	}
	return 0
}

// ClearSession removes a session. Clearing an unknown session is a no-op.
func (s *Store) ClearSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		internal.LogInfo("Cleared session %s", sessionID)
	}
}

// CleanupExpired removes sessions idle for longer than the timeout
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActivity) > s.timeout {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Stats returns current session statistics
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	stats := Stats{TotalSessions: len(s.sessions)}
	for _, sess := range s.sessions {
		stats.TotalMessages += len(sess.messages)
		if now.Sub(sess.lastActivity) < s.timeout {
			stats.ActiveSessions++
		}
	}
	return stats
}

// Sessions lists the known session IDs in sorted order
func (s *Store) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Export snapshots a session for the exporters
func (s *Store) Export(sessionID string) (*internal.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, internal.ErrSessionNotFound
	}

	out := &internal.Session{
		ID:       sessionID,
		Source:   "memory",
		Messages: make([]internal.Message, 0, len(sess.messages)),
		Metadata: internal.Metadata{
			CreatedAt:    sess.createdAt.UTC().Format(time.RFC3339),
			UpdatedAt:    sess.lastActivity.UTC().Format(time.RFC3339),
			MessageCount: len(sess.messages),
		},
	}
	for _, m := range sess.messages {
		actor := internal.ActorAssistant
		if m.IsUser {
			actor = internal.ActorUser
		}
		out.Messages = append(out.Messages, internal.Message{
			ID:         m.ID,
			Timestamp:  m.Timestamp.UTC().Format(time.RFC3339),
			Actor:      actor,
			Content:    m.Text,
			Attributes: m.Metadata.Attributes(),
		})
	}
	return out, nil
}

func (s *Store) lastActivity(sessionID string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return sess.lastActivity
	}
	return time.Time{}
}
