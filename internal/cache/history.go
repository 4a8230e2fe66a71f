package cache

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/iksnae/tourmate/internal"
)

const (
	// DefaultMaxHistory is how many requests are kept per session.
	DefaultMaxHistory = 50
	// DefaultHistoryLimit is how many entries History returns by default.
	DefaultHistoryLimit = 20
)

// HistoryEntry records one chat request and how it was answered
type HistoryEntry struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Request     RequestRecord   `json:"request"`
	Response    ResponseRecord  `json:"response"`
	Performance PerformanceInfo `json:"performance"`
}

// RequestRecord is the inbound side of a history entry
type RequestRecord struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// ResponseRecord summarizes the reply without storing its text
type ResponseRecord struct {
	Success            bool              `json:"success"`
	ResponseLength     int               `json:"responseLength"`
	Category           internal.Category `json:"category,omitempty"`
	Location           string            `json:"location,omitempty"`
	SearchResultsCount int               `json:"searchResultsCount"`
	ContextUsed        bool              `json:"contextUsed"`
	FollowUpDetected   bool              `json:"followUpDetected"`
	Cached             bool              `json:"cached"`
}

// PerformanceInfo holds timing data
type PerformanceInfo struct {
	ResponseTimeMillis int64 `json:"responseTime"`
	CacheHit           bool  `json:"cacheHit"`
}

// Count is one bucket of a distribution
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Analytics aggregates a session's recent requests
type Analytics struct {
	HasData               bool      `json:"hasData"`
	TotalRequests         int       `json:"totalRequests,omitempty"`
	SuccessfulRequests    int       `json:"successfulRequests,omitempty"`
	SuccessRate           float64   `json:"successRate,omitempty"`
	CacheHits             int       `json:"cacheHits,omitempty"`
	CacheHitRate          float64   `json:"cacheHitRate,omitempty"`
	AvgResponseTimeMillis float64   `json:"avgResponseTime,omitempty"`
	Categories            []Count   `json:"categories,omitempty"`
	Locations             []Count   `json:"locations,omitempty"`
	SessionStart          time.Time `json:"sessionStart,omitzero"`
	LastActivity          time.Time `json:"lastActivity,omitzero"`
}

// RequestHistory is an append-only, per-session request log capped from the
// front. It is safe for concurrent use.
type RequestHistory struct {
	mu            sync.RWMutex
	sessions      map[string][]HistoryEntry
	maxPerSession int
	now           func() time.Time
}

// NewHistory creates a request history keeping maxPerSession entries per session
func NewHistory(maxPerSession int, now func() time.Time) *RequestHistory {
	if maxPerSession <= 0 {
		maxPerSession = DefaultMaxHistory
	}
	if now == nil {
		now = time.Now
	}
	return &RequestHistory{
		sessions:      make(map[string][]HistoryEntry),
		maxPerSession: maxPerSession,
		now:           now,
	}
}

// Add records a request and the reply it produced
func (h *RequestHistory) Add(sessionID, message string, reply internal.Reply, responseTime time.Duration) HistoryEntry {
	e := HistoryEntry{
		ID:        "req_" + shortuuid.New(),
		Timestamp: h.now(),
		Request: RequestRecord{
			Message:   message,
			SessionID: sessionID,
		},
		Response: ResponseRecord{
			Success:            reply.Success,
			ResponseLength:     len([]rune(reply.Response)),
			Category:           reply.Metadata.Category,
			Location:           reply.Metadata.Location,
			SearchResultsCount: reply.Metadata.SearchResultsCount,
			ContextUsed:        reply.Metadata.ContextUsed,
			FollowUpDetected:   reply.Metadata.FollowUpDetected,
			Cached:             reply.Metadata.Cached,
		},
		Performance: PerformanceInfo{
			ResponseTimeMillis: responseTime.Milliseconds(),
			CacheHit:           reply.Metadata.Cached,
		},
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := append(h.sessions[sessionID], e)
	if over := len(entries) - h.maxPerSession; over > 0 {
		entries = append([]HistoryEntry(nil), entries[over:]...)
	}
	h.sessions[sessionID] = entries

	internal.LogDebug("Added to history: %s - %s", sessionID, internal.Preview(message, 30))
	return e
}

// History returns up to limit of the most recent entries, oldest first.
// A non-positive limit means DefaultHistoryLimit.
func (h *RequestHistory) History(sessionID string, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.sessions[sessionID]
	start := len(entries) - limit
	if start < 0 {
		start = 0
	}
	out := make([]HistoryEntry, len(entries)-start)
	copy(out, entries[start:])
	return out
}

// Analytics aggregates the last DefaultHistoryLimit requests of a session
func (h *RequestHistory) Analytics(sessionID string) Analytics {
	entries := h.History(sessionID, DefaultHistoryLimit)
	if len(entries) == 0 {
		return Analytics{HasData: false}
	}

	a := Analytics{
		HasData:       true,
		TotalRequests: len(entries),
		SessionStart:  entries[0].Timestamp,
		LastActivity:  entries[len(entries)-1].Timestamp,
	}

	var totalMillis int64
	categories := newCounter()
	locations := newCounter()
	for _, e := range entries {
		if e.Response.Success {
			a.SuccessfulRequests++
		}
		if e.Performance.CacheHit {
			a.CacheHits++
		}
		totalMillis += e.Performance.ResponseTimeMillis
		categories.add(string(e.Response.Category))
		locations.add(e.Response.Location)
	}

	a.SuccessRate = percent(a.SuccessfulRequests, a.TotalRequests)
	a.CacheHitRate = percent(a.CacheHits, a.TotalRequests)
	a.AvgResponseTimeMillis = math.Round(float64(totalMillis) / float64(a.TotalRequests))
	a.Categories = categories.sorted()
	a.Locations = locations.sorted()
	return a
}

// ClearSession drops a session's history
func (h *RequestHistory) ClearSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sessionID]; ok {
		delete(h.sessions, sessionID)
		internal.LogInfo("Cleared history for session: %s", sessionID)
	}
}

// Totals returns session, request and cache hit counts across all sessions
func (h *RequestHistory) Totals() (sessions, requests, cacheHits int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, entries := range h.sessions {
		requests += len(entries)
		for _, e := range entries {
			if e.Performance.CacheHit {
				cacheHits++
			}
		}
	}
	return len(h.sessions), requests, cacheHits
}

// Stats is the global cache and history overview
type Stats struct {
	CacheSize          int     `json:"cacheSize"`
	MaxCacheSize       int     `json:"maxCacheSize"`
	TotalSessions      int     `json:"totalSessions"`
	TotalRequests      int     `json:"totalRequests"`
	TotalCacheHits     int     `json:"totalCacheHits"`
	GlobalCacheHitRate float64 `json:"globalCacheHitRate"`
}

// CombinedStats reports cache occupancy together with request totals
func CombinedStats(c *ResponseCache, h *RequestHistory) Stats {
	sessions, requests, hits := h.Totals()
	return Stats{
		CacheSize:          c.Len(),
		MaxCacheSize:       c.MaxSize(),
		TotalSessions:      sessions,
		TotalRequests:      requests,
		TotalCacheHits:     hits,
		GlobalCacheHitRate: percent(hits, requests),
	}
}

// percent rounds part/total to one decimal place
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if name == "" {
		name = "unknown"
	}
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// sorted orders by count descending, keeping first-seen order for ties
func (c *counter) sorted() []Count {
	out := make([]Count, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Count{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
