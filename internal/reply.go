package internal

import "time"

// Reply is what the chat surface returns for every message, success or not
type Reply struct {
	Response string        `json:"response"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Metadata ReplyMetadata `json:"metadata"`
}

// ReplyMetadata describes how a reply was produced
type ReplyMetadata struct {
	SessionID          string    `json:"sessionId,omitempty"`
	Category           Category  `json:"category,omitempty"`
	Location           string    `json:"location,omitempty"`
	SearchResultsCount int       `json:"searchResultsCount"`
	NeedsMoreInfo      bool      `json:"needsMoreInfo"`
	ConversationLength int       `json:"conversationLength"`
	FollowUpDetected   bool      `json:"followUpDetected"`
	FollowUpType       string    `json:"followUpType,omitempty"`
	ContextUsed        bool      `json:"contextUsed"`
	Canned             string    `json:"canned,omitempty"` // "non_travel_query", "unclear_query"
	Cached             bool      `json:"cached,omitempty"`
	CacheTimestamp     time.Time `json:"cacheTimestamp,omitzero"`
	ResponseTimeMillis int64     `json:"responseTime,omitempty"`
	Error              string    `json:"error,omitempty"`
}

// WithCacheInfo returns a copy of the reply marked as served from cache
func (r Reply) WithCacheInfo(storedAt time.Time) Reply {
	r.Metadata.Cached = true
	r.Metadata.CacheTimestamp = storedAt
	return r
}
