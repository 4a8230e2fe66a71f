package internal

// Session is an exportable snapshot of one in-memory conversation
type Session struct {
	ID       string    `json:"id" yaml:"id"`
	Source   string    `json:"source" yaml:"source"` // "memory"
	Messages []Message `json:"messages" yaml:"messages"`
	Metadata Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Message is a snapshot of a single exchange entry
type Message struct {
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp  string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Actor      string            `json:"actor" yaml:"actor"` // "user", "assistant"
	Content    string            `json:"content" yaml:"content"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Metadata contains additional session information
type Metadata struct {
	CreatedAt    string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	MessageCount int    `json:"message_count" yaml:"message_count"`
}

const (
	ActorUser      = "user"
	ActorAssistant = "assistant"
)
