package internal

import (
	"time"
)

// CreateTestSession creates a test session with sample data
func CreateTestSession(id string) *Session {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Session{
		ID:     id,
		Source: "memory",
		Messages: []Message{
			{
				ID:        id + "-1",
				Actor:     ActorUser,
				Content:   "Phở ngon ở Hà Nội?",
				Timestamp: now,
			},
			{
				ID:        id + "-2",
				Actor:     ActorAssistant,
				Content:   "Phở Thìn ở 13 Lò Đúc là lựa chọn tuyệt vời.",
				Timestamp: now,
				Attributes: map[string]string{
					"category": string(CategoryFood),
					"location": "Hà Nội",
				},
			},
		},
		Metadata: Metadata{
			CreatedAt:    now,
			UpdatedAt:    now,
			MessageCount: 2,
		},
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id string, messages []Message) *Session {
	return &Session{
		ID:       id,
		Source:   "memory",
		Messages: messages,
		Metadata: Metadata{
			MessageCount: len(messages),
		},
	}
}
