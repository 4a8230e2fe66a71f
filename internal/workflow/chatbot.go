package workflow

import (
	"context"
	"fmt"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/memory"
	"github.com/iksnae/tourmate/internal/search"
)

// Chatbot runs one conversation turn: it reads session context, runs the
// pipeline and records the exchange.
type Chatbot struct {
	store    *memory.Store
	pipeline *Pipeline
}

// NewChatbot creates a chatbot over a session store and its collaborators
func NewChatbot(store *memory.Store, agent llm.Agent, searcher search.Searcher) *Chatbot {
	return &Chatbot{
		store:    store,
		pipeline: newTravelPipeline(agent, searcher),
	}
}

// Chat answers message within sessionID. history is only used when the
// session has no stored messages yet. Chat never returns an error; every
// failure becomes a reply with Success false.
func (c *Chatbot) Chat(ctx context.Context, message string, history []llm.Turn, sessionID string) (reply internal.Reply) {
	defer func() {
		if r := recover(); r != nil {
			internal.LogError("Chat panicked for session %s: %v", sessionID, r)
			reply = internal.Reply{
				Response: panicMessage,
				Success:  false,
				Metadata: internal.ReplyMetadata{
					SessionID: sessionID,
					Error:     fmt.Sprint(r),
				},
			}
		}
	}()

	recent := c.store.RecentContext(sessionID, c.store.ContextWindow())
	summary := c.store.Summarize(sessionID)
	followUp := memory.Classify(summary, message)
	if followUp.IsFollowUp {
		internal.LogDebug("Follow-up detected in %s: %s (confidence %d)", sessionID, followUp.Type, followUp.Confidence)
	}

	c.store.AddMessage(sessionID, message, true, memory.Metadata{})

	turns := toTurns(recent)
	if len(turns) == 0 {
		turns = history
	}

	final, trail := c.pipeline.Run(ctx, State{
		Query:     message,
		SessionID: sessionID,
		History:   turns,
		Summary:   summary,
		FollowUp:  followUp,
	})
	internal.LogDebug("Session %s ran %v", sessionID, trail)

	response := final.FinalResponse
	if response == "" {
		response = noResponseMessage
	}

	a := final.Analysis
	reply = internal.Reply{
		Response: response,
		Success:  final.Failure == "",
		Error:    final.Failure,
		Metadata: internal.ReplyMetadata{
			SessionID:          sessionID,
			Category:           a.Category,
			Location:           a.Location,
			SearchResultsCount: len(final.Results),
			NeedsMoreInfo:      final.NeedsMoreInfo,
			FollowUpDetected:   followUp.IsFollowUp,
			FollowUpType:       followUp.Type,
			ContextUsed:        len(turns) > 0,
			Canned:             final.Canned,
		},
	}
	c.store.AddMessage(sessionID, response, false, memory.FromReply(reply))
	reply.Metadata.ConversationLength = c.store.MessageCount(sessionID)
	return reply
}

func toTurns(messages []memory.Message) []llm.Turn {
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleAssistant
		if m.IsUser {
			role = llm.RoleUser
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Text})
	}
	return turns
}
