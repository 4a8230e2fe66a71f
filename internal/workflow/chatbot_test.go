package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/keywords"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/memory"
	"github.com/iksnae/tourmate/testutil"
)

func newTestChatbot(t *testing.T, results int) (*Chatbot, *memory.Store, *testutil.FakeAgent, *testutil.FakeSearcher) {
	t.Helper()
	store := memory.NewStore()
	agent := testutil.NewFakeAgent()
	searcher := testutil.NewFakeSearcher(results)
	return NewChatbot(store, agent, searcher), store, agent, searcher
}

func TestChatbot_Chat(t *testing.T) {
	bot, store, agent, searcher := newTestChatbot(t, 3)

	reply := bot.Chat(context.Background(), "Phở ngon ở Hà Nội", nil, "s1")

	assert.True(t, reply.Success)
	assert.Empty(t, reply.Error)
	assert.Equal(t, agent.Response, reply.Response)
	assert.Equal(t, internal.CategoryFood, reply.Metadata.Category)
	assert.Equal(t, "Hà Nội", reply.Metadata.Location)
	assert.Equal(t, 3, reply.Metadata.SearchResultsCount)
	assert.False(t, reply.Metadata.NeedsMoreInfo)
	assert.Equal(t, 2, reply.Metadata.ConversationLength)
	assert.False(t, reply.Metadata.ContextUsed)
	assert.False(t, reply.Metadata.FollowUpDetected)
	assert.Equal(t, "s1", reply.Metadata.SessionID)

	require.Len(t, searcher.Calls, 1)
	assert.Equal(t, "best pho Hanoi", searcher.Calls[0].Query)
	assert.Equal(t, internal.CategoryFood, searcher.Calls[0].Category)

	msgs := store.RecentContext("s1", 10)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser)
	assert.False(t, msgs[1].IsUser)
	assert.Equal(t, "Hà Nội", msgs[1].Metadata.Location)
	assert.Equal(t, 3, msgs[1].Metadata.SearchResultsCount)
}

func TestChatbot_CannedAnswers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		response string
		canned   string
	}{
		{"non travel", llm.ErrNotTravelRelated, nonTravelMessage, CannedNonTravel},
		{"unclear", errors.New("model returned garbage"), unclearMessage, CannedUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, _, agent, searcher := newTestChatbot(t, 3)
			agent.AnalyzeErr = tt.err

			reply := bot.Chat(context.Background(), "2+2 bằng mấy?", nil, "s1")

			assert.True(t, reply.Success)
			assert.Equal(t, tt.response, reply.Response)
			assert.Equal(t, tt.canned, reply.Metadata.Canned)
			assert.Zero(t, searcher.CallCount())
			assert.Empty(t, agent.SimpleCalls)
		})
	}
}

func TestChatbot_CollaboratorFailures(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		bot, _, agent, searcher := newTestChatbot(t, 3)
		searcher.Err = errors.New("connection reset")

		reply := bot.Chat(context.Background(), "Khách sạn ở Huế", nil, "s1")

		assert.False(t, reply.Success)
		assert.Equal(t, fallbackMessage, reply.Response)
		assert.Contains(t, reply.Error, StageSearch)
		assert.Empty(t, agent.ResponseCalls)
		assert.Zero(t, reply.Metadata.SearchResultsCount)
	})

	t.Run("generate", func(t *testing.T) {
		bot, _, agent, _ := newTestChatbot(t, 3)
		agent.ResponseErr = errors.New("quota exceeded")

		reply := bot.Chat(context.Background(), "Phở ngon ở Hà Nội", nil, "s1")

		assert.False(t, reply.Success)
		assert.Equal(t, generateFailedMessage, reply.Response)
		assert.Contains(t, reply.Error, "quota exceeded")
	})
}

func TestChatbot_GenerationBranches(t *testing.T) {
	t.Run("no search needed", func(t *testing.T) {
		bot, _, agent, searcher := newTestChatbot(t, 3)
		agent.Analysis = llm.Analysis{Category: internal.CategoryGeneral, Intent: "greeting", Keywords: []string{"xin chào"}, Urgency: "low"}

		reply := bot.Chat(context.Background(), "Xin chào", nil, "s1")

		assert.Equal(t, agent.SimpleResponse, reply.Response)
		assert.Equal(t, []string{"Xin chào"}, agent.SimpleCalls)
		assert.Zero(t, searcher.CallCount())
		assert.True(t, reply.Metadata.NeedsMoreInfo)
	})

	t.Run("empty search results", func(t *testing.T) {
		bot, _, agent, _ := newTestChatbot(t, 0)

		reply := bot.Chat(context.Background(), "Phở ngon ở Hà Nội", nil, "s1")

		assert.True(t, reply.Success)
		assert.Equal(t, agent.SimpleResponse+noResultsDisclaimer, reply.Response)
		assert.Empty(t, agent.ResponseCalls)
	})

	t.Run("empty generated text", func(t *testing.T) {
		bot, _, agent, _ := newTestChatbot(t, 3)
		agent.Response = ""

		reply := bot.Chat(context.Background(), "Phở ngon ở Hà Nội", nil, "s1")

		assert.Equal(t, noResponseMessage, reply.Response)
	})
}

func TestChatbot_BudgetFollowUp(t *testing.T) {
	const attractions = "1. Vườn Quốc gia Cát Tiên\n2. Hồ Trị An"
	const budgetAnswer = "Với 2 triệu bạn có thể đi Cát Tiên 2 ngày."

	// setup scripts the attractions turn and returns the agent and searcher
	// ready for the budget turn.
	setup := func(t *testing.T, results int) (*Chatbot, *testutil.FakeAgent, *testutil.FakeSearcher) {
		t.Helper()
		bot, _, agent, searcher := newTestChatbot(t, results)
		agent.Analysis = llm.Analysis{
			Category:    internal.CategoryAttractions,
			Location:    "Đồng Nai",
			Intent:      "attraction_info",
			Keywords:    []string{"địa điểm", "du lịch"},
			SearchQuery: "Dong Nai attractions",
		}
		agent.Response = attractions
		agent.SimpleResponse = attractions

		first := bot.Chat(context.Background(), "Tôi cần 2 địa điểm du lịch ở Đồng Nai", nil, "S1")
		require.True(t, first.Success)

		agent.Response = budgetAnswer
		agent.SimpleResponse = budgetAnswer
		return bot, agent, searcher
	}

	assertBudgetTurn := func(t *testing.T, reply internal.Reply, agent *testutil.FakeAgent, searcher *testutil.FakeSearcher, prompt string) {
		t.Helper()
		assert.True(t, reply.Success)
		assert.True(t, reply.Metadata.FollowUpDetected)
		assert.Equal(t, keywords.FollowUpBudget, reply.Metadata.FollowUpType)
		assert.Equal(t, internal.CategoryBudget, reply.Metadata.Category)
		assert.Equal(t, "Đồng Nai", reply.Metadata.Location)
		assert.True(t, reply.Metadata.ContextUsed)
		assert.Equal(t, budgetAnswer, reply.Response, "budget answers carry no disclaimer")

		assert.Len(t, agent.AnalyzeCalls, 1, "budget follow-up must not call the analyzer")
		require.Len(t, searcher.Calls, 2)
		assert.True(t, strings.HasPrefix(searcher.Calls[1].Query, "Đồng Nai travel budget itinerary"))

		assert.Contains(t, prompt, "travel destinations and attractions in Đồng Nai")
		assert.Contains(t, prompt, "Budget amount: 2 triệu")
		assert.Contains(t, prompt, "Vườn Quốc gia Cát Tiên")
	}

	t.Run("search results feed the budget answer", func(t *testing.T) {
		bot, agent, searcher := setup(t, 3)
		require.Len(t, agent.ResponseCalls, 1)
		simpleBefore := len(agent.SimpleCalls)

		reply := bot.Chat(context.Background(), "tôi có ngân sách 2 triệu", nil, "S1")

		require.Len(t, agent.ResponseCalls, 2)
		require.Len(t, agent.ResultsSeen[1], 3)
		assert.Equal(t, searcher.Results, agent.ResultsSeen[1])
		assert.Len(t, agent.SimpleCalls, simpleBefore, "results present, simple path unused")
		assert.Equal(t, 3, reply.Metadata.SearchResultsCount)
		assertBudgetTurn(t, reply, agent, searcher, agent.ResponseCalls[1])
	})

	t.Run("no results falls back to a simple answer", func(t *testing.T) {
		bot, agent, searcher := setup(t, 0)
		require.Len(t, agent.SimpleCalls, 1)

		reply := bot.Chat(context.Background(), "tôi có ngân sách 2 triệu", nil, "S1")

		assert.Empty(t, agent.ResponseCalls)
		require.Len(t, agent.SimpleCalls, 2)
		assert.NotContains(t, reply.Response, noResultsDisclaimer)
		assertBudgetTurn(t, reply, agent, searcher, agent.SimpleCalls[1])
	})
}

func TestChatbot_History(t *testing.T) {
	bot, _, agent, _ := newTestChatbot(t, 3)
	external := []llm.Turn{{Role: llm.RoleUser, Content: "Tôi ở Sài Gòn"}}

	reply := bot.Chat(context.Background(), "Phở ngon ở đâu?", external, "s1")
	assert.True(t, reply.Metadata.ContextUsed)
	assert.Equal(t, external, agent.HistorySeen[0])

	bot.Chat(context.Background(), "Còn gì khác không?", external, "s1")
	stored := agent.HistorySeen[1]
	require.Len(t, stored, 2)
	assert.Equal(t, llm.Turn{Role: llm.RoleUser, Content: "Phở ngon ở đâu?"}, stored[0])
	assert.Equal(t, llm.RoleAssistant, stored[1].Role)
}

func TestChatbot_ResponseMetadataExtraction(t *testing.T) {
	bot, store, agent, _ := newTestChatbot(t, 3)
	agent.Response = "Lịch trình 3 ngày giá rẻ cho gia đình ở Hà Nội."

	bot.Chat(context.Background(), "Lịch trình Hà Nội", nil, "s1")

	msgs := store.RecentContext("s1", 2)
	require.Len(t, msgs, 2)
	meta := msgs[1].Metadata
	assert.Equal(t, "3 ngày", meta.Duration)
	assert.Equal(t, keywords.BudgetLow, meta.Budget)
	assert.Equal(t, "gia đình", meta.GroupType)
	assert.Equal(t, "food", meta.Topic)
}

func TestChatbot_RecoversFromPanic(t *testing.T) {
	bot, _, agent, _ := newTestChatbot(t, 3)
	agent.PanicOnAnalyze = true

	reply := bot.Chat(context.Background(), "Phở ngon ở Hà Nội", nil, "s1")

	assert.False(t, reply.Success)
	assert.Equal(t, panicMessage, reply.Response)
	assert.Equal(t, "analyzer exploded", reply.Metadata.Error)
}
