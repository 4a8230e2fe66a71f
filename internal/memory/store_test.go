package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/testutil"
)

func TestStore_AddMessageKeepsMostRecentSuffix(t *testing.T) {
	store := NewStore(WithMaxMessages(4))

	for i := 0; i < 10; i++ {
		store.AddMessage("s1", fmt.Sprintf("msg %d", i), i%2 == 0, Metadata{})
	}

	got := store.RecentContext("s1", 1000)
	require.Len(t, got, 4)
	for i, m := range got {
		assert.Equal(t, fmt.Sprintf("msg %d", 6+i), m.Text)
	}
	assert.Equal(t, 4, store.MessageCount("s1"))
}

func TestStore_RecentContext(t *testing.T) {
	store := NewStore()
	store.AddMessage("s1", "một", true, Metadata{})
	store.AddMessage("s1", "hai", false, Metadata{Location: "Huế"})
	store.AddMessage("s1", "ba", true, Metadata{})

	tests := []struct {
		name      string
		sessionID string
		n         int
		want      []string
	}{
		{"last two", "s1", 2, []string{"hai", "ba"}},
		{"more than available", "s1", 10, []string{"một", "hai", "ba"}},
		{"zero", "s1", 0, []string{}},
		{"unknown session", "nope", 5, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.RecentContext(tt.sessionID, tt.n)
			texts := make([]string, 0, len(got))
			for _, m := range got {
				texts = append(texts, m.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestStore_RecentContextReturnsCopy(t *testing.T) {
	store := NewStore()
	store.AddMessage("s1", "original", true, Metadata{})

	got := store.RecentContext("s1", 1)
	got[0].Text = "changed"

	assert.Equal(t, "original", store.RecentContext("s1", 1)[0].Text)
}

func TestStore_AddMessageAssignsIDs(t *testing.T) {
	store := NewStore()
	a := store.AddMessage("s1", "a", true, Metadata{})
	b := store.AddMessage("s1", "b", false, Metadata{})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.IsUser)
	assert.False(t, b.IsUser)
}

func TestStore_ClearSession(t *testing.T) {
	store := NewStore()
	store.AddMessage("s1", "xin chào", true, Metadata{})

	store.ClearSession("s1")
	assert.Empty(t, store.RecentContext("s1", 10))

	// Idempotent
	store.ClearSession("s1")
	store.ClearSession("never-existed")
	assert.Equal(t, 0, store.Stats().TotalSessions)
}

func TestStore_CleanupExpired(t *testing.T) {
	clock := testutil.NewClock()
	store := NewStore(WithSessionTimeout(30*time.Minute), WithClock(clock.Now))

	store.AddMessage("old", "hello", true, Metadata{})
	clock.Advance(20 * time.Minute)
	store.AddMessage("fresh", "hello", true, Metadata{})
	clock.Advance(11 * time.Minute)

	removed := store.CleanupExpired()
	assert.Equal(t, 1, removed)
	assert.Empty(t, store.RecentContext("old", 10))
	assert.Len(t, store.RecentContext("fresh", 10), 1)
	assert.Equal(t, []string{"fresh"}, store.Sessions())
}

func TestStore_ActivityExtendsSession(t *testing.T) {
	clock := testutil.NewClock()
	store := NewStore(WithSessionTimeout(10*time.Minute), WithClock(clock.Now))

	store.AddMessage("s1", "first", true, Metadata{})
	clock.Advance(8 * time.Minute)
	store.AddMessage("s1", "second", true, Metadata{})
	clock.Advance(8 * time.Minute)

	assert.Equal(t, 0, store.CleanupExpired())
	assert.Equal(t, 2, store.MessageCount("s1"))
}

func TestStore_Stats(t *testing.T) {
	clock := testutil.NewClock()
	store := NewStore(WithSessionTimeout(time.Minute), WithClock(clock.Now))

	store.AddMessage("a", "1", true, Metadata{})
	store.AddMessage("a", "2", false, Metadata{})
	clock.Advance(2 * time.Minute)
	store.AddMessage("b", "3", true, Metadata{})

	assert.Equal(t, Stats{TotalSessions: 2, ActiveSessions: 1, TotalMessages: 3}, store.Stats())
}

func TestStore_Export(t *testing.T) {
	clock := testutil.NewClock()
	store := NewStore(WithClock(clock.Now))

	store.AddMessage("s1", "Phở ở đâu ngon?", true, Metadata{})
	clock.Advance(time.Second)
	store.AddMessage("s1", "Phở Thìn", false, Metadata{
		Category:           internal.CategoryFood,
		Location:           "Hà Nội",
		SearchResultsCount: 3,
	})

	sess, err := store.Export("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, "memory", sess.Source)
	assert.Equal(t, 2, sess.Metadata.MessageCount)
	assert.Equal(t, "2025-03-01T09:00:00Z", sess.Metadata.CreatedAt)
	assert.Equal(t, "2025-03-01T09:00:01Z", sess.Metadata.UpdatedAt)

	require.Len(t, sess.Messages, 2)
	assert.Equal(t, internal.ActorUser, sess.Messages[0].Actor)
	assert.Nil(t, sess.Messages[0].Attributes)
	assert.Equal(t, internal.ActorAssistant, sess.Messages[1].Actor)
	assert.Equal(t, map[string]string{
		"category":       "food",
		"location":       "Hà Nội",
		"search_results": "3",
	}, sess.Messages[1].Attributes)

	_, err = store.Export("missing")
	assert.ErrorIs(t, err, internal.ErrSessionNotFound)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(WithMaxMessages(8))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", g%3)
			for i := 0; i < 50; i++ {
				store.AddMessage(id, "msg", i%2 == 0, Metadata{})
				_ = store.RecentContext(id, 4)
				_ = store.Summarize(id)
				_ = store.Stats()
			}
		}(g)
	}
	wg.Wait()

	for _, id := range store.Sessions() {
		assert.LessOrEqual(t, store.MessageCount(id), 8)
	}
}

func TestFromReply(t *testing.T) {
	reply := internal.Reply{
		Response: "Lịch trình 3 ngày giá rẻ cho cặp đôi ở Huế.",
		Success:  true,
		Metadata: internal.ReplyMetadata{
			Category:           internal.CategoryItinerary,
			Location:           "Huế",
			SearchResultsCount: 2,
			FollowUpDetected:   true,
			FollowUpType:       "timing",
		},
	}

	meta := FromReply(reply)

	assert.Equal(t, internal.CategoryItinerary, meta.Category)
	assert.Equal(t, "Huế", meta.Location)
	assert.Equal(t, "itinerary", meta.Topic)
	assert.Equal(t, "3 ngày", meta.Duration)
	assert.Equal(t, "cặp đôi", meta.GroupType)
	assert.NotEmpty(t, meta.Budget)
	assert.Equal(t, 2, meta.SearchResultsCount)
	assert.True(t, meta.FollowUp)
	assert.Equal(t, "timing", meta.FollowUpType)
}
