// Package assistant assembles the chat core into one service object that the
// CLI and the HTTP layer share.
package assistant

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/cache"
	"github.com/iksnae/tourmate/internal/export"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/memory"
	"github.com/iksnae/tourmate/internal/search"
	"github.com/iksnae/tourmate/internal/workflow"
)

// EmptyMessageError is the user-facing text for blank input
const EmptyMessageError = "Vui lòng cung cấp tin nhắn."

// ChatRequest is one inbound chat message
type ChatRequest struct {
	Message   string     `json:"message"`
	History   []llm.Turn `json:"history,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
}

// Stats combines cache, history and memory usage
type Stats struct {
	cache.Stats
	Memory memory.Stats `json:"memory"`
}

// Service owns the session store, the response cache, request history and
// their sweepers. Build one with New, call Start, and Shutdown when done.
type Service struct {
	store   *memory.Store
	cache   *cache.ResponseCache
	history *cache.RequestHistory
	chatbot *workflow.Chatbot
	now     func() time.Time

	sessionJanitor *internal.Janitor
	cacheJanitor   *internal.Janitor

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Option configures a Service
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now in every component, for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New wires a service from config and the two collaborators
func New(cfg *internal.Config, agent llm.Agent, searcher search.Searcher, opts ...Option) *Service {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	store := memory.NewStore(
		memory.WithMaxMessages(cfg.Memory.MaxMessages),
		memory.WithSessionTimeout(cfg.Memory.SessionTimeout),
		memory.WithContextWindow(cfg.Memory.ContextWindow),
		memory.WithClock(o.now),
	)
	responses := cache.New(
		cache.WithMaxSize(cfg.Cache.MaxSize),
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithClock(o.now),
	)

	return &Service{
		store:          store,
		cache:          responses,
		history:        cache.NewHistory(cfg.Cache.MaxHistoryPerSession, o.now),
		chatbot:        workflow.NewChatbot(store, agent, searcher),
		now:            o.now,
		sessionJanitor: internal.NewJanitor("session sweeper", cfg.Memory.CleanupInterval, store.CleanupExpired),
		cacheJanitor:   internal.NewJanitor("cache sweeper", cfg.Cache.CleanupInterval, responses.CleanupExpired),
	}
}

// Start launches the session and cache sweepers. Starting twice is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for _, j := range []*internal.Janitor{s.sessionJanitor, s.cacheJanitor} {
		g.Go(func() error { return j.Run(gctx) })
	}
	s.cancel, s.group = cancel, g
	internal.LogDebug("Assistant service started")
}

// Shutdown stops the sweepers and waits for them to exit
func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return nil
	}
	s.cancel()
	err := s.group.Wait()
	s.cancel, s.group = nil, nil
	internal.LogDebug("Assistant service stopped")
	return err
}

// Running reports whether both sweepers are active
func (s *Service) Running() bool {
	return s.sessionJanitor.IsRunning() && s.cacheJanitor.IsRunning()
}

// NewSessionID generates an ID for clients that did not send one
func NewSessionID() string {
	return "web_" + shortuuid.New()
}

// Chat answers one message, serving repeats from the response cache
func (s *Service) Chat(ctx context.Context, req ChatRequest) internal.Reply {
	start := s.now()

	if strings.TrimSpace(req.Message) == "" {
		internal.LogDebug("Rejected chat for session %q: %v", req.SessionID, internal.ErrEmptyMessage)
		return internal.Reply{Success: false, Error: EmptyMessageError}
	}
	if req.SessionID == "" {
		req.SessionID = NewSessionID()
	}

	lookup := cache.Lookup{Location: s.store.Summarize(req.SessionID).PrimaryLocation}

	if cached, ok := s.cache.Get(req.Message, lookup); ok {
		s.store.AddMessage(req.SessionID, req.Message, true, memory.Metadata{})
		s.store.AddMessage(req.SessionID, cached.Response, false, memory.FromReply(cached))
		cached.Metadata.SessionID = req.SessionID
		cached.Metadata.ConversationLength = s.store.MessageCount(req.SessionID)
		cached.Metadata.ResponseTimeMillis = s.now().Sub(start).Milliseconds()
		s.history.Add(req.SessionID, req.Message, cached, s.now().Sub(start))
		return cached
	}

	reply := s.chatbot.Chat(ctx, req.Message, req.History, req.SessionID)
	elapsed := s.now().Sub(start)
	reply.Metadata.ResponseTimeMillis = elapsed.Milliseconds()

	s.cache.Put(req.Message, lookup, reply)
	s.history.Add(req.SessionID, req.Message, reply, elapsed)
	return reply
}

// Stats reports cache, history and memory usage
func (s *Service) Stats() Stats {
	return Stats{
		Stats:  cache.CombinedStats(s.cache, s.history),
		Memory: s.store.Stats(),
	}
}

// ClearCache drops cached replies whose key contains pattern, or all of them
func (s *Service) ClearCache(pattern string) int {
	return s.cache.Clear(pattern)
}

// SessionHistory returns the most recent request records for a session
func (s *Service) SessionHistory(sessionID string, limit int) []cache.HistoryEntry {
	return s.history.History(sessionID, limit)
}

// SessionAnalytics summarizes a session's recent requests
func (s *Service) SessionAnalytics(sessionID string) cache.Analytics {
	return s.history.Analytics(sessionID)
}

// ClearSession forgets a session's messages and request history
func (s *Service) ClearSession(sessionID string) {
	s.store.ClearSession(sessionID)
	s.history.ClearSession(sessionID)
}

// Sessions lists the sessions currently held in memory
func (s *Service) Sessions() []string {
	return s.store.Sessions()
}

// ExportSession writes a session in a streamed format and returns the
// exporter used, so callers can pick a file extension or content type.
func (s *Service) ExportSession(sessionID, format string, w io.Writer) (export.Exporter, error) {
	exporter, err := export.NewExporter(format)
	if err != nil {
		return nil, err
	}
	session, err := s.store.Export(sessionID)
	if err != nil {
		return nil, err
	}
	if err := exporter.Export(session, w); err != nil {
		return nil, &internal.ExportError{Format: format, Err: err}
	}
	return exporter, nil
}

// ArchiveSession saves a session into the SQLite archive at path
func (s *Service) ArchiveSession(ctx context.Context, sessionID, path string) error {
	session, err := s.store.Export(sessionID)
	if err != nil {
		return err
	}
	archive, err := export.OpenArchive(ctx, path)
	if err != nil {
		return err
	}
	defer archive.Close()
	return archive.Save(ctx, session)
}

// Sweep runs both sweepers once and reports what they removed
func (s *Service) Sweep() (sessions, entries int) {
	return s.sessionJanitor.SweepNow(), s.cacheJanitor.SweepNow()
}
