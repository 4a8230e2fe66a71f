package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/search"
)

func TestChatCommand_Conversation(t *testing.T) {
	agent, searcher := withFakes(t)
	archive := archiveIn(t)

	input := strings.Join([]string{
		"Phở ngon ở Hà Nội",
		"",
		"/stats",
		"/analytics",
		"/export md",
		"/archive",
		"/bogus",
		"/quit",
		"never read",
	}, "\n")
	out, err := run(t, input, "--archive", archive, "chat", "--session", "cli_test")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	for _, want := range []string{
		"session cli_test",
		agent.Response,
		"3 sources",
		`"totalRequests": 1`,
		"# Session cli_test",
		"Saved session cli_test to " + archive,
		"Unknown command /bogus",
		"Tạm biệt!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if searcher.CallCount() != 1 {
		t.Errorf("search calls = %d, want 1", searcher.CallCount())
	}
	if len(agent.AnalyzeCalls) != 1 {
		t.Errorf("analyze calls = %d, want 1", len(agent.AnalyzeCalls))
	}
}

func TestChatCommand_EOFEndsSession(t *testing.T) {
	withFakes(t)

	out, err := run(t, "/help\n/clear\n", "chat")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if !strings.Contains(out, "session cli_") {
		t.Errorf("expected a generated cli_ session ID in %q", out)
	}
	if !strings.Contains(out, "/archive") || !strings.Contains(out, "Session cleared.") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestChatCommand_CollaboratorError(t *testing.T) {
	original := newCollaborators
	newCollaborators = func(ctx context.Context, cfg *internal.Config) (llm.Agent, search.Searcher, error) {
		return nil, nil, errors.New("missing credentials: GEMINI_API_KEY")
	}
	t.Cleanup(func() { newCollaborators = original })

	_, err := run(t, "", "chat")
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("expected credential error, got %v", err)
	}
}
