package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/search"
	"github.com/iksnae/tourmate/testutil"
)

// withFakes swaps the real collaborators for scripted fakes for one test
func withFakes(t *testing.T) (*testutil.FakeAgent, *testutil.FakeSearcher) {
	t.Helper()
	agent := testutil.NewFakeAgent()
	searcher := testutil.NewFakeSearcher(3)
	original := newCollaborators
	newCollaborators = func(ctx context.Context, cfg *internal.Config) (llm.Agent, search.Searcher, error) {
		return agent, searcher, nil
	}
	t.Cleanup(func() { newCollaborators = original })
	return agent, searcher
}

// run executes rootCmd with args and stdin, returning stdout.
// Command flag variables are reset first since rootCmd is shared.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	limit, since = 0, ""
	format, outputDir, sessionID = "jsonl", "./exports", ""
	askJSON, chatSessionID = false, ""
	verbose = false

	dir := t.TempDir()
	base := []string{"--config", filepath.Join(dir, "missing.yaml")}
	rootCmd.SetArgs(append(base, args...))
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func archiveIn(t *testing.T) string {
	t.Helper()
	return filepath.Join(testutil.CreateTempDir(t), "tourmate.db")
}
