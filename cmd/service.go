package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/assistant"
	"github.com/iksnae/tourmate/internal/llm"
	"github.com/iksnae/tourmate/internal/search"
	"github.com/spf13/cobra"
)

// flagBindings maps config keys to the command flags that override them
var flagBindings = map[string]string{
	"gemini.model":       "model",
	"tavily.max_results": "max-results",
	"server.addr":        "addr",
}

// newCollaborators builds the LLM and search clients. Tests replace it.
var newCollaborators = func(ctx context.Context, cfg *internal.Config) (llm.Agent, search.Searcher, error) {
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing credentials: %s (set them in the environment or a .env file)", strings.Join(missing, ", "))
	}
	agent, err := llm.NewGemini(ctx, cfg.Gemini)
	if err != nil {
		return nil, nil, err
	}
	return agent, search.NewTavily(cfg.Tavily), nil
}

func loadConfig(cmd *cobra.Command) (*internal.Config, error) {
	path := configPath
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	return internal.LoadConfig(path, cmd.Flags(), flagBindings)
}

// buildService loads config and wires the assistant. The caller owns Start
// and Shutdown.
func buildService(cmd *cobra.Command) (*assistant.Service, *internal.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	agent, searcher, err := newCollaborators(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return assistant.New(cfg, agent, searcher), cfg, nil
}

func addCollaboratorFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Gemini model (default from config)")
	cmd.Flags().Int("max-results", 0, "Search results per query (default from config)")
}
