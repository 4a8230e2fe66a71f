package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/tourmate/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	archivePath string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tourmate",
	Short: "Vietnamese travel assistant chatbot",
	Long: `TourMate answers travel questions in Vietnamese: food, hotels,
attractions, weather, transport, budgets, safety and itineraries.

It remembers the last few exchanges of each conversation, notices
follow-up questions ("còn gì khác?", "tôi có ngân sách 2 triệu") and
caches repeated questions.

Features:
  • Interactive chat with conversation memory
  • HTTP API for web clients
  • Live web search through Tavily, answers written by Gemini
  • Session export (JSON, JSONL, YAML, Markdown) and a SQLite archive

Quick Start:
  tourmate chat                              # Start chatting
  tourmate ask "Phở ngon ở Hà Nội?"          # One-shot question
  tourmate serve --addr :5000                # Run the HTTP API
  tourmate list                              # List archived sessions

Credentials are read from GEMINI_API_KEY and TAVILY_API_KEY (or a .env file).`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $HOME/.tourmate.yaml)")
	rootCmd.PersistentFlags().StringVar(&archivePath, "archive", "tourmate.db", "SQLite archive for exported sessions")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
