package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/export"
	"github.com/spf13/cobra"
)

const pingTimeout = 10 * time.Second

var (
	checkPassStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	checkWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	checkFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	checkStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	checkSectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("62")).
				Bold(true).
				Underline(true)
)

// pinger is implemented by collaborators that can verify their credentials
type pinger interface {
	Ping(ctx context.Context) error
}

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, credentials and collaborator access",
	Long: `Check the health of tourmate by verifying:
  • Configuration loading and validation
  • Gemini and Tavily credentials
  • Gemini API reachability
  • Tavily API reachability
  • SQLite archive access`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, checkSectionStyle.Render("🔍 TourMate Health Check"))
		fmt.Fprintln(out)

		failed := 0

		// Step 1: Configuration
		fmt.Fprintln(out, checkStepStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintln(out, checkFailStyle.Render("❌ Failed to load configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, checkPassStyle.Render("✅ Configuration loaded"))
		if verbose {
			fmt.Fprintf(out, "   Model: %s\n", cfg.Gemini.Model)
			fmt.Fprintf(out, "   Search: %s (%d results)\n", cfg.Tavily.BaseURL, cfg.Tavily.MaxResults)
			fmt.Fprintf(out, "   Listen: %s\n", cfg.Server.Addr)
		}
		fmt.Fprintln(out)

		// Step 2: Credentials
		fmt.Fprintln(out, checkStepStyle.Render("Step 2: Checking credentials..."))
		if missing := cfg.MissingCredentials(); len(missing) > 0 {
			fmt.Fprintln(out, checkFailStyle.Render("❌ Missing: "+strings.Join(missing, ", ")))
			fmt.Fprintln(out, "   Set them in the environment or in a .env file")
			return fmt.Errorf("health check failed: missing credentials")
		}
		fmt.Fprintln(out, checkPassStyle.Render("✅ Credentials present"))
		fmt.Fprintln(out)

		agent, searcher, err := newCollaborators(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintln(out, checkFailStyle.Render("❌ Failed to create clients:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}

		// Step 3 and 4: Collaborators
		if !checkPing(cmd.Context(), out, "Step 3: Contacting Gemini...", "Gemini", agent) {
			failed++
		}
		if !checkPing(cmd.Context(), out, "Step 4: Contacting Tavily...", "Tavily", searcher) {
			failed++
		}

		// Step 5: Archive
		fmt.Fprintln(out, checkStepStyle.Render("Step 5: Checking session archive..."))
		if _, statErr := os.Stat(archivePath); os.IsNotExist(statErr) {
			fmt.Fprintln(out, checkWarnStyle.Render("⚠️  No archive yet at "+archivePath))
			fmt.Fprintln(out, "   It is created the first time a session is archived")
		} else if archive, err := export.OpenArchive(cmd.Context(), archivePath); err != nil {
			fmt.Fprintln(out, checkFailStyle.Render("❌ Cannot open archive:"), err)
			failed++
		} else {
			ids, err := archive.Sessions(cmd.Context())
			_ = archive.Close()
			if err != nil {
				fmt.Fprintln(out, checkFailStyle.Render("❌ Cannot read archive:"), err)
				failed++
			} else {
				fmt.Fprintln(out, checkPassStyle.Render(fmt.Sprintf("✅ Archive holds %d session(s)", len(ids))))
			}
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, checkSectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if failed > 0 {
			fmt.Fprintln(out, checkFailStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", failed)))
			return fmt.Errorf("health check failed: %d problem(s)", failed)
		}
		fmt.Fprintln(out, checkPassStyle.Render("✅ Health check passed!"))
		return nil
	},
}

// checkPing reports one collaborator step. Clients without Ping are skipped.
func checkPing(ctx context.Context, out io.Writer, step, name string, client interface{}) bool {
	fmt.Fprintln(out, checkStepStyle.Render(step))
	defer fmt.Fprintln(out)

	p, ok := client.(pinger)
	if !ok {
		fmt.Fprintln(out, checkWarnStyle.Render(fmt.Sprintf("⚠️  %s client cannot be pinged, skipped", name)))
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		fmt.Fprintln(out, checkFailStyle.Render(fmt.Sprintf("❌ %s unreachable:", name)), err)
		return false
	}
	fmt.Fprintln(out, checkPassStyle.Render(fmt.Sprintf("✅ %s reachable", name)))
	if verbose {
		fmt.Fprintf(out, "   Round trip: %s\n", time.Since(start).Round(time.Millisecond))
	}
	internal.LogDebug("%s ping ok", name)
	return true
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
