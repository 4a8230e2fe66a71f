package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/export"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions",
	Long:  `List the chat sessions saved in the SQLite archive (see --archive).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := loadArchived(cmd.Context(), archivePath)
		if err != nil {
			return err
		}
		displaySessions(cmd.OutOrStdout(), sessions, time.Now())
		return nil
	},
}

// loadArchived reads every session in the archive at path
func loadArchived(ctx context.Context, path string) ([]*internal.Session, error) {
	archive, err := export.OpenArchive(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	ids, err := archive.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]*internal.Session, 0, len(ids))
	for _, id := range ids {
		session, err := archive.Load(ctx, id)
		if err != nil {
			internal.LogWarn("Skipping session %s: %v", id, err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func displaySessions(out io.Writer, sessions []*internal.Session, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No archived sessions"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("First message")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last activity")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, session := range sessions {
		first := "(empty)"
		for _, msg := range session.Messages {
			if msg.Actor == internal.ActorUser {
				first = internal.Preview(msg.Content, 40)
				break
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(session.ID),
			first,
			countStyle.Render(strconv.Itoa(len(session.Messages))),
			dateStyle.Render(relativeTime(session.Metadata.UpdatedAt, now)),
		)
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use `tourmate show "+sessions[0].ID+"` to read a session"))
}

// relativeTime formats an RFC3339 timestamp relative to now
func relativeTime(stamp string, now time.Time) string {
	if stamp == "" {
		return "—"
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
