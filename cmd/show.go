package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/export"
	"github.com/spf13/cobra"
)

var (
	limit int
	since string
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show messages of an archived session",
	Long:  `Display the messages of a session saved in the SQLite archive.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := export.OpenArchive(cmd.Context(), archivePath)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()

		session, err := archive.Load(cmd.Context(), args[0])
		if errors.Is(err, internal.ErrSessionNotFound) {
			return fmt.Errorf("session not found: %s (use 'tourmate list' to see archived sessions)", args[0])
		}
		if err != nil {
			return err
		}

		messages, err := filterMessages(session.Messages, since)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		displaySessionHeader(out, session)

		total := len(messages)
		if limit > 0 && limit < total {
			messages = messages[:limit]
		}
		for i, msg := range messages {
			displayMessage(out, i+1, msg, total)
		}
		if limit > 0 && limit < total {
			fmt.Fprintln(out)
			fmt.Fprintln(out, timestampStyle.Render(fmt.Sprintf("... (%d more message(s))", total-limit)))
		}
		return nil
	},
}

// filterMessages keeps messages at or after the RFC3339 timestamp since
func filterMessages(messages []internal.Message, since string) ([]internal.Message, error) {
	if since == "" {
		return messages, nil
	}
	from, err := time.Parse(time.RFC3339, since)
	if err != nil {
		return nil, fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
	}
	filtered := make([]internal.Message, 0, len(messages))
	for _, msg := range messages {
		t, err := time.Parse(time.RFC3339, msg.Timestamp)
		if err == nil && !t.Before(from) {
			filtered = append(filtered, msg)
		}
	}
	return filtered, nil
}

func displaySessionHeader(out io.Writer, session *internal.Session) {
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", session.ID)))

	metaParts := []string{fmt.Sprintf("Messages: %d", len(session.Messages))}
	if session.Metadata.CreatedAt != "" {
		metaParts = append([]string{fmt.Sprintf("Started: %s", session.Metadata.CreatedAt)}, metaParts...)
	}
	if session.Source != "" {
		metaParts = append(metaParts, fmt.Sprintf("Source: %s", session.Source))
	}
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Actor {
	case internal.ActorUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 Bạn"
	case internal.ActorAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 TourMate"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", msg.Actor)
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if msg.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
			header += " " + timestampStyle.Render(t.Format("15:04:05"))
		} else {
			header += " " + timestampStyle.Render(msg.Timestamp)
		}
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	} else {
		fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	}

	if len(msg.Attributes) > 0 {
		keys := make([]string, 0, len(msg.Attributes))
		for k := range msg.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+msg.Attributes[k])
		}
		fmt.Fprintln(out, timestampStyle.Render("  "+strings.Join(parts, " · ")))
	}
	fmt.Fprintln(out)
}

// wrapText wraps lines longer than width runes at word boundaries
func wrapText(text string, width int) string {
	var wrapped []string
	for _, line := range strings.Split(text, "\n") {
		if len([]rune(line)) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		current := ""
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case len([]rune(current))+len([]rune(word))+1 > width:
				wrapped = append(wrapped, current)
				current = word
			default:
				current += " " + word
			}
		}
		if current != "" {
			wrapped = append(wrapped, current)
		}
	}
	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (RFC3339)")
}
