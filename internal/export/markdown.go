package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iksnae/tourmate/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.ID)

	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", session.Source)
	if session.Metadata.CreatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", session.Metadata.CreatedAt)
	}
	if session.Metadata.UpdatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Last activity:** %s  \n", session.Metadata.UpdatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range session.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		// Assistant answers are already markdown; user text is escaped
		content := msg.Content
		if msg.Actor == internal.ActorUser {
			content = escapeMarkdown(content)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", speaker(msg.Actor), timestamp, content)

		if attrs := formatAttributes(msg.Attributes); attrs != "" {
			_, _ = fmt.Fprintf(w, "_%s_\n\n", attrs)
		}

		// Add horizontal rule after each message (except the last one)
		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func speaker(actor string) string {
	switch actor {
	case internal.ActorUser:
		return "User"
	case internal.ActorAssistant:
		return "TourMate"
	}
	return actor
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+attrs[k])
	}
	return strings.Join(parts, " · ")
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}
