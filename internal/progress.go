package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ShowProgress runs fn while a spinner is drawn on stderr.
// Without a terminal fn simply runs.
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !IsTerminal(os.Stderr) {
		LogDebug("%s", message)
		return fn()
	}
	return showSpinner(ctx, os.Stderr, message, fn)
}

func showSpinner(ctx context.Context, w io.Writer, message string, fn func() error) error {
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(w, "\r%s %s", progressStyle.Render(frame), message)
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	blank := "\r" + strings.Repeat(" ", lipgloss.Width(message)+2) + "\r"
	select {
	case err := <-done:
		close(stop)
		<-spinnerDone
		fmt.Fprint(w, blank)
		return err
	case <-ctx.Done():
		close(stop)
		<-spinnerDone
		fmt.Fprint(w, blank)
		return ctx.Err()
	}
}

// IsTerminal reports whether w is a character device
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// FormatReply renders an assistant reply for the terminal
func FormatReply(r Reply, styled bool) string {
	var b strings.Builder
	if styled {
		b.WriteString(botStyle.Render("🤖 Bot:"))
	} else {
		b.WriteString("Bot:")
	}
	b.WriteString(" ")
	b.WriteString(r.Response)

	var tags []string
	if r.Metadata.Category != "" {
		tags = append(tags, string(r.Metadata.Category))
	}
	if r.Metadata.Location != "" {
		tags = append(tags, r.Metadata.Location)
	}
	if r.Metadata.FollowUpDetected {
		tags = append(tags, "follow-up:"+r.Metadata.FollowUpType)
	}
	if r.Metadata.Cached {
		tags = append(tags, "cached")
	}
	if r.Metadata.SearchResultsCount > 0 {
		tags = append(tags, fmt.Sprintf("%d sources", r.Metadata.SearchResultsCount))
	}
	if len(tags) > 0 {
		footer := "[" + strings.Join(tags, " · ") + "]"
		if styled {
			footer = metaStyle.Render(footer)
		}
		b.WriteString("\n")
		b.WriteString(footer)
	}
	return b.String()
}

// PrintReply prints an assistant reply to stdout
func PrintReply(r Reply) {
	fmt.Println(FormatReply(r, IsTerminal(os.Stdout)))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if IsTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintError prints an error message
func PrintError(message string) {
	if IsTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if IsTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if IsTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", message)
	}
}
