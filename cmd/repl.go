package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/assistant"
)

const replHelp = `Commands:
  /stats              cache and memory statistics
  /history            requests made in this session
  /analytics          analytics for this session
  /export <fmt>       print the session as json, jsonl, yaml or md
  /archive            save the session to the SQLite archive
  /clear              forget this session
  /help               show this help
  /quit               leave`

// repl is the interactive chat loop behind "tourmate chat"
type repl struct {
	svc       *assistant.Service
	sessionID string
	archive   string
	in        io.Reader
	out       io.Writer
	styled    bool
}

// Run reads lines until EOF, /quit or ctx is done
func (r *repl) Run(ctx context.Context) error {
	fmt.Fprintf(r.out, "TourMate – trợ lý du lịch của bạn (session %s). Gõ /help để xem lệnh.\n", r.sessionID)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(r.out, "\nBạn: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return nil
			}
			continue
		}

		var reply internal.Reply
		_ = internal.ShowProgress(ctx, "Đang suy nghĩ...", func() error {
			reply = r.svc.Chat(ctx, assistant.ChatRequest{Message: line, SessionID: r.sessionID})
			return nil
		})
		if !reply.Success && reply.Error != "" {
			internal.LogDebug("Reply failed: %s", reply.Error)
		}
		fmt.Fprintln(r.out, internal.FormatReply(reply, r.styled))
	}
}

// command handles a slash command and reports whether to quit
func (r *repl) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		fmt.Fprintln(r.out, "Tạm biệt! Chúc bạn có chuyến đi vui vẻ! 👋")
		return true
	case "/help":
		fmt.Fprintln(r.out, replHelp)
	case "/stats":
		r.printJSON(r.svc.Stats())
	case "/history":
		r.printJSON(r.svc.SessionHistory(r.sessionID, 0))
	case "/analytics":
		r.printJSON(r.svc.SessionAnalytics(r.sessionID))
	case "/export":
		format := "md"
		if len(fields) > 1 {
			format = fields[1]
		}
		if _, err := r.svc.ExportSession(r.sessionID, format, r.out); err != nil {
			fmt.Fprintf(r.out, "Export failed: %v\n", err)
		}
	case "/archive":
		if err := r.svc.ArchiveSession(ctx, r.sessionID, r.archive); err != nil {
			fmt.Fprintf(r.out, "Archive failed: %v\n", err)
		} else {
			fmt.Fprintf(r.out, "Saved session %s to %s\n", r.sessionID, r.archive)
		}
	case "/clear":
		r.svc.ClearSession(r.sessionID)
		fmt.Fprintln(r.out, "Session cleared.")
	default:
		fmt.Fprintf(r.out, "Unknown command %s\n%s\n", fields[0], replHelp)
	}
	return false
}

func (r *repl) printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, "Failed to encode: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, string(data))
}
