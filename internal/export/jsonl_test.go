package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/tourmate/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
		want    []string
	}{
		{
			name:    "empty session",
			session: internal.CreateTestSessionWithMessages("test1", []internal.Message{}),
		},
		{
			name:    "session with messages",
			session: internal.CreateTestSession("test2"),
			want: []string{
				`"actor":"user"`,
				`"actor":"assistant"`,
				`"session":"test2"`,
				`"location":"Hà Nội"`,
			},
		},
		{
			name: "session without timestamp",
			session: internal.CreateTestSessionWithMessages("test3", []internal.Message{
				{Actor: internal.ActorUser, Content: "Xin chào"},
			}),
			want: []string{
				`"content":"Xin chào"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONLExporter{}

			if err := exporter.Export(tt.session, &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			output := buf.String()
			if len(tt.session.Messages) == 0 {
				if output != "" {
					t.Errorf("Empty session should produce empty output, got: %q", output)
				}
				return
			}

			lines := strings.Split(strings.TrimSpace(output), "\n")
			if len(lines) != len(tt.session.Messages) {
				t.Errorf("got %d lines, want %d", len(lines), len(tt.session.Messages))
			}
			for i, line := range lines {
				var msg map[string]interface{}
				if err := json.Unmarshal([]byte(line), &msg); err != nil {
					t.Errorf("Line %d is not valid JSON: %v", i, err)
				}
				if _, ok := msg["actor"]; !ok {
					t.Errorf("Line %d missing 'actor' field", i)
				}
			}
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			if strings.Contains(output, `"timestamp":""`) {
				t.Errorf("empty timestamps should be omitted")
			}
		})
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
