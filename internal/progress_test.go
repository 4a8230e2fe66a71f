package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Đang suy nghĩ",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Đang suy nghĩ",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowSpinner(t *testing.T) {
	var buf bytes.Buffer
	err := showSpinner(context.Background(), &buf, "Thinking", func() error {
		time.Sleep(250 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showSpinner() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Thinking") {
		t.Errorf("spinner output %q does not contain message", buf.String())
	}
}

func TestShowSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := showSpinner(ctx, &buf, "Thinking", func() error {
		time.Sleep(300 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("showSpinner() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestFormatReply(t *testing.T) {
	tests := []struct {
		name     string
		reply    Reply
		contains []string
		excludes []string
	}{
		{
			name:     "plain response",
			reply:    Reply{Response: "Xin chào!", Success: true},
			contains: []string{"Bot: Xin chào!"},
			excludes: []string{"["},
		},
		{
			name: "response with metadata",
			reply: Reply{
				Response: "Phở ngon ở Hà Nội",
				Success:  true,
				Metadata: ReplyMetadata{
					Category:           CategoryFood,
					Location:           "Hà Nội",
					SearchResultsCount: 3,
					Cached:             true,
				},
			},
			contains: []string{"food", "Hà Nội", "cached", "3 sources"},
		},
		{
			name: "follow-up",
			reply: Reply{
				Response: "Gần đó có chợ Bến Thành",
				Metadata: ReplyMetadata{FollowUpDetected: true, FollowUpType: "location"},
			},
			contains: []string{"follow-up:location"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReply(tt.reply, false)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatReply() = %q, want it to contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("FormatReply() = %q, should not contain %q", got, unwanted)
				}
			}
		})
	}
}
