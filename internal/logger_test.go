package internal

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetLogLevel(LogLevelDebug)
	if logLevel != LogLevelDebug {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetLogLevel(LogLevelError)
	if logLevel != LogLevelError {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelError", logLevel)
	}
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetVerbose(true)
	if logLevel != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if logLevel != LogLevelInfo {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelInfo", logLevel)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	originalLevel := logLevel
	defer func() {
		logLevel = originalLevel
		SetLogOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(LogLevelWarn)

	LogDebug("hidden debug")
	LogInfo("hidden info")
	LogWarn("shown warning %d", 1)
	LogError("shown error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output should not contain messages below the level, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown warning 1") {
		t.Errorf("output missing warning, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown error") {
		t.Errorf("output missing error, got %q", out)
	}
}

func TestLogFunctions(t *testing.T) {
	SetLogOutput(io.Discard)
	defer SetLogOutput(os.Stderr)

	LogError("test error message")
	LogWarn("test warning message")
	LogInfo("test info message")
	LogDebug("test debug message")
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short", "Hà Nội", 10, "Hà Nội"},
		{"exact", "Đà Lạt", 6, "Đà Lạt"},
		{"truncated on runes", "Đồng Nai đẹp", 4, "Đồng..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.n); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}
