package logger_i

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// captureDefault points slog's default logger at a buffer and restores it
// when the test ends.
func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestWithCarriesFields(t *testing.T) {
	buf := captureDefault(t)

	base := NewLogger("JobHandler")
	jobLog := base.With("traceId", "trace-42", "job id", "job-7")
	jobLog.Info("To create new build job", "model", "gemini-embedding-001")

	out := buf.String()
	for _, want := range []string{"component=JobHandler", "traceId=trace-42", `"job id"=job-7`, "model=gemini-embedding-001"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log line, got %q", want, out)
		}
	}
}

func TestWithLeavesReceiverUntouched(t *testing.T) {
	buf := captureDefault(t)

	base := NewLogger("JobHandler")
	base.With("traceId", "trace-42")
	base.Info("unrelated message")

	if strings.Contains(buf.String(), "traceId") {
		t.Errorf("Base logger picked up fields from With: %q", buf.String())
	}
}
