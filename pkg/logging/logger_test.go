package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "abc123")
	if got := GetRunID(ctx); got != "abc123" {
		t.Errorf("expected abc123, got %q", got)
	}
	if got := GetRunID(context.Background()); got != "" {
		t.Errorf("expected empty run ID on bare context, got %q", got)
	}
}

func TestCompactHandlerFormatsLevelTimeAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	l := slog.New(h)

	l.Info("collector finished", "targets", 3)

	out := buf.String()
	if !strings.HasPrefix(out, "[INFO]  ") {
		t.Errorf("expected [INFO] prefix, got %q", out)
	}
	if !strings.Contains(out, "collector finished") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "targets=3") {
		t.Errorf("expected targets=3 attribute, got %q", out)
	}
}

func TestCompactHandlerShortensRunID(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	l := slog.New(h)

	l.Info("started", "runID", "0123456789abcdef")

	out := buf.String()
	if !strings.Contains(out, "run=01234567") {
		t.Errorf("expected shortened run= prefix, got %q", out)
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Errorf("expected full run ID to be shortened, got %q", out)
	}
}
