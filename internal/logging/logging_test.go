// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.min = LevelWarn

	l.Info("dropped info line")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be suppressed below warn, got %q", buf.String())
	}

	hop := l.With("trace_id", "abc123", "device", "r1")
	hop.Warn("no route to destination")

	out := buf.String()
	if !strings.Contains(out, `msg="no route to destination"`) {
		t.Errorf("missing message in %q", out)
	}
	if !strings.Contains(out, "trace_id=abc123") || !strings.Contains(out, "device=r1") {
		t.Errorf("missing fields in %q", out)
	}
}

func TestWithIsImmutable(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	a := l.With("k", "a")
	b := a.With("k", "b")

	a.Info("first")
	b.Info("second")

	out := buf.String()
	if !strings.Contains(out, "k=a") || !strings.Contains(out, "k=b") {
		t.Fatalf("expected both values present, got %q", out)
	}
}
