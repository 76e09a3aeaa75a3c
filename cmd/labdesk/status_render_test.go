package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"labdesk/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Hashes", statusError, "2 mismatches", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Hashes:", "[ERROR] 2 mismatches")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Hashes", statusOK, "all stored hashes match", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestPreflightLines(t *testing.T) {
	lines := preflightLines([]preflight.Result{
		{Name: "Data directory", Passed: true, Detail: "/data (read/write ok)"},
		{Name: "Store (rest)", Detail: "failed to fetch project: network error: refused"},
	}, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] /data (read/write ok)") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] failed to fetch project") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestFormatStatusLabel(t *testing.T) {
	tests := map[string]string{
		"active":  "Active",
		"on-hold": "On Hold",
		"DRAFT":   "Draft",
		"":        "-",
	}
	for in, want := range tests {
		if got := formatStatusLabel(in); got != want {
			t.Errorf("formatStatusLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
