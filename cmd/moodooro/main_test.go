package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMoodLifecycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "mood", "add", "Tidak", "Baik", "--note", "long day")
	if err != nil {
		t.Fatalf("mood add: %v", err)
	}
	if !strings.Contains(out, "mood recorded: 1") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, dir, "mood", "list")
	if err != nil {
		t.Fatalf("mood list: %v", err)
	}
	if !strings.Contains(out, "Tidak Baik") || !strings.Contains(out, "session=-") || !strings.Contains(out, `note="long day"`) {
		t.Fatalf("unexpected list output: %q", out)
	}

	if _, err := run(t, dir, "mood", "edit", "1", "--value", "Bagus"); err != nil {
		t.Fatalf("mood edit: %v", err)
	}
	out, _ = run(t, dir, "mood", "list", "--days", "1")
	if !strings.Contains(out, "Bagus") {
		t.Fatalf("expected edited value, got %q", out)
	}

	if _, err := run(t, dir, "mood", "clear"); err == nil {
		t.Fatalf("expected clear without --yes to fail")
	}
	out, err = run(t, dir, "mood", "clear", "--yes")
	if err != nil || !strings.Contains(out, "deleted 1 moods") {
		t.Fatalf("mood clear: %q %v", out, err)
	}
}

func TestMoodForUnknownSessionFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, err := run(t, dir, "mood", "add", "Bagus", "--session", "7"); err == nil {
		t.Fatalf("expected unknown session to be rejected")
	}
	if _, err := run(t, dir, "session", "show", "7"); err == nil {
		t.Fatalf("expected missing session error")
	}
	if _, err := run(t, dir, "session", "show", "seven"); err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestStatsOnEmptyStore(t *testing.T) {
	t.Parallel()
	out, err := run(t, t.TempDir(), "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Weekly insights", "sessions", "no moods recorded"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q: %q", want, out)
		}
	}
}

func TestCueListWithoutManifest(t *testing.T) {
	t.Parallel()
	out, err := run(t, t.TempDir(), "cue", "list")
	if err != nil {
		t.Fatalf("cue list: %v", err)
	}
	if !strings.Contains(out, "no cue plugins configured") {
		t.Fatalf("unexpected output: %q", out)
	}
}
