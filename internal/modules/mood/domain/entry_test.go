package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "moodooro/internal/platform/errors"
)

func TestEntryValidate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		entry Entry
		ok    bool
	}{
		{name: "standalone", entry: Entry{At: now, Value: "Biasa"}, ok: true},
		{name: "linked", entry: Entry{At: now, Value: "Bagus", SessionID: SessionRef(3)}, ok: true},
		{name: "blank value", entry: Entry{At: now, Value: "   "}},
		{name: "no timestamp", entry: Entry{Value: "Baik"}},
		{name: "zero session id", entry: Entry{At: now, Value: "Baik", SessionID: Ref{Valid: true}}},
	}
	for _, tc := range cases {
		err := tc.entry.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}
}

func TestRefString(t *testing.T) {
	t.Parallel()
	if got := (Ref{}).String(); got != "-" {
		t.Fatalf("expected dash for empty ref, got %q", got)
	}
	if got := SessionRef(12).String(); got != "12" {
		t.Fatalf("expected 12, got %q", got)
	}
}
