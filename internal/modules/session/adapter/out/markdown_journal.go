package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"moodooro/internal/modules/session/domain"
	sessionout "moodooro/internal/modules/session/port/out"
	"moodooro/internal/platform/markdown"
	"moodooro/internal/platform/slug"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

var (
	sessionBlock = markdown.Block("session")
	weeklyBlock  = markdown.Block("weekly")
)

// MarkdownJournal writes sessions as markdown notes with YAML frontmatter.
// Regenerated content lives in managed blocks; anything written around
// them by hand is kept on re-export.
type MarkdownJournal struct{}

func NewMarkdownJournal() sessionout.Journal {
	return MarkdownJournal{}
}

func (MarkdownJournal) WriteSession(_ context.Context, dir string, session domain.Session) (string, error) {
	date := session.StartedAt
	noteDir := filepath.Join(dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(noteDir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(session.Subject))
	path := filepath.Join(noteDir, name)

	body, err := existingBody(path)
	if err != nil {
		return "", err
	}
	if body == "" {
		body = fmt.Sprintf("# %s\n\n", titleOf(session))
	}
	summary := fmt.Sprintf("- Outcome: %s\n- Focus: %s planned, %s actual\n- Break: %s\n- Mood: %s",
		session.Outcome,
		session.FocusDuration,
		session.ActualDuration().Round(time.Second),
		session.BreakDuration,
		valueOr(session.Mood, "not recorded"),
	)
	body = sessionBlock.Replace(body, summary)

	fields := []markdown.Field{
		{Key: "schema_version", Value: domain.SchemaVersion},
		{Key: "id", Value: session.ID},
		{Key: "subject", Value: session.Subject},
		{Key: "started_at", Value: session.StartedAt.Format(timeLayout)},
		{Key: "ended_at", Value: session.EndedAt.Format(timeLayout)},
		{Key: "date", Value: session.Date.Format("2006-01-02")},
		{Key: "focus_seconds", Value: int64(session.FocusDuration / time.Second)},
		{Key: "actual_seconds", Value: int64(session.ActualDuration() / time.Second)},
		{Key: "break_seconds", Value: int64(session.BreakDuration / time.Second)},
		{Key: "outcome", Value: string(session.Outcome)},
		{Key: "mood", Value: session.Mood},
	}
	rendered, err := markdown.RenderFrontmatter(fields, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

type weekRow struct {
	start      time.Time
	sessions   int
	minutes    int
	focused    int
	distracted int
}

func (MarkdownJournal) WriteSummary(_ context.Context, dir string, sessions []domain.Session) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, "weekly.md")

	weeks := map[time.Time]*weekRow{}
	for _, s := range sessions {
		start := weekStart(s.Date)
		row, ok := weeks[start]
		if !ok {
			row = &weekRow{start: start}
			weeks[start] = row
		}
		row.sessions++
		row.minutes += int(s.ActualDuration() / time.Minute)
		switch s.Outcome {
		case domain.OutcomeFocused:
			row.focused++
		case domain.OutcomeDistracted:
			row.distracted++
		}
	}
	rows := make([]*weekRow, 0, len(weeks))
	for _, row := range weeks {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].start.After(rows[j].start) })

	var table strings.Builder
	table.WriteString("| Week of | Sessions | Minutes | Focused | Distracted |\n")
	table.WriteString("|---|---|---|---|---|\n")
	for _, row := range rows {
		fmt.Fprintf(&table, "| %s | %d | %d | %d | %d |\n",
			row.start.Format("2006-01-02"), row.sessions, row.minutes, row.focused, row.distracted)
	}

	body, err := existingBody(path)
	if err != nil {
		return "", err
	}
	if body == "" {
		body = "# Weekly focus\n\n"
	}
	body = weeklyBlock.Replace(body, table.String())
	rendered, err := markdown.RenderFrontmatter([]markdown.Field{
		{Key: "schema_version", Value: domain.SchemaVersion},
		{Key: "weeks", Value: len(rows)},
	}, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write weekly note: %w", err)
	}
	return path, nil
}

// existingBody returns the body of the note at path without its
// frontmatter, or "" when there is no note yet.
func existingBody(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read note: %w", err)
	}
	_, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(body, "\n"), nil
}

// weekStart is the Monday of t's week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func titleOf(s domain.Session) string {
	if s.Subject != "" {
		return s.Subject
	}
	return "Session " + s.StartedAt.Format("2006-01-02 15:04")
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
