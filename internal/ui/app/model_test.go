package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	insightdto "moodooro/internal/modules/insight/dto"
	timerdto "moodooro/internal/modules/timer/dto"
	"moodooro/internal/modules/timer/usecase"
	"moodooro/internal/platform/clock"
	"moodooro/internal/ui/components"
)

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, timerdto.SaveTicket) (int64, error) { return 1, nil }
func (nopRecorder) AttachMood(context.Context, int64, string) error { return nil }

type emptyFeeds struct{}

func (emptyFeeds) WatchDashboard(ctx context.Context) (<-chan insightdto.Dashboard, error) {
	ch := make(chan insightdto.Dashboard)
	close(ch)
	return ch, nil
}

func (emptyFeeds) WatchWeekly(ctx context.Context) (<-chan insightdto.WeeklyStats, error) {
	ch := make(chan insightdto.WeeklyStats)
	close(ch)
	return ch, nil
}

func newTestModel() (Model, func() timerdto.Snapshot) {
	timer := usecase.NewInteractor(timerdto.ConfigInput{Focus: 25 * time.Minute}, nopRecorder{}, nil, clock.SystemClock{}, zap.NewNop())
	return NewModel(context.Background(), timer, emptyFeeds{}, emptyFeeds{}), timer.Snapshot
}

func TestPaletteConfiguresTimer(t *testing.T) {
	t.Parallel()
	m, snapshot := newTestModel()
	m.activeTab = tabInsights

	next, _ := m.executePalette("focus 45")
	next, _ = next.(Model).executePalette("subject Linear algebra")
	if next.(Model).activeTab != tabTimer {
		t.Fatalf("expected palette timer commands to switch to the timer tab")
	}
	s := snapshot()
	if s.Focus != 45*time.Minute || s.Subject != "Linear algebra" {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel()
	for input, want := range map[string]string{
		"focus soon": "usage: focus <minutes>",
		"mood":       "usage: mood <label>",
		"notes:open": "unknown command: notes:open",
	} {
		next, cmd := m.executePalette(input)
		if cmd != nil {
			t.Fatalf("%q: expected no command", input)
		}
		if got := next.(Model).status; got != want {
			t.Fatalf("%q: got status %q, want %q", input, got, want)
		}
	}
}

func TestToastUpdatesStatusLine(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel()
	next, _ := m.Update(components.ToastMsg{Text: "Failed to save session: locked", Err: true})
	got := next.(Model)
	if got.status != "Failed to save session: locked" || !got.statusErr {
		t.Fatalf("unexpected status: %q err=%v", got.status, got.statusErr)
	}
}

func TestTabCyclesAndQuit(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(Model).activeTab != tabDashboard {
		t.Fatalf("expected dashboard tab")
	}
	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}
}
