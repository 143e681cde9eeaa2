package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "moodooro/internal/modules/timer/dto"
	apperrors "moodooro/internal/platform/errors"
	"moodooro/internal/ui/components"
	"moodooro/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TimerPort interface {
	Snapshot() timerdto.Snapshot
	Configure(input timerdto.ConfigInput) error
	Start() (uint64, error)
	Tick(gen uint64) (timerdto.TickResult, error)
	Pause() error
	Reset()
	SaveOutcome(outcome string) (timerdto.SaveTicket, error)
	SessionSaved(result timerdto.SaveResult) bool
	RecordMood(value string) (timerdto.MoodTicket, error)
	SkipMood() error
	StartBreak() (uint64, error)
	PersistSession(ctx context.Context, ticket timerdto.SaveTicket) timerdto.SaveResult
	AttachMood(ctx context.Context, ticket timerdto.MoodTicket) error
	Notify(ctx context.Context, result timerdto.TickResult)
}

const (
	MoodGood = "Bagus"
	MoodBad  = "Tidak Baik"

	// MoodNotSavedToast is shown when a mood is picked before the session
	// write has returned an id.
	MoodNotSavedToast = "Failed to record mood (session id not available yet)"
)

const tickInterval = time.Second

// ─── messages ────────────────────────────────────────────────────────────────

// TickMsg carries the generation that scheduled it. Ticks from an older
// generation are dropped by the timer.
type TickMsg struct{ Gen uint64 }

type SavedMsg struct{ Result timerdto.SaveResult }

type MoodAttachedMsg struct {
	Value string
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   TimerPort
	bar    progress.Model
	width  int
	height int
}

func New(port TimerPort) Model {
	bar := progress.New(
		progress.WithGradient(string(theme.Peach), string(theme.Lavender)),
		progress.WithoutPercentage(),
	)
	bar.Width = 40
	return Model{port: port, bar: bar}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, m.width-10))

	case TickMsg:
		res, err := m.port.Tick(msg.Gen)
		if err != nil {
			return m, nil
		}
		if res.Running {
			return m, tickCmd(msg.Gen)
		}
		return m, tea.Batch(m.notifyCmd(res), completionToast(res))

	case SavedMsg:
		if !m.port.SessionSaved(msg.Result) {
			return m, nil
		}
		if msg.Result.Err != nil {
			return m, components.ErrorToast("Failed to save session: " + msg.Result.Err.Error())
		}
		return m, components.Toast(fmt.Sprintf("Session #%d saved, how do you feel?", msg.Result.SessionID))

	case MoodAttachedMsg:
		if msg.Err != nil {
			return m, components.ErrorToast("Failed to record mood: " + msg.Err.Error())
		}
		return m, components.Toast("Mood recorded: " + msg.Value)

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			return m.StartPause()
		case "r":
			return m.Reset()
		case "f":
			return m.SaveOutcome(timerdto.OutcomeFocused)
		case "d":
			return m.SaveOutcome(timerdto.OutcomeDistracted)
		case "1":
			return m.RecordMood(MoodGood)
		case "2":
			return m.RecordMood(MoodBad)
		case "m":
			return m, func() tea.Msg { return components.OpenPaletteMsg{Prefix: "mood "} }
		case "x":
			return m.SkipMood()
		case "b":
			return m.StartBreak()
		}
	}
	return m, nil
}

func (m Model) View() string {
	s := m.port.Snapshot()

	badge := theme.FocusBadge.Render("FOCUS")
	total := s.Focus
	if s.Mode == timerdto.ModeBreak {
		badge = theme.BreakBadge.Render("BREAK")
		total = s.Break
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", theme.PhaseBadge.Render(strings.ToUpper(s.Phase)))

	clock := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Padding(1, 4).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.Surface1).
		Render(formatClock(s.Remaining))

	done := 0.0
	if total > 0 {
		done = 1 - float64(s.Remaining)/float64(total)
	}

	subject := s.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		header,
		"",
		clock,
		"",
		m.bar.ViewAs(done),
		"",
		theme.Muted.Render(subject),
		"",
		m.statusLine(s),
		"",
		theme.Muted.Render(hints(s)),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// ─── actions ─────────────────────────────────────────────────────────────────

// StartPause starts an idle, paused or resolved run, or pauses a running one.
func (m Model) StartPause() (Model, tea.Cmd) {
	if m.port.Snapshot().Phase == timerdto.PhaseRunning {
		return m.Pause()
	}
	return m.Start()
}

func (m Model) Start() (Model, tea.Cmd) {
	gen, err := m.port.Start()
	if err != nil {
		return m, refused("start", err)
	}
	return m, tickCmd(gen)
}

func (m Model) Pause() (Model, tea.Cmd) {
	if err := m.port.Pause(); err != nil {
		return m, refused("pause", err)
	}
	return m, nil
}

func (m Model) Reset() (Model, tea.Cmd) {
	m.port.Reset()
	return m, components.Toast("Timer reset")
}

func (m Model) SaveOutcome(outcome string) (Model, tea.Cmd) {
	ticket, err := m.port.SaveOutcome(outcome)
	if err != nil {
		return m, refused("save outcome", err)
	}
	port := m.port
	return m, func() tea.Msg {
		return SavedMsg{Result: port.PersistSession(context.Background(), ticket)}
	}
}

func (m Model) RecordMood(value string) (Model, tea.Cmd) {
	ticket, err := m.port.RecordMood(value)
	if errors.Is(err, apperrors.ErrSessionNotPersisted) {
		return m, components.ErrorToast(MoodNotSavedToast)
	}
	if err != nil {
		return m, refused("record mood", err)
	}
	port := m.port
	return m, func() tea.Msg {
		return MoodAttachedMsg{Value: ticket.Value, Err: port.AttachMood(context.Background(), ticket)}
	}
}

func (m Model) SkipMood() (Model, tea.Cmd) {
	if err := m.port.SkipMood(); err != nil {
		return m, refused("skip mood", err)
	}
	return m, nil
}

func (m Model) StartBreak() (Model, tea.Cmd) {
	gen, err := m.port.StartBreak()
	if err != nil {
		return m, refused("start break", err)
	}
	return m, tickCmd(gen)
}

// Configure applies new durations or subject while idle. Zero fields keep
// the current value.
func (m Model) Configure(input timerdto.ConfigInput) (Model, tea.Cmd) {
	s := m.port.Snapshot()
	if input.Focus == 0 {
		input.Focus = s.Focus
	}
	if input.Break == 0 {
		input.Break = s.Break
	}
	if input.Subject == "" {
		input.Subject = s.Subject
	}
	if err := m.port.Configure(input); err != nil {
		return m, refused("configure", err)
	}
	return m, components.Toast(fmt.Sprintf("Focus %s, break %s", input.Focus, input.Break))
}

// ─── private ─────────────────────────────────────────────────────────────────

func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{Gen: gen} })
}

func (m Model) notifyCmd(res timerdto.TickResult) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		port.Notify(context.Background(), res)
		return nil
	}
}

func completionToast(res timerdto.TickResult) tea.Cmd {
	if res.Mode == timerdto.ModeBreak {
		return components.Toast("Break over, ready for the next focus run")
	}
	return components.Toast("Focus complete: press f or d to save the outcome")
}

func refused(action string, err error) tea.Cmd {
	return components.ErrorToast(fmt.Sprintf("Cannot %s: %v", action, err))
}

func (m Model) statusLine(s timerdto.Snapshot) string {
	if s.Phase != timerdto.PhaseFinished || s.Outcome == "" {
		return ""
	}
	outcome := theme.OutcomeStyle(s.Outcome).Render(s.Outcome)
	switch {
	case s.SaveErr != "":
		return outcome + "  " + theme.Error.Render("save failed")
	case !s.SessionKnown:
		return outcome + "  " + theme.Muted.Render("saving…")
	}
	line := outcome + "  " + theme.Muted.Render(fmt.Sprintf("session #%d", s.SessionID))
	switch s.Mood {
	case timerdto.MoodRecorded:
		line += "  " + theme.Hot.Render(s.MoodValue)
	case timerdto.MoodSkipped:
		line += "  " + theme.Muted.Render("mood skipped")
	}
	return line
}

func hints(s timerdto.Snapshot) string {
	switch s.Phase {
	case timerdto.PhaseRunning:
		if s.Mode == timerdto.ModeFocus {
			return "space pause · f/d save early · r reset"
		}
		return "space pause · r reset"
	case timerdto.PhasePaused:
		if s.Mode == timerdto.ModeFocus {
			return "space resume · f/d save early · r reset"
		}
		return "space resume · r reset"
	case timerdto.PhaseFinished:
		switch {
		case s.Outcome == "":
			return "f focused · d distracted · r reset"
		case s.Mood == timerdto.MoodPending:
			return "1 Bagus · 2 Tidak Baik · m custom · x skip"
		default:
			return "b break · space next focus · r reset"
		}
	}
	return "space start · : palette"
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
