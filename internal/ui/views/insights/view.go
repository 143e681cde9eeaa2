package insights

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "moodooro/internal/modules/insight/dto"
	"moodooro/internal/ui/theme"
)

type InsightPort interface {
	WatchWeekly(ctx context.Context) (<-chan insightdto.WeeklyStats, error)
}

type subscribedMsg struct {
	ch  <-chan insightdto.WeeklyStats
	err error
}

// LoadedMsg delivers one weekly summary from the live feed.
type LoadedMsg struct {
	Stats insightdto.WeeklyStats
}

type Model struct {
	ctx     context.Context
	port    InsightPort
	feed    <-chan insightdto.WeeklyStats
	stats   insightdto.WeeklyStats
	loading bool
	width   int
	height  int
}

// New builds the view. The live feed stays open until ctx ends.
func New(ctx context.Context, port InsightPort) Model {
	return Model{ctx: ctx, port: port, loading: true}
}

func (m Model) Init() tea.Cmd {
	port, ctx := m.port, m.ctx
	return func() tea.Msg {
		ch, err := port.WatchWeekly(ctx)
		return subscribedMsg{ch: ch, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case subscribedMsg:
		if msg.err != nil {
			m.loading = false
			m.stats = insightdto.WeeklyStats{Err: insightdto.LoadError}
			return m, nil
		}
		m.feed = msg.ch
		return m, waitCmd(m.feed)

	case LoadedMsg:
		m.loading = false
		m.stats = msg.Stats
		return m, waitCmd(m.feed)
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Loading weekly statistics…"))
	}
	return theme.Pane.Width(max(m.width-4, 20)).Render(Render(m.stats, m.barWidth()))
}

func (m Model) barWidth() int {
	w := m.width - 40
	if w < 10 {
		return 10
	}
	if w > 40 {
		return 40
	}
	return w
}

// Render draws the weekly summary. The error state shows the load error
// above empty tables.
func Render(s insightdto.WeeklyStats, barWidth int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("This week") + "\n")
	if s.Err != "" {
		sb.WriteString(theme.Error.Render(s.Err) + "\n")
	} else {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s – %s", s.From.Local().Format("Jan 02"), s.To.Local().Format("Jan 02"))) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(row("sessions", fmt.Sprintf("%d", s.Sessions)))
	sb.WriteString(row("total", fmt.Sprintf("%dm", s.TotalMinutes)))
	sb.WriteString(row("average", fmt.Sprintf("%dm", s.AverageMinutes)))
	sb.WriteString(row("focused", theme.OutcomeStyle("Focused").Render(fmt.Sprintf("%d", s.Focused))))
	sb.WriteString(row("distracted", theme.OutcomeStyle("Distracted").Render(fmt.Sprintf("%d", s.Distracted))))

	sb.WriteString("\n" + theme.Title.Render("Daily mood") + "\n")
	if len(s.Moods) == 0 {
		sb.WriteString(theme.Muted.Render("no moods recorded") + "\n")
	}
	for _, d := range s.Moods {
		filled := min(int(d.Score*float64(barWidth)+0.5), barWidth)
		bar := lipgloss.NewStyle().Foreground(theme.ScoreColor(d.Score)).Render(strings.Repeat("█", filled)) +
			theme.Muted.Render(strings.Repeat("░", barWidth-filled))
		sb.WriteString(fmt.Sprintf("%s  %s  %-10s %s\n",
			theme.Muted.Render(d.Day.Local().Format("Mon 02")), bar, d.Label,
			theme.Muted.Render(fmt.Sprintf("(%d)", d.Entries))))
	}
	return sb.String()
}

func row(label, value string) string {
	return theme.Muted.Render(fmt.Sprintf("%-11s", label)) + value + "\n"
}

func waitCmd(ch <-chan insightdto.WeeklyStats) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return LoadedMsg{Stats: s}
	}
}
