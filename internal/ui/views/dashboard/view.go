package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "moodooro/internal/modules/insight/dto"
	sessiondto "moodooro/internal/modules/session/dto"
	"moodooro/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type DashboardPort interface {
	WatchDashboard(ctx context.Context) (<-chan insightdto.Dashboard, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type subscribedMsg struct {
	ch  <-chan insightdto.Dashboard
	err error
}

// LoadedMsg delivers one dashboard state from the live feed.
type LoadedMsg struct {
	Dashboard insightdto.Dashboard
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
}

func (i sessionItem) Title() string {
	if i.session.Subject == "" {
		return fmt.Sprintf("#%d", i.session.ID)
	}
	return i.session.Subject
}

func (i sessionItem) Description() string {
	desc := fmt.Sprintf("%s  %s  %dm", i.session.EndedAt.Local().Format("Jan 02 15:04"), i.session.Outcome, minutes(i.session.ActualDuration))
	if i.session.Mood != "" {
		desc += "  " + i.session.Mood
	}
	return desc
}

func (i sessionItem) FilterValue() string { return i.session.Subject }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx       context.Context
	port      DashboardPort
	feed      <-chan insightdto.Dashboard
	dashboard insightdto.Dashboard
	list      list.Model
	detail    viewport.Model
	spinner   spinner.Model
	loading   bool
	err       string
	width     int
	height    int
}

// New builds the view. The live feed stays open until ctx ends.
func New(ctx context.Context, port DashboardPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recent sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		ctx:     ctx,
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.subscribeCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case subscribedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err.Error()
			return m, nil
		}
		m.feed = msg.ch
		return m, waitCmd(m.feed)

	case LoadedMsg:
		m.loading = false
		m.dashboard = msg.Dashboard
		m.err = msg.Dashboard.Err
		items := make([]list.Item, len(msg.Dashboard.Recent))
		for i, s := range msg.Dashboard.Recent {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items), waitCmd(m.feed))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	summary := m.renderSummary()
	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, summary, m.list.View()))

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

const summaryHeight = 3

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height-summaryHeight)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderSummary() string {
	if m.err != "" {
		return theme.Error.Render(m.err) + "\n\n"
	}
	return fmt.Sprintf("%s %s   %s %s\n\n",
		theme.Muted.Render("today"), theme.Hot.Render(fmt.Sprintf("%dm", m.dashboard.TodayMinutes)),
		theme.Muted.Render("weekly avg"), theme.Hot.Render(fmt.Sprintf("%dm", m.dashboard.WeeklyAverage)))
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("No sessions yet. Finish a focus run on the Timer tab.")
	}
	s := item.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(item.Title()) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:      ") + fmt.Sprintf("%d", s.ID) + "\n")
	sb.WriteString(theme.Muted.Render("outcome: ") + theme.OutcomeStyle(s.Outcome).Render(s.Outcome) + "\n")
	sb.WriteString(theme.Muted.Render("started: ") + s.StartedAt.Local().Format(time.DateTime) + "\n")
	sb.WriteString(theme.Muted.Render("ended:   ") + s.EndedAt.Local().Format(time.DateTime) + "\n")
	sb.WriteString(theme.Muted.Render("focus:   ") + s.FocusDuration.String() + "\n")
	sb.WriteString(theme.Muted.Render("actual:  ") + s.ActualDuration.String() + "\n")
	sb.WriteString(theme.Muted.Render("break:   ") + s.BreakDuration.String() + "\n")
	mood := s.Mood
	if mood == "" {
		mood = "-"
	}
	sb.WriteString(theme.Muted.Render("mood:    ") + mood + "\n")
	return sb.String()
}

func (m Model) subscribeCmd() tea.Cmd {
	return func() tea.Msg {
		ch, err := m.port.WatchDashboard(m.ctx)
		return subscribedMsg{ch: ch, err: err}
	}
}

// waitCmd blocks for the next feed value. A closed feed ends the loop.
func waitCmd(ch <-chan insightdto.Dashboard) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return LoadedMsg{Dashboard: d}
	}
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
