package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "moodooro/internal/modules/timer/dto"
	"moodooro/internal/ui/components"
	"moodooro/internal/ui/theme"
	dashboardview "moodooro/internal/ui/views/dashboard"
	insightsview "moodooro/internal/ui/views/insights"
	timerview "moodooro/internal/ui/views/timer"
)

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabDashboard
	tabInsights
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Dashboard", "Insights",
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Reset   key.Binding
	Outcome key.Binding
	Mood    key.Binding
	Custom  key.Binding
	Skip    key.Binding
	Break   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Outcome: key.NewBinding(key.WithKeys("f", "d"), key.WithHelp("f/d", "focused/distracted")),
		Mood:    key.NewBinding(key.WithKeys("1", "2"), key.WithHelp("1/2", "Bagus/Tidak Baik")),
		Custom:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "custom mood")),
		Skip:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "skip mood")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start break")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Reset, k.Outcome, k.Break},
		{k.Mood, k.Custom, k.Skip},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help
// overlay, the command palette and the status line used for toasts.
// Timer transitions happen here on the update goroutine.
type Model struct {
	timerView     timerview.Model
	dashboardView dashboardview.Model
	insightsView  insightsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	statusErr bool
	width     int
	height    int
}

// NewModel wires the views. Live feeds are released when ctx ends.
func NewModel(
	ctx context.Context,
	timer timerview.TimerPort,
	dashboard dashboardview.DashboardPort,
	insights insightsview.InsightPort,
) Model {
	return Model{
		timerView:     timerview.New(timer),
		dashboardView: dashboardview.New(ctx, dashboard),
		insightsView:  insightsview.New(ctx, insights),
		activeTab:     tabTimer,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.dashboardView.Init(),
		m.insightsView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.ToastMsg:
		m.status = msg.Text
		m.statusErr = msg.Err
		return m, nil

	case components.OpenPaletteMsg:
		return m, m.palette.OpenWith(msg.Prefix)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if !m.subViewFiltering() {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab + tabCount - 1) % tabCount
				return m, nil
			case "?":
				m.showHelp = true
				return m, nil
			case ":":
				return m, m.palette.Open()
			}
		}

		var cmd tea.Cmd
		switch m.activeTab {
		case tabTimer:
			m.timerView, cmd = m.timerView.Update(msg)
		case tabDashboard:
			m.dashboardView, cmd = m.dashboardView.Update(msg)
		case tabInsights:
			m.insightsView, cmd = m.insightsView.Update(msg)
		}
		return m, cmd
	}

	// Ticks, write results and feed values belong to a view regardless of
	// which tab is showing.
	var cmds [4]tea.Cmd
	m.timerView, cmds[0] = m.timerView.Update(msg)
	m.dashboardView, cmds[1] = m.dashboardView.Update(msg)
	m.insightsView, cmds[2] = m.insightsView.Update(msg)
	m.palette, cmds[3] = m.palette.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabDashboard:
		return m.dashboardView.View()
	case tabInsights:
		return m.insightsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "moodooro  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.statusErr {
		left = theme.Error.Render(left)
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	var cmd tea.Cmd
	switch parts[0] {
	case "timer:start":
		m.timerView, cmd = m.timerView.Start()
	case "timer:pause":
		m.timerView, cmd = m.timerView.Pause()
	case "timer:reset":
		m.timerView, cmd = m.timerView.Reset()
	case "outcome:focused":
		m.timerView, cmd = m.timerView.SaveOutcome(timerdto.OutcomeFocused)
	case "outcome:distracted":
		m.timerView, cmd = m.timerView.SaveOutcome(timerdto.OutcomeDistracted)
	case "mood":
		if rest == "" {
			return m.usage("usage: mood <label>")
		}
		m.timerView, cmd = m.timerView.RecordMood(rest)
	case "mood:skip":
		m.timerView, cmd = m.timerView.SkipMood()
	case "break:start":
		m.timerView, cmd = m.timerView.StartBreak()
	case "focus", "break":
		mins, err := strconv.Atoi(rest)
		if err != nil || mins <= 0 {
			return m.usage("usage: " + parts[0] + " <minutes>")
		}
		in := timerdto.ConfigInput{Focus: time.Duration(mins) * time.Minute}
		if parts[0] == "break" {
			in = timerdto.ConfigInput{Break: time.Duration(mins) * time.Minute}
		}
		m.timerView, cmd = m.timerView.Configure(in)
	case "subject":
		if rest == "" {
			return m.usage("usage: subject <text>")
		}
		m.timerView, cmd = m.timerView.Configure(timerdto.ConfigInput{Subject: rest})
	default:
		return m.usage("unknown command: " + parts[0])
	}
	m.activeTab = tabTimer
	return m, cmd
}

func (m Model) usage(text string) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusErr = true
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	return m.activeTab == tabDashboard && m.dashboardView.Filtering()
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.dashboardView, _ = m.dashboardView.Update(sz)
	m.insightsView, _ = m.insightsView.Update(sz)
}
