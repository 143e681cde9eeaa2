package components

import tea "github.com/charmbracelet/bubbletea"

// ToastMsg asks the root model to show Text on the status line.
type ToastMsg struct {
	Text string
	Err  bool
}

// OpenPaletteMsg asks the root model to open the palette pre-filled with
// Prefix.
type OpenPaletteMsg struct{ Prefix string }

// Toast returns a command that emits a ToastMsg.
func Toast(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text} }
}

// ErrorToast returns a command that emits an error ToastMsg.
func ErrorToast(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text, Err: true} }
}
