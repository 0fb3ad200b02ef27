// Package help is the keyboard shortcut overlay, reachable from any
// browsing view.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a help overlay for the given keymap.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   k,
		help:   h,
		width:  width,
		height: height,
	}
}

// Update handles messages for the help view. Dismissal keys are handled
// by the root model.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the full keymap, with a short map of the screens above it.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Taskboard Shortcuts")

	flow := theme.HelpStyle.Render(
		"projects › tasks › task detail; forms open on top of the list views")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	bindings := m.help.View(m.keys)

	footer := theme.HelpStyle.Render("press ? or esc to close")

	content := lipgloss.JoinVertical(
		lipgloss.Left, title, flow, "", bindings, "", footer,
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
