// Package commentform is the compose form for task comments.
package commentform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// SubmittedMsg is dispatched when the user submits a comment. The author
// is the signed-in organization's contact email, filled in by the parent.
type SubmittedMsg struct {
	TaskID  string
	Content string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

type formBindings struct {
	content string
}

// Model is the Bubble Tea model for the comment form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	taskID    string
	taskTitle string
	width     int
	height    int
}

// New creates an inactive comment form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for commenting on the given task.
func (m *Model) Start(taskID, taskTitle string) tea.Cmd {
	m.taskID = taskID
	m.taskTitle = taskTitle
	m.fb.content = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Comment").
				Placeholder("Write a comment...").
				Value(&m.fb.content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Comment is required")
					}
					return nil
				}),
		),
	).WithWidth(min(m.width-4, 100))
	return m.form.Init()
}

// Update handles messages for the comment form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		taskID := m.taskID
		content := strings.TrimSpace(m.fb.content)
		return m, func() tea.Msg {
			return SubmittedMsg{TaskID: taskID, Content: content}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the comment form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render("Comment on "+m.taskTitle) + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
