// Package detail renders a single task with its comment thread in a
// scrollable viewport. It holds no fetch logic of its own: the displayed
// task is pushed in by the parent and refreshed whenever the task list
// reloads.
package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/priority"
	"github.com/nhle/taskboard/internal/theme"
)

// BackMsg signals the parent to navigate back to the task list.
type BackMsg struct{}

// CommentRequestedMsg asks the parent to open the comment form for the
// displayed task.
type CommentRequestedMsg struct {
	Task model.Task
}

// EditRequestedMsg asks the parent to open the edit form for the
// displayed task.
type EditRequestedMsg struct {
	Task model.Task
}

// StatusRequestedMsg asks the parent to advance the displayed task to
// the given status.
type StatusRequestedMsg struct {
	TaskID string
	Status string
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a detail view with no task selected.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Comment):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg { return CommentRequestedMsg{Task: task} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Edit):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg { return EditRequestedMsg{Task: task} }
			}
			return m, nil

		case key.Matches(msg, m.keys.CycleStatus):
			if m.task != nil {
				id := m.task.ID
				next := model.NextTaskStatus(m.task.Status)
				return m, func() tea.Msg {
					return StatusRequestedMsg{TaskID: id, Status: next}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetTask replaces the displayed task and re-renders the content. Pass
// nil to clear the view.
func (m *Model) SetTask(task *model.Task) {
	m.task = task
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Task returns the currently displayed task, if any.
func (m Model) Task() *model.Task {
	return m.task
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No task selected")
	}
	return m.viewport.View()
}

func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	statusBadge := theme.TaskStatusStyle(task.Status).Render(task.Status)
	badgeLine := statusBadge

	due, hasDue := task.DueDateTime()
	if tier := priority.Classify(due, task.Status, time.Now()); tier != priority.None {
		badgeLine = lipgloss.JoinHorizontal(
			lipgloss.Top, statusBadge, "  ",
			theme.PriorityStyle(tier).Render(string(tier)),
		)
	}
	sections = append(sections, badgeLine, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if task.Project.Name != "" {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Project:"),
			valStyle.Render(task.Project.Name),
		))
	}
	if task.AssigneeEmail != "" {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Assignee:"),
			valStyle.Render(task.AssigneeEmail),
		))
	}
	if hasDue {
		sections = append(sections, fmt.Sprintf(
			"%s       %s",
			metaStyle.Render("Due:"),
			valStyle.Render(due.Format("2006-01-02")),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	descHeader := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sections = append(sections, descHeader.Render("Description"))

	desc := task.Description
	if desc == "" {
		desc = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, desc)

	sections = append(sections, "", separator, "")
	sections = append(sections, descHeader.Render(
		fmt.Sprintf("Comments (%d)", len(task.Comments)),
	))
	sections = append(sections, "")

	if len(task.Comments) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No comments yet. Press c to add one."))
	}

	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	for _, c := range task.Comments {
		header := authorStyle.Render(c.AuthorEmail)
		if at, ok := c.CommentedAt(); ok {
			header = fmt.Sprintf(
				"%s  %s", header, timeStyle.Render(at.Format("2006-01-02 15:04")),
			)
		}
		sections = append(sections, header, c.Content, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
