package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/priority"
	"github.com/nhle/taskboard/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("%s | %s", i.Task.Status, i.Task.AssigneeEmail)
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := ti.Task

	statusBadge := theme.TaskStatusStyle(task.Status).Render(task.Status)

	line := fmt.Sprintf("%s %s%s%s%s",
		statusBadge,
		task.Title,
		priorityBadge(task),
		assigneeLabel(task),
		dueLabel(task),
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// priorityBadge renders the derived urgency tier. Done tasks and tasks
// without a due date render nothing at all.
func priorityBadge(task model.Task) string {
	due, ok := task.DueDateTime()
	if !ok {
		return ""
	}
	tier := priority.Classify(due, task.Status, time.Now())
	if tier == priority.None {
		return ""
	}
	return " " + theme.PriorityStyle(tier).Render(string(tier))
}

func assigneeLabel(task model.Task) string {
	if task.AssigneeEmail == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(" @" + task.AssigneeEmail)
}

func dueLabel(task model.Task) string {
	due, ok := task.DueDateTime()
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(" due " + due.Format("Jan 02"))
}
