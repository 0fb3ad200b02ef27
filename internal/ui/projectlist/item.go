package projectlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// ProjectItem wraps a model.Project so it can be used in a bubbles/list.
type ProjectItem struct {
	Project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i ProjectItem) FilterValue() string { return i.Project.Name }

// Title returns the project name for the list.
func (i ProjectItem) Title() string { return i.Project.Name }

// Description returns a short summary line for the list.
func (i ProjectItem) Description() string {
	return fmt.Sprintf("%s | %d/%d tasks done",
		i.Project.Status, i.Project.CompletedTasks, i.Project.TaskCount)
}

// ItemDelegate implements list.ItemDelegate for rendering project rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single project line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(ProjectItem)
	if !ok {
		return
	}
	p := pi.Project

	statusBadge := theme.ProjectStatusStyle(p.Status).Render(p.Status)

	counters := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%d/%d", p.CompletedTasks, p.TaskCount))

	dueStr := ""
	if due, ok := p.DueDateTime(); ok {
		dueStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + due.Format("Jan 02"))
	}

	line := fmt.Sprintf("%s %s %s%s", statusBadge, p.Name, counters, dueStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
