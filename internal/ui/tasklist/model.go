// Package tasklist is the tasks view for the selected project. The task
// collection applies only while a project is selected; deselecting tears
// it back to empty without a server call.
package tasklist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

type viewState int

const (
	stateIdle viewState = iota
	stateLoading
	stateReady
	stateErrored
)

// LoadedMsg carries the result of a tasks fetch for one project. Gen
// ties the message to the fetch that produced it so responses from
// superseded fetches (a changed selection, a newer reload) are dropped.
type LoadedMsg struct {
	Gen   uuid.UUID
	Tasks []model.Task
	Err   error
}

// SelectedMsg is sent when the user opens a task's detail view.
type SelectedMsg struct {
	Task model.Task
}

// NewRequestedMsg asks the parent to open the create-task form.
type NewRequestedMsg struct{}

// EditRequestedMsg asks the parent to open the edit form for a task.
type EditRequestedMsg struct {
	Task model.Task
}

// MutationDoneMsg reports a completed task mutation. On success the list
// refetches itself; on failure the error is surfaced by the parent.
type MutationDoneMsg struct {
	Err error
}

// Model is the tasks list view component.
type Model struct {
	list    list.Model
	gateway *gateway.Client
	keys    *keys.KeyMap

	project *model.Project
	state   viewState
	gen     uuid.UUID
	err     error
	tasks   []model.Task

	width  int
	height int
}

// New creates a task list with no project selected.
func New(gw *gateway.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:    l,
		gateway: gw,
		keys:    k,
		state:   stateIdle,
		gen:     uuid.New(),
		width:   width,
		height:  height,
	}
}

// SetProject switches the view to the given project and starts loading
// its tasks. A nil project deselects: the collection empties and any
// in-flight fetch is invalidated, with no server call.
func (m Model) SetProject(p *model.Project) (Model, tea.Cmd) {
	m.project = p
	m.gen = uuid.New()
	m.tasks = nil
	m.err = nil
	cmd := m.list.SetItems(nil)

	if p == nil {
		m.state = stateIdle
		return m, cmd
	}

	m.state = stateLoading
	return m, tea.Batch(cmd, m.fetchCmd(m.gen, p.ID))
}

// Project returns the currently selected project, if any.
func (m Model) Project() *model.Project {
	return m.project
}

// Update handles messages for the tasks view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if msg.Err != nil {
			m.state = stateErrored
			m.err = msg.Err
			return m, nil
		}
		m.state = stateReady
		m.err = nil
		m.tasks = msg.Tasks
		items := make([]list.Item, len(msg.Tasks))
		for i, task := range msg.Tasks {
			items[i] = TaskItem{Task: task}
		}
		return m, m.list.SetItems(items)

	case MutationDoneMsg:
		if msg.Err != nil {
			return m, nil
		}
		return m.invalidateAndRefetch()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.invalidateAndRefetch()

	case key.Matches(msg, m.keys.New):
		if m.project != nil {
			return m, func() tea.Msg { return NewRequestedMsg{} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if task, ok := m.Selected(); ok && m.state == stateReady {
			return m, func() tea.Msg { return SelectedMsg{Task: task} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.Selected(); ok && m.state == stateReady {
			return m, func() tea.Msg { return EditRequestedMsg{Task: task} }
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		if task, ok := m.Selected(); ok && m.state == stateReady {
			return m, m.statusCmd(task.ID, model.NextTaskStatus(task.Status))
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.Selected(); ok && m.state == stateReady {
			return m, m.deleteCmd(task.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the task under the cursor.
func (m Model) Selected() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Tasks returns the cached collection.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// invalidateAndRefetch discards the current fetch generation and reloads
// the selected project's tasks. Every successful mutation and manual
// retry goes through here; the collection is only replaced whole.
func (m Model) invalidateAndRefetch() (Model, tea.Cmd) {
	if m.project == nil {
		return m, nil
	}
	m.state = stateLoading
	m.gen = uuid.New()
	return m, m.fetchCmd(m.gen, m.project.ID)
}

func (m Model) fetchCmd(gen uuid.UUID, projectID string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		tasks, err := gw.GetTasks(context.Background(), projectID)
		return LoadedMsg{Gen: gen, Tasks: tasks, Err: err}
	}
}

func (m Model) statusCmd(taskID, status string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		_, err := gw.UpdateTaskStatus(context.Background(), taskID, status)
		return MutationDoneMsg{Err: err}
	}
}

func (m Model) deleteCmd(taskID string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		err := gw.DeleteTask(context.Background(), taskID)
		return MutationDoneMsg{Err: err}
	}
}

// View renders the tasks view.
func (m Model) View() string {
	switch m.state {
	case stateIdle:
		return m.centered("Select a project to see its tasks.")
	case stateLoading:
		return m.centered("Loading tasks…")
	case stateErrored:
		return m.centered(
			theme.ErrorStyle.Render("Could not load tasks: "+m.err.Error()) +
				"\n\n" + theme.HelpStyle.Render("press r to retry"))
	}

	if len(m.list.Items()) == 0 {
		return m.centered("No tasks in this project.\n\nPress n to create one.")
	}

	return m.list.View()
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
