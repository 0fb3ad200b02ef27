// Package projectlist is the projects view. It owns the cached project
// collection for the signed-in organization and keeps it consistent with
// the server by refetching after every mutation.
package projectlist

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
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/theme"
)

// viewState tracks the list's fetch lifecycle.
type viewState int

const (
	stateIdle viewState = iota
	stateLoading
	stateReady
	stateErrored
)

// LoadedMsg carries the result of a projects fetch. Gen ties the message
// to the fetch that produced it; a message from a superseded fetch is
// discarded instead of being applied to current state.
type LoadedMsg struct {
	Gen      uuid.UUID
	Projects []model.Project
	Err      error
}

// SelectedMsg is sent when the user opens a project.
type SelectedMsg struct {
	Project model.Project
}

// NewRequestedMsg asks the parent to open the create-project form.
type NewRequestedMsg struct{}

// MutationDoneMsg reports a completed project mutation. On success the
// list refetches itself; on failure the error is surfaced by the parent.
type MutationDoneMsg struct {
	Err error
}

// Model is the projects list view component.
type Model struct {
	list    list.Model
	gateway *gateway.Client
	session session.Reader
	keys    *keys.KeyMap

	state    viewState
	gen      uuid.UUID
	err      error
	projects []model.Project

	width  int
	height int
}

// New creates a projects list that starts loading on Init.
func New(
	gw *gateway.Client,
	sess session.Reader,
	k *keys.KeyMap,
	width, height int,
) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:    l,
		gateway: gw,
		session: sess,
		keys:    k,
		state:   stateLoading,
		gen:     uuid.New(),
		width:   width,
		height:  height,
	}
}

// Init issues the initial fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd(m.gen)
}

// Update handles messages for the projects view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Gen != m.gen {
			// Response from a superseded fetch; drop it.
			return m, nil
		}
		if msg.Err != nil {
			m.state = stateErrored
			m.err = msg.Err
			return m, nil
		}
		m.state = stateReady
		m.err = nil
		m.projects = msg.Projects
		items := make([]list.Item, len(msg.Projects))
		for i, p := range msg.Projects {
			items[i] = ProjectItem{Project: p}
		}
		return m, m.list.SetItems(items)

	case MutationDoneMsg:
		if msg.Err != nil {
			// Collection unchanged; the parent shows the notice.
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
		return m, func() tea.Msg { return NewRequestedMsg{} }

	case key.Matches(msg, m.keys.Select):
		if p, ok := m.Selected(); ok && m.state == stateReady {
			return m, func() tea.Msg { return SelectedMsg{Project: p} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.Selected(); ok && m.state == stateReady {
			return m, m.deleteCmd(p.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the project under the cursor.
func (m Model) Selected() (model.Project, bool) {
	item, ok := m.list.SelectedItem().(ProjectItem)
	if !ok {
		return model.Project{}, false
	}
	return item.Project, true
}

// Projects returns the cached collection.
func (m Model) Projects() []model.Project {
	return m.projects
}

// invalidateAndRefetch discards the current fetch generation and issues a
// fresh load. Every successful mutation and every manual retry funnels
// through here; the cached collection is only ever replaced whole.
func (m Model) invalidateAndRefetch() (Model, tea.Cmd) {
	m.state = stateLoading
	m.gen = uuid.New()
	return m, m.fetchCmd(m.gen)
}

// fetchCmd returns a command that fetches the project list and reports
// back under the given generation tag.
func (m Model) fetchCmd(gen uuid.UUID) tea.Cmd {
	gw := m.gateway
	slug := m.session.Current().OrganizationSlug
	return func() tea.Msg {
		projects, err := gw.GetProjects(context.Background(), slug)
		return LoadedMsg{Gen: gen, Projects: projects, Err: err}
	}
}

// deleteCmd deletes a project and reports completion.
func (m Model) deleteCmd(projectID string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		err := gw.DeleteProject(context.Background(), projectID)
		return MutationDoneMsg{Err: err}
	}
}

// View renders the projects view.
func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return m.centered("Loading projects…")
	case stateErrored:
		return m.centered(
			theme.ErrorStyle.Render("Could not load projects: "+m.err.Error()) +
				"\n\n" + theme.HelpStyle.Render("press r to retry"))
	}

	if len(m.list.Items()) == 0 {
		return m.centered("No projects yet.\n\nPress n to create one.")
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
