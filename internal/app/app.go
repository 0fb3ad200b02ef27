// Package app is the root Bubble Tea model. It routes between the
// authentication screen, the projects and tasks lists, the task detail,
// and the modal forms, and it owns the mutation commands the forms
// produce.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/authview"
	"github.com/nhle/taskboard/internal/ui/commentform"
	"github.com/nhle/taskboard/internal/ui/detail"
	helpview "github.com/nhle/taskboard/internal/ui/help"
	"github.com/nhle/taskboard/internal/ui/projectform"
	"github.com/nhle/taskboard/internal/ui/projectlist"
	"github.com/nhle/taskboard/internal/ui/taskform"
	"github.com/nhle/taskboard/internal/ui/tasklist"
)

// ViewState identifies the active view.
type ViewState int

const (
	ViewAuth ViewState = iota
	ViewProjects
	ViewTasks
	ViewDetail
	ViewTaskForm
	ViewProjectForm
	ViewCommentForm
	ViewHelp
)

// noticeExpiredMsg clears a transient status bar notice.
type noticeExpiredMsg struct {
	id int
}

const noticeDuration = 4 * time.Second

// Model is the root application model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	gateway      *gateway.Client
	session      session.Store
	keys         *keys.KeyMap
	logger       zerolog.Logger

	auth        authview.Model
	projects    projectlist.Model
	tasks       tasklist.Model
	detail      detail.Model
	taskForm    taskform.Model
	projectForm projectform.Model
	commentForm commentform.Model
	helpView    helpview.Model

	notice   string
	noticeID int
	ready    bool
}

// New creates the root model. The starting view depends on whether a
// signed-in session already exists.
func New(
	gw *gateway.Client,
	sess session.Store,
	logger zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	view := ViewAuth
	if sess.Current().IsSignedIn {
		view = ViewProjects
	}

	return Model{
		currentView: view,
		gateway:     gw,
		session:     sess,
		keys:        k,
		logger:      logger,
		auth:        authview.New(gw, 80, 24),
		projects:    projectlist.New(gw, sess, k, 80, 24),
		tasks:       tasklist.New(gw, k, 80, 24),
		detail:      detail.New(k, 80, 24),
		taskForm:    taskform.New(80, 24),
		projectForm: projectform.New(80, 24),
		commentForm: commentform.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init returns the initial command for the starting view.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewAuth {
		return m.auth.Init()
	}
	return m.projects.Init()
}

// Update routes messages to the active view and handles the cross-view
// navigation and mutation messages the views emit.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case authview.SignedInMsg:
		return m.handleSignedIn(msg)

	case projectlist.SelectedMsg:
		m.currentView = ViewTasks
		var cmd tea.Cmd
		project := msg.Project
		m.tasks, cmd = m.tasks.SetProject(&project)
		return m, cmd

	case projectlist.NewRequestedMsg:
		m.previousView = ViewProjects
		m.currentView = ViewProjectForm
		return m, m.projectForm.Start()

	case projectlist.LoadedMsg:
		var cmd tea.Cmd
		m.projects, cmd = m.projects.Update(msg)
		return m, cmd

	case projectlist.MutationDoneMsg:
		var cmds []tea.Cmd
		if msg.Err != nil {
			cmds = append(cmds, m.showNotice(msg.Err.Error()))
		}
		var cmd tea.Cmd
		m.projects, cmd = m.projects.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tasklist.SelectedMsg:
		m.currentView = ViewDetail
		task := msg.Task
		m.detail.SetTask(&task)
		return m, nil

	case tasklist.NewRequestedMsg:
		if p := m.tasks.Project(); p != nil {
			m.previousView = ViewTasks
			m.currentView = ViewTaskForm
			return m, m.taskForm.StartCreate(p.ID)
		}
		return m, nil

	case tasklist.EditRequestedMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartEdit(msg.Task)

	case tasklist.MutationDoneMsg:
		var cmds []tea.Cmd
		if msg.Err != nil {
			cmds = append(cmds, m.showNotice(msg.Err.Error()))
		}
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tasklist.LoadedMsg:
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		m.refreshDetail()
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewTasks
		return m, nil

	case detail.CommentRequestedMsg:
		m.previousView = ViewDetail
		m.currentView = ViewCommentForm
		return m, m.commentForm.Start(msg.Task.ID, msg.Task.Title)

	case detail.EditRequestedMsg:
		m.previousView = ViewDetail
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartEdit(msg.Task)

	case detail.StatusRequestedMsg:
		return m, m.updateStatusCmd(msg.TaskID, msg.Status)

	case taskform.CreatedMsg:
		m.currentView = ViewTasks
		return m, m.createTaskCmd(msg.Input)

	case taskform.UpdatedMsg:
		m.currentView = m.previousView
		return m, m.updateTaskCmd(msg.Input)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case projectform.CreatedMsg:
		m.currentView = ViewProjects
		return m, m.createProjectCmd(msg.Input)

	case projectform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case commentform.SubmittedMsg:
		m.currentView = ViewDetail
		return m, m.createCommentCmd(msg.TaskID, msg.Content)

	case commentform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.routeToView(msg)
}

// handleGlobalKeys processes quit, logout, back and help in the browsing
// views. Forms and the auth screen keep full control of their input.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewAuth, ViewTaskForm, ViewProjectForm, ViewCommentForm:
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return true, m, nil

	case key.Matches(msg, m.keys.Logout):
		mdl, cmd := m.handleLogout()
		return true, mdl, cmd

	case key.Matches(msg, m.keys.Back):
		switch m.currentView {
		case ViewTasks:
			var cmd tea.Cmd
			m.tasks, cmd = m.tasks.SetProject(nil)
			m.currentView = ViewProjects
			return true, m, cmd
		case ViewHelp:
			m.currentView = m.previousView
			return true, m, nil
		}
	}

	return false, m, nil
}

func (m Model) handleSignedIn(msg authview.SignedInMsg) (tea.Model, tea.Cmd) {
	record := session.Session{
		APIKey:            msg.Result.APIKey,
		IsSignedIn:        true,
		OrganizationName:  msg.Result.Organization.Name,
		OrganizationEmail: msg.Result.Organization.ContactEmail,
		OrganizationSlug:  msg.Result.Organization.Slug,
	}
	if err := m.session.Save(record); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist session")
		return m, m.showNotice("could not persist session: " + err.Error())
	}

	m.logger.Info().
		Str("organization", record.OrganizationSlug).
		Msg("signed in")

	m.currentView = ViewProjects
	m.projects = projectlist.New(
		m.gateway, m.session, m.keys,
		m.layout.ContentWidth(), m.layout.ContentHeight(),
	)
	return m, m.projects.Init()
}

func (m Model) handleLogout() (tea.Model, tea.Cmd) {
	if err := m.session.Clear(); err != nil {
		m.logger.Error().Err(err).Msg("failed to clear session")
		return m, m.showNotice("could not clear session: " + err.Error())
	}

	m.logger.Info().Msg("signed out")

	m.currentView = ViewAuth
	m.auth = authview.New(m.gateway, m.layout.Width, m.layout.Height)
	m.tasks, _ = m.tasks.SetProject(nil)
	m.detail.SetTask(nil)
	return m, m.auth.Init()
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.layout = ui.NewLayout(msg.Width, msg.Height)
	m.ready = true

	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()
	m.auth.SetSize(msg.Width, msg.Height)
	m.projects.SetSize(w, h)
	m.tasks.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.taskForm.SetSize(w, h)
	m.projectForm.SetSize(w, h)
	m.commentForm.SetSize(w, h)
	m.helpView.SetSize(w, h)
	return m
}

// routeToView delegates a message to the active view's Update.
func (m Model) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewAuth:
		m.auth, cmd = m.auth.Update(msg)
	case ViewProjects:
		m.projects, cmd = m.projects.Update(msg)
	case ViewTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProjectForm:
		m.projectForm, cmd = m.projectForm.Update(msg)
	case ViewCommentForm:
		m.commentForm, cmd = m.commentForm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}
	return m, cmd
}

// refreshDetail re-points the detail view at the fresh copy of its task
// after the task list reloads. A deleted task sends the user back to the
// list.
func (m *Model) refreshDetail() {
	current := m.detail.Task()
	if current == nil {
		return
	}
	for _, task := range m.tasks.Tasks() {
		if task.ID == current.ID {
			fresh := task
			m.detail.SetTask(&fresh)
			return
		}
	}
	m.detail.SetTask(nil)
	if m.currentView == ViewDetail {
		m.currentView = ViewTasks
	}
}

// showNotice surfaces a transient error notice in the status bar.
func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	id := m.noticeID
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (m Model) createTaskCmd(in gateway.CreateTaskInput) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		_, err := gw.CreateTask(context.Background(), in)
		return tasklist.MutationDoneMsg{Err: err}
	}
}

func (m Model) updateTaskCmd(in gateway.UpdateTaskInput) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		_, err := gw.UpdateTask(context.Background(), in)
		return tasklist.MutationDoneMsg{Err: err}
	}
}

func (m Model) updateStatusCmd(taskID, status string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		_, err := gw.UpdateTaskStatus(context.Background(), taskID, status)
		return tasklist.MutationDoneMsg{Err: err}
	}
}

func (m Model) createProjectCmd(in gateway.CreateProjectInput) tea.Cmd {
	gw := m.gateway
	in.OrganizationSlug = m.session.Current().OrganizationSlug
	return func() tea.Msg {
		_, err := gw.CreateProject(context.Background(), in)
		return projectlist.MutationDoneMsg{Err: err}
	}
}

func (m Model) createCommentCmd(taskID, content string) tea.Cmd {
	gw := m.gateway
	author := m.session.Current().OrganizationEmail
	return func() tea.Msg {
		_, err := gw.CreateTaskComment(context.Background(), taskID, content, author)
		return tasklist.MutationDoneMsg{Err: err}
	}
}

// View renders the active view inside the header and status bar frame.
// The auth screen and forms render full screen without the frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.currentView {
	case ViewAuth:
		return m.auth.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewProjectForm:
		return m.projectForm.View()
	case ViewCommentForm:
		return m.commentForm.View()
	}

	var title, content string
	switch m.currentView {
	case ViewProjects:
		title = "Projects"
		content = m.projects.View()
	case ViewTasks:
		title = "Tasks"
		if p := m.tasks.Project(); p != nil {
			title = "Tasks · " + p.Name
		}
		content = m.tasks.View()
	case ViewDetail:
		title = "Task"
		if t := m.detail.Task(); t != nil {
			title = t.Title
		}
		content = m.detail.View()
	case ViewHelp:
		title = "Help"
		content = m.helpView.View()
	}

	header := m.layout.RenderHeader(title, m.session.Current().OrganizationName)

	hints := shortHints(m.keys)
	if m.notice != "" {
		hints = theme.NoticeStyle.Render(m.notice)
	}
	statusBar := m.layout.RenderStatusBar(hints)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func shortHints(k *keys.KeyMap) string {
	hints := ""
	for i, b := range k.ShortHelp() {
		if i > 0 {
			hints += "  "
		}
		hints += b.Help().Key + " " + b.Help().Desc
	}
	return hints
}
