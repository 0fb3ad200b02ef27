// Package taskform is the create/edit form for tasks. Submission emits
// the gateway input for the parent to execute; the form itself never
// talks to the server.
package taskform

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// CreatedMsg is dispatched when the form submits a new task.
type CreatedMsg struct {
	Input gateway.CreateTaskInput
}

// UpdatedMsg is dispatched when the form submits changes to a task.
type UpdatedMsg struct {
	Input gateway.UpdateTaskInput
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// stay valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	assignee    string
	dueDate     string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editMode  bool
	editID    string
	projectID string
	width     int
	height    int
}

// New creates an inactive task form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.TaskStatusTodo},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a task in the given
// project.
func (m *Model) StartCreate(projectID string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.projectID = projectID
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = model.TaskStatusTodo
	m.fb.assignee = ""
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task's fields.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.projectID = task.Project.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.status = task.Status
	m.fb.assignee = task.AssigneeEmail
	if due, ok := task.DueDateTime(); ok {
		m.fb.dueDate = due.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render(titleText) + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs doing?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("To do", model.TaskStatusTodo),
					huh.NewOption("In progress", model.TaskStatusInProgress),
					huh.NewOption("Done", model.TaskStatusDone),
				).
				Value(&m.fb.status),
			huh.NewInput().
				Title("Assignee").
				Placeholder("email (optional)").
				Value(&m.fb.assignee).
				Validate(validateOptionalEmail),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.editMode {
		title := strings.TrimSpace(m.fb.title)
		description := m.fb.description
		status := m.fb.status
		assignee := strings.TrimSpace(m.fb.assignee)
		dueDate := strings.TrimSpace(m.fb.dueDate)
		input := gateway.UpdateTaskInput{
			TaskID:        m.editID,
			Title:         &title,
			Description:   &description,
			Status:        &status,
			AssigneeEmail: &assignee,
			DueDate:       &dueDate,
		}
		return func() tea.Msg { return UpdatedMsg{Input: input} }
	}

	input := gateway.CreateTaskInput{
		ProjectID:     m.projectID,
		Title:         strings.TrimSpace(m.fb.title),
		Description:   m.fb.description,
		Status:        m.fb.status,
		AssigneeEmail: strings.TrimSpace(m.fb.assignee),
		DueDate:       strings.TrimSpace(m.fb.dueDate),
	}
	return func() tea.Msg { return CreatedMsg{Input: input} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
