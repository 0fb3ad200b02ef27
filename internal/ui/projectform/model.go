// Package projectform is the create form for projects.
package projectform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// CreatedMsg is dispatched when the form submits a new project. The
// organization slug is filled in by the parent from the session.
type CreatedMsg struct {
	Input gateway.CreateProjectInput
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

type formBindings struct {
	name        string
	description string
	status      string
	dueDate     string
}

// Model is the Bubble Tea model for the project create form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates an inactive project form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.ProjectStatusActive},
		width:  width,
		height: height,
	}
}

// Start initializes the form with empty fields.
func (m *Model) Start() tea.Cmd {
	m.fb.name = ""
	m.fb.description = ""
	m.fb.status = model.ProjectStatusActive
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		input := gateway.CreateProjectInput{
			Name:        strings.TrimSpace(m.fb.name),
			Description: m.fb.description,
			Status:      m.fb.status,
			DueDate:     strings.TrimSpace(m.fb.dueDate),
		}
		return m, func() tea.Msg { return CreatedMsg{Input: input} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the project form.
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
		Render(titleStyle.Render("New Project") + "\n" + m.form.View())
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
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Active", model.ProjectStatusActive),
					huh.NewOption("Completed", model.ProjectStatusCompleted),
					huh.NewOption("On hold", model.ProjectStatusOnHold),
				).
				Value(&m.fb.status),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("invalid date format, use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(formDim(m.width-4, 40, 100)).WithHeight(formDim(m.height-4, 10, 0))
}

func formDim(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
