// Package authview is the sign-in screen shown until a session exists.
// It offers login for an existing organization and sign-up for a new
// one, runs the credential exchange itself, and hands the successful
// result to the parent to persist.
package authview

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/theme"
)

// SignedInMsg carries a successful authentication result for the parent
// to persist and act on.
type SignedInMsg struct {
	Result *gateway.AuthResult
}

const (
	modeLogin  = "login"
	modeSignUp = "signup"
)

type stage int

const (
	stageChoose stage = iota
	stageCredentials
	stageSubmitting
)

// resultMsg is the internal outcome of a credential exchange.
type resultMsg struct {
	result *gateway.AuthResult
	err    error
}

type formBindings struct {
	mode     string
	orgName  string
	email    string
	password string
}

// Model is the authentication screen component.
type Model struct {
	gateway *gateway.Client
	form    *huh.Form
	fb      *formBindings
	stage   stage
	err     error
	width   int
	height  int
}

// New creates the authentication screen and starts at mode selection.
func New(gw *gateway.Client, width, height int) Model {
	m := Model{
		gateway: gw,
		fb:      &formBindings{mode: modeLogin},
		width:   width,
		height:  height,
	}
	m.form = m.chooseForm()
	return m
}

// Init returns the initial command for the authentication screen.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the authentication screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(resultMsg); ok {
		if msg.err != nil {
			m.err = msg.err
			m.stage = stageCredentials
			m.form = m.credentialsForm()
			return m, m.form.Init()
		}
		result := msg.result
		return m, func() tea.Msg { return SignedInMsg{Result: result} }
	}

	if m.stage == stageSubmitting || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.stage == stageChoose {
			m.stage = stageCredentials
			m.err = nil
			m.form = m.credentialsForm()
			return m, m.form.Init()
		}
		m.stage = stageSubmitting
		return m, m.submitCmd()

	case huh.StateAborted:
		if m.stage == stageCredentials {
			m.stage = stageChoose
			m.err = nil
			m.form = m.chooseForm()
			return m, m.form.Init()
		}
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the authentication screen.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Taskboard")

	var body string
	switch m.stage {
	case stageSubmitting:
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("Signing in…")
	default:
		body = m.form.View()
	}

	if m.err != nil {
		body = theme.ErrorStyle.Render(m.err.Error()) + "\n\n" + body
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(title + "\n" + body)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) chooseForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome").
				Options(
					huh.NewOption("Log in to an organization", modeLogin),
					huh.NewOption("Sign up a new organization", modeSignUp),
				).
				Value(&m.fb.mode),
		),
	).WithWidth(formWidth(m.width))
}

func (m *Model) credentialsForm() *huh.Form {
	var fields []huh.Field
	if m.fb.mode == modeSignUp {
		fields = append(fields, huh.NewInput().
			Title("Organization Name").
			Value(&m.fb.orgName).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("Organization name is required")
				}
				return nil
			}))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Contact Email").
			Value(&m.fb.email).
			Validate(func(s string) error {
				if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
					return fmt.Errorf("invalid email address")
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("Password is required")
				}
				return nil
			}),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(formWidth(m.width))
}

func (m Model) submitCmd() tea.Cmd {
	gw := m.gateway
	mode := m.fb.mode
	orgName := strings.TrimSpace(m.fb.orgName)
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	return func() tea.Msg {
		ctx := context.Background()
		var (
			result *gateway.AuthResult
			err    error
		)
		if mode == modeSignUp {
			result, err = gw.SignUpOrganization(ctx, orgName, email, password)
		} else {
			result, err = gw.LoginOrganization(ctx, email, password)
		}
		return resultMsg{result: result, err: err}
	}
}

func formWidth(w int) int {
	w -= 8
	if w < 40 {
		return 40
	}
	if w > 72 {
		return 72
	}
	return w
}
