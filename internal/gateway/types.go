package gateway

import "github.com/nhle/taskboard/internal/model"

// Per-operation payload shapes, decoded from the envelope's data field.
// Each operation gets its own struct so an unexpected shape fails at the
// deserialization boundary instead of leaking into the UI.

type organizationPayload struct {
	Organization *model.Organization `json:"organization"`
}

type projectsPayload struct {
	AllProjects []model.Project `json:"allProjects"`
}

type tasksPayload struct {
	AllTasks []model.Task `json:"allTasks"`
}

type createProjectPayload struct {
	CreateProject struct {
		Project *model.Project `json:"project"`
	} `json:"createProject"`
}

type createTaskPayload struct {
	CreateTask struct {
		Task *model.Task `json:"task"`
	} `json:"createTask"`
}

type updateTaskPayload struct {
	UpdateTask struct {
		Task *model.Task `json:"task"`
	} `json:"updateTask"`
}

type updateTaskStatusPayload struct {
	UpdateTaskStatus struct {
		Task *model.Task `json:"task"`
	} `json:"updateTaskStatus"`
}

type deleteTaskPayload struct {
	DeleteTask mutationStatus `json:"deleteTask"`
}

type deleteProjectPayload struct {
	DeleteProject mutationStatus `json:"deleteProject"`
}

// mutationStatus is the success/message pair delete mutations return.
type mutationStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type createTaskCommentPayload struct {
	CreateTaskComment struct {
		Comment *model.TaskComment `json:"comment"`
	} `json:"createTaskComment"`
}

// authPayload is shared by sign-up and login. APIKey is null on failure.
type authPayload struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	APIKey       string             `json:"apiKey"`
	Organization model.Organization `json:"organization"`
}

// result converts the wire payload into an AuthResult, turning a false
// success flag into an AuthError with the server's message.
func (p authPayload) result() (*AuthResult, error) {
	if !p.Success {
		msg := p.Message
		if msg == "" {
			msg = "authentication failed"
		}
		return nil, &AuthError{Message: msg}
	}
	return &AuthResult{
		APIKey:       p.APIKey,
		Organization: p.Organization,
		Message:      p.Message,
	}, nil
}

type signUpPayload struct {
	SignUpOrganization authPayload `json:"signUpOrganization"`
}

type loginPayload struct {
	LoginOrganization authPayload `json:"loginOrganization"`
}
