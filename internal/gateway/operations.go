package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nhle/taskboard/internal/model"
)

// Operation names. These must match the names inside the documents below;
// the allowlist check in client.go keys off them.
const (
	opGetOrganization   = "GetOrganization"
	opGetProjects       = "GetProjects"
	opGetTasks          = "GetTasks"
	opCreateProject     = "CreateProject"
	opCreateTask        = "CreateTask"
	opUpdateTask        = "UpdateTask"
	opUpdateTaskStatus  = "UpdateTaskStatus"
	opDeleteTask        = "DeleteTask"
	opDeleteProject     = "DeleteProject"
	opCreateTaskComment = "CreateTaskComment"

	opSignUpOrganization = "SignUpOrganization"
	opLoginOrganization  = "LoginOrganization"
)

// The schema uses Int-typed ids on query arguments but String-typed ids
// on mutation arguments; the documents below mirror it exactly.
const (
	getOrganizationQuery = `
		query GetOrganization($slug: String!) {
			organization(slug: $slug) {
				id
				name
				slug
				contactEmail
			}
		}
	`

	getProjectsQuery = `
		query GetProjects($organizationSlug: String!) {
			allProjects(organizationSlug: $organizationSlug) {
				id
				name
				description
				status
				dueDate
				taskCount
				completedTasks
				organization {
					id
					name
					slug
					contactEmail
				}
			}
		}
	`

	getTasksQuery = `
		query GetTasks($projectId: Int!) {
			allTasks(projectId: $projectId) {
				id
				title
				description
				status
				assigneeEmail
				dueDate
				project {
					id
					name
				}
				taskcommentSet {
					id
					content
					authorEmail
					timestamp
				}
			}
		}
	`

	createProjectMutation = `
		mutation CreateProject(
			$name: String!
			$description: String
			$organizationSlug: String!
			$status: String
			$dueDate: Date
		) {
			createProject(
				name: $name
				description: $description
				organizationSlug: $organizationSlug
				status: $status
				dueDate: $dueDate
			) {
				project {
					id
					name
					description
					status
					dueDate
					taskCount
					completedTasks
					organization {
						id
						name
						slug
						contactEmail
					}
				}
			}
		}
	`

	createTaskMutation = `
		mutation CreateTask(
			$projectId: Int!
			$title: String!
			$description: String
			$status: String
			$assigneeEmail: String
			$dueDate: DateTime
		) {
			createTask(
				projectId: $projectId
				title: $title
				description: $description
				status: $status
				assigneeEmail: $assigneeEmail
				dueDate: $dueDate
			) {
				task {
					id
					title
					description
					status
					assigneeEmail
					dueDate
				}
			}
		}
	`

	updateTaskMutation = `
		mutation UpdateTask(
			$taskId: String!
			$title: String
			$description: String
			$status: String
			$assigneeEmail: String
			$dueDate: String
		) {
			updateTask(
				taskId: $taskId
				title: $title
				description: $description
				status: $status
				assigneeEmail: $assigneeEmail
				dueDate: $dueDate
			) {
				task {
					id
					title
					description
					status
					assigneeEmail
					dueDate
				}
			}
		}
	`

	updateTaskStatusMutation = `
		mutation UpdateTaskStatus($taskId: String!, $status: String!) {
			updateTaskStatus(taskId: $taskId, status: $status) {
				task {
					id
					title
					description
					status
					assigneeEmail
					dueDate
				}
			}
		}
	`

	deleteTaskMutation = `
		mutation DeleteTask($taskId: String!) {
			deleteTask(taskId: $taskId) {
				success
				message
			}
		}
	`

	deleteProjectMutation = `
		mutation DeleteProject($projectId: String!) {
			deleteProject(projectId: $projectId) {
				success
				message
			}
		}
	`

	createTaskCommentMutation = `
		mutation CreateTaskComment(
			$taskId: String!
			$content: String!
			$authorEmail: String!
		) {
			createTaskComment(
				taskId: $taskId
				content: $content
				authorEmail: $authorEmail
			) {
				comment {
					id
					content
					authorEmail
					timestamp
				}
			}
		}
	`

	signUpOrganizationMutation = `
		mutation SignUpOrganization(
			$name: String!
			$contactEmail: String!
			$password: String!
		) {
			signUpOrganization(
				name: $name
				contactEmail: $contactEmail
				password: $password
			) {
				success
				message
				apiKey
				organization {
					id
					name
					slug
					contactEmail
				}
			}
		}
	`

	loginOrganizationMutation = `
		mutation LoginOrganization($email: String!, $password: String!) {
			loginOrganization(email: $email, password: $password) {
				success
				message
				apiKey
				organization {
					id
					name
					slug
					contactEmail
				}
			}
		}
	`
)

// GetOrganization fetches a single organization by slug.
func (c *Client) GetOrganization(
	ctx context.Context,
	slug string,
) (*model.Organization, error) {
	var payload organizationPayload
	err := c.do(ctx, opGetOrganization, getOrganizationQuery,
		map[string]any{"slug": slug}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Organization == nil {
		return nil, &ProtocolError{Messages: []string{
			fmt.Sprintf("organization %q not found", slug),
		}}
	}
	return payload.Organization, nil
}

// GetProjects lists the organization's projects.
func (c *Client) GetProjects(
	ctx context.Context,
	organizationSlug string,
) ([]model.Project, error) {
	var payload projectsPayload
	err := c.do(ctx, opGetProjects, getProjectsQuery,
		map[string]any{"organizationSlug": organizationSlug}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.AllProjects, nil
}

// GetTasks lists the tasks of one project, including their comments.
func (c *Client) GetTasks(
	ctx context.Context,
	projectID string,
) ([]model.Task, error) {
	id, err := strconv.Atoi(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, err)
	}

	var payload tasksPayload
	err = c.do(ctx, opGetTasks, getTasksQuery,
		map[string]any{"projectId": id}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.AllTasks, nil
}

// CreateProjectInput carries the fields for a new project. Status and
// DueDate are optional and omitted from the variables when empty.
type CreateProjectInput struct {
	Name             string
	Description      string
	OrganizationSlug string
	Status           string
	DueDate          string
}

// CreateProject creates a project and returns the server's copy.
func (c *Client) CreateProject(
	ctx context.Context,
	in CreateProjectInput,
) (*model.Project, error) {
	variables := map[string]any{
		"name":             in.Name,
		"description":      in.Description,
		"organizationSlug": in.OrganizationSlug,
	}
	if in.Status != "" {
		variables["status"] = in.Status
	}
	if in.DueDate != "" {
		variables["dueDate"] = in.DueDate
	}

	var payload createProjectPayload
	err := c.do(ctx, opCreateProject, createProjectMutation, variables, &payload)
	if err != nil {
		return nil, err
	}
	return payload.CreateProject.Project, nil
}

// CreateTaskInput carries the fields for a new task. Optional fields are
// omitted from the variables when empty.
type CreateTaskInput struct {
	ProjectID     string
	Title         string
	Description   string
	Status        string
	AssigneeEmail string
	DueDate       string
}

// CreateTask creates a task in a project and returns the server's copy.
func (c *Client) CreateTask(
	ctx context.Context,
	in CreateTaskInput,
) (*model.Task, error) {
	id, err := strconv.Atoi(in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", in.ProjectID, err)
	}

	variables := map[string]any{
		"projectId": id,
		"title":     in.Title,
	}
	if in.Description != "" {
		variables["description"] = in.Description
	}
	if in.Status != "" {
		variables["status"] = in.Status
	}
	if in.AssigneeEmail != "" {
		variables["assigneeEmail"] = in.AssigneeEmail
	}
	if in.DueDate != "" {
		variables["dueDate"] = in.DueDate
	}

	var payload createTaskPayload
	err = c.do(ctx, opCreateTask, createTaskMutation, variables, &payload)
	if err != nil {
		return nil, err
	}
	return payload.CreateTask.Task, nil
}

// UpdateTaskInput names the task and the fields to replace. Nil fields
// are left unchanged server-side; each non-nil field is replaced whole.
type UpdateTaskInput struct {
	TaskID        string
	Title         *string
	Description   *string
	Status        *string
	AssigneeEmail *string
	DueDate       *string
}

// UpdateTask updates the named fields of a task.
func (c *Client) UpdateTask(
	ctx context.Context,
	in UpdateTaskInput,
) (*model.Task, error) {
	variables := map[string]any{"taskId": in.TaskID}
	if in.Title != nil {
		variables["title"] = *in.Title
	}
	if in.Description != nil {
		variables["description"] = *in.Description
	}
	if in.Status != nil {
		variables["status"] = *in.Status
	}
	if in.AssigneeEmail != nil {
		variables["assigneeEmail"] = *in.AssigneeEmail
	}
	if in.DueDate != nil {
		variables["dueDate"] = *in.DueDate
	}

	var payload updateTaskPayload
	err := c.do(ctx, opUpdateTask, updateTaskMutation, variables, &payload)
	if err != nil {
		return nil, err
	}
	return payload.UpdateTask.Task, nil
}

// UpdateTaskStatus replaces a task's status.
func (c *Client) UpdateTaskStatus(
	ctx context.Context,
	taskID string,
	status string,
) (*model.Task, error) {
	var payload updateTaskStatusPayload
	err := c.do(ctx, opUpdateTaskStatus, updateTaskStatusMutation,
		map[string]any{"taskId": taskID, "status": status}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.UpdateTaskStatus.Task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	var payload deleteTaskPayload
	err := c.do(ctx, opDeleteTask, deleteTaskMutation,
		map[string]any{"taskId": taskID}, &payload)
	if err != nil {
		return err
	}
	if !payload.DeleteTask.Success {
		return fmt.Errorf("deleting task %s: %s", taskID, payload.DeleteTask.Message)
	}
	return nil
}

// DeleteProject deletes a project and, server-side, its tasks.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	var payload deleteProjectPayload
	err := c.do(ctx, opDeleteProject, deleteProjectMutation,
		map[string]any{"projectId": projectID}, &payload)
	if err != nil {
		return err
	}
	if !payload.DeleteProject.Success {
		return fmt.Errorf("deleting project %s: %s",
			projectID, payload.DeleteProject.Message)
	}
	return nil
}

// CreateTaskComment appends a comment to a task.
func (c *Client) CreateTaskComment(
	ctx context.Context,
	taskID string,
	content string,
	authorEmail string,
) (*model.TaskComment, error) {
	var payload createTaskCommentPayload
	err := c.do(ctx, opCreateTaskComment, createTaskCommentMutation,
		map[string]any{
			"taskId":      taskID,
			"content":     content,
			"authorEmail": authorEmail,
		}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.CreateTaskComment.Comment, nil
}

// AuthResult is the successful outcome of sign-up or login.
type AuthResult struct {
	APIKey       string
	Organization model.Organization
	Message      string
}

// SignUpOrganization registers a new organization. Sent without the API
// key header. A success=false payload becomes an AuthError carrying the
// server's message.
func (c *Client) SignUpOrganization(
	ctx context.Context,
	name string,
	contactEmail string,
	password string,
) (*AuthResult, error) {
	var payload signUpPayload
	err := c.do(ctx, opSignUpOrganization, signUpOrganizationMutation,
		map[string]any{
			"name":         name,
			"contactEmail": contactEmail,
			"password":     password,
		}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.SignUpOrganization.result()
}

// LoginOrganization authenticates an existing organization. Sent without
// the API key header.
func (c *Client) LoginOrganization(
	ctx context.Context,
	email string,
	password string,
) (*AuthResult, error) {
	var payload loginPayload
	err := c.do(ctx, opLoginOrganization, loginOrganizationMutation,
		map[string]any{"email": email, "password": password}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.LoginOrganization.result()
}
