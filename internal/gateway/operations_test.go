package gateway_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/priority"
	"github.com/nhle/taskboard/tests/testutil"
)

func TestGetTasksVariables(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	g.Handle("GetTasks", func(vars map[string]any) (any, string) {
		// JSON numbers decode as float64; the id must be numeric on
		// the wire, not a string.
		if id, ok := vars["projectId"].(float64); !ok || id != 7 {
			return nil, fmt.Sprintf("unexpected projectId %v", vars["projectId"])
		}
		return map[string]any{"allTasks": []model.Task{}}, ""
	})

	c := newClient(g, signedInSession(t))
	tasks, err := c.GetTasks(context.Background(), "7")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = c.GetTasks(context.Background(), "not-a-number")
	require.Error(t, err)
	// Validation happens before any network call.
	assert.Len(t, g.Requests(), 1)
}

func TestCreateTaskOmitsEmptyOptionals(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	g.Handle("CreateTask", func(vars map[string]any) (any, string) {
		return map[string]any{"createTask": map[string]any{
			"task": map[string]any{
				"id": "1", "title": vars["title"], "status": "TODO",
			},
		}}, ""
	})

	c := newClient(g, signedInSession(t))
	_, err := c.CreateTask(context.Background(), gateway.CreateTaskInput{
		ProjectID: "3",
		Title:     "Ship it",
	})
	require.NoError(t, err)

	vars := g.LastRequest().Variables
	assert.Equal(t, "Ship it", vars["title"])
	assert.NotContains(t, vars, "description")
	assert.NotContains(t, vars, "assigneeEmail")
	assert.NotContains(t, vars, "dueDate")
	assert.NotContains(t, vars, "status")
}

func TestUpdateTaskSendsOnlyNamedFields(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	g.Handle("UpdateTask", func(vars map[string]any) (any, string) {
		return map[string]any{"updateTask": map[string]any{
			"task": map[string]any{"id": vars["taskId"], "title": vars["title"]},
		}}, ""
	})

	c := newClient(g, signedInSession(t))
	title := "Renamed"
	_, err := c.UpdateTask(context.Background(), gateway.UpdateTaskInput{
		TaskID: "42",
		Title:  &title,
	})
	require.NoError(t, err)

	vars := g.LastRequest().Variables
	assert.Equal(t, "42", vars["taskId"])
	assert.Equal(t, "Renamed", vars["title"])
	assert.NotContains(t, vars, "status")
	assert.NotContains(t, vars, "description")
}

// fakeBoard wires the stub server into a tiny in-memory task collection
// so create/update/list behave like the real backend.
func fakeBoard(g *testutil.GraphQLServer) *map[string]map[string]any {
	tasks := map[string]map[string]any{}
	nextID := 0

	g.Handle("CreateTask", func(vars map[string]any) (any, string) {
		nextID++
		id := fmt.Sprintf("%d", nextID)
		task := map[string]any{
			"id":            id,
			"title":         vars["title"],
			"description":   stringOr(vars, "description", ""),
			"status":        stringOr(vars, "status", "TODO"),
			"assigneeEmail": stringOr(vars, "assigneeEmail", ""),
			"dueDate":       stringOr(vars, "dueDate", ""),
		}
		tasks[id] = task
		return map[string]any{"createTask": map[string]any{"task": task}}, ""
	})

	g.Handle("UpdateTaskStatus", func(vars map[string]any) (any, string) {
		id, _ := vars["taskId"].(string)
		task, ok := tasks[id]
		if !ok {
			return nil, fmt.Sprintf("Task %s does not exist", id)
		}
		task["status"] = vars["status"]
		return map[string]any{"updateTaskStatus": map[string]any{"task": task}}, ""
	})

	g.Handle("GetTasks", func(vars map[string]any) (any, string) {
		all := []map[string]any{}
		for _, task := range tasks {
			all = append(all, task)
		}
		return map[string]any{"allTasks": all}, ""
	})

	return &tasks
}

func stringOr(vars map[string]any, key, fallback string) string {
	if v, ok := vars[key].(string); ok {
		return v
	}
	return fallback
}

func TestCreateThenListRoundTrip(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	fakeBoard(g)
	c := newClient(g, signedInSession(t))
	ctx := context.Background()

	created, err := c.CreateTask(ctx, gateway.CreateTaskInput{
		ProjectID:     "7",
		Title:         "Write release notes",
		Description:   "Cover the new API",
		Status:        model.TaskStatusInProgress,
		AssigneeEmail: "dev@acme.test",
		DueDate:       "2025-07-01",
	})
	require.NoError(t, err)

	tasks, err := c.GetTasks(ctx, "7")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Write release notes", got.Title)
	assert.Equal(t, "Cover the new API", got.Description)
	assert.Equal(t, model.TaskStatusInProgress, got.Status)
	assert.Equal(t, "dev@acme.test", got.AssigneeEmail)
	assert.Equal(t, "2025-07-01", got.DueDate)
}

func TestStatusUpdateReflectedInList(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	tasks := fakeBoard(g)
	(*tasks)["42"] = map[string]any{
		"id": "42", "title": "Old task", "status": model.TaskStatusTodo,
		"dueDate": time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
	}

	c := newClient(g, signedInSession(t))
	ctx := context.Background()

	updated, err := c.UpdateTaskStatus(ctx, "42", model.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDone, updated.Status)

	listed, err := c.GetTasks(ctx, "7")
	require.NoError(t, err)

	var task42 *model.Task
	for i := range listed {
		if listed[i].ID == "42" {
			task42 = &listed[i]
		}
	}
	require.NotNil(t, task42)
	assert.Equal(t, model.TaskStatusDone, task42.Status)

	// Done tasks carry no priority tier even with a due date tomorrow.
	due, ok := task42.DueDateTime()
	require.True(t, ok)
	assert.Equal(t, priority.None,
		priority.Classify(due, task42.Status, time.Now()))
}

func TestDeleteMutationStatus(t *testing.T) {
	t.Run("success true", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("DeleteTask", func(vars map[string]any) (any, string) {
			return map[string]any{"deleteTask": map[string]any{
				"success": true, "message": "Task deleted successfully",
			}}, ""
		})

		c := newClient(g, signedInSession(t))
		require.NoError(t, c.DeleteTask(context.Background(), "5"))
		assert.Equal(t, "5", g.LastRequest().Variables["taskId"])
	})

	t.Run("success false surfaces the message", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("DeleteProject", func(vars map[string]any) (any, string) {
			return map[string]any{"deleteProject": map[string]any{
				"success": false, "message": "Project is locked",
			}}, ""
		})

		c := newClient(g, signedInSession(t))
		err := c.DeleteProject(context.Background(), "9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Project is locked")
	})
}

func TestGetProjects(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	g.Handle("GetProjects", func(vars map[string]any) (any, string) {
		assert.Equal(t, "acme", vars["organizationSlug"])
		return map[string]any{"allProjects": []map[string]any{{
			"id": "1", "name": "Platform", "description": "Core work",
			"status": "ACTIVE", "dueDate": "2025-09-01",
			"taskCount": 12, "completedTasks": 4,
			"organization": map[string]any{
				"id": "1", "name": "Acme", "slug": "acme",
				"contactEmail": "ops@acme.test",
			},
		}}}, ""
	})

	c := newClient(g, signedInSession(t))
	projects, err := c.GetProjects(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "Platform", p.Name)
	assert.Equal(t, model.ProjectStatusActive, p.Status)
	assert.Equal(t, 12, p.TaskCount)
	assert.Equal(t, 4, p.CompletedTasks)
	assert.Equal(t, "acme", p.Organization.Slug)
}

func TestCreateTaskComment(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	g.Handle("CreateTaskComment", func(vars map[string]any) (any, string) {
		return map[string]any{"createTaskComment": map[string]any{
			"comment": map[string]any{
				"id":          "100",
				"content":     vars["content"],
				"authorEmail": vars["authorEmail"],
				"timestamp":   "2025-06-10T12:00:00+00:00",
			},
		}}, ""
	})

	c := newClient(g, signedInSession(t))
	comment, err := c.CreateTaskComment(
		context.Background(), "42", "Looks good", "ops@acme.test")
	require.NoError(t, err)

	assert.Equal(t, "Looks good", comment.Content)
	assert.Equal(t, "ops@acme.test", comment.AuthorEmail)
	at, ok := comment.CommentedAt()
	require.True(t, ok)
	assert.Equal(t, 2025, at.Year())
}

func TestGetOrganization(t *testing.T) {
	t.Run("decodes the organization", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("GetOrganization", func(vars map[string]any) (any, string) {
			if vars["slug"] != "acme" {
				return nil, fmt.Sprintf("unexpected slug %v", vars["slug"])
			}
			return map[string]any{"organization": map[string]any{
				"id":           "1",
				"name":         "Acme",
				"slug":         "acme",
				"contactEmail": "ops@acme.test",
			}}, ""
		})

		c := newClient(g, signedInSession(t))
		org, err := c.GetOrganization(context.Background(), "acme")
		require.NoError(t, err)

		assert.Equal(t, "Acme", org.Name)
		assert.Equal(t, "acme", org.Slug)
		assert.Equal(t, "ops@acme.test", org.ContactEmail)
	})

	t.Run("null organization is a protocol error", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("GetOrganization", func(map[string]any) (any, string) {
			return map[string]any{"organization": nil}, ""
		})

		c := newClient(g, signedInSession(t))
		_, err := c.GetOrganization(context.Background(), "ghost")

		var perr *gateway.ProtocolError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Messages[0], "ghost")
	})
}
