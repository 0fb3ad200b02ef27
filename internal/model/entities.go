package model

import (
	"strings"
	"time"
)

// Project status values as reported by the API.
const (
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusCompleted = "COMPLETED"
	ProjectStatusOnHold    = "ON_HOLD"
)

// Task status values as reported by the API.
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// ProjectStatuses lists the valid project statuses in display order.
var ProjectStatuses = []string{
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
}

// TaskStatuses lists the valid task statuses in display order.
var TaskStatuses = []string{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusDone,
}

// NextTaskStatus returns the status that follows s in the TODO ->
// IN_PROGRESS -> DONE -> TODO cycle.
func NextTaskStatus(s string) string {
	for i, status := range TaskStatuses {
		if status == s {
			return TaskStatuses[(i+1)%len(TaskStatuses)]
		}
	}
	return TaskStatusTodo
}

// Organization is the top-level tenant that owns projects. It is created
// at sign-up and immutable from the client's perspective afterwards.
type Organization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contactEmail"`
}

// Project is a named body of work containing tasks, scoped to one
// organization. TaskCount and CompletedTasks are derived server-side and
// read-only here.
type Project struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	DueDate        string       `json:"dueDate"`
	TaskCount      int          `json:"taskCount"`
	CompletedTasks int          `json:"completedTasks"`
	Organization   Organization `json:"organization"`
}

// ProjectRef is the abbreviated project reference embedded in a task.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a unit of work within a project. AssigneeEmail is free text,
// not validated against any user registry. Comments are append-only.
type Task struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	AssigneeEmail string        `json:"assigneeEmail"`
	DueDate       string        `json:"dueDate"`
	Project       ProjectRef    `json:"project"`
	Comments      []TaskComment `json:"taskcommentSet"`
}

// TaskComment is a single comment on a task. There is no edit or delete
// operation for comments.
type TaskComment struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	AuthorEmail string `json:"authorEmail"`
	Timestamp   string `json:"timestamp"`
}

// DueDateTime parses the task's due date. The API returns either a plain
// date (2006-01-02) or a full ISO timestamp depending on the field's
// server-side type; only the calendar date is significant. Returns false
// when no due date is set or the value does not parse.
func (t Task) DueDateTime() (time.Time, bool) {
	return parseWireDate(t.DueDate)
}

// DueDateTime parses the project's due date, if any.
func (p Project) DueDateTime() (time.Time, bool) {
	return parseWireDate(p.DueDate)
}

// CommentedAt parses the comment's server-assigned creation timestamp.
func (c TaskComment) CommentedAt() (time.Time, bool) {
	if c.Timestamp == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, c.Timestamp); err == nil {
		return ts, true
	}
	return parseWireDate(c.Timestamp)
}

func parseWireDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
