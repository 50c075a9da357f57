// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Names of the methods with typed bindings, in caller-side form.
const (
	MethodGetVersion     = "get_version"
	MethodGetTimezone    = "get_timezone"
	MethodGetMe          = "get_me"
	MethodGetMyProjects  = "get_my_projects"
	MethodCreateProject  = "create_project"
	MethodGetProjectByID = "get_project_by_id"
	MethodGetAllProjects = "get_all_projects"
	MethodRemoveProject  = "remove_project"
	MethodCreateTask     = "create_task"
	MethodGetTask        = "get_task"
	MethodGetAllTasks    = "get_all_tasks"
	MethodUpdateTask     = "update_task"
	MethodCloseTask      = "close_task"
	MethodOpenTask       = "open_task"
	MethodRemoveTask     = "remove_task"
	MethodCreateComment  = "create_comment"
)

// Task status filters for GetAllTasks.
const (
	StatusClosed = 0
	StatusActive = 1
)

// ID is a Kanboard identifier. Older servers send ids as numeric strings.
type ID int64

// UnmarshalJSON accepts a number, a numeric string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("kanboard: invalid id %q", data)
	}
	*id = ID(v)
	return nil
}

// Flag is a boolean that also accepts 0/1 and "0"/"1".
type Flag bool

// UnmarshalJSON accepts true/false, 0/1 and their quoted forms.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "1", "true":
		*f = true
	case "0", "false", "", "null":
		*f = false
	default:
		return fmt.Errorf("kanboard: invalid flag %s", data)
	}
	return nil
}

// User as returned by getMe.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive Flag   `json:"is_active"`
}

// Project as returned by getProjectById and getAllProjects.
type Project struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Identifier  string `json:"identifier"`
	IsActive    Flag   `json:"is_active"`
	IsPublic    Flag   `json:"is_public"`
	OwnerID     ID     `json:"owner_id"`
}

// Task as returned by getTask and getAllTasks.
type Task struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   ID     `json:"project_id"`
	ColumnID    ID     `json:"column_id"`
	OwnerID     ID     `json:"owner_id"`
	ColorID     string `json:"color_id"`
	IsActive    Flag   `json:"is_active"`
	Reference   string `json:"reference"`
}

// ProjectParams are the arguments of createProject.
type ProjectParams struct {
	Name        string
	Description string
	OwnerID     ID
	Identifier  string
}

func (p ProjectParams) params() Params {
	out := Params{"name": p.Name}
	setString(out, "description", p.Description)
	setString(out, "identifier", p.Identifier)
	setID(out, "owner_id", p.OwnerID)
	return out
}

// TaskParams are the arguments of createTask and updateTask.
type TaskParams struct {
	Title       string
	ProjectID   ID
	Description string
	ColorID     string
	ColumnID    ID
	OwnerID     ID
	Priority    int
	Reference   string
	Tags        []string
}

func (p TaskParams) params() Params {
	out := Params{}
	setString(out, "title", p.Title)
	setID(out, "project_id", p.ProjectID)
	setString(out, "description", p.Description)
	setString(out, "color_id", p.ColorID)
	setID(out, "column_id", p.ColumnID)
	setID(out, "owner_id", p.OwnerID)
	setString(out, "reference", p.Reference)
	if p.Priority != 0 {
		out["priority"] = p.Priority
	}
	if len(p.Tags) > 0 {
		out["tags"] = p.Tags
	}
	return out
}

func setString(p Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func setID(p Params, key string, value ID) {
	if value != 0 {
		p[key] = int64(value)
	}
}

// GetVersion returns the application version.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var v string
	err := c.CallResult(ctx, MethodGetVersion, nil, &v)
	return v, err
}

// GetTimezone returns the server timezone.
func (c *Client) GetTimezone(ctx context.Context) (string, error) {
	var tz string
	err := c.CallResult(ctx, MethodGetTimezone, nil, &tz)
	return tz, err
}

// GetMe returns the authenticated user. Only available to user credentials,
// not the "jsonrpc" application user.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := c.CallResult(ctx, MethodGetMe, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetMyProjects lists the projects of the authenticated user.
func (c *Client) GetMyProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.CallResult(ctx, MethodGetMyProjects, nil, &projects)
	return projects, err
}

// CreateProject creates a project and returns its id.
func (c *Client) CreateProject(ctx context.Context, p ProjectParams) (ID, error) {
	return c.callID(ctx, MethodCreateProject, p.params())
}

// GetProjectByID returns a project, or nil if it does not exist.
func (c *Client) GetProjectByID(ctx context.Context, projectID ID) (*Project, error) {
	var p *Project
	err := c.CallResult(ctx, MethodGetProjectByID, Params{"project_id": int64(projectID)}, &p)
	return p, err
}

// GetAllProjects lists every project.
func (c *Client) GetAllProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.CallResult(ctx, MethodGetAllProjects, nil, &projects)
	return projects, err
}

// RemoveProject deletes a project.
func (c *Client) RemoveProject(ctx context.Context, projectID ID) (bool, error) {
	return c.callBool(ctx, MethodRemoveProject, Params{"project_id": int64(projectID)})
}

// CreateTask creates a task and returns its id.
func (c *Client) CreateTask(ctx context.Context, p TaskParams) (ID, error) {
	return c.callID(ctx, MethodCreateTask, p.params())
}

// GetTask returns a task, or nil if it does not exist.
func (c *Client) GetTask(ctx context.Context, taskID ID) (*Task, error) {
	var t *Task
	err := c.CallResult(ctx, MethodGetTask, Params{"task_id": int64(taskID)}, &t)
	return t, err
}

// GetAllTasks lists the tasks of a project with the given status.
func (c *Client) GetAllTasks(ctx context.Context, projectID ID, status int) ([]Task, error) {
	var tasks []Task
	err := c.CallResult(ctx, MethodGetAllTasks, Params{"project_id": int64(projectID), "status_id": status}, &tasks)
	return tasks, err
}

// UpdateTask modifies the non-zero fields of p on task taskID.
func (c *Client) UpdateTask(ctx context.Context, taskID ID, p TaskParams) (bool, error) {
	params := p.params()
	params["id"] = int64(taskID)
	return c.callBool(ctx, MethodUpdateTask, params)
}

// CloseTask closes a task.
func (c *Client) CloseTask(ctx context.Context, taskID ID) (bool, error) {
	return c.callBool(ctx, MethodCloseTask, Params{"task_id": int64(taskID)})
}

// OpenTask reopens a task.
func (c *Client) OpenTask(ctx context.Context, taskID ID) (bool, error) {
	return c.callBool(ctx, MethodOpenTask, Params{"task_id": int64(taskID)})
}

// RemoveTask deletes a task.
func (c *Client) RemoveTask(ctx context.Context, taskID ID) (bool, error) {
	return c.callBool(ctx, MethodRemoveTask, Params{"task_id": int64(taskID)})
}

// CreateComment adds a comment to a task and returns the comment id.
func (c *Client) CreateComment(ctx context.Context, taskID, userID ID, content string) (ID, error) {
	return c.callID(ctx, MethodCreateComment, Params{
		"task_id": int64(taskID),
		"user_id": int64(userID),
		"content": content,
	})
}

// callID handles creation methods, which answer with the new id or false.
func (c *Client) callID(ctx context.Context, name string, params Params) (ID, error) {
	var raw json.RawMessage
	if err := c.CallResult(ctx, name, params, &raw); err != nil {
		return 0, err
	}
	if string(bytes.TrimSpace(raw)) == "false" {
		return 0, &ClientError{Message: ToWireName(name) + " failed"}
	}
	var id ID
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, &ClientError{Message: msgParseFailure + err.Error(), Err: err}
	}
	return id, nil
}

func (c *Client) callBool(ctx context.Context, name string, params Params) (bool, error) {
	var ok Flag
	err := c.CallResult(ctx, name, params, &ok)
	return bool(ok), err
}
