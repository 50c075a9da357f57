// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeKanboard answers each wire method with a canned result and records the
// params it received.
type fakeKanboard struct {
	results map[string]string

	mu     sync.Mutex
	params map[string]map[string]any
}

func (f *fakeKanboard) got(method string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params[method]
}

func newFakeKanboard(t *testing.T, results map[string]string) (*fakeKanboard, *Client) {
	t.Helper()
	fake := &fakeKanboard{results: results, params: map[string]map[string]any{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		fake.mu.Lock()
		fake.params[req.Method] = req.Params
		fake.mu.Unlock()
		result, ok := fake.results[req.Method]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, result)
	}))
	t.Cleanup(server.Close)
	return fake, newTestClient(t, server.URL)
}

func TestTypedProjectMethods(t *testing.T) {
	fake, client := newFakeKanboard(t, map[string]string{
		"createProject":  `3`,
		"getProjectById": `{"id":"3","name":"API","is_active":"1","is_public":"0","owner_id":"0"}`,
		"getAllProjects": `[{"id":1,"name":"A","is_active":true},{"id":"3","name":"API"}]`,
		"removeProject":  `true`,
	})
	ctx := context.Background()

	id, err := client.CreateProject(ctx, ProjectParams{Name: "API", Description: "desc"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if id != 3 {
		t.Errorf("got id %d, want 3", id)
	}
	if got := fake.got("createProject"); got["name"] != "API" || got["description"] != "desc" {
		t.Errorf("got params %v", got)
	}
	if _, ok := fake.got("createProject")["owner_id"]; ok {
		t.Error("zero owner_id was sent")
	}

	p, err := client.GetProjectByID(ctx, 3)
	if err != nil {
		t.Fatalf("GetProjectByID: %v", err)
	}
	if p.ID != 3 || p.Name != "API" || !bool(p.IsActive) || bool(p.IsPublic) {
		t.Errorf("got project %+v", p)
	}
	if got := fake.got("getProjectById")["project_id"]; got != float64(3) {
		t.Errorf("got project_id %v", got)
	}

	all, err := client.GetAllProjects(ctx)
	if err != nil {
		t.Fatalf("GetAllProjects: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 3 {
		t.Errorf("got projects %+v", all)
	}

	ok, err := client.RemoveProject(ctx, 3)
	if err != nil || !ok {
		t.Errorf("RemoveProject = %v, %v", ok, err)
	}
}

func TestTypedTaskMethods(t *testing.T) {
	fake, client := newFakeKanboard(t, map[string]string{
		"createTask":    `12`,
		"getTask":       `{"id":"12","title":"Fix","project_id":"3","priority":"2","is_active":"1"}`,
		"getAllTasks":   `[{"id":"12","title":"Fix"}]`,
		"updateTask":    `true`,
		"closeTask":     `true`,
		"openTask":      `false`,
		"removeTask":    `true`,
		"createComment": `"7"`,
	})
	ctx := context.Background()

	id, err := client.CreateTask(ctx, TaskParams{Title: "Fix", ProjectID: 3, Tags: []string{"bug"}})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if id != 12 {
		t.Errorf("got id %d", id)
	}
	if tags, _ := fake.got("createTask")["tags"].([]any); len(tags) != 1 || tags[0] != "bug" {
		t.Errorf("got tags %v", fake.got("createTask")["tags"])
	}

	task, err := client.GetTask(ctx, 12)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.ID != 12 || task.ProjectID != 3 || !bool(task.IsActive) {
		t.Errorf("got task %+v", task)
	}

	tasks, err := client.GetAllTasks(ctx, 3, StatusActive)
	if err != nil {
		t.Fatalf("GetAllTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("got %d tasks", len(tasks))
	}
	if got := fake.got("getAllTasks")["status_id"]; got != float64(StatusActive) {
		t.Errorf("got status_id %v", got)
	}

	if ok, err := client.UpdateTask(ctx, 12, TaskParams{Title: "Fixed"}); err != nil || !ok {
		t.Errorf("UpdateTask = %v, %v", ok, err)
	}
	if got := fake.got("updateTask"); got["id"] != float64(12) || got["title"] != "Fixed" {
		t.Errorf("got updateTask params %v", got)
	}

	if ok, err := client.CloseTask(ctx, 12); err != nil || !ok {
		t.Errorf("CloseTask = %v, %v", ok, err)
	}
	if ok, err := client.OpenTask(ctx, 12); err != nil || ok {
		t.Errorf("OpenTask = %v, %v", ok, err)
	}
	if ok, err := client.RemoveTask(ctx, 12); err != nil || !ok {
		t.Errorf("RemoveTask = %v, %v", ok, err)
	}

	commentID, err := client.CreateComment(ctx, 12, 1, "done")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if commentID != 7 {
		t.Errorf("got comment id %d", commentID)
	}
}

func TestTypedCreateFailure(t *testing.T) {
	_, client := newFakeKanboard(t, map[string]string{"createProject": `false`})

	_, err := client.CreateProject(context.Background(), ProjectParams{Name: "dup"})
	if err == nil || err.Error() != "createProject failed" {
		t.Errorf("got %v, want createProject failed", err)
	}
}

func TestTypedUserMethods(t *testing.T) {
	_, client := newFakeKanboard(t, map[string]string{
		"getVersion":    `"1.2.30"`,
		"getTimezone":   `"UTC"`,
		"getMe":         `{"id":"2","username":"alice","role":"app-admin","is_active":1}`,
		"getMyProjects": `[]`,
	})
	ctx := context.Background()

	if v, err := client.GetVersion(ctx); err != nil || v != "1.2.30" {
		t.Errorf("GetVersion = %q, %v", v, err)
	}
	if tz, err := client.GetTimezone(ctx); err != nil || tz != "UTC" {
		t.Errorf("GetTimezone = %q, %v", tz, err)
	}
	me, err := client.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != 2 || me.Username != "alice" || !bool(me.IsActive) {
		t.Errorf("got user %+v", me)
	}
	projects, err := client.GetMyProjects(ctx)
	if err != nil || len(projects) != 0 {
		t.Errorf("GetMyProjects = %v, %v", projects, err)
	}
}

func TestTypedMethodServerError(t *testing.T) {
	_, client := newFakeKanboard(t, nil)

	_, err := client.GetVersion(context.Background())
	if err == nil || err.Error() != "Method not found" {
		t.Errorf("got %v, want Method not found", err)
	}
}

func TestIDAndFlagDecoding(t *testing.T) {
	var v struct {
		A, B, C ID
		X, Y, Z Flag
	}
	data := `{"A":7,"B":"12","C":null,"X":"1","Y":true,"Z":0}`
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.A != 7 || v.B != 12 || v.C != 0 {
		t.Errorf("got ids %d %d %d", v.A, v.B, v.C)
	}
	if !v.X || !v.Y || v.Z {
		t.Errorf("got flags %v %v %v", v.X, v.Y, v.Z)
	}

	var id ID
	if err := json.Unmarshal([]byte(`"abc"`), &id); err == nil {
		t.Error("expected error for non-numeric id")
	}
	var f Flag
	if err := json.Unmarshal([]byte(`2`), &f); err == nil {
		t.Error("expected error for flag 2")
	}
}
