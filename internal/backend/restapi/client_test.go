package restapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"todoctl/internal/backend/restapi"
	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

func newClient(t *testing.T, baseURL string) *restapi.Client {
	t.Helper()
	c, err := restapi.NewWithHTTPClient(baseURL, http.DefaultClient)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:3001/todos/", "http://localhost:3001/todos/"},
		{"http://localhost:3001/todos", "http://localhost:3001/todos/"},
		{"  https://api.example.com/v1/todos ", "https://api.example.com/v1/todos/"},
	}
	for _, tt := range tests {
		c := newClient(t, tt.in)
		if c.BaseURL() != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.in, c.BaseURL(), tt.want)
		}
	}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:3001/todos", "ftp://host/todos", "http:///todos"} {
		if _, err := restapi.NewWithHTTPClient(raw, http.DefaultClient); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestNew_FromConfig(t *testing.T) {
	c, err := restapi.New(&config.Config{APIURL: "http://localhost:3001/todos", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseURL() != "http://localhost:3001/todos/" {
		t.Errorf("unexpected base url %q", c.BaseURL())
	}
}

func TestListTasks(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed(t, `{"id":"a1","title":"Buy milk","completed":false}`)
	srv.Seed(t, `{"id":7,"title":"Walk dog","completed":true,"extra":"ignored"}`)

	got, err := newClient(t, srv.CollectionURL()).ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.Task{
		{ID: "a1", Title: "Buy milk"},
		{ID: "7", Title: "Walk dog", Completed: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListTasks = %+v, want %+v", got, want)
	}
}

func TestListTasks_Empty(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	got, err := newClient(t, srv.CollectionURL()).ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no tasks, got %v", got)
	}
}

func TestListTasks_SchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not an array", `{"todos":[]}`, "invalid task payload at /"},
		{"missing title", `[{"id":"1","completed":false}]`, "invalid task payload at /0"},
		{"wrong type", `[{"id":"1","title":"x","completed":"yes"}]`, "invalid task payload at /0/completed"},
		{"float id", `[{"id":1.5,"title":"x","completed":false}]`, "invalid task payload at /0/id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL+"/todos/").ListTasks(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("expected error starting with %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateTask(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newClient(t, srv.CollectionURL())

	err := c.CreateTask(context.Background(), service.Task{ID: "u-1", Title: "Read book"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/todos/" {
		t.Errorf("unexpected request %s %s", reqs[0].Method, reqs[0].Path)
	}
	if reqs[0].Body != `{"id":"u-1","title":"Read book","completed":false}` {
		t.Errorf("unexpected body %s", reqs[0].Body)
	}
	if items := srv.Items(); len(items) != 1 || items[0]["title"] != "Read book" {
		t.Errorf("unexpected items %v", items)
	}
}

func TestCreateTask_Conflict(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed(t, `{"id":"u-1","title":"a","completed":false}`)

	err := newClient(t, srv.CollectionURL()).CreateTask(context.Background(), service.Task{ID: "u-1", Title: "b"})
	if err == nil || !strings.Contains(err.Error(), "status 409: duplicate id") {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed(t, `{"id":"a1","title":"Buy milk","completed":false}`)
	c := newClient(t, srv.CollectionURL())
	ctx := context.Background()

	if err := c.UpdateTask(ctx, "a1", service.CompletedPatch(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.UpdateTask(ctx, "a1", service.TitlePatch("Buy oat milk")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.UpdateTask(ctx, "a1", service.CompletedPatch(false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := srv.Requests()
	wantBodies := []string{`{"completed":true}`, `{"title":"Buy oat milk"}`, `{"completed":false}`}
	if len(reqs) != len(wantBodies) {
		t.Fatalf("expected %d requests, got %d", len(wantBodies), len(reqs))
	}
	for i, req := range reqs {
		if req.Method != http.MethodPatch || req.Path != "/todos/a1" {
			t.Errorf("request %d: unexpected %s %s", i, req.Method, req.Path)
		}
		if req.Body != wantBodies[i] {
			t.Errorf("request %d: body %s, want %s", i, req.Body, wantBodies[i])
		}
	}

	item := srv.Items()[0]
	if item["title"] != "Buy oat milk" || item["completed"] != false {
		t.Errorf("unexpected item %v", item)
	}
}

func TestUpdateTask_EmptyPatchSendsNothing(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	if err := newClient(t, srv.CollectionURL()).UpdateTask(context.Background(), "a1", service.TaskPatch{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	err := newClient(t, srv.CollectionURL()).UpdateTask(context.Background(), "missing", service.CompletedPatch(true))
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed(t, `{"id":"a 1","title":"spaced id","completed":false}`)
	srv.Seed(t, `{"id":"b2","title":"keep","completed":false}`)

	if err := newClient(t, srv.CollectionURL()).DeleteTask(context.Background(), "a 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := srv.Items()
	if len(items) != 1 || items[0]["id"] != "b2" {
		t.Errorf("unexpected items %v", items)
	}
	if req := srv.Requests()[0]; req.Method != http.MethodDelete || req.Path != "/todos/a 1" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
}

func TestServerError(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.FailWith = http.StatusInternalServerError

	_, err := newClient(t, srv.CollectionURL()).ListTasks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected status 500 error, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c, err := restapi.New(&config.Config{APIURL: srv.URL + "/todos/", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListTasks(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "request timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("timeout should match context.DeadlineExceeded, got %v", err)
	}
}
