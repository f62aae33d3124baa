package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one request seen by FakeServer.
type Request struct {
	Method string
	Path   string
	Body   string
}

// FakeServer is a json-server compatible task collection served over
// httptest, mounted at /todos/.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	items    []map[string]any
	requests []Request

	// FailWith, when non-zero, makes every request return this status.
	FailWith int
}

// NewFakeServer starts a FakeServer and registers its shutdown with t.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	fs := &FakeServer{}

	r := chi.NewRouter()
	r.Use(fs.recordRequest)
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", fs.list)
		r.Post("/", fs.create)
		r.Get("/{id}", fs.get)
		r.Patch("/{id}", fs.patch)
		r.Delete("/{id}", fs.remove)
	})

	fs.Server = httptest.NewServer(r)
	t.Cleanup(fs.Close)
	return fs
}

// CollectionURL returns the collection endpoint.
func (fs *FakeServer) CollectionURL() string {
	return fs.Server.URL + "/todos/"
}

// Seed adds a raw JSON object to the collection.
func (fs *FakeServer) Seed(t *testing.T, raw string) {
	t.Helper()
	var item map[string]any
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("seed: %v", err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.items = append(fs.items, item)
}

// Items returns a copy of the stored objects.
func (fs *FakeServer) Items() []map[string]any {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]map[string]any, len(fs.items))
	for i, item := range fs.items {
		cp := make(map[string]any, len(item))
		for k, v := range item {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Requests returns the recorded requests.
func (fs *FakeServer) Requests() []Request {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]Request, len(fs.requests))
	copy(out, fs.requests)
	return out
}

func (fs *FakeServer) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		fs.mu.Lock()
		fs.requests = append(fs.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		failWith := fs.FailWith
		fs.mu.Unlock()

		if failWith != 0 {
			http.Error(w, http.StatusText(failWith), failWith)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (fs *FakeServer) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fs.Items())
}

func (fs *FakeServer) get(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	i := fs.indexOf(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, fs.items[i])
}

func (fs *FakeServer) create(w http.ResponseWriter, r *http.Request) {
	var item map[string]any
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if id, ok := item["id"]; ok && fs.indexOf(fmt.Sprint(id)) >= 0 {
		http.Error(w, "duplicate id", http.StatusConflict)
		return
	}
	if _, ok := item["id"]; !ok {
		item["id"] = fmt.Sprintf("gen-%d", len(fs.items)+1)
	}
	fs.items = append(fs.items, item)
	writeJSON(w, http.StatusCreated, item)
}

func (fs *FakeServer) patch(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	i := fs.indexOf(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		fs.items[i][k] = v
	}
	writeJSON(w, http.StatusOK, fs.items[i])
}

func (fs *FakeServer) remove(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	i := fs.indexOf(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	fs.items = append(fs.items[:i], fs.items[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{})
}

// indexOf must be called with fs.mu held.
func (fs *FakeServer) indexOf(id string) int {
	for i, item := range fs.items {
		if fmt.Sprint(item["id"]) == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
