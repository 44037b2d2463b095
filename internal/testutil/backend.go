package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

// Response is one canned backend reply
type Response struct {
	Status int
	Body   string
}

// JSON builds a Response by encoding v
func JSON(status int, v interface{}) Response {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal response: %v", err))
	}
	return Response{Status: status, Body: string(b)}
}

// Detail builds an error Response carrying {"detail": msg}
func Detail(status int, msg string) Response {
	return JSON(status, map[string]string{"detail": msg})
}

// Backend is a fake Mission Control API. Each route replies with its queued
// responses in order; the last one repeats.
type Backend struct {
	mu        sync.Mutex
	responses map[string][]Response
	bodies    map[string][]string
	gates     map[string]chan struct{}
	srv       *httptest.Server
}

// NewBackend starts a fake backend that is closed when the test ends
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		responses: make(map[string][]Response),
		bodies:    make(map[string][]string),
		gates:     make(map[string]chan struct{}),
	}

	r := chi.NewRouter()
	r.Post("/api/login", b.handle)
	r.Post("/api/register", b.handle)
	r.Get("/api/auth/{provider}", func(w http.ResponseWriter, req *http.Request) {
		if !b.wait(req, b.record(req)) {
			return
		}
		http.Redirect(w, req, "/mock-oauth/"+chi.URLParam(req, "provider"), http.StatusFound)
	})
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Get("/stats", b.handle)
		r.Get("/logs", b.handle)
		r.Post("/trigger", b.handle)
	})

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

// URL returns the backend origin
func (b *Backend) URL() string {
	return b.srv.URL
}

// Client returns an API client pointed at the backend
func (b *Backend) Client() *client.Client {
	return client.NewClient(client.Config{BaseURL: b.srv.URL})
}

// Close stops the server and releases any held requests
func (b *Backend) Close() {
	b.mu.Lock()
	for key, gate := range b.gates {
		close(gate)
		delete(b.gates, key)
	}
	b.mu.Unlock()
	b.srv.Close()
}

// On queues responses for method and path
func (b *Backend) On(method, path string, responses ...Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[method+" "+path] = append([]Response(nil), responses...)
}

// Hold makes requests to method and path wait until the returned func is called
func (b *Backend) Hold(method, path string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[method+" "+path] = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gates[method+" "+path] == gate {
				delete(b.gates, method+" "+path)
				close(gate)
			}
			b.mu.Unlock()
		})
	}
}

// Calls returns how many requests reached method and path
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bodies[method+" "+path])
}

// Bodies returns the raw request bodies received on method and path
func (b *Backend) Bodies(method, path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.bodies[method+" "+path]...)
}

func (b *Backend) record(req *http.Request) string {
	key := req.Method + " " + req.URL.Path
	body, _ := io.ReadAll(req.Body)

	b.mu.Lock()
	b.bodies[key] = append(b.bodies[key], string(body))
	b.mu.Unlock()
	return key
}

// wait blocks on a Hold gate for key and reports false if the client gave up
func (b *Backend) wait(req *http.Request, key string) bool {
	b.mu.Lock()
	gate := b.gates[key]
	b.mu.Unlock()
	if gate == nil {
		return true
	}
	select {
	case <-gate:
		return true
	case <-req.Context().Done():
		return false
	}
}

func (b *Backend) handle(w http.ResponseWriter, req *http.Request) {
	key := b.record(req)
	if !b.wait(req, key) {
		return
	}

	b.mu.Lock()
	queue := b.responses[key]
	var resp Response
	switch len(queue) {
	case 0:
		resp = Detail(http.StatusNotFound, "no response configured for "+key)
	case 1:
		resp = queue[0]
	default:
		resp = queue[0]
		b.responses[key] = queue[1:]
	}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}
