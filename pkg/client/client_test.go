package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantUser   string
		wantStatus int
		wantDetail string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"user":"alice"}`,
			wantUser: "alice",
		},
		{
			name:       "rejected with detail",
			status:     http.StatusUnauthorized,
			body:       `{"detail":"bad creds"}`,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "bad creds",
		},
		{
			name:       "rejected without json body",
			status:     http.StatusInternalServerError,
			body:       `oops`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got client.LoginRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get(client.RequestIDHeader) == "" {
					t.Error("missing request id header")
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := client.NewClient(client.Config{BaseURL: srv.URL})
			resp, err := c.Login(context.Background(), "alice", "secret")

			if got.Username != "alice" || got.Password != "secret" {
				t.Errorf("request body = %+v", got)
			}

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("Login() error = %v", err)
				}
				if resp.User != tt.wantUser {
					t.Errorf("Login() user = %q, want %q", resp.User, tt.wantUser)
				}
				return
			}

			apiErr, ok := client.AsAPIError(err)
			if !ok {
				t.Fatalf("Login() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", apiErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := client.NewClient(client.Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Register(context.Background(), client.RegisterRequest{Username: "bob"})
	if !client.IsTransport(err) {
		t.Fatalf("Register() error = %v, want transport error", err)
	}
	if _, ok := client.AsAPIError(err); ok {
		t.Error("transport failure must not be an APIError")
	}
}

func TestClient_UndecodableSuccessIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	c := client.NewClient(client.Config{BaseURL: srv.URL})
	if _, err := c.Login(context.Background(), "a", "b"); !client.IsTransport(err) {
		t.Fatalf("Login() error = %v, want transport error", err)
	}
}

func TestDashboardService(t *testing.T) {
	var triggered bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"production":{"status":"Healthy","version":"v1.2.0","uptime":"99.9%"},"staging":{"status":"Deploying","version":"v1.3.0-rc","uptime":"98%"},"build_success_rate":94}`))
	})
	mux.HandleFunc("/api/dashboard/logs", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"logs":["one","two"]}`))
	})
	mux.HandleFunc("/api/dashboard/trigger", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("trigger method = %s", r.Method)
		}
		triggered = true
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := client.NewClient(client.Config{BaseURL: srv.URL})
	ctx := context.Background()

	stats, err := c.Dashboard().Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Production == nil || stats.Production.Version != "v1.2.0" {
		t.Errorf("Stats() production = %+v", stats.Production)
	}
	if stats.BuildSuccessRate == nil || *stats.BuildSuccessRate != 94 {
		t.Errorf("Stats() rate = %v", stats.BuildSuccessRate)
	}

	logs, err := c.Dashboard().Logs(ctx)
	if err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if strings.Join(logs, ",") != "one,two" {
		t.Errorf("Logs() = %v", logs)
	}

	if err := c.Dashboard().Trigger(ctx); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if !triggered {
		t.Error("Trigger() did not reach the backend")
	}
}

func TestDashboardService_LogsMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := client.NewClient(client.Config{BaseURL: srv.URL})
	if _, err := c.Dashboard().Logs(context.Background()); err == nil {
		t.Fatal("Logs() expected error for missing field")
	}
}

func TestClient_SocialLoginURL(t *testing.T) {
	c := client.NewClient(client.Config{
		BaseURL:       "http://api.local/",
		SocialBaseURL: "http://auth.local",
	})

	got := c.SocialLoginURL("google", 42)
	if got != "http://auth.local/api/auth/google?ts=42" {
		t.Errorf("SocialLoginURL() = %q", got)
	}

	fallback := client.NewClient(client.Config{BaseURL: "http://api.local/"})
	if got := fallback.SocialLoginURL("git hub", 7); got != "http://api.local/api/auth/git%20hub?ts=7" {
		t.Errorf("SocialLoginURL() = %q", got)
	}
}

func TestClient_Observer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	var gotPath string
	var gotStatus int
	c := client.NewClient(client.Config{
		BaseURL: srv.URL,
		Observer: func(method, path string, status int, elapsed time.Duration) {
			gotPath, gotStatus = path, status
		},
	})

	if err := c.Dashboard().Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if gotPath != "/api/dashboard/trigger" || gotStatus != http.StatusAccepted {
		t.Errorf("observer got %q %d", gotPath, gotStatus)
	}
}
