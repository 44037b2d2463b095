package authform

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
	apperrors "github.com/pratik-mahalle/missioncontrol/internal/pkg/errors"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/internal/testutil"
	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

func newTestController(t *testing.T) (*Controller, *testutil.Backend, *testutil.RecordingNavigator) {
	t.Helper()
	backend := testutil.NewBackend(t)
	nav := testutil.NewRecordingNavigator()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewController(backend.Client(), nav, clockwork.NewFakeClock(), log), backend, nav
}

func TestController_ToggleModeClearsState(t *testing.T) {
	c, backend, _ := newTestController(t)
	backend.On("POST", "/api/login", testutil.Detail(http.StatusUnauthorized, "bad creds"))

	c.SetUsername("alice")
	c.SetPassword("secret")
	c.Submit(context.Background())
	if c.View().Feedback == nil {
		t.Fatal("expected feedback before toggling")
	}

	for i, want := range []Mode{SignUp, SignIn, SignUp} {
		c.SetUsername("u")
		c.SetPassword("p")
		c.SetEmail("e@x.com")

		c.ToggleMode()

		v := c.View()
		if v.Mode != want {
			t.Errorf("toggle %d: mode = %s, want %s", i, v.Mode, want)
		}
		if v.Credentials != (Credentials{}) {
			t.Errorf("toggle %d: credentials not cleared: %+v", i, v.Credentials)
		}
		if v.Feedback != nil {
			t.Errorf("toggle %d: feedback not cleared: %+v", i, v.Feedback)
		}
	}
}

func TestController_SubmitSignIn(t *testing.T) {
	tests := []struct {
		name         string
		response     testutil.Response
		wantOutcome  Outcome
		wantUsername string
		wantFeedback string
	}{
		{
			name:         "success navigates with returned user",
			response:     testutil.JSON(http.StatusOK, map[string]string{"user": "alice"}),
			wantOutcome:  OutcomeNavigated,
			wantUsername: "alice",
		},
		{
			name:         "server rejection shows detail",
			response:     testutil.Detail(http.StatusUnauthorized, "bad creds"),
			wantOutcome:  OutcomeRejected,
			wantFeedback: "Error: bad creds",
		},
		{
			name:         "server rejection without detail uses fallback",
			response:     testutil.Response{Status: http.StatusInternalServerError, Body: `{}`},
			wantOutcome:  OutcomeRejected,
			wantFeedback: "Error: Login failed",
		},
		{
			name:         "success without user is a failed login",
			response:     testutil.JSON(http.StatusOK, map[string]string{}),
			wantOutcome:  OutcomeRejected,
			wantFeedback: "Error: Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, backend, nav := newTestController(t)
			backend.On("POST", "/api/login", tt.response)

			got := c.SubmitSignIn(context.Background(), Credentials{Username: "alice", Password: "pw"})
			if got != tt.wantOutcome {
				t.Fatalf("SubmitSignIn() = %s, want %s", got, tt.wantOutcome)
			}

			locs := nav.Locations()
			if tt.wantUsername != "" {
				if len(locs) != 1 {
					t.Fatalf("navigations = %d, want 1", len(locs))
				}
				if locs[0].Path != navigation.Dashboard || locs[0].State.Username != tt.wantUsername {
					t.Errorf("navigated to %+v", locs[0])
				}
				return
			}

			if len(locs) != 0 {
				t.Errorf("unexpected navigation: %+v", locs)
			}
			fb := c.View().Feedback
			if fb == nil || fb.Kind != FeedbackError || fb.Text != tt.wantFeedback {
				t.Errorf("feedback = %+v, want error %q", fb, tt.wantFeedback)
			}
		})
	}
}

func TestController_SubmitSignIn_TransportFailure(t *testing.T) {
	c, backend, nav := newTestController(t)
	backend.Close()

	if got := c.SubmitSignIn(context.Background(), Credentials{Username: "a", Password: "b"}); got != OutcomeRejected {
		t.Fatalf("SubmitSignIn() = %s", got)
	}
	fb := c.View().Feedback
	if fb == nil || fb.Text != "Error: Could not connect to backend." {
		t.Errorf("feedback = %+v", fb)
	}
	if len(nav.Locations()) != 0 {
		t.Error("transport failure must not navigate")
	}
}

func TestController_SubmitSignUp(t *testing.T) {
	tests := []struct {
		name          string
		register      testutil.Response
		login         testutil.Response
		wantOutcome   Outcome
		wantUsername  string
		wantFeedback  string
		wantFeedKind  FeedbackKind
		wantLoginCall int
	}{
		{
			name:          "register then login uses login's user",
			register:      testutil.JSON(http.StatusCreated, map[string]string{"message": "User created"}),
			login:         testutil.JSON(http.StatusOK, map[string]string{"user": "alice_server"}),
			wantOutcome:   OutcomeNavigated,
			wantUsername:  "alice_server",
			wantFeedback:  "Success: User created",
			wantFeedKind:  FeedbackSuccess,
			wantLoginCall: 1,
		},
		{
			name:          "login without user falls back to entered username",
			register:      testutil.JSON(http.StatusOK, map[string]string{"message": "ok"}),
			login:         testutil.JSON(http.StatusOK, map[string]string{}),
			wantOutcome:   OutcomeNavigated,
			wantUsername:  "alice",
			wantFeedback:  "Success: ok",
			wantFeedKind:  FeedbackSuccess,
			wantLoginCall: 1,
		},
		{
			name:          "login failure degrades silently",
			register:      testutil.JSON(http.StatusOK, map[string]string{"message": "User created"}),
			login:         testutil.Detail(http.StatusUnauthorized, "pending verification"),
			wantOutcome:   OutcomeRegistered,
			wantFeedback:  "Success: User created",
			wantFeedKind:  FeedbackSuccess,
			wantLoginCall: 1,
		},
		{
			name:          "register failure skips login",
			register:      testutil.Detail(http.StatusConflict, "Username already exists"),
			wantOutcome:   OutcomeRejected,
			wantFeedback:  "Error: Username already exists",
			wantFeedKind:  FeedbackError,
			wantLoginCall: 0,
		},
		{
			name:          "register failure without detail uses fallback",
			register:      testutil.Response{Status: http.StatusBadRequest, Body: "nope"},
			wantOutcome:   OutcomeRejected,
			wantFeedback:  "Error: Registration failed",
			wantFeedKind:  FeedbackError,
			wantLoginCall: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, backend, nav := newTestController(t)
			backend.On("POST", "/api/register", tt.register)
			if tt.login.Status != 0 {
				backend.On("POST", "/api/login", tt.login)
			}

			creds := Credentials{Username: "alice", Password: "pw", Email: "alice@example.com"}
			if got := c.SubmitSignUp(context.Background(), creds); got != tt.wantOutcome {
				t.Fatalf("SubmitSignUp() = %s, want %s", got, tt.wantOutcome)
			}

			if calls := backend.Calls("POST", "/api/login"); calls != tt.wantLoginCall {
				t.Errorf("login calls = %d, want %d", calls, tt.wantLoginCall)
			}

			fb := c.View().Feedback
			if fb == nil || fb.Kind != tt.wantFeedKind || fb.Text != tt.wantFeedback {
				t.Errorf("feedback = %+v, want %q", fb, tt.wantFeedback)
			}

			locs := nav.Locations()
			if tt.wantUsername == "" {
				if len(locs) != 0 {
					t.Errorf("unexpected navigation: %+v", locs)
				}
				return
			}
			if len(locs) != 1 || locs[0].State.Username != tt.wantUsername {
				t.Errorf("navigations = %+v, want username %q", locs, tt.wantUsername)
			}
		})
	}
}

func TestController_SubmitSignUp_SendsAllFields(t *testing.T) {
	c, backend, _ := newTestController(t)
	backend.On("POST", "/api/register", testutil.Detail(http.StatusConflict, "taken"))

	c.ToggleMode()
	c.SetEmail("bob@example.com")
	c.SetUsername("bob")
	c.SetPassword("hunter2")
	c.Submit(context.Background())

	bodies := backend.Bodies("POST", "/api/register")
	if len(bodies) != 1 {
		t.Fatalf("register calls = %d", len(bodies))
	}
	for _, want := range []string{`"email":"bob@example.com"`, `"username":"bob"`, `"password":"hunter2"`} {
		if !strings.Contains(bodies[0], want) {
			t.Errorf("register body %s missing %s", bodies[0], want)
		}
	}
}

func TestController_ResubmitReplacesFeedback(t *testing.T) {
	c, backend, nav := newTestController(t)
	backend.On("POST", "/api/login",
		testutil.Detail(http.StatusUnauthorized, "bad creds"),
		testutil.JSON(http.StatusOK, map[string]string{"user": "alice"}),
	)

	creds := Credentials{Username: "alice", Password: "pw"}
	c.SubmitSignIn(context.Background(), creds)
	if fb := c.View().Feedback; fb == nil || fb.Text != "Error: bad creds" {
		t.Fatalf("first feedback = %+v", fb)
	}

	if got := c.SubmitSignIn(context.Background(), creds); got != OutcomeNavigated {
		t.Fatalf("retry = %s, want navigated", got)
	}
	if len(nav.Locations()) != 1 {
		t.Errorf("navigations = %d, want 1", len(nav.Locations()))
	}
}

func TestController_StartSocialLogin(t *testing.T) {
	backend := testutil.NewBackend(t)
	nav := testutil.NewRecordingNavigator()
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1_700_000_000_000))
	c := NewController(backend.Client(), nav, clock, logger.Nop())

	first := c.StartSocialLogin("google")
	second := c.StartSocialLogin("google")
	clock.Advance(5 * time.Millisecond)
	third := c.StartSocialLogin("github")

	want := []string{
		backend.URL() + "/api/auth/google?ts=1700000000000",
		backend.URL() + "/api/auth/google?ts=1700000000001",
		backend.URL() + "/api/auth/github?ts=1700000000005",
	}
	got := []string{first, second, third}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("redirect %d = %q, want %q", i, got[i], want[i])
		}
	}
	if redirects := nav.RedirectURLs(); len(redirects) != 3 || redirects[1] != want[1] {
		t.Errorf("navigator redirects = %v", redirects)
	}
	if len(nav.Locations()) != 0 {
		t.Error("social login must not perform an in-app navigation")
	}
}

func TestController_StartSocialLogin_OpenerFailure(t *testing.T) {
	backend := testutil.NewBackend(t)
	nav := testutil.NewRecordingNavigator()
	nav.RedirectErr = errors.New("no browser")
	c := NewController(backend.Client(), nav, clockwork.NewFakeClock(), logger.Nop())

	url := c.StartSocialLogin("github")

	fb := c.View().Feedback
	if fb == nil || fb.Kind != FeedbackError || !strings.Contains(fb.Text, url) {
		t.Errorf("feedback = %+v", fb)
	}
}

type stubGateway struct {
	loginErr error
}

func (s stubGateway) Login(ctx context.Context, username, password string) (*client.LoginResponse, error) {
	return nil, s.loginErr
}

func (s stubGateway) Register(ctx context.Context, req client.RegisterRequest) (*client.RegisterResponse, error) {
	return &client.RegisterResponse{Message: "created"}, nil
}

func (s stubGateway) SocialLoginURL(provider string, token int64) string {
	return ""
}

func TestController_AutoLoginTransportFailureIsSilent(t *testing.T) {
	nav := testutil.NewRecordingNavigator()
	c := NewController(stubGateway{loginErr: &client.TransportError{Method: "POST", Path: "/api/login", Err: errors.New("reset")}}, nav, nil, logger.Nop())

	if got := c.SubmitSignUp(context.Background(), Credentials{Username: "a", Password: "b", Email: "a@b.com"}); got != OutcomeRegistered {
		t.Fatalf("SubmitSignUp() = %s", got)
	}
	if fb := c.View().Feedback; fb == nil || fb.Text != "Success: created" {
		t.Errorf("feedback = %+v", fb)
	}

	_, err := c.autoLogin(context.Background(), Credentials{Username: "a"})
	if !apperrors.Is(err, apperrors.KindSilent) {
		t.Errorf("autoLogin() error = %v, want silent degradation", err)
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		creds   Credentials
		wantErr string
	}{
		{name: "sign in ok", mode: SignIn, creds: Credentials{Username: "a", Password: "b"}},
		{name: "sign in ignores email", mode: SignIn, creds: Credentials{Username: "a", Password: "b", Email: "junk"}},
		{name: "sign in missing password", mode: SignIn, creds: Credentials{Username: "a"}, wantErr: "password is required"},
		{name: "sign up ok", mode: SignUp, creds: Credentials{Username: "a", Password: "b", Email: "a@b.com"}},
		{name: "sign up bad email", mode: SignUp, creds: Credentials{Username: "a", Password: "b", Email: "nope"}, wantErr: "email must be a valid email address"},
		{name: "sign up missing all", mode: SignUp, wantErr: "email is required; username is required; password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.mode, tt.creds)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateCredentials() error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ValidateCredentials() error = %v, want %q", err, tt.wantErr)
			}
			if !apperrors.Is(err, apperrors.KindValidation) {
				t.Error("expected a validation rejection")
			}
		})
	}
}
