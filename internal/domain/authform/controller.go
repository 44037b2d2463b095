package authform

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
	apperrors "github.com/pratik-mahalle/missioncontrol/internal/pkg/errors"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/metrics"
	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
)

// Gateway is the subset of the backend client the form needs
type Gateway interface {
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.RegisterResponse, error)
	SocialLoginURL(provider string, token int64) string
}

// Controller owns the sign-in/sign-up form
type Controller struct {
	mu        sync.Mutex
	mode      Mode
	creds     Credentials
	feedback  *Feedback
	lastToken int64

	gateway Gateway
	nav     navigation.Navigator
	clock   clockwork.Clock
	logger  *logger.Logger
}

// NewController creates a form in sign-in mode
func NewController(gateway Gateway, nav navigation.Navigator, clock clockwork.Clock, log *logger.Logger) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{
		mode:    SignIn,
		gateway: gateway,
		nav:     nav,
		clock:   clock,
		logger:  log.With("component", "authform"),
	}
}

// View returns a copy of the current form state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Mode: c.mode, Credentials: c.creds}
	if c.feedback != nil {
		fb := *c.feedback
		v.Feedback = &fb
	}
	return v
}

// SetUsername updates the username field
func (c *Controller) SetUsername(v string) {
	c.mu.Lock()
	c.creds.Username = v
	c.mu.Unlock()
}

// SetPassword updates the password field
func (c *Controller) SetPassword(v string) {
	c.mu.Lock()
	c.creds.Password = v
	c.mu.Unlock()
}

// SetEmail updates the email field
func (c *Controller) SetEmail(v string) {
	c.mu.Lock()
	c.creds.Email = v
	c.mu.Unlock()
}

// ToggleMode switches between sign-in and sign-up, clearing every field and
// any message.
func (c *Controller) ToggleMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == SignIn {
		c.mode = SignUp
	} else {
		c.mode = SignIn
	}
	c.creds = Credentials{}
	c.feedback = nil
}

// Submit sends the current fields under the current mode
func (c *Controller) Submit(ctx context.Context) Outcome {
	v := c.View()
	if v.Mode == SignUp {
		return c.SubmitSignUp(ctx, v.Credentials)
	}
	return c.SubmitSignIn(ctx, v.Credentials)
}

// SubmitSignIn logs in and hands off to the dashboard on success
func (c *Controller) SubmitSignIn(ctx context.Context, creds Credentials) Outcome {
	resp, err := c.gateway.Login(ctx, creds.Username, creds.Password)
	if err == nil && resp.User == "" {
		// A 2xx without a user identifier does not establish a session.
		err = &client.APIError{StatusCode: 200}
	}
	if err != nil {
		c.reject(SignIn, err, loginFallback)
		return OutcomeRejected
	}

	metrics.RecordAuthSubmission(SignIn.String(), OutcomeNavigated.String())
	c.nav.Navigate(navigation.Dashboard, navigation.State{Username: resp.User})
	return OutcomeNavigated
}

// SubmitSignUp registers and then chains an automatic login. A failed
// automatic login leaves the success message in place and is only logged.
func (c *Controller) SubmitSignUp(ctx context.Context, creds Credentials) Outcome {
	resp, err := c.gateway.Register(ctx, client.RegisterRequest{
		Email:    creds.Email,
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		c.reject(SignUp, err, registerFallback)
		return OutcomeRejected
	}

	c.setFeedback(&Feedback{Kind: FeedbackSuccess, Text: "Success: " + resp.Message})

	username, err := c.autoLogin(ctx, creds)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"username": creds.Username,
			"kind":     apperrors.KindSilent,
		}).WarnWithErr(err, "Auto-login after registration failed")
		metrics.RecordAuthSubmission(SignUp.String(), OutcomeRegistered.String())
		return OutcomeRegistered
	}

	metrics.RecordAuthSubmission(SignUp.String(), OutcomeNavigated.String())
	c.nav.Navigate(navigation.Dashboard, navigation.State{Username: username})
	return OutcomeNavigated
}

// autoLogin is step two of sign-up. Every failure is a silent degradation.
func (c *Controller) autoLogin(ctx context.Context, creds Credentials) (string, error) {
	resp, err := c.gateway.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return "", apperrors.Silent("auto-login failed", err)
	}
	if resp.User != "" {
		return resp.User, nil
	}
	return creds.Username, nil
}

// StartSocialLogin sends the user to the backend's provider redirect. Every
// attempt carries a fresh token so a cached redirect is never replayed.
func (c *Controller) StartSocialLogin(provider string) string {
	url := c.gateway.SocialLoginURL(provider, c.nextToken())

	if err := c.nav.Redirect(url); err != nil {
		c.logger.With("provider", provider).WarnWithErr(err, "Failed to open social login redirect")
		c.setFeedback(&Feedback{
			Kind: FeedbackError,
			Text: fmt.Sprintf("Error: Could not open browser. Continue at %s", url),
		})
	}
	return url
}

func (c *Controller) nextToken() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.clock.Now().UnixMilli()
	if token <= c.lastToken {
		token = c.lastToken + 1
	}
	c.lastToken = token
	return token
}

func (c *Controller) reject(mode Mode, err error, fallback string) {
	appErr := apperrors.Classify(err, fallback)

	c.logger.WithFields(map[string]interface{}{
		"mode":   mode.String(),
		"kind":   appErr.Kind,
		"status": appErr.StatusCode,
	}).WarnWithErr(err, "Credential submission failed")
	metrics.RecordAuthSubmission(mode.String(), OutcomeRejected.String())

	c.setFeedback(&Feedback{Kind: FeedbackError, Text: appErr.UserText()})
}

func (c *Controller) setFeedback(fb *Feedback) {
	c.mu.Lock()
	c.feedback = fb
	c.mu.Unlock()
}
