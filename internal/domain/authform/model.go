package authform

import (
	apperrors "github.com/pratik-mahalle/missioncontrol/internal/pkg/errors"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/validator"
)

// Mode selects which form is shown and which endpoint a submission calls
type Mode int

const (
	SignIn Mode = iota
	SignUp
)

func (m Mode) String() string {
	switch m {
	case SignIn:
		return "sign_in"
	case SignUp:
		return "sign_up"
	default:
		return "unknown"
	}
}

// Credentials is transient form input. It is never persisted.
type Credentials struct {
	Username string
	Password string
	Email    string
}

// FeedbackKind tells success and error messages apart
type FeedbackKind int

const (
	FeedbackSuccess FeedbackKind = iota
	FeedbackError
)

// Feedback is the single message shown under the form header
type Feedback struct {
	Kind FeedbackKind
	Text string
}

// Outcome reports how a submission ended
type Outcome int

const (
	// OutcomeRejected left an error message on the form
	OutcomeRejected Outcome = iota
	// OutcomeRegistered left a success message without navigating
	OutcomeRegistered
	// OutcomeNavigated handed off to the dashboard
	OutcomeNavigated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeRegistered:
		return "registered"
	case OutcomeNavigated:
		return "navigated"
	default:
		return "unknown"
	}
}

// View is a consistent copy of the form state for rendering
type View struct {
	Mode        Mode
	Credentials Credentials
	Feedback    *Feedback
}

type signInFields struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signUpFields struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ValidateCredentials is the form control's required-field check. Submissions
// do not repeat it.
func ValidateCredentials(mode Mode, creds Credentials) error {
	var errs []validator.ValidationError
	if mode == SignUp {
		errs = validator.Validate(signUpFields{Email: creds.Email, Username: creds.Username, Password: creds.Password})
	} else {
		errs = validator.Validate(signInFields{Username: creds.Username, Password: creds.Password})
	}
	if len(errs) > 0 {
		return apperrors.Validation(validator.Join(errs))
	}
	return nil
}
