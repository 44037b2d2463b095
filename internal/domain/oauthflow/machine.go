package oauthflow

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/pratik-mahalle/missioncontrol/internal/pkg/errors"
)

// ErrInvalidTransition is returned for an event the current state does not accept
var ErrInvalidTransition = errors.New("invalid transition")

// Machine is the pure transition function for one provider
type Machine struct {
	Provider string
	Accounts []MockAccount
}

// NewMachine creates a machine offering the default accounts
func NewMachine(provider string) Machine {
	return Machine{Provider: provider, Accounts: DefaultAccounts()}
}

// Transition returns the next state. On error the caller keeps s.
func (m Machine) Transition(s State, e Event) (State, error) {
	switch st := s.(type) {
	case Loading:
		if _, ok := e.(LoadElapsed); ok {
			return Consent{Accounts: m.Accounts}, nil
		}

	case Consent:
		switch ev := e.(type) {
		case ChooseAccount:
			if ev.Index < 0 || ev.Index >= len(st.Accounts) {
				return s, fmt.Errorf("%w: no account at index %d", ErrInvalidTransition, ev.Index)
			}
			return Redirecting{Email: st.Accounts[ev.Index].Email, Provider: m.Provider}, nil
		case UseAnotherAccount:
			return CustomInput{}, nil
		}

	case CustomInput:
		switch ev := e.(type) {
		case EditEmail:
			return CustomInput{Email: ev.Value}, nil
		case SubmitEmail:
			email := strings.TrimSpace(st.Email)
			if email == "" {
				return s, apperrors.Validation("email is required")
			}
			return Redirecting{Email: email, Provider: m.Provider}, nil
		case Back:
			return Consent{Accounts: m.Accounts}, nil
		}

	case Redirecting:
		// terminal
	}

	return s, fmt.Errorf("%w: %T in %s", ErrInvalidTransition, e, s.Phase())
}
