package oauthflow

import "strings"

// Phase names a state variant
type Phase string

const (
	PhaseLoading     Phase = "loading"
	PhaseConsent     Phase = "consent"
	PhaseCustomInput Phase = "custom_input"
	PhaseRedirecting Phase = "redirecting"
)

// State is one of Loading, Consent, CustomInput or Redirecting. Each variant
// carries only the data its screen needs.
type State interface {
	Phase() Phase
	isState()
}

// Loading simulates the provider's first round trip
type Loading struct{}

// Consent lists the canned accounts plus "use another account"
type Consent struct {
	Accounts []MockAccount
}

// CustomInput collects an email for an account not in the list
type CustomInput struct {
	Email string
}

// Redirecting is terminal: the chosen identity is on its way to the dashboard
type Redirecting struct {
	Email    string
	Provider string
}

func (Loading) Phase() Phase     { return PhaseLoading }
func (Consent) Phase() Phase     { return PhaseConsent }
func (CustomInput) Phase() Phase { return PhaseCustomInput }
func (Redirecting) Phase() Phase { return PhaseRedirecting }

func (Loading) isState()     {}
func (Consent) isState()     {}
func (CustomInput) isState() {}
func (Redirecting) isState() {}

// Event drives the machine
type Event interface {
	isEvent()
}

// LoadElapsed fires when the simulated loading delay ends
type LoadElapsed struct{}

// ChooseAccount picks a canned account by index
type ChooseAccount struct {
	Index int
}

// UseAnotherAccount opens the custom email form
type UseAnotherAccount struct{}

// EditEmail replaces the custom email input
type EditEmail struct {
	Value string
}

// SubmitEmail confirms the custom email
type SubmitEmail struct{}

// Back returns from the custom email form to the account list
type Back struct{}

func (LoadElapsed) isEvent()       {}
func (ChooseAccount) isEvent()     {}
func (UseAnotherAccount) isEvent() {}
func (EditEmail) isEvent()         {}
func (SubmitEmail) isEvent()       {}
func (Back) isEvent()              {}

// MockAccount is a canned identity offered on the consent screen
type MockAccount struct {
	Email       string
	DisplayName string
}

// Initial returns the first letter used as the account avatar
func (a MockAccount) Initial() string {
	if a.DisplayName == "" {
		return "?"
	}
	return strings.ToUpper(a.DisplayName[:1])
}

// DefaultAccounts returns the fixed account list
func DefaultAccounts() []MockAccount {
	return []MockAccount{
		{Email: "admin@example.com", DisplayName: "Admin User"},
		{Email: "jane.doe@example.com", DisplayName: "Jane Doe"},
	}
}

// Theme selects the provider's visual treatment
type Theme string

const (
	ThemeGoogle Theme = "google"
	ThemeGitHub Theme = "github"
)

// ThemeFor derives the theme from the provider parameter. The match is
// case-insensitive: "Google", "google" and "GOOGLE" all get ThemeGoogle, since
// social login routes use lowercase provider names. Anything else is GitHub.
func ThemeFor(provider string) Theme {
	if strings.EqualFold(provider, "google") {
		return ThemeGoogle
	}
	return ThemeGitHub
}
