// Package navigation hands control between views. Handoffs carry an in-memory
// State that does not survive a restart.
package navigation

import (
	"strings"
	"sync"
)

// Destination is an in-app route
type Destination string

const (
	Auth      Destination = "/"
	Dashboard Destination = "/dashboard"

	mockOAuthPrefix = "/mock-oauth/"
)

// MockOAuth returns the consent screen route for provider
func MockOAuth(provider string) Destination {
	return Destination(mockOAuthPrefix + provider)
}

// MockOAuthProvider extracts the provider from a consent screen route
func (d Destination) MockOAuthProvider() (string, bool) {
	s := string(d)
	if !strings.HasPrefix(s, mockOAuthPrefix) || len(s) == len(mockOAuthPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, mockOAuthPrefix), true
}

// State is the identity context carried to the destination view
type State struct {
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	UserEmail string `json:"user_email,omitempty" yaml:"user_email,omitempty"`
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// DisplayName picks the best label for the signed-in identity
func (s State) DisplayName() string {
	switch {
	case s.Username != "":
		return s.Username
	case s.UserEmail != "":
		return s.UserEmail
	default:
		return "Admin"
	}
}

// Location is a destination plus the state it was entered with
type Location struct {
	Path  Destination
	State State
}

// Navigator receives in-app handoffs and full-page redirects
type Navigator interface {
	Navigate(dest Destination, state State)
	Redirect(url string) error
}

// Opener performs a full-page redirect outside the app
type Opener func(url string) error

// Router is an in-memory Navigator
type Router struct {
	mu           sync.Mutex
	current      Location
	history      []Location
	lastRedirect string
	opener       Opener
	changes      chan struct{}
}

// NewRouter creates a router positioned at the auth view
func NewRouter(opener Opener) *Router {
	return &Router{
		current: Location{Path: Auth},
		opener:  opener,
		changes: make(chan struct{}, 1),
	}
}

// SetOpener replaces the full-page redirect handler
func (r *Router) SetOpener(opener Opener) {
	r.mu.Lock()
	r.opener = opener
	r.mu.Unlock()
}

// Navigate moves to dest, replacing the current location
func (r *Router) Navigate(dest Destination, state State) {
	r.mu.Lock()
	loc := Location{Path: dest, State: state}
	r.history = append(r.history, r.current)
	r.current = loc
	r.mu.Unlock()
	r.notify()
}

// Redirect leaves the app for url
func (r *Router) Redirect(url string) error {
	r.mu.Lock()
	r.lastRedirect = url
	opener := r.opener
	r.mu.Unlock()

	r.notify()
	if opener == nil {
		return nil
	}
	return opener(url)
}

// Current returns the active location
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// LastRedirect returns the most recent full-page redirect target
func (r *Router) LastRedirect() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRedirect
}

// History returns the previously active locations, oldest first
func (r *Router) History() []Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Location, len(r.history))
	copy(out, r.history)
	return out
}

// Changes signals after every Navigate or Redirect. Signals coalesce; read Current.
func (r *Router) Changes() <-chan struct{} {
	return r.changes
}

func (r *Router) notify() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}
