package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
)

// RecordingNavigator is a navigation.Navigator that records every handoff
type RecordingNavigator struct {
	mu          sync.Mutex
	Navigations []navigation.Location
	Redirects   []string
	RedirectErr error

	navigated chan navigation.Location
}

// NewRecordingNavigator creates an empty recorder
func NewRecordingNavigator() *RecordingNavigator {
	return &RecordingNavigator{navigated: make(chan navigation.Location, 16)}
}

func (n *RecordingNavigator) Navigate(dest navigation.Destination, state navigation.State) {
	loc := navigation.Location{Path: dest, State: state}
	n.mu.Lock()
	n.Navigations = append(n.Navigations, loc)
	n.mu.Unlock()
	n.navigated <- loc
}

func (n *RecordingNavigator) Redirect(url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Redirects = append(n.Redirects, url)
	return n.RedirectErr
}

// Locations returns a copy of the recorded navigations
func (n *RecordingNavigator) Locations() []navigation.Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]navigation.Location(nil), n.Navigations...)
}

// RedirectURLs returns a copy of the recorded redirects
func (n *RecordingNavigator) RedirectURLs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.Redirects...)
}

// WaitNavigation blocks until a navigation is recorded
func (n *RecordingNavigator) WaitNavigation(t *testing.T, timeout time.Duration) navigation.Location {
	t.Helper()
	select {
	case loc := <-n.navigated:
		return loc
	case <-time.After(timeout):
		t.Fatalf("no navigation within %s", timeout)
		return navigation.Location{}
	}
}

// AssertNoNavigation fails if a navigation arrives within wait
func (n *RecordingNavigator) AssertNoNavigation(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case loc := <-n.navigated:
		t.Fatalf("unexpected navigation to %s", loc.Path)
	case <-time.After(wait):
	}
}
