package navigation

import (
	"fmt"
	"net/http"
	"net/url"
)

// InAppRedirect returns an Opener that requests the redirect target without
// following it. When the server sends the user back to one of our own routes
// the handoff happens in-app on nav; any other target goes to fallback.
func InAppRedirect(hc *http.Client, nav Navigator, fallback Opener) Opener {
	if hc == nil {
		hc = http.DefaultClient
	}
	noFollow := *hc
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return func(target string) error {
		resp, err := noFollow.Get(target)
		if err != nil {
			return fmt.Errorf("redirect request failed: %w", err)
		}
		resp.Body.Close()

		if loc, err := resp.Location(); err == nil {
			if dest, ok := inAppDestination(loc); ok {
				nav.Navigate(dest, State{})
				return nil
			}
			target = loc.String()
		}

		if fallback == nil {
			return fmt.Errorf("no browser available for %s", target)
		}
		return fallback(target)
	}
}

func inAppDestination(u *url.URL) (Destination, bool) {
	dest := Destination(u.Path)
	if _, ok := dest.MockOAuthProvider(); ok {
		return dest, true
	}
	if dest == Dashboard {
		return dest, true
	}
	return "", false
}
