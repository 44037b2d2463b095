package navigation

import (
	"io"

	"github.com/pkg/browser"
)

// BrowserOpener opens redirects in the system browser. The opener's own output
// is discarded so it cannot draw over a terminal UI.
func BrowserOpener() Opener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL
}
