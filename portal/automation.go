package portal

import (
	"context"
	"time"
)

// Automation is the browser capability the driver is written against.
// Each Launch yields an isolated browser session that the caller must
// Close; sessions share nothing with each other.
type Automation interface {
	Launch(ctx context.Context) (BrowserSession, error)
}

// BrowserSession is one controllable browser instance.
//
// WaitVisible and WaitNavigation block up to timeout and return
// TimeoutErr (possibly wrapped) when it elapses.
type BrowserSession interface {
	// Navigate loads url in the session's page.
	Navigate(url string) error
	// WaitVisible blocks until the element matching selector is
	// visible and interactable.
	WaitVisible(selector string, timeout time.Duration) error
	// Fill types value into the element matching selector.
	Fill(selector, value string) error
	// Click clicks the element matching selector.
	Click(selector string) error
	// WaitNavigation blocks until the page is no longer on fromURL.
	// Comparing against a fixed page rather than "wherever the page
	// was when the wait began" means a navigation that completes
	// before the wait starts still counts as arrived.
	WaitNavigation(fromURL string, timeout time.Duration) error
	// Cookies returns the cookie jar of the current page.
	Cookies() ([]Cookie, error)
	// Screenshot writes a full-page capture to path.
	Screenshot(path string) error
	// Content returns the current page HTML.
	Content() (string, error)
	// Close releases the browser session. Safe to call on every exit
	// path; errors during teardown are not actionable.
	Close() error
}

// Cookie is a name/value pair from the browser's jar.
type Cookie struct {
	Name  string
	Value string
}
