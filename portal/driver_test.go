package portal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kienminhkhai84-max/learngate/portal"
)

const (
	testLoginURL  = "https://portal.example.com/login"
	testHomeURL   = "https://portal.example.com/dashboard"
	testCookie    = "sessionid"
	testEmail     = "a@x.com"
	testPassword  = "pw"
	testHarvested = "cookie123"
)

// stubSession scripts one browser session and records every call so
// tests can assert on the exact sequence the driver drove.
type stubSession struct {
	timeoutSelectors map[string]bool
	navTimeout       bool
	cookies          []portal.Cookie

	navigated  []string
	filled     map[string]string
	clicked    []string
	waitedFrom string
	closeCount int
}

func newStubSession() *stubSession {
	return &stubSession{
		timeoutSelectors: map[string]bool{},
		filled:           map[string]string{},
	}
}

func (s *stubSession) Navigate(url string) error {
	s.navigated = append(s.navigated, url)
	return nil
}

func (s *stubSession) WaitVisible(selector string, _ time.Duration) error {
	if s.timeoutSelectors[selector] {
		return portal.TimeoutErr
	}
	return nil
}

func (s *stubSession) Fill(selector, value string) error {
	s.filled[selector] = value
	return nil
}

func (s *stubSession) Click(selector string) error {
	s.clicked = append(s.clicked, selector)
	return nil
}

func (s *stubSession) WaitNavigation(fromURL string, _ time.Duration) error {
	s.waitedFrom = fromURL
	if s.navTimeout {
		return portal.TimeoutErr
	}
	return nil
}

func (s *stubSession) Cookies() ([]portal.Cookie, error) { return s.cookies, nil }
func (s *stubSession) Screenshot(string) error           { return nil }
func (s *stubSession) Content() (string, error)          { return "<html></html>", nil }

func (s *stubSession) Close() error {
	s.closeCount++
	return nil
}

type stubAutomation struct {
	session   *stubSession
	launchErr error
}

func (a *stubAutomation) Launch(context.Context) (portal.BrowserSession, error) {
	if a.launchErr != nil {
		return nil, a.launchErr
	}
	return a.session, nil
}

func newTestDriver(t *testing.T, auto portal.Automation) *portal.Driver {
	t.Helper()
	driver, err := portal.NewDriver(auto, testLoginURL, testHomeURL, testCookie,
		portal.WithStageWaits(time.Millisecond, time.Millisecond, time.Millisecond))
	require.NoError(t, err)
	return driver
}

func TestRunSuccessHarvestsSessionCookie(t *testing.T) {
	session := newStubSession()
	session.cookies = []portal.Cookie{
		{Name: "csrftoken", Value: "zzz"},
		{Name: testCookie, Value: testHarvested},
	}
	driver := newTestDriver(t, &stubAutomation{session: session})

	token, err := driver.Run(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, testHarvested, token)

	require.Equal(t, []string{testLoginURL, testHomeURL}, session.navigated)
	require.Equal(t, testEmail, session.filled["#email"])
	require.Equal(t, testPassword, session.filled["#signinPassword"])
	require.Equal(t, []string{`button[type="submit"]`, "#passwordLoginButton"}, session.clicked)
	require.Equal(t, testLoginURL, session.waitedFrom,
		"navigation waits against the login page, not wherever the page happened to be")
	require.Equal(t, 1, session.closeCount, "teardown must run exactly once")
}

func TestRunEmailFieldTimeout(t *testing.T) {
	session := newStubSession()
	session.timeoutSelectors["#email"] = true
	driver := newTestDriver(t, &stubAutomation{session: session})

	_, err := driver.Run(context.Background(), testEmail, testPassword)
	stage, ok := portal.TimedOutStage(err)
	require.True(t, ok)
	require.Equal(t, portal.StageAwaitEmailField, stage)
	require.Equal(t, 1, session.closeCount)
}

func TestRunPasswordFieldTimeout(t *testing.T) {
	session := newStubSession()
	session.timeoutSelectors["#signinPassword"] = true
	driver := newTestDriver(t, &stubAutomation{session: session})

	_, err := driver.Run(context.Background(), testEmail, testPassword)
	stage, ok := portal.TimedOutStage(err)
	require.True(t, ok)
	require.Equal(t, portal.StageAwaitPasswordField, stage)

	// The password was never typed and the session was still released.
	require.NotContains(t, session.filled, "#signinPassword")
	require.Equal(t, 1, session.closeCount)
}

func TestRunPostLoginNavigationTimeout(t *testing.T) {
	session := newStubSession()
	session.navTimeout = true
	driver := newTestDriver(t, &stubAutomation{session: session})

	_, err := driver.Run(context.Background(), testEmail, testPassword)
	stage, ok := portal.TimedOutStage(err)
	require.True(t, ok)
	require.Equal(t, portal.StageAwaitPostLoginNav, stage)
	require.Equal(t, 1, session.closeCount)
}

func TestRunSessionCookieMissing(t *testing.T) {
	session := newStubSession()
	session.cookies = []portal.Cookie{{Name: "csrftoken", Value: "zzz"}}
	driver := newTestDriver(t, &stubAutomation{session: session})

	_, err := driver.Run(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, portal.SessionCookieMissingErr)
	require.Equal(t, 1, session.closeCount)
}

func TestRunLaunchFailure(t *testing.T) {
	driver := newTestDriver(t, &stubAutomation{launchErr: errors.New("chromium not installed")})

	_, err := driver.Run(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, portal.DriverUnavailableErr)
}

func TestNewDriverValidation(t *testing.T) {
	_, err := portal.NewDriver(nil, testLoginURL, testHomeURL, testCookie)
	require.Error(t, err)

	_, err = portal.NewDriver(&stubAutomation{session: newStubSession()}, "", testHomeURL, testCookie)
	require.Error(t, err)
}
