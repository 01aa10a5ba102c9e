package portal

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"

	"github.com/kienminhkhai84-max/learngate/internal/utils"
)

// PlaywrightAutomation implements Automation on top of a shared
// Playwright process. Each Launch starts its own Chromium instance with
// an isolated context, so concurrent login attempts do not share state.
type PlaywrightAutomation struct {
	pw       *playwright.Playwright
	headless bool
}

// NewPlaywrightAutomation installs the browser driver if needed and
// starts the Playwright process.
func NewPlaywrightAutomation(headless bool) (*PlaywrightAutomation, error) {
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return nil, errors.Wrap(err, "[NewPlaywrightAutomation] install playwright")
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, errors.Wrap(err, "[NewPlaywrightAutomation] start playwright")
	}
	return &PlaywrightAutomation{pw: pw, headless: headless}, nil
}

// Launch starts an isolated Chromium session.
func (a *PlaywrightAutomation) Launch(ctx context.Context) (BrowserSession, error) {
	browser, err := a.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: utils.Ptr(a.headless),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[PlaywrightAutomation.Launch] launch browser")
	}
	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{})
	if err != nil {
		_ = browser.Close()
		return nil, errors.Wrap(err, "[PlaywrightAutomation.Launch] create context")
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		_ = browser.Close()
		return nil, errors.Wrap(err, "[PlaywrightAutomation.Launch] create page")
	}
	return &playwrightSession{browser: browser, context: browserCtx, page: page}, nil
}

// Shutdown stops the Playwright process.
func (a *PlaywrightAutomation) Shutdown() error {
	if err := a.pw.Stop(); err != nil {
		return errors.Wrap(err, "[PlaywrightAutomation.Shutdown] stop playwright")
	}
	return nil
}

var _ Automation = (*PlaywrightAutomation)(nil)

type playwrightSession struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func (s *playwrightSession) Navigate(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return errors.Wrapf(err, "[playwrightSession.Navigate] goto %s", url)
	}
	return nil
}

func (s *playwrightSession) WaitVisible(selector string, timeout time.Duration) error {
	state := playwright.WaitForSelectorState("visible")
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   &state,
		Timeout: utils.Ptr(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if isTimeoutMessage(err) {
			return errors.Wrapf(TimeoutErr, "[playwrightSession.WaitVisible] %s", selector)
		}
		return errors.Wrapf(err, "[playwrightSession.WaitVisible] %s", selector)
	}
	return nil
}

func (s *playwrightSession) Fill(selector, value string) error {
	if err := s.page.Fill(selector, value); err != nil {
		return errors.Wrapf(err, "[playwrightSession.Fill] %s", selector)
	}
	return nil
}

func (s *playwrightSession) Click(selector string) error {
	if err := s.page.Click(selector); err != nil {
		return errors.Wrapf(err, "[playwrightSession.Click] %s", selector)
	}
	return nil
}

// WaitNavigation polls the page URL until it has left fromURL. The
// portal redirects through several interim pages after a successful
// login, so any page other than fromURL counts; the prefix match
// tolerates query strings the login page appends to its own URL.
func (s *playwrightSession) WaitNavigation(fromURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !strings.HasPrefix(s.page.URL(), fromURL) {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return errors.Wrap(TimeoutErr, "[playwrightSession.WaitNavigation] page stayed on login")
}

func (s *playwrightSession) Cookies() ([]Cookie, error) {
	raw, err := s.context.Cookies(s.page.URL())
	if err != nil {
		return nil, errors.Wrap(err, "[playwrightSession.Cookies] read cookie jar")
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

func (s *playwrightSession) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     utils.Ptr(path),
		FullPage: utils.Ptr(true),
	})
	if err != nil {
		return errors.Wrap(err, "[playwrightSession.Screenshot] capture page")
	}
	return nil
}

func (s *playwrightSession) Content() (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", errors.Wrap(err, "[playwrightSession.Content] read page html")
	}
	return content, nil
}

// Close releases page, context and browser. Errors are swallowed so
// teardown always completes.
func (s *playwrightSession) Close() error {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()
	return nil
}

func isTimeoutMessage(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
