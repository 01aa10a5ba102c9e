package portal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Selectors and waits for the portal's login flow. The password wait is
// long because the portal validates the email server side and only then
// reveals the password field; the post-login wait is longer still
// because a rejected password simply never navigates.
const (
	emailSelector        = "#email"
	emailSubmitSelector  = `button[type="submit"]`
	passwordSelector     = "#signinPassword"
	passwordLoginButton  = "#passwordLoginButton"
	defaultEmailWait     = 10 * time.Second
	defaultPasswordWait  = 40 * time.Second
	defaultPostLoginWait = 60 * time.Second
)

// Driver executes exactly one login attempt against the remote portal
// and reports a terminal outcome. It never retries, persists nothing,
// and holds no state across invocations; retry policy belongs to the
// caller.
type Driver struct {
	auto          Automation
	loginURL      string
	homeURL       string
	sessionCookie string
	emailWait     time.Duration
	passwordWait  time.Duration
	postLoginWait time.Duration
}

// DriverOption modifies a Driver.
type DriverOption func(*Driver)

// WithStageWaits overrides the per-stage waits (primarily for testing).
func WithStageWaits(email, password, postLogin time.Duration) DriverOption {
	return func(d *Driver) {
		d.emailWait = email
		d.passwordWait = password
		d.postLoginWait = postLogin
	}
}

// NewDriver creates a driver for the portal at loginURL. homeURL is an
// authenticated-area page visited to harvest the session cookie named
// sessionCookie.
func NewDriver(auto Automation, loginURL, homeURL, sessionCookie string, options ...DriverOption) (*Driver, error) {
	if auto == nil {
		return nil, errors.New("[NewDriver] automation is required")
	}
	if loginURL == "" || homeURL == "" {
		return nil, errors.New("[NewDriver] portal URLs are required")
	}
	if sessionCookie == "" {
		return nil, errors.New("[NewDriver] session cookie name is required")
	}

	d := &Driver{
		auto:          auto,
		loginURL:      loginURL,
		homeURL:       homeURL,
		sessionCookie: sessionCookie,
		emailWait:     defaultEmailWait,
		passwordWait:  defaultPasswordWait,
		postLoginWait: defaultPostLoginWait,
	}
	for _, opt := range options {
		opt(d)
	}
	return d, nil
}

// Run drives the portal's login UI through the fixed sequence and
// returns the harvested session cookie value. Failures are typed:
// DriverUnavailableErr, *StageTimeoutError or SessionCookieMissingErr.
// The browser session is released on every exit path.
func (d *Driver) Run(ctx context.Context, email, credential string) (string, error) {
	attemptID := uuid.New().String()
	logger := log.With().Str("attempt_id", attemptID).Str("email", email).Logger()

	logger.Info().Msg("launching browser session")
	session, err := d.auto.Launch(ctx)
	if err != nil {
		return "", errors.Wrap(DriverUnavailableErr, err.Error())
	}
	defer session.Close()

	if err := session.Navigate(d.loginURL); err != nil {
		return "", errors.Wrap(err, "[Driver.Run] navigate to login")
	}

	logger.Debug().Msg("waiting for email field")
	if err := session.WaitVisible(emailSelector, d.emailWait); err != nil {
		return "", stageError(StageAwaitEmailField, err)
	}
	if err := session.Fill(emailSelector, email); err != nil {
		return "", errors.Wrap(err, "[Driver.Run] fill email")
	}
	if err := session.Click(emailSubmitSelector); err != nil {
		return "", errors.Wrap(err, "[Driver.Run] submit email")
	}

	// A rejected email shows up here: the portal never advances to the
	// password field, so the wait times out.
	logger.Debug().Msg("waiting for password field")
	if err := session.WaitVisible(passwordSelector, d.passwordWait); err != nil {
		return "", stageError(StageAwaitPasswordField, err)
	}
	if err := session.Fill(passwordSelector, credential); err != nil {
		return "", errors.Wrap(err, "[Driver.Run] fill password")
	}
	if err := session.Click(passwordLoginButton); err != nil {
		return "", errors.Wrap(err, "[Driver.Run] submit password")
	}

	// A rejected password shows up here: the portal stays on the login
	// page and the navigation wait times out.
	logger.Debug().Msg("waiting for post-login navigation")
	if err := session.WaitNavigation(d.loginURL, d.postLoginWait); err != nil {
		return "", stageError(StageAwaitPostLoginNav, err)
	}

	logger.Debug().Msg("harvesting session cookie")
	if err := session.Navigate(d.homeURL); err != nil {
		return "", errors.Wrap(err, "[Driver.Run] navigate to authenticated area")
	}
	cookies, err := session.Cookies()
	if err != nil {
		return "", errors.Wrap(err, "[Driver.Run] read cookies")
	}
	for _, c := range cookies {
		if c.Name == d.sessionCookie {
			logger.Info().Msg("session cookie harvested")
			return c.Value, nil
		}
	}
	return "", SessionCookieMissingErr
}

// stageError maps a wait timeout to the stage it happened at; anything
// else passes through with context.
func stageError(stage Stage, err error) error {
	if errors.Is(err, TimeoutErr) {
		return &StageTimeoutError{Stage: stage}
	}
	return errors.Wrapf(err, "[Driver.Run] stage %s", stage)
}
