package portal

import (
	"errors"
	"fmt"
)

// Stage identifies one step of the fixed login sequence. Each waiting
// stage carries its own timeout and its own failure meaning: the portal
// reports neither "wrong email" nor "wrong password" in any structured
// way, so a stage that never advances is the only signal there is.
type Stage string

const (
	StageLaunch             Stage = "launch"
	StageNavigateToLogin    Stage = "navigate_to_login"
	StageAwaitEmailField    Stage = "await_email_field"
	StageSubmitEmail        Stage = "submit_email"
	StageAwaitPasswordField Stage = "await_password_field"
	StageSubmitPassword     Stage = "submit_password"
	StageAwaitPostLoginNav  Stage = "await_post_login_navigation"
	StageHarvestSession     Stage = "harvest_session"
)

var (
	// DriverUnavailableErr means no browser session could be acquired.
	DriverUnavailableErr = errors.New("browser session unavailable")
	// SessionCookieMissingErr means the full sequence ran but the
	// portal never issued its session cookie. Treated as invalid
	// credentials, not a driver fault.
	SessionCookieMissingErr = errors.New("portal session cookie not found")
	// TimeoutErr is returned by BrowserSession waits when the bounded
	// wait elapses. The driver wraps it into a StageTimeoutError.
	TimeoutErr = errors.New("wait timed out")
)

// StageTimeoutError records which stage of the sequence timed out.
type StageTimeoutError struct {
	Stage Stage
}

func (e *StageTimeoutError) Error() string {
	return fmt.Sprintf("timed out at stage %s", e.Stage)
}

// TimedOutStage reports whether err is a stage timeout and, if so,
// which stage it happened at.
func TimedOutStage(err error) (Stage, bool) {
	var st *StageTimeoutError
	if errors.As(err, &st) {
		return st.Stage, true
	}
	return "", false
}
