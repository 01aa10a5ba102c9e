package exchange

import "errors"

var (
	// MissingCredentialsErr is a client input defect; the caller should
	// reprompt. No driver run happens for it.
	MissingCredentialsErr = errors.New("email and password are required")
	// InvalidCredentialsErr covers every outcome the portal signals
	// only by not advancing: stage timeouts and a missing session
	// cookie. The portal gives no structured error, so the detail stays
	// in server-side logs.
	InvalidCredentialsErr = errors.New("invalid email or password")
	// ExchangeUnavailableErr is an infrastructure defect (no browser
	// session could be acquired). Not retried.
	ExchangeUnavailableErr = errors.New("sign-in service unavailable")
	// NotAuthenticatedErr means no session token was presented.
	NotAuthenticatedErr = errors.New("not authenticated")
	// InvalidSessionErr means a token was presented but matches no
	// identity: either fabricated, or invalidated by a later login.
	InvalidSessionErr = errors.New("invalid session")
)
