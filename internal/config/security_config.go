package config

import "time"

// VerifierMode selects which credential-verification strategy the
// exchange service runs with.
type VerifierMode string

const (
	// VerifierPortal drives the remote portal's login UI through a
	// headless browser and harvests its session cookie.
	VerifierPortal VerifierMode = "portal"
	// VerifierLocal checks the credential against the stored hash and
	// mints a local session token, never touching the portal.
	VerifierLocal VerifierMode = "local"
)

type SecurityConfig interface {
	GetVerifierMode() VerifierMode
	GetSessionCookieMaxAge() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetVerifierMode() VerifierMode {
	if GetEnv("CREDENTIAL_VERIFIER", string(VerifierPortal)) == string(VerifierLocal) {
		return VerifierLocal
	}
	return VerifierPortal
}

// GetSessionCookieMaxAge is the lifetime of the client-side session
// cookie. The server performs no independent expiry check beyond it.
func (Security) GetSessionCookieMaxAge() time.Duration {
	return 24 * time.Hour
}
