package exchange

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/kienminhkhai84-max/learngate/identity"
	"github.com/kienminhkhai84-max/learngate/portal"
)

const localTokenBytes = 32 // 256 bits of entropy

// CredentialVerifier turns an (email, credential) pair into a session
// token or an error. Two strategies exist with materially different
// trust models: PortalVerifier trusts the remote portal's own login UI,
// LocalVerifier trusts a previously stored credential hash. Deployment
// configuration selects one.
type CredentialVerifier interface {
	Verify(ctx context.Context, records identity.RecordMap, email, credential string) (string, error)
}

// PortalVerifier drives the remote portal through a headless browser
// and returns the portal's own session cookie value verbatim.
type PortalVerifier struct {
	driver *portal.Driver
}

func NewPortalVerifier(driver *portal.Driver) (*PortalVerifier, error) {
	if driver == nil {
		return nil, errors.New("[NewPortalVerifier] driver is required")
	}
	return &PortalVerifier{driver: driver}, nil
}

func (v *PortalVerifier) Verify(ctx context.Context, _ identity.RecordMap, email, credential string) (string, error) {
	return v.driver.Run(ctx, email, credential)
}

// LocalVerifier checks the credential against the bcrypt hash stored on
// the identity record and mints a fresh random session token. It never
// contacts the portal, so it only works for identities that have logged
// in through the portal at least once.
type LocalVerifier struct{}

func NewLocalVerifier() *LocalVerifier {
	return &LocalVerifier{}
}

func (v *LocalVerifier) Verify(_ context.Context, records identity.RecordMap, email, credential string) (string, error) {
	rec, ok := records.FindByEmail(email)
	if !ok || rec.CredentialHash == "" {
		return "", InvalidCredentialsErr
	}
	if !identity.CheckCredentialHash(credential, rec.CredentialHash) {
		return "", InvalidCredentialsErr
	}
	return generateSessionToken()
}

func generateSessionToken() (string, error) {
	b := make([]byte, localTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "[generateSessionToken] rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

var (
	_ CredentialVerifier = (*PortalVerifier)(nil)
	_ CredentialVerifier = (*LocalVerifier)(nil)
)
