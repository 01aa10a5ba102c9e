package identity

import (
	"golang.org/x/crypto/bcrypt"
)

// Record is the persisted per-email state. The JSON field names match
// the token file layout this service has always written, so existing
// token files keep loading: "pass" (credential hash), "token" (current
// session token) and "hasDevice" (device-link flag).
type Record struct {
	CredentialHash string `json:"pass,omitempty"` // bcrypt hash, never the raw credential
	SessionToken   string `json:"token"`
	DeviceLinked   bool   `json:"hasDevice"`
}

// RecordMap is the full persisted mapping, keyed by email exactly as
// supplied at login (case sensitive).
type RecordMap map[string]Record

// FindByEmail returns the record for email.
func (m RecordMap) FindByEmail(email string) (Record, bool) {
	rec, ok := m[email]
	return rec, ok
}

// FindByToken does a reverse lookup from a presented session token to
// the identity that owns it. A linear scan is fine here: the store is
// single tenant and holds a handful of users. Because a new login
// rewrites SessionToken in full, at most one record can match.
func (m RecordMap) FindByToken(token string) (string, Record, bool) {
	if token == "" {
		return "", Record{}, false
	}
	for email, rec := range m {
		if rec.SessionToken == token {
			return email, rec, true
		}
	}
	return "", Record{}, false
}

func HashCredential(credential string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckCredentialHash compares a candidate credential against a stored
// bcrypt hash. bcrypt's comparison is constant time.
func CheckCredentialHash(credential, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential))
	return err == nil
}
