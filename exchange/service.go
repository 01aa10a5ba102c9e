// Package exchange orchestrates credential exchanges: it runs a
// configured CredentialVerifier, persists the resulting session
// material in the token store, and validates presented session tokens
// for protected routes.
package exchange

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kienminhkhai84-max/learngate/identity"
	"github.com/kienminhkhai84-max/learngate/portal"
)

// Service is the credential exchange engine.
type Service struct {
	store    identity.Store
	verifier CredentialVerifier
}

// NewService wires the engine to its token store and verifier.
func NewService(store identity.Store, verifier CredentialVerifier) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if verifier == nil {
		return nil, errors.New("[NewService] verifier is required")
	}
	return &Service{store: store, verifier: verifier}, nil
}

// AttemptLogin runs one credential exchange and returns the caller's
// session token. The harvested (or locally generated) session value and
// the local session token are the same string.
//
// On any failure the store is left untouched. Failures come back as the
// package's sentinel errors; stage-level detail is logged server side
// and never surfaced to the caller.
func (s *Service) AttemptLogin(ctx context.Context, email, credential string) (string, error) {
	if email == "" || credential == "" {
		return "", MissingCredentialsErr
	}

	attemptID := uuid.New().String()
	logger := log.With().Str("attempt_id", attemptID).Str("email", email).Logger()

	// This snapshot only feeds the verifier (the local strategy needs
	// the stored hash); the post-verify upsert re-reads inside Update.
	records, err := s.store.Read()
	if err != nil {
		logger.Error().Err(err).Msg("token store read failed")
		return "", errors.Wrap(err, "[Service.AttemptLogin] read store")
	}

	token, err := s.verifier.Verify(ctx, records, email, credential)
	if err != nil {
		return "", s.translateVerifyError(logger, err)
	}

	// Upsert through the store's read-modify-write path: verification
	// can run for the better part of a minute, so the snapshot read for
	// the verifier may be stale by now and must not be written back.
	// The token is rewritten in full, the credential hash is refreshed
	// so local-mode checks stay current, and an existing device link is
	// never downgraded.
	hash, hashErr := identity.HashCredential(credential)
	if hashErr != nil {
		logger.Warn().Err(hashErr).Msg("credential hashing failed, keeping previous hash")
	}
	err = s.store.Update(func(current identity.RecordMap) (identity.RecordMap, error) {
		rec := current[email]
		rec.SessionToken = token
		if hashErr == nil {
			rec.CredentialHash = hash
		}
		current[email] = rec
		return current, nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("token store write failed")
		return "", errors.Wrap(err, "[Service.AttemptLogin] write store")
	}

	logger.Info().Msg("credential exchange succeeded")
	return token, nil
}

// Authorize maps a presented session token back to an identity.
func (s *Service) Authorize(token string) (string, error) {
	if token == "" {
		return "", NotAuthenticatedErr
	}

	records, err := s.store.Read()
	if err != nil {
		// A corrupt store is a data-layer defect, not an invalid
		// session; it must not look like "no such user".
		return "", errors.Wrap(err, "[Service.Authorize] read store")
	}

	email, _, ok := records.FindByToken(token)
	if !ok {
		return "", InvalidSessionErr
	}
	return email, nil
}

// translateVerifyError folds driver outcomes into the caller-facing
// taxonomy, logging the stage-level detail for diagnostics.
func (s *Service) translateVerifyError(logger zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, MissingCredentialsErr), errors.Is(err, InvalidCredentialsErr):
		return err
	case errors.Is(err, portal.DriverUnavailableErr):
		logger.Error().Err(err).Msg("browser driver unavailable")
		return ExchangeUnavailableErr
	case errors.Is(err, portal.SessionCookieMissingErr):
		logger.Warn().Msg("portal issued no session cookie")
		return InvalidCredentialsErr
	}
	if stage, ok := portal.TimedOutStage(err); ok {
		logger.Warn().Str("stage", string(stage)).Msg("portal login timed out")
		return InvalidCredentialsErr
	}
	logger.Error().Err(err).Msg("credential exchange failed")
	return errors.Wrap(err, "[Service.AttemptLogin] verify")
}
