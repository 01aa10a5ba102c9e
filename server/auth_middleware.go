package server

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/kienminhkhai84-max/learngate/exchange"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyEmail stores the authenticated identity's email
	ContextKeyEmail ContextKey = "email"
)

// RequireSessionAuth gates protected routes on the session cookie. The
// presented token is resolved back to an identity through the token
// store; a stale or fabricated token gets its cookie cleared before the
// redirect so the client does not keep presenting it.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				token = cookie.Value
			}

			email, err := s.exchange.Authorize(token)
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), ContextKeyEmail, email)
				next(w, r.WithContext(ctx))
			case errors.Is(err, exchange.NotAuthenticatedErr):
				redirectWithError(w, r, "Please log in to continue.", "")
			case errors.Is(err, exchange.InvalidSessionErr):
				s.ClearSessionCookie(w, r)
				redirectWithError(w, r, "Invalid session. Please log in again.", "")
			default:
				// Data-layer defect (e.g. corrupt store): a server
				// problem, not a login problem.
				log.Error().Err(err).Msg("session validation failed")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}
	}
}

// EmailFromContext returns the authenticated email set by
// RequireSessionAuth.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(ContextKeyEmail).(string)
	return email
}
