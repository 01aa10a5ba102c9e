package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/kienminhkhai84-max/learngate/exchange"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
}

// LoginPageHandler displays the login page (GET /)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form submission
// (POST /do-login). It runs the credential exchange and, on success,
// hands the session token to the client as a cookie.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		token, err := s.exchange.AttemptLogin(r.Context(), email, password)
		if err != nil {
			redirectWithError(w, r, loginErrorMessage(err), email)
			return
		}

		s.SetSessionCookie(w, r, token)
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// DashboardHandler renders the protected landing page. The email was
// resolved by RequireSessionAuth.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := struct {
			AppName string
			Email   string
		}{
			AppName: s.config.GetAppName(),
			Email:   EmailFromContext(r.Context()),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := dashboardTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
			http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		}
	}
}

// LogoutHandler clears the caller-held token (GET /logout). The store
// is keyed by email, so nothing there needs to change.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ClearSessionCookie(w, r)
		http.Redirect(w, r, RouteLoginPage, http.StatusSeeOther)
	}
}

// loginErrorMessage maps exchange failures to the short messages users
// see. Anything unexpected is logged and kept generic.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, exchange.MissingCredentialsErr):
		return "Email and password are required."
	case errors.Is(err, exchange.InvalidCredentialsErr):
		return "Invalid email or password."
	case errors.Is(err, exchange.ExchangeUnavailableErr):
		return "Login is temporarily unavailable. Please try again later."
	}
	log.Err(err).Msg("login attempt failed")
	return "Login failed. Please try again."
}
