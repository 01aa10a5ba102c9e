package server

import (
	"net/http"
	"net/url"
)

const (
	// sessionCookieName is the cookie carrying the caller's session
	// token. The value is the portal's own session cookie value (or a
	// locally minted token in local verifier mode) one to one.
	sessionCookieName = "token"
)

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionCookieMaxAge().Seconds()),
	})
}

func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// redirectWithError sends the caller back to the login page with a
// short human-readable message. Internal detail never rides along.
func redirectWithError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	fullPath := RouteLoginPage + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		fullPath += "&email=" + url.QueryEscape(email)
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}
