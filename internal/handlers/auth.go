package handlers

import (
	"net/http"
	"time"

	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/middleware"
	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/services"
)

type MeResponse struct {
	Success bool                `json:"success"`
	User    *models.UserProfile `json:"user"`
}

type SignInResponse struct {
	Success bool                `json:"success"`
	Token   string              `json:"token"`
	User    *models.UserProfile `json:"user"`
}

// GoogleLogin redirects the browser to Google's consent screen.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.Sessions.NewState(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, h.Identity.AuthURL(state), http.StatusFound)
}

// GoogleCallback finishes sign-in. Browsers get the session cookie and are
// sent back to the frontend; clients asking for JSON get the token instead.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		writeError(w, http.StatusUnauthorized, "Sign-in was cancelled")
		return
	}

	ok, err := h.Sessions.ConsumeState(r.Context(), q.Get("state"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "Sign-in link expired. Please try again.")
		return
	}

	identity, err := h.Identity.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		logger.Warn("identity exchange failed", "err", err)
		writeError(w, http.StatusUnauthorized, "Could not verify your Google account")
		return
	}

	session, err := h.Sessions.SignIn(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, SignInResponse{Success: true, Token: session.Token, User: &session.Profile})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(services.SessionDuration),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.FrontendURL, http.StatusFound)
}

// Me returns the signed-in profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	writeJSON(w, http.StatusOK, MeResponse{Success: true, User: &s.Profile})
}

// SignOut ends the current session and clears the cookie.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(r.Context(), middleware.Token(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Signed out"})
}
