package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/services"
)

// maxBodyBytes bounds request bodies; a full submission is well under this.
const maxBodyBytes = 64 << 10

// IdentityProvider is the external sign-in service.
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (models.Identity, error)
}

// Handler serves the HTTP API.
type Handler struct {
	Submissions *services.SubmissionService
	Admin       *services.AdminService
	Sessions    *services.SessionManager
	Identity    IdentityProvider

	// FrontendURL is where the browser lands after signing in or out.
	FrontendURL string
	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
}

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// writeServiceError maps service errors onto status codes. Backend detail
// is logged, never sent.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "Admin access required")
	case errors.Is(err, services.ErrNoSubmission):
		writeError(w, http.StatusNotFound, "No submission found for this date")
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidPatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		logger.Debug("request cancelled", "path", r.URL.Path)
	default:
		logger.Error("operation failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "Operation failed. Please try again.")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter, 0 when absent or bad.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
