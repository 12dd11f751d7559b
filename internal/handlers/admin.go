package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yimtarbiyat/amal-backend/internal/analytics"
	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/middleware"
	"github.com/yimtarbiyat/amal-backend/internal/services"
)

type AdminSubmissionsResponse struct {
	Success     bool                     `json:"success"`
	Submissions []services.SubmissionRow `json:"submissions"`
	Total       int                      `json:"total"`
}

type AdminUsersResponse struct {
	Success bool                 `json:"success"`
	Users   []analytics.UserStat `json:"users"`
}

type AnalyticsResponse struct {
	Success   bool                `json:"success"`
	Analytics analytics.Community `json:"analytics"`
}

type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

func (h *Handler) writeRows(w http.ResponseWriter, r *http.Request, rows []services.SubmissionRow, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if rows == nil {
		rows = []services.SubmissionRow{}
	}
	writeJSON(w, http.StatusOK, AdminSubmissionsResponse{Success: true, Submissions: rows, Total: len(rows)})
}

// AdminSubmissions lists submissions for ?date (or the most recent ?limit),
// filtered by ?q.
func (h *Handler) AdminSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Admin.Submissions(r.Context(), q.Get("date"), q.Get("q"), queryInt(r, "limit"))
	h.writeRows(w, r, rows, err)
}

// AdminSubmissionsRange lists submissions dated ?start..?end for export.
func (h *Handler) AdminSubmissionsRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Admin.SubmissionsInRange(r.Context(), q.Get("start"), q.Get("end"))
	h.writeRows(w, r, rows, err)
}

// AdminUsers lists every member with their submission statistics.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.Users(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []analytics.UserStat{}
	}
	writeJSON(w, http.StatusOK, AdminUsersResponse{Success: true, Users: users})
}

// AdminAnalytics returns the community dashboard.
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.Analytics(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AnalyticsResponse{Success: true, Analytics: stats})
}

// SetUserAdmin grants or revokes the admin role of /{id}. Admins cannot
// demote themselves.
func (h *Handler) SetUserAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req SetAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s := middleware.SessionFrom(r.Context())
	if s.UserID() == id && !req.IsAdmin {
		writeError(w, http.StatusBadRequest, "You cannot remove your own admin role")
		return
	}

	if !h.Admin.SetAdmin(r.Context(), id, req.IsAdmin) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	logger.Info("admin role updated by admin", "by", s.UserID(), "user_id", id, "admin", req.IsAdmin)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "User updated"})
}
