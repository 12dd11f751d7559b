package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yimtarbiyat/amal-backend/internal/analytics"
	"github.com/yimtarbiyat/amal-backend/internal/middleware"
	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/services"
)

// CreateSubmissionRequest is a new record. Date defaults to today.
type CreateSubmissionRequest struct {
	Date string `json:"date"`
	models.SubmissionInput
}

type SubmissionResponse struct {
	Success        bool               `json:"success"`
	Submission     *models.Submission `json:"submission"`
	CompletionRate int                `json:"completion_rate"`
}

type CreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type HistoryResponse struct {
	Success     bool                `json:"success"`
	Submissions []models.Submission `json:"submissions"`
}

type PersonalStatsResponse struct {
	Success bool               `json:"success"`
	Stats   analytics.Personal `json:"stats"`
}

func submissionResponse(sub *models.Submission) SubmissionResponse {
	resp := SubmissionResponse{Success: true, Submission: sub}
	if sub != nil {
		resp.CompletionRate = analytics.CompletionRate(*sub)
	}
	return resp
}

// Today returns the caller's record for today; submission is null when the
// form has not been filled in yet.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	sub, err := h.Submissions.FetchToday(r.Context(), s.UserID())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse(sub))
}

// ByDate returns the caller's record for /{date}, 404 when there is none.
func (h *Handler) ByDate(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	sub, err := h.Submissions.FetchByDate(r.Context(), s.UserID(), chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if sub == nil {
		writeServiceError(w, r, services.ErrNoSubmission)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse(sub))
}

// History lists the caller's records, newest date first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	subs, err := h.Submissions.FetchHistory(r.Context(), s.UserID(), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Success: true, Submissions: subs})
}

// Create records a new day. It looks for an existing record first and
// answers 409 rather than writing a second one for the same date.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())

	var req CreateSubmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date := req.Date
	if date == "" {
		date = h.Submissions.Today()
	}
	existing, err := h.Submissions.FetchByDate(r.Context(), s.UserID(), date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Already submitted for this date. Use update instead.")
		return
	}

	id, err := h.Submissions.Submit(r.Context(), s.UserID(), date, req.SubmissionInput)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{Success: true, ID: id, Message: "Amal recorded"})
}

// Update applies a partial change to the caller's record for /{date}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())

	var patch models.SubmissionPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	sub, err := h.Submissions.Update(r.Context(), s.UserID(), chi.URLParam(r, "date"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse(sub))
}

// PersonalStats summarizes the caller's recent history.
func (h *Handler) PersonalStats(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	stats, err := h.Submissions.PersonalStats(r.Context(), s.UserID(), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PersonalStatsResponse{Success: true, Stats: stats})
}
