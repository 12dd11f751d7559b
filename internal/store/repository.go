// Package store persists user profiles and daily submissions.
package store

import (
	"context"
	"errors"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

// ErrNotFound is returned by writes that address a record that does not exist.
var ErrNotFound = errors.New("store: not found")

// UserStore keeps member profiles. GetUser returns (nil, nil) when absent.
type UserStore interface {
	CreateUser(ctx context.Context, id, email, displayName string, isAdmin bool) error
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	// SetUserAdmin reports false when no such user exists.
	SetUserAdmin(ctx context.Context, id string, isAdmin bool) (bool, error)
	IncrementSubmissionCount(ctx context.Context, id string) error
}

// SubmissionStore keeps daily submissions. Lookups that find nothing return
// (nil, nil); only writes report ErrNotFound.
type SubmissionStore interface {
	// CreateSubmission stamps CreatedAt and UpdatedAt and returns the new id.
	CreateSubmission(ctx context.Context, sub models.Submission) (string, error)
	// UpdateSubmission applies patch and refreshes UpdatedAt.
	UpdateSubmission(ctx context.Context, id string, patch models.SubmissionPatch) error
	GetSubmissionByUserAndDate(ctx context.Context, userID, date string) (*models.Submission, error)
	// ListSubmissionsByUser is newest date first.
	ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error)
	// ListAllSubmissions is newest date first.
	ListAllSubmissions(ctx context.Context, limit int) ([]models.Submission, error)
	// ListSubmissionsByDate is newest CreatedAt first.
	ListSubmissionsByDate(ctx context.Context, date string) ([]models.Submission, error)
	// ListSubmissionsByDateRange is oldest date first, both ends inclusive.
	ListSubmissionsByDateRange(ctx context.Context, start, end string) ([]models.Submission, error)
}

// Repository is everything the services need from persistence.
type Repository interface {
	UserStore
	SubmissionStore
}

// Split joins a profile store and a submission store into one Repository.
type Split struct {
	UserStore
	SubmissionStore
}

var _ Repository = Split{}
