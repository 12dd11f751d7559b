package services

import (
	"context"
	"errors"

	"github.com/yimtarbiyat/amal-backend/internal/analytics"
	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/store"
	"github.com/yimtarbiyat/amal-backend/internal/validation"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 366
)

// SubmissionService is a member's view of their own daily records.
type SubmissionService struct {
	repo  store.Repository
	cache *CacheService
	clock Clock
}

// NewSubmissionService wires the service. cache may be nil.
func NewSubmissionService(repo store.Repository, cache *CacheService, clock Clock) *SubmissionService {
	return &SubmissionService{repo: repo, cache: cache, clock: clock}
}

// Today is the community's current date.
func (s *SubmissionService) Today() string { return s.clock.Today() }

// FetchToday returns the caller's record for today, or nil if there is none.
func (s *SubmissionService) FetchToday(ctx context.Context, userID string) (*models.Submission, error) {
	return s.FetchByDate(ctx, userID, s.clock.Today())
}

// FetchByDate returns the caller's record for date, or nil if there is none.
func (s *SubmissionService) FetchByDate(ctx context.Context, userID, date string) (*models.Submission, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}
	sub, err := s.repo.GetSubmissionByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, failed(err)
	}
	return sub, nil
}

// Submit creates the record for (userID, date). An empty date means today.
// The caller is expected to have checked that no record exists yet; Submit
// does not look. The profile counter is bumped in a second, separate write.
func (s *SubmissionService) Submit(ctx context.Context, userID, date string, in models.SubmissionInput) (string, error) {
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	if date == "" {
		date = s.clock.Today()
	}
	if err := checkDate(date); err != nil {
		return "", err
	}
	if err := validation.Struct(in); err != nil {
		return "", invalid(ErrInvalidInput, err)
	}

	id, err := s.repo.CreateSubmission(ctx, models.NewSubmission(userID, date, in))
	if err != nil {
		return "", failed(err)
	}
	s.invalidateAnalytics(ctx)

	if err := s.repo.IncrementSubmissionCount(ctx, userID); err != nil {
		// The record is saved; only the counter lags behind.
		logger.Error("submission saved but counter not incremented",
			"user_id", userID, "submission_id", id, "err", err)
	}
	return id, nil
}

// Update applies patch to the caller's record for date and returns the
// result. It never creates: with no record for that date it fails with
// ErrNoSubmission.
func (s *SubmissionService) Update(ctx context.Context, userID, date string, patch models.SubmissionPatch) (*models.Submission, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, invalid(ErrInvalidPatch, errors.New("nothing to update"))
	}
	if err := validation.Struct(patch); err != nil {
		return nil, invalid(ErrInvalidPatch, err)
	}

	existing, err := s.repo.GetSubmissionByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, failed(err)
	}
	if existing == nil {
		return nil, ErrNoSubmission
	}

	if err := s.repo.UpdateSubmission(ctx, existing.ID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSubmission
		}
		return nil, failed(err)
	}
	s.invalidateAnalytics(ctx)

	updated, err := s.repo.GetSubmissionByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, failed(err)
	}
	if updated == nil {
		return nil, ErrNoSubmission
	}
	return updated, nil
}

// FetchHistory returns up to limit of the caller's records, newest first.
// A non-positive limit means DefaultHistoryLimit.
func (s *SubmissionService) FetchHistory(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	subs, err := s.repo.ListSubmissionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, failed(err)
	}
	return subs, nil
}

// PersonalStats summarizes the caller's last limit records.
func (s *SubmissionService) PersonalStats(ctx context.Context, userID string, limit int) (analytics.Personal, error) {
	history, err := s.FetchHistory(ctx, userID, limit)
	if err != nil {
		return analytics.Personal{}, err
	}
	return analytics.PersonalStats(history), nil
}

func (s *SubmissionService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, analyticsKey(s.clock.Today())); err != nil {
		logger.Warn("failed to invalidate analytics cache", "err", err)
	}
}
