package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yimtarbiyat/amal-backend/internal/analytics"
	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/store"
)

const (
	DefaultAdminLimit = 200
	MaxAdminLimit     = 1000
)

// SubmissionRow is a submission as the admin table shows it.
type SubmissionRow struct {
	models.Submission
	UserName       string `json:"user_name"`
	CompletionRate int    `json:"completion_rate"`
}

// Overview is the admin dashboard's initial load.
type Overview struct {
	Submissions []models.Submission
	Users       []models.UserProfile
}

// AdminService serves the community-wide admin views.
type AdminService struct {
	repo     store.Repository
	cache    *CacheService
	cacheTTL time.Duration
	clock    Clock
}

// NewAdminService wires the service. cache may be nil.
func NewAdminService(repo store.Repository, cache *CacheService, cacheTTL time.Duration, clock Clock) *AdminService {
	return &AdminService{repo: repo, cache: cache, cacheTTL: cacheTTL, clock: clock}
}

// Overview loads recent submissions and every profile concurrently.
func (a *AdminService) Overview(ctx context.Context, limit int) (*Overview, error) {
	limit = clampAdminLimit(limit)

	var ov Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		subs, err := a.repo.ListAllSubmissions(gctx, limit)
		ov.Submissions = subs
		return err
	})
	g.Go(func() error {
		users, err := a.repo.ListUsers(gctx)
		ov.Users = users
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, failed(err)
	}
	return &ov, nil
}

// Submissions lists one day's submissions when date is set, otherwise the
// most recent ones, keeping only those matching term.
func (a *AdminService) Submissions(ctx context.Context, date, term string, limit int) ([]SubmissionRow, error) {
	if date != "" {
		if err := checkDate(date); err != nil {
			return nil, err
		}
	}

	var subs []models.Submission
	var users []models.UserProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if date != "" {
			subs, err = a.repo.ListSubmissionsByDate(gctx, date)
		} else {
			subs, err = a.repo.ListAllSubmissions(gctx, clampAdminLimit(limit))
		}
		return err
	})
	g.Go(func() (err error) {
		users, err = a.repo.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, failed(err)
	}

	return rows(analytics.FilterSubmissions(subs, users, term), users), nil
}

// SubmissionsInRange lists submissions dated start..end inclusive, oldest first.
func (a *AdminService) SubmissionsInRange(ctx context.Context, start, end string) ([]SubmissionRow, error) {
	if err := checkDate(start); err != nil {
		return nil, err
	}
	if err := checkDate(end); err != nil {
		return nil, err
	}
	if start > end {
		start, end = end, start
	}

	var subs []models.Submission
	var users []models.UserProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subs, err = a.repo.ListSubmissionsByDateRange(gctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		users, err = a.repo.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, failed(err)
	}
	return rows(subs, users), nil
}

// Users returns every profile with its submission statistics.
func (a *AdminService) Users(ctx context.Context) ([]analytics.UserStat, error) {
	ov, err := a.Overview(ctx, MaxAdminLimit)
	if err != nil {
		return nil, err
	}
	return analytics.UserStats(ov.Submissions, ov.Users), nil
}

// Analytics returns the community views over the recent submissions,
// cached per calendar day until the next submit or update.
func (a *AdminService) Analytics(ctx context.Context) (analytics.Community, error) {
	today := a.clock.Today()
	key := analyticsKey(today)

	if a.cache != nil {
		var cached analytics.Community
		hit, err := a.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("analytics cache read failed", "err", err)
		}
		if hit {
			return cached, nil
		}
	}

	ov, err := a.Overview(ctx, DefaultAdminLimit)
	if err != nil {
		return analytics.Community{}, err
	}
	stats := analytics.CommunityStats(ov.Submissions, ov.Users, today)

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, stats, a.cacheTTL); err != nil {
			logger.Warn("analytics cache write failed", "err", err)
		}
	}
	return stats, nil
}

// SetAdmin grants or revokes the admin role. It reports false, never an
// error, when the change could not be made.
func (a *AdminService) SetAdmin(ctx context.Context, userID string, isAdmin bool) bool {
	ok, err := a.repo.SetUserAdmin(ctx, userID, isAdmin)
	if err != nil {
		logger.Error("failed to change admin role", "user_id", userID, "admin", isAdmin, "err", err)
		return false
	}
	if ok {
		logger.Info("admin role changed", "user_id", userID, "admin", isAdmin)
	}
	return ok
}

func rows(subs []models.Submission, users []models.UserProfile) []SubmissionRow {
	byID := make(map[string]models.UserProfile, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]SubmissionRow, 0, len(subs))
	for _, s := range subs {
		out = append(out, SubmissionRow{
			Submission:     s,
			UserName:       displayName(byID[s.UserID]),
			CompletionRate: analytics.CompletionRate(s),
		})
	}
	return out
}

func displayName(u models.UserProfile) string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Email != "":
		return u.Email
	default:
		return "Unknown User"
	}
}

func clampAdminLimit(limit int) int {
	if limit <= 0 {
		return DefaultAdminLimit
	}
	if limit > MaxAdminLimit {
		return MaxAdminLimit
	}
	return limit
}
