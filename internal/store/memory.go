package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

// Memory is a process-local Repository used by STORAGE_DRIVER=memory and tests.
type Memory struct {
	mu          sync.RWMutex
	users       map[string]*models.UserProfile
	userOrder   []string
	submissions map[string]*models.Submission

	// Now stamps records; tests replace it to control ordering.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]*models.UserProfile),
		submissions: make(map[string]*models.Submission),
		Now:         time.Now,
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) CreateUser(ctx context.Context, id, email, displayName string, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[id]; exists {
		return nil
	}
	m.users[id] = &models.UserProfile{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		IsAdmin:     isAdmin,
		JoinedAt:    m.Now().UTC(),
	}
	m.userOrder = append(m.userOrder, id)
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// ListUsers returns profiles in the order they joined.
func (m *Memory) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.UserProfile, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		users = append(users, *m.users[id])
	}
	return users, nil
}

func (m *Memory) SetUserAdmin(ctx context.Context, id string, isAdmin bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.IsAdmin = isAdmin
	return true, nil
}

func (m *Memory) IncrementSubmissionCount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.TotalSubmissions++
	return nil
}

func (m *Memory) CreateSubmission(ctx context.Context, sub models.Submission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now().UTC()
	sub.ID = uuid.NewString()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	m.submissions[sub.ID] = &sub
	return sub.ID, nil
}

func (m *Memory) UpdateSubmission(ctx context.Context, id string, patch models.SubmissionPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.submissions[id]
	if !ok {
		return ErrNotFound
	}
	patch.Apply(s)
	s.UpdatedAt = m.Now().UTC()
	return nil
}

// GetSubmissionByUserAndDate returns the most recently created match; with
// racing submits there may be more than one.
func (m *Memory) GetSubmissionByUserAndDate(ctx context.Context, userID, date string) (*models.Submission, error) {
	matches := m.filter(func(s *models.Submission) bool { return s.UserID == userID && s.Date == date })
	if len(matches) == 0 {
		return nil, nil
	}
	sortByCreatedDesc(matches)
	return &matches[0], nil
}

func (m *Memory) ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	out := m.filter(func(s *models.Submission) bool { return s.UserID == userID })
	sortByDateDesc(out)
	return truncate(out, limit), nil
}

func (m *Memory) ListAllSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	out := m.filter(func(*models.Submission) bool { return true })
	sortByDateDesc(out)
	return truncate(out, limit), nil
}

func (m *Memory) ListSubmissionsByDate(ctx context.Context, date string) ([]models.Submission, error) {
	out := m.filter(func(s *models.Submission) bool { return s.Date == date })
	sortByCreatedDesc(out)
	return out, nil
}

func (m *Memory) ListSubmissionsByDateRange(ctx context.Context, start, end string) ([]models.Submission, error) {
	out := m.filter(func(s *models.Submission) bool { return s.Date >= start && s.Date <= end })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) filter(keep func(*models.Submission) bool) []models.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Submission, 0)
	for _, s := range m.submissions {
		if keep(s) {
			out = append(out, *s)
		}
	}
	return out
}

func sortByDateDesc(list []models.Submission) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func sortByCreatedDesc(list []models.Submission) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

// truncate keeps the first limit entries; a non-positive limit keeps all.
func truncate(list []models.Submission, limit int) []models.Submission {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
