package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/store"
)

var errBackend = errors.New("backend unavailable")

// fixedClock pins "today" to 2024-03-10 in UTC.
var fixedClock = Clock{
	Location: time.UTC,
	Now:      func() time.Time { return time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC) },
}

// faultyRepo fails the operations named in fail and delegates the rest.
type faultyRepo struct {
	*store.Memory
	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func newFaultyRepo(fail ...string) *faultyRepo {
	f := &faultyRepo{Memory: store.NewMemory(), fail: map[string]bool{}, calls: map[string]int{}}
	for _, op := range fail {
		f.fail[op] = true
	}
	// one second per write keeps created_at ordering deterministic
	t := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	f.Memory.Now = func() time.Time {
		t = t.Add(time.Second)
		return t
	}
	return f
}

func (f *faultyRepo) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.fail[op] {
		return errBackend
	}
	return nil
}

func (f *faultyRepo) GetSubmissionByUserAndDate(ctx context.Context, userID, date string) (*models.Submission, error) {
	if err := f.hit("get"); err != nil {
		return nil, err
	}
	return f.Memory.GetSubmissionByUserAndDate(ctx, userID, date)
}

func (f *faultyRepo) CreateSubmission(ctx context.Context, sub models.Submission) (string, error) {
	if err := f.hit("create"); err != nil {
		return "", err
	}
	return f.Memory.CreateSubmission(ctx, sub)
}

func (f *faultyRepo) UpdateSubmission(ctx context.Context, id string, patch models.SubmissionPatch) error {
	if err := f.hit("update"); err != nil {
		return err
	}
	return f.Memory.UpdateSubmission(ctx, id, patch)
}

func (f *faultyRepo) IncrementSubmissionCount(ctx context.Context, id string) error {
	if err := f.hit("increment"); err != nil {
		return err
	}
	return f.Memory.IncrementSubmissionCount(ctx, id)
}

func (f *faultyRepo) ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	if err := f.hit("history"); err != nil {
		return nil, err
	}
	return f.Memory.ListSubmissionsByUser(ctx, userID, limit)
}

func (f *faultyRepo) ListAllSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	if err := f.hit("all"); err != nil {
		return nil, err
	}
	return f.Memory.ListAllSubmissions(ctx, limit)
}

func (f *faultyRepo) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	if err := f.hit("users"); err != nil {
		return nil, err
	}
	return f.Memory.ListUsers(ctx)
}

func (f *faultyRepo) SetUserAdmin(ctx context.Context, id string, isAdmin bool) (bool, error) {
	if err := f.hit("admin"); err != nil {
		return false, err
	}
	return f.Memory.SetUserAdmin(ctx, id, isAdmin)
}

func input(prayers, activities int) models.SubmissionInput {
	statuses := make([]models.PrayerStatus, 5)
	for i := range statuses {
		statuses[i] = models.PrayerMunfarid
		if i < prayers {
			statuses[i] = models.PrayerCompleted
		}
	}
	return models.SubmissionInput{
		Prayers: models.Prayers{
			Fajr: statuses[0], Zuhr: statuses[1], Asr: statuses[2], Maghrib: statuses[3], Isha: statuses[4],
		},
		Tilawat:     activities > 0,
		Dua:         activities > 1,
		Sadaqah:     activities > 2,
		Zikr:        activities > 3,
		MasnunDua:   activities > 4,
		BookReading: activities > 5,
	}
}
