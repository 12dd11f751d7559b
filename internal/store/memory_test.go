package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

// steppingClock advances one minute per call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newMemory() *Memory {
	m := NewMemory()
	m.Now = steppingClock()
	return m
}

func submission(userID, date string) models.Submission {
	return models.Submission{UserID: userID, Date: date, Prayers: models.DefaultPrayers()}
}

func TestMemory_Users(t *testing.T) {
	ctx := context.Background()
	m := newMemory()

	require.NoError(t, m.CreateUser(ctx, "u1", "a@example.org", "Aisha", false))
	require.NoError(t, m.CreateUser(ctx, "u2", "b@example.org", "Bilal", true))
	// second create keeps the first profile
	require.NoError(t, m.CreateUser(ctx, "u1", "other@example.org", "Other", true))

	u, err := m.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Aisha", u.DisplayName)
	assert.False(t, u.IsAdmin)
	assert.False(t, u.JoinedAt.IsZero())

	missing, err := m.GetUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)

	ok, err := m.SetUserAdmin(ctx, "u1", true)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.SetUserAdmin(ctx, "nobody", true)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.IncrementSubmissionCount(ctx, "u1"))
	require.NoError(t, m.IncrementSubmissionCount(ctx, "u1"))
	assert.ErrorIs(t, m.IncrementSubmissionCount(ctx, "nobody"), ErrNotFound)

	u, _ = m.GetUser(ctx, "u1")
	assert.True(t, u.IsAdmin)
	assert.Equal(t, 2, u.TotalSubmissions)
}

func TestMemory_GetUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := newMemory()
	require.NoError(t, m.CreateUser(ctx, "u1", "a@example.org", "Aisha", false))

	u, _ := m.GetUser(ctx, "u1")
	u.IsAdmin = true

	again, _ := m.GetUser(ctx, "u1")
	assert.False(t, again.IsAdmin)
}

func TestMemory_CreateAndUpdateSubmission(t *testing.T) {
	ctx := context.Background()
	m := newMemory()

	id, err := m.CreateSubmission(ctx, submission("u1", "2024-03-01"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := m.GetSubmissionByUserAndDate(ctx, "u1", "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	done := true
	fajr := models.PrayerCompleted
	require.NoError(t, m.UpdateSubmission(ctx, id, models.SubmissionPatch{
		Tilawat: &done,
		Prayers: &models.PrayersPatch{Fajr: &fajr},
	}))

	updated, _ := m.GetSubmissionByUserAndDate(ctx, "u1", "2024-03-01")
	assert.True(t, updated.Tilawat)
	assert.Equal(t, models.PrayerCompleted, updated.Prayers.Fajr)
	assert.Equal(t, models.PrayerMunfarid, updated.Prayers.Zuhr)
	assert.Equal(t, got.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	assert.ErrorIs(t, m.UpdateSubmission(ctx, "missing", models.SubmissionPatch{Tilawat: &done}), ErrNotFound)
}

func TestMemory_GetSubmissionByUserAndDate_None(t *testing.T) {
	m := newMemory()
	got, err := m.GetSubmissionByUserAndDate(context.Background(), "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_ListOrdering(t *testing.T) {
	ctx := context.Background()
	m := newMemory()

	for _, s := range []models.Submission{
		submission("u1", "2024-03-02"),
		submission("u2", "2024-03-01"),
		submission("u1", "2024-03-03"),
		submission("u1", "2024-03-01"),
		submission("u2", "2024-03-03"),
	} {
		_, err := m.CreateSubmission(ctx, s)
		require.NoError(t, err)
	}

	mine, err := m.ListSubmissionsByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2024-03-03", mine[0].Date)
	assert.Equal(t, "2024-03-02", mine[1].Date)

	all, err := m.ListAllSubmissions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "2024-03-03", all[0].Date)
	assert.Equal(t, "u2", all[0].UserID) // created later on the same date
	assert.Equal(t, "2024-03-01", all[4].Date)

	day, err := m.ListSubmissionsByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "u1", day[0].UserID)
	assert.Equal(t, "u2", day[1].UserID)

	window, err := m.ListSubmissionsByDateRange(ctx, "2024-03-02", "2024-03-03")
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, "2024-03-02", window[0].Date)
	assert.Equal(t, "2024-03-03", window[2].Date)

	empty, err := m.ListSubmissionsByDate(ctx, "2023-01-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemory_DuplicatesAreNotPrevented(t *testing.T) {
	ctx := context.Background()
	m := newMemory()

	first, _ := m.CreateSubmission(ctx, submission("u1", "2024-03-01"))
	second, _ := m.CreateSubmission(ctx, submission("u1", "2024-03-01"))
	assert.NotEqual(t, first, second)

	all, _ := m.ListSubmissionsByUser(ctx, "u1", 0)
	assert.Len(t, all, 2)

	latest, _ := m.GetSubmissionByUserAndDate(ctx, "u1", "2024-03-01")
	assert.Equal(t, second, latest.ID)
}

func TestSplit(t *testing.T) {
	ctx := context.Background()
	users, subs := newMemory(), newMemory()
	repo := Split{UserStore: users, SubmissionStore: subs}

	require.NoError(t, repo.CreateUser(ctx, "u1", "a@example.org", "Aisha", false))
	_, err := repo.CreateSubmission(ctx, submission("u1", "2024-03-01"))
	require.NoError(t, err)

	onlyUsers, _ := users.ListAllSubmissions(ctx, 0)
	assert.Empty(t, onlyUsers)
	onlySubs, _ := subs.ListUsers(ctx)
	assert.Empty(t, onlySubs)
}
