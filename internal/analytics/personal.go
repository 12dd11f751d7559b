package analytics

import (
	"strings"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

// Personal is a member's own statistics over their history.
type Personal struct {
	// PrayerStats is the percentage of days each prayer was completed.
	PrayerStats map[string]int `json:"prayer_stats"`
	// ActivityStats is the percentage of days each activity was done.
	ActivityStats     map[string]int `json:"activity_stats"`
	AverageCompletion int            `json:"average_completion"`
	TotalDays         int            `json:"total_days"`
}

// UserStat is the per-member line of the admin user list.
type UserStat struct {
	models.UserProfile
	Submissions       int    `json:"submissions"`
	AverageCompletion int    `json:"average_completion"`
	LastSubmission    string `json:"last_submission,omitempty"`
}

// PersonalStats summarizes one member's records.
func PersonalStats(records []models.Submission) Personal {
	p := Personal{
		PrayerStats:   make(map[string]int, len(models.PrayerNames)),
		ActivityStats: make(map[string]int, len(models.ActivityNames)),
		TotalDays:     len(records),
	}
	prayers := make(map[string]int, len(models.PrayerNames))
	activities := make(map[string]int, len(models.ActivityNames))
	total := 0
	for _, r := range records {
		for name, status := range r.Prayers.Statuses() {
			if status == models.PrayerCompleted {
				prayers[name]++
			}
		}
		for name, done := range r.Activities() {
			if done {
				activities[name]++
			}
		}
		total += CompletionRate(r)
	}

	for _, name := range models.PrayerNames {
		p.PrayerStats[name] = percent(prayers[name], len(records))
	}
	for _, name := range models.ActivityNames {
		p.ActivityStats[name] = percent(activities[name], len(records))
	}
	p.AverageCompletion = mean(total, len(records))
	return p
}

// UserStats returns one line per user, in user order, including users who
// have not submitted anything yet.
func UserStats(records []models.Submission, users []models.UserProfile) []UserStat {
	type acc struct {
		count, total int
		last         string
	}
	byUser := make(map[string]*acc)
	for _, r := range records {
		a, ok := byUser[r.UserID]
		if !ok {
			a = &acc{}
			byUser[r.UserID] = a
		}
		a.count++
		a.total += CompletionRate(r)
		if r.Date > a.last {
			a.last = r.Date
		}
	}

	stats := make([]UserStat, 0, len(users))
	for _, u := range users {
		s := UserStat{UserProfile: u}
		if a, ok := byUser[u.ID]; ok {
			s.Submissions = a.count
			s.AverageCompletion = mean(a.total, a.count)
			s.LastSubmission = a.last
		}
		stats = append(stats, s)
	}
	return stats
}

// FilterSubmissions keeps records whose owner's display name or email, or
// whose comments, contain term (case-insensitive). An empty term keeps all.
func FilterSubmissions(records []models.Submission, users []models.UserProfile, term string) []models.Submission {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}

	byID := make(map[string]models.UserProfile, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]models.Submission, 0, len(records))
	for _, r := range records {
		u := byID[r.UserID]
		if strings.Contains(strings.ToLower(u.DisplayName), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(r.Comments), term) {
			out = append(out, r)
		}
	}
	return out
}
