package analytics

import (
	"sort"
	"strings"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

// TrendWindow is the number of most recent days kept in a daily trend.
const TrendWindow = 30

// LeaderboardSize is how many top performers the community view shows.
const LeaderboardSize = 3

// TrendPoint is one day of community activity.
type TrendPoint struct {
	Date          string `json:"date"`
	Count         int    `json:"count"`
	AvgCompletion int    `json:"avg_completion"`
}

// PrayerShare is the status breakdown for one prayer, in percent.
// The three values are rounded independently and may not sum to 100.
type PrayerShare struct {
	Prayer    string `json:"prayer"`
	Completed int    `json:"completed"`
	Masbuq    int    `json:"masbuq"`
	Munfarid  int    `json:"munfarid"`
}

// Bucket is one range of the completion-rate histogram.
type Bucket struct {
	Range      string `json:"range"`
	Min        int    `json:"min"`
	Max        int    `json:"max"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Performer is a leaderboard entry.
type Performer struct {
	UserID          string `json:"user_id"`
	DisplayName     string `json:"display_name"`
	CompletionRate  int    `json:"completion_rate"`
	SubmissionCount int    `json:"submission_count"`
}

// Summary is the headline community numbers shown to admins.
type Summary struct {
	TotalMembers      int         `json:"total_members"`
	ActiveToday       int         `json:"active_today"`
	AverageCompletion int         `json:"average_completion"`
	TotalSubmissions  int         `json:"total_submissions"`
	TopPerformers     []Performer `json:"top_performers"`
}

// Community bundles every community-level view.
type Community struct {
	DailyTrend   []TrendPoint  `json:"daily_trend"`
	PrayerStats  []PrayerShare `json:"prayer_stats"`
	Distribution []Bucket      `json:"completion_distribution"`
	Summary      Summary       `json:"summary"`
}

var histogramRanges = []struct {
	label    string
	min, max int
}{
	{"0-20", 0, 20},
	{"21-40", 21, 40},
	{"41-60", 41, 60},
	{"61-80", 61, 80},
	{"81-100", 81, 100},
}

// DailyTrend groups records by date and returns per-day submission counts and
// mean completion, oldest first, limited to the TrendWindow most recent days.
func DailyTrend(records []models.Submission) []TrendPoint {
	type acc struct{ count, total int }
	byDate := make(map[string]*acc)
	for _, r := range records {
		a, ok := byDate[r.Date]
		if !ok {
			a = &acc{}
			byDate[r.Date] = a
		}
		a.count++
		a.total += CompletionRate(r)
	}

	points := make([]TrendPoint, 0, len(byDate))
	for date, a := range byDate {
		points = append(points, TrendPoint{Date: date, Count: a.count, AvgCompletion: mean(a.total, a.count)})
	}
	// Canonical YYYY-MM-DD dates order lexically.
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	if len(points) > TrendWindow {
		points = points[len(points)-TrendWindow:]
	}
	return points
}

// PrayerDistribution returns, for each prayer, the share of each status
// across all records. Unknown statuses are not counted.
func PrayerDistribution(records []models.Submission) []PrayerShare {
	if len(records) == 0 {
		return []PrayerShare{}
	}

	counts := make(map[string]map[models.PrayerStatus]int, len(models.PrayerNames))
	for _, name := range models.PrayerNames {
		counts[name] = make(map[models.PrayerStatus]int, len(models.PrayerStatuses))
	}
	for _, r := range records {
		for name, status := range r.Prayers.Statuses() {
			if status.Valid() {
				counts[name][status]++
			}
		}
	}

	shares := make([]PrayerShare, 0, len(models.PrayerNames))
	for _, name := range models.PrayerNames {
		c := counts[name]
		total := c[models.PrayerCompleted] + c[models.PrayerMasbuq] + c[models.PrayerMunfarid]
		shares = append(shares, PrayerShare{
			Prayer:    strings.ToUpper(name[:1]) + name[1:],
			Completed: percent(c[models.PrayerCompleted], total),
			Masbuq:    percent(c[models.PrayerMasbuq], total),
			Munfarid:  percent(c[models.PrayerMunfarid], total),
		})
	}
	return shares
}

// CompletionHistogram buckets every record's completion rate into five
// inclusive ranges: 0-20, 21-40, 41-60, 61-80, 81-100.
func CompletionHistogram(records []models.Submission) []Bucket {
	if len(records) == 0 {
		return []Bucket{}
	}

	buckets := make([]Bucket, len(histogramRanges))
	for i, hr := range histogramRanges {
		buckets[i] = Bucket{Range: hr.label, Min: hr.min, Max: hr.max}
	}
	for _, r := range records {
		label := BucketFor(CompletionRate(r))
		for i := range buckets {
			if buckets[i].Range == label {
				buckets[i].Count++
				break
			}
		}
	}
	for i := range buckets {
		buckets[i].Percentage = percent(buckets[i].Count, len(records))
	}
	return buckets
}

// BucketFor returns the histogram range label a completion rate falls in.
func BucketFor(rate int) string {
	for _, hr := range histogramRanges {
		if rate <= hr.max {
			return hr.label
		}
	}
	return histogramRanges[len(histogramRanges)-1].label
}

// Leaderboard ranks users by their mean completion rate over their own
// records and returns the top n. Users without records are left out. Ties
// keep the order of users.
func Leaderboard(records []models.Submission, users []models.UserProfile, n int) []Performer {
	type acc struct{ count, total int }
	byUser := make(map[string]*acc)
	for _, r := range records {
		a, ok := byUser[r.UserID]
		if !ok {
			a = &acc{}
			byUser[r.UserID] = a
		}
		a.count++
		a.total += CompletionRate(r)
	}

	performers := make([]Performer, 0, len(users))
	for _, u := range users {
		a, ok := byUser[u.ID]
		if !ok || a.count == 0 {
			continue
		}
		performers = append(performers, Performer{
			UserID:          u.ID,
			DisplayName:     u.DisplayName,
			CompletionRate:  mean(a.total, a.count),
			SubmissionCount: a.count,
		})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].CompletionRate > performers[j].CompletionRate
	})

	if n >= 0 && len(performers) > n {
		performers = performers[:n]
	}
	return performers
}

// ActiveToday counts records dated today (canonical YYYY-MM-DD).
func ActiveToday(records []models.Submission, today string) int {
	n := 0
	for _, r := range records {
		if r.Date == today {
			n++
		}
	}
	return n
}

// AverageCompletion is the rounded mean completion rate over all records.
func AverageCompletion(records []models.Submission) int {
	total := 0
	for _, r := range records {
		total += CompletionRate(r)
	}
	return mean(total, len(records))
}

// CommunitySummary computes the admin headline numbers.
func CommunitySummary(records []models.Submission, users []models.UserProfile, today string) Summary {
	return Summary{
		TotalMembers:      len(users),
		ActiveToday:       ActiveToday(records, today),
		AverageCompletion: AverageCompletion(records),
		TotalSubmissions:  len(records),
		TopPerformers:     Leaderboard(records, users, LeaderboardSize),
	}
}

// CommunityStats computes every community-level view at once.
func CommunityStats(records []models.Submission, users []models.UserProfile, today string) Community {
	return Community{
		DailyTrend:   DailyTrend(records),
		PrayerStats:  PrayerDistribution(records),
		Distribution: CompletionHistogram(records),
		Summary:      CommunitySummary(records, users, today),
	}
}
