// Package analytics scores individual submissions and derives community and
// personal statistics from sets of them. Everything here is pure: no I/O,
// no clocks, and no error returns.
package analytics

import (
	"math"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

// TotalUnits is the number of tracked units per day: 5 prayers + 6 activities.
const TotalUnits = 11

// CompletedUnits counts prayers marked completed plus activities done.
// Masbuq and munfarid prayers do not count.
func CompletedUnits(s models.Submission) int {
	n := 0
	for _, status := range s.Prayers.Statuses() {
		if status == models.PrayerCompleted {
			n++
		}
	}
	for _, done := range s.Activities() {
		if done {
			n++
		}
	}
	return n
}

// CompletionRate returns the percentage of the day's units fully completed,
// in [0,100].
func CompletionRate(s models.Submission) int {
	return percent(CompletedUnits(s), TotalUnits)
}

// percent returns part/total as a rounded percentage, or 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return roundHalfUp(float64(part) / float64(total) * 100)
}

// mean returns the rounded mean of sum over n values, or 0 when n is 0.
func mean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return roundHalfUp(float64(sum) / float64(n))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
