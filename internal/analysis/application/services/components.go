package services

import (
	"math"
	"time"
)

const hoursPerDay = 24

// Urgency scores a due date against today. Overdue work is maximally urgent
// and the score decays toward 0.1 beyond a week.
func Urgency(due, today time.Time) float64 {
	days := DaysUntil(due, today)
	switch {
	case days < 0:
		return 1.0
	case days == 0:
		return 0.9
	case days <= 1:
		return 0.8
	case days <= 3:
		return 0.7
	case days <= 7:
		return 0.5
	default:
		return math.Max(0.1, 1.0/(float64(days)/7+1))
	}
}

// DaysUntil returns the whole calendar days from today to due. Both values are
// reduced to their calendar date first.
func DaysUntil(due, today time.Time) int {
	d := calendarDate(due)
	t := calendarDate(today)
	return int(math.Round(d.Sub(t).Hours() / hoursPerDay))
}

// Importance normalizes a 1-10 rating to [0.1, 1].
func Importance(importance int) float64 {
	return float64(importance) / 10.0
}

// Effort favors short tasks.
func Effort(hours float64) float64 {
	switch {
	case hours <= 2:
		return 0.9
	case hours <= 4:
		return 0.7
	case hours <= 8:
		return 0.5
	default:
		return math.Max(0.1, 4/hours)
	}
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
