package schedule

import "time"

// UserStats summarizes a user's schedule
type UserStats struct {
	Total          int
	New            int
	Learning       int
	Reviewing      int
	Mastered       int
	Due            int
	TotalReviews   int
	CorrectReviews int
	StreakDays     int
}

// Accuracy returns the share of reviews rated good or easy, in percent
func (s *UserStats) Accuracy() int {
	if s.TotalReviews == 0 {
		return 0
	}
	return s.CorrectReviews * 100 / s.TotalReviews
}

// CalculateStreak counts consecutive review days ending today or yesterday.
// reviewDays holds dates formatted as 2006-01-02 in today's location.
func CalculateStreak(reviewDays map[string]bool, today time.Time) int {
	const layout = "2006-01-02"

	day := today
	if !reviewDays[day.Format(layout)] {
		day = day.AddDate(0, 0, -1)
		if !reviewDays[day.Format(layout)] {
			return 0
		}
	}

	streak := 0
	for reviewDays[day.Format(layout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
