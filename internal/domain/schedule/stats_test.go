package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStreak(t *testing.T) {
	today := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want int
	}{
		{name: "no reviews", want: 0},
		{name: "today only", days: []string{"2025-03-10"}, want: 1},
		{name: "ending yesterday", days: []string{"2025-03-09", "2025-03-08"}, want: 2},
		{name: "gap breaks streak", days: []string{"2025-03-10", "2025-03-09", "2025-03-07"}, want: 2},
		{name: "too old", days: []string{"2025-03-08"}, want: 0},
		{name: "across month", days: []string{"2025-03-01", "2025-02-28", "2025-02-27", "2025-03-02",
			"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08",
			"2025-03-09", "2025-03-10"}, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := make(map[string]bool)
			for _, d := range tt.days {
				days[d] = true
			}
			assert.Equal(t, tt.want, CalculateStreak(days, today))
		})
	}
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0, (&UserStats{}).Accuracy())
	assert.Equal(t, 75, (&UserStats{TotalReviews: 4, CorrectReviews: 3}).Accuracy())
}
