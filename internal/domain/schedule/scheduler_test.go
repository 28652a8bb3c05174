package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 14, 45, 12, 0, time.UTC)

func frozen() *Scheduler {
	return NewScheduler(ClockFunc(func() time.Time { return fixedNow }))
}

func TestNextIntervalExamples(t *testing.T) {
	tests := []struct {
		rating  Rating
		current int
		want    int
	}{
		{Again, 0, 1},
		{Again, 1, 1},
		{Again, 365, 1},
		{Hard, 0, 1},
		{Hard, 1, 1},
		{Hard, 5, 6},
		{Hard, 100, 120},
		{Good, 0, 2},
		{Good, 1, 2},
		{Good, 3, 7},
		{Good, 10, 25},
		{Easy, 0, 4},
		{Easy, 3, 12},
		{Easy, 10, 40},
	}

	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			got, err := NextInterval(tt.rating, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "rating=%s current=%d", tt.rating, tt.current)
		})
	}
}

func TestNextIntervalNeverBelowOne(t *testing.T) {
	for _, r := range Ratings {
		for current := 0; current <= 1000; current++ {
			got, err := NextInterval(r, current)
			require.NoError(t, err)
			if got < MinIntervalDays {
				t.Fatalf("rating=%s current=%d: got %d", r, current, got)
			}
		}
	}
}

func TestNextIntervalAgainAlwaysResets(t *testing.T) {
	for current := 0; current <= 1000; current++ {
		got, err := NextInterval(Again, current)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}
}

func TestNextIntervalGrowsWithRating(t *testing.T) {
	for current := 0; current <= 200; current++ {
		hard, _ := NextInterval(Hard, current)
		good, _ := NextInterval(Good, current)
		easy, _ := NextInterval(Easy, current)
		assert.LessOrEqual(t, hard, good)
		assert.LessOrEqual(t, good, easy)
	}
}

func TestNextIntervalRejectsInvalidInput(t *testing.T) {
	_, err := NextInterval(Rating(0), 3)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NextInterval(Rating(5), 3)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NextInterval(Good, -1)
	assert.ErrorIs(t, err, ErrNegativeInterval)
}

func TestComputeNextScheduleReviewDate(t *testing.T) {
	s := frozen()

	for _, r := range Ratings {
		for _, current := range []int{0, 1, 2, 7, 30, 100} {
			res, err := s.ComputeNextSchedule(r, current)
			require.NoError(t, err)

			want := fixedNow.AddDate(0, 0, res.IntervalDays)
			assert.Equal(t, want.Year(), res.ReviewAt.Year())
			assert.Equal(t, want.YearDay(), res.ReviewAt.YearDay())
			assert.Equal(t, fixedNow.Hour(), res.ReviewAt.Hour())
			assert.Equal(t, fixedNow.Minute(), res.ReviewAt.Minute())
		}
	}
}

func TestComputeNextScheduleCrossesMonthEnd(t *testing.T) {
	now := time.Date(2025, 1, 30, 8, 0, 0, 0, time.UTC)
	s := NewScheduler(ClockFunc(func() time.Time { return now }))

	res, err := s.ComputeNextSchedule(Easy, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, res.IntervalDays)
	assert.Equal(t, time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC), res.ReviewAt)
}

func TestComputeNextScheduleIsIdempotent(t *testing.T) {
	s := frozen()

	for _, r := range Ratings {
		first, err := s.ComputeNextSchedule(r, 10)
		require.NoError(t, err)
		second, err := s.ComputeNextSchedule(r, 10)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestComputeNextScheduleErrorsLeaveNoResult(t *testing.T) {
	s := frozen()

	res, err := s.ComputeNextSchedule(Rating(9), 1)
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Equal(t, Result{}, res)

	res, err = s.ComputeNextSchedule(Hard, -5)
	assert.ErrorIs(t, err, ErrNegativeInterval)
	assert.Equal(t, Result{}, res)
}

func TestNewSchedulerDefaultsToSystemClock(t *testing.T) {
	s := NewScheduler(nil)
	before := time.Now()
	res, err := s.ComputeNextSchedule(Again, 0)
	require.NoError(t, err)
	assert.WithinDuration(t, before.AddDate(0, 0, 1), res.ReviewAt, time.Minute)
}
