package schedule

import (
	"fmt"
	"math"
	"time"
)

// Interval multipliers applied to the previous interval
const (
	hardMultiplier = 1.2
	goodMultiplier = 2.5
	easyMultiplier = 4.0

	// MinIntervalDays is the shortest interval the scheduler ever returns
	MinIntervalDays = 1
)

// Result is the outcome of one scheduling decision
type Result struct {
	IntervalDays int
	ReviewAt     time.Time
}

// Scheduler computes review intervals with fixed multipliers.
// It holds no state besides its clock and is safe for concurrent use.
type Scheduler struct {
	clock Clock
}

// NewScheduler creates a scheduler reading time from clock.
// A nil clock falls back to the system clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler's current time
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// ComputeNextSchedule returns the next interval and review time for an item
// rated with rating whose stored interval is currentIntervalDays
func (s *Scheduler) ComputeNextSchedule(rating Rating, currentIntervalDays int) (Result, error) {
	return ScheduleAt(rating, currentIntervalDays, s.clock.Now())
}

// ScheduleAt is ComputeNextSchedule for a review made at now
func ScheduleAt(rating Rating, currentIntervalDays int, now time.Time) (Result, error) {
	days, err := NextInterval(rating, currentIntervalDays)
	if err != nil {
		return Result{}, err
	}

	return Result{
		IntervalDays: days,
		ReviewAt:     now.AddDate(0, 0, days),
	}, nil
}

// NextInterval computes the next interval in days without touching the clock
func NextInterval(rating Rating, currentIntervalDays int) (int, error) {
	if !rating.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if currentIntervalDays < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeInterval, currentIntervalDays)
	}

	var next int
	if rating == Again {
		next = MinIntervalDays
	} else {
		// A zero interval has never been scheduled; start from one day so the
		// multiplier can make progress.
		base := currentIntervalDays
		if base == 0 {
			base = 1
		}

		switch rating {
		case Hard:
			next = scale(base, hardMultiplier)
		case Good:
			next = scale(base, goodMultiplier)
		case Easy:
			next = scale(base, easyMultiplier)
		}
	}

	if next < MinIntervalDays {
		next = MinIntervalDays
	}
	return next, nil
}

func scale(base int, multiplier float64) int {
	return int(math.Floor(float64(base) * multiplier))
}
