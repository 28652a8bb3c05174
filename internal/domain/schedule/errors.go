package schedule

import "errors"

// Sentinel errors for the schedule package.
var (
	ErrInvalidRating    = errors.New("schedule: invalid rating")
	ErrNegativeInterval = errors.New("schedule: negative interval")
	ErrEntryNotFound    = errors.New("schedule: entry not found")
)
