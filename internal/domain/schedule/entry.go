package schedule

import (
	"time"

	"github.com/google/uuid"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/user"
)

// DefaultEaseFactor is stored on new entries. The scheduler never changes it.
const DefaultEaseFactor = 2.5

// ID identifies a schedule entry
type ID string

// NewID generates a random entry ID
func NewID() ID {
	return ID(uuid.NewString())
}

// Entry is a user's schedule record for one tracked problem
type Entry struct {
	id           ID
	userID       user.ID
	questionID   question.ID
	status       Status
	nextReviewAt time.Time
	intervalDays int
	easeFactor   float64
	createdAt    time.Time
	updatedAt    time.Time

	// Denormalized for display, filled by the repository when available
	question *question.Question
}

// NewEntry creates a freshly tracked entry that is due immediately
func NewEntry(userID user.ID, questionID question.ID, now time.Time) *Entry {
	return &Entry{
		id:           NewID(),
		userID:       userID,
		questionID:   questionID,
		status:       StatusNew,
		nextReviewAt: now,
		intervalDays: 0,
		easeFactor:   DefaultEaseFactor,
		createdAt:    now,
		updatedAt:    now,
	}
}

// Getters
func (e *Entry) ID() ID                       { return e.id }
func (e *Entry) UserID() user.ID              { return e.userID }
func (e *Entry) QuestionID() question.ID      { return e.questionID }
func (e *Entry) Status() Status               { return e.status }
func (e *Entry) NextReviewAt() time.Time      { return e.nextReviewAt }
func (e *Entry) IntervalDays() int            { return e.intervalDays }
func (e *Entry) EaseFactor() float64          { return e.easeFactor }
func (e *Entry) CreatedAt() time.Time         { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time         { return e.updatedAt }
func (e *Entry) Question() *question.Question { return e.question }

// IsNew reports whether the entry has never been reviewed
func (e *Entry) IsNew() bool {
	return e.status == StatusNew
}

// IsDue reports whether the entry's review time has been reached
func (e *Entry) IsDue(now time.Time) bool {
	return !e.nextReviewAt.After(now)
}

// ApplyReview runs the scheduler for rating and stores the new interval,
// review time and derived status on the entry. The clock is read once, so
// UpdatedAt is exactly the review time the interval was added to.
func (e *Entry) ApplyReview(s *Scheduler, rating Rating) (Result, error) {
	now := s.Now()
	result, err := ScheduleAt(rating, e.intervalDays, now)
	if err != nil {
		return Result{}, err
	}

	e.intervalDays = result.IntervalDays
	e.nextReviewAt = result.ReviewAt
	e.status = StatusAfterReview(rating)
	e.updatedAt = now
	return result, nil
}

// Restore rebuilds an entry from stored values (used by repository)
func Restore(id ID, userID user.ID, questionID question.ID, status Status, nextReviewAt time.Time,
	intervalDays int, easeFactor float64, createdAt, updatedAt time.Time) *Entry {
	return &Entry{
		id:           id,
		userID:       userID,
		questionID:   questionID,
		status:       status,
		nextReviewAt: nextReviewAt,
		intervalDays: intervalDays,
		easeFactor:   easeFactor,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// SetQuestion attaches the problem details (used by repository)
func (e *Entry) SetQuestion(q *question.Question) {
	e.question = q
}
