package schedule

import (
	"time"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/user"
)

// ReviewLog is one row of review history
type ReviewLog struct {
	id               int64
	entryID          ID
	userID           user.ID
	questionID       question.ID
	rating           Rating
	previousInterval int
	newInterval      int
	reviewedAt       time.Time
}

// NewReviewLog records that entry was rated with rating, moving its interval
// from previousInterval to the entry's current interval
func NewReviewLog(entry *Entry, rating Rating, previousInterval int, reviewedAt time.Time) *ReviewLog {
	return &ReviewLog{
		entryID:          entry.ID(),
		userID:           entry.UserID(),
		questionID:       entry.QuestionID(),
		rating:           rating,
		previousInterval: previousInterval,
		newInterval:      entry.IntervalDays(),
		reviewedAt:       reviewedAt,
	}
}

// Getters
func (l *ReviewLog) ID() int64               { return l.id }
func (l *ReviewLog) EntryID() ID             { return l.entryID }
func (l *ReviewLog) UserID() user.ID         { return l.userID }
func (l *ReviewLog) QuestionID() question.ID { return l.questionID }
func (l *ReviewLog) Rating() Rating          { return l.rating }
func (l *ReviewLog) PreviousInterval() int   { return l.previousInterval }
func (l *ReviewLog) NewInterval() int        { return l.newInterval }
func (l *ReviewLog) ReviewedAt() time.Time   { return l.reviewedAt }

// SetID sets the log ID (used by repository)
func (l *ReviewLog) SetID(id int64) {
	l.id = id
}

// RestoreReviewLog rebuilds a log row from stored values (used by repository)
func RestoreReviewLog(id int64, entryID ID, userID user.ID, questionID question.ID, rating Rating,
	previousInterval, newInterval int, reviewedAt time.Time) *ReviewLog {
	return &ReviewLog{
		id:               id,
		entryID:          entryID,
		userID:           userID,
		questionID:       questionID,
		rating:           rating,
		previousInterval: previousInterval,
		newInterval:      newInterval,
		reviewedAt:       reviewedAt,
	}
}
