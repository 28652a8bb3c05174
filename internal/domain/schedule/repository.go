package schedule

import (
	"context"
	"time"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/user"
)

// DefaultPageSize is the number of entries per board page
const DefaultPageSize = 20

// ListFilter narrows a user's schedule listing
type ListFilter struct {
	Search   string
	TopicID  question.TopicID
	Page     int
	PageSize int
}

// EntryPage is one page of schedule entries
type EntryPage struct {
	Entries  []*Entry
	Total    int
	NextPage *int
}

// Repository defines the contract for schedule persistence
type Repository interface {
	// Track inserts entry unless the user already tracks the question.
	// It reports whether a row was created.
	Track(ctx context.Context, entry *Entry) (bool, error)

	// TrackBatch tracks several entries in one transaction and returns how
	// many were created
	TrackBatch(ctx context.Context, entries []*Entry) (int, error)

	// FindByID retrieves an entry, or nil if it does not exist
	FindByID(ctx context.Context, id ID) (*Entry, error)

	// Update persists an entry's schedule fields
	Update(ctx context.Context, entry *Entry) error

	// List returns a page of the user's entries, non-new first, then by
	// next review time and problem number
	List(ctx context.Context, userID user.ID, filter ListFilter) (*EntryPage, error)

	// FindDue returns entries due at now in board order
	FindDue(ctx context.Context, userID user.ID, now time.Time, limit int) ([]*Entry, error)

	// TrackedQuestionIDs returns the set of problems the user tracks
	TrackedQuestionIDs(ctx context.Context, userID user.ID) (map[question.ID]bool, error)

	// SaveReview updates the entry and appends the log in one transaction
	SaveReview(ctx context.Context, entry *Entry, log *ReviewLog) error

	// FindReviewLogs returns the review history of an entry, newest first
	FindReviewLogs(ctx context.Context, entryID ID) ([]*ReviewLog, error)

	// GetUserStats computes schedule statistics for a user
	GetUserStats(ctx context.Context, userID user.ID, now time.Time) (*UserStats, error)

	// UsersWithDueItems lists users with at least one entry due at now
	UsersWithDueItems(ctx context.Context, now time.Time) ([]user.ID, error)
}
