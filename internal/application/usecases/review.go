package usecases

import (
	"context"
	"fmt"
	"time"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

// BoardView is one page of a user's schedule split into board sections
type BoardView struct {
	schedule.Board
	Total    int
	Page     int
	NextPage *int
}

// ReviewOutcome describes what a submitted rating did to an entry
type ReviewOutcome struct {
	Entry            *schedule.Entry
	Rating           schedule.Rating
	PreviousInterval int
	IntervalDays     int
	ReviewAt         time.Time
	Status           schedule.Status
}

// Preview is the schedule a rating would produce, without persisting anything
type Preview struct {
	IntervalDays int
	ReviewAt     time.Time
	Status       schedule.Status
}

// ReviewUseCase handles the review flow
type ReviewUseCase struct {
	scheduleRepo schedule.Repository
	scheduler    *schedule.Scheduler
	metrics      *metrics.Metrics
}

// NewReviewUseCase creates a new review use case
func NewReviewUseCase(scheduleRepo schedule.Repository, scheduler *schedule.Scheduler, m *metrics.Metrics) *ReviewUseCase {
	if scheduler == nil {
		scheduler = schedule.NewScheduler(nil)
	}
	return &ReviewUseCase{
		scheduleRepo: scheduleRepo,
		scheduler:    scheduler,
		metrics:      m,
	}
}

// Board returns a page of the user's schedule grouped for display
func (uc *ReviewUseCase) Board(ctx context.Context, userID user.ID, filter schedule.ListFilter) (*BoardView, error) {
	page, err := uc.scheduleRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}

	current, _ := question.Normalize(filter.Page, filter.PageSize, schedule.DefaultPageSize)
	return &BoardView{
		Board:    schedule.GroupEntries(page.Entries, uc.scheduler.Now()),
		Total:    page.Total,
		Page:     current,
		NextPage: page.NextPage,
	}, nil
}

// NextDue returns the entry to review next, or nil when nothing is due.
// Previously reviewed entries come before new ones.
func (uc *ReviewUseCase) NextDue(ctx context.Context, userID user.ID) (*schedule.Entry, error) {
	due, err := uc.scheduleRepo.FindDue(ctx, userID, uc.scheduler.Now(), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to find due entries: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}
	return due[0], nil
}

// SubmitReview applies rating to one of the user's entries and records it
// in the review history
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, userID user.ID, entryID schedule.ID, rating schedule.Rating) (*ReviewOutcome, error) {
	if !rating.Valid() {
		return nil, fmt.Errorf("%w: %d", schedule.ErrInvalidRating, int(rating))
	}

	entry, err := uc.scheduleRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	// Another user's entry is indistinguishable from a missing one
	if entry == nil || entry.UserID() != userID {
		return nil, schedule.ErrEntryNotFound
	}

	previous := entry.IntervalDays()
	result, err := entry.ApplyReview(uc.scheduler, rating)
	if err != nil {
		return nil, err
	}

	reviewLog := schedule.NewReviewLog(entry, rating, previous, entry.UpdatedAt())
	if err := uc.scheduleRepo.SaveReview(ctx, entry, reviewLog); err != nil {
		return nil, err
	}

	uc.metrics.ObserveReview(rating.String(), result.IntervalDays)
	log.Info("review recorded",
		"user", userID,
		"entry", entryID,
		"rating", rating,
		"previous_interval", previous,
		"interval", result.IntervalDays)

	return &ReviewOutcome{
		Entry:            entry,
		Rating:           rating,
		PreviousInterval: previous,
		IntervalDays:     result.IntervalDays,
		ReviewAt:         result.ReviewAt,
		Status:           entry.Status(),
	}, nil
}

// Preview computes what rating would do to an entry with currentIntervalDays
func (uc *ReviewUseCase) Preview(rating schedule.Rating, currentIntervalDays int) (*Preview, error) {
	result, err := uc.scheduler.ComputeNextSchedule(rating, currentIntervalDays)
	if err != nil {
		return nil, err
	}
	return &Preview{
		IntervalDays: result.IntervalDays,
		ReviewAt:     result.ReviewAt,
		Status:       schedule.StatusAfterReview(rating),
	}, nil
}

// Stats returns schedule statistics for a user
func (uc *ReviewUseCase) Stats(ctx context.Context, userID user.ID) (*schedule.UserStats, error) {
	stats, err := uc.scheduleRepo.GetUserStats(ctx, userID, uc.scheduler.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

// History returns the review log of one of the user's entries, newest first
func (uc *ReviewUseCase) History(ctx context.Context, userID user.ID, entryID schedule.ID) ([]*schedule.ReviewLog, error) {
	entry, err := uc.scheduleRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	if entry == nil || entry.UserID() != userID {
		return nil, schedule.ErrEntryNotFound
	}

	logs, err := uc.scheduleRepo.FindReviewLogs(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review history: %w", err)
	}
	return logs, nil
}
