package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leetcode-srs-bot/internal/domain/schedule"
)

func newReview(env *testEnv) *ReviewUseCase {
	return NewReviewUseCase(env.schedules, schedule.NewScheduler(env.clock), nil)
}

func TestReviewFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.newUser(t, 1)
	lib := newLibrary(env)
	review := newReview(env)

	_, err := lib.TrackQuestion(ctx, u.ID(), "two-sum")
	require.NoError(t, err)

	entry, err := review.NextDue(ctx, u.ID())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Two Sum", entry.Question().Title())

	outcome, err := review.SubmitReview(ctx, u.ID(), entry.ID(), schedule.Good)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.PreviousInterval)
	assert.Equal(t, 2, outcome.IntervalDays)
	assert.Equal(t, schedule.StatusReviewing, outcome.Status)
	assert.True(t, startTime.AddDate(0, 0, 2).Equal(outcome.ReviewAt))

	next, err := review.NextDue(ctx, u.ID())
	require.NoError(t, err)
	assert.Nil(t, next)

	env.clock.Advance(48 * time.Hour)
	next, err = review.NextDue(ctx, u.ID())
	require.NoError(t, err)
	require.NotNil(t, next)

	outcome, err = review.SubmitReview(ctx, u.ID(), next.ID(), schedule.Again)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.PreviousInterval)
	assert.Equal(t, 1, outcome.IntervalDays)
	assert.Equal(t, schedule.StatusLearning, outcome.Status)

	history, err := review.History(ctx, u.ID(), entry.ID())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, schedule.Again, history[0].Rating())
}

func TestSubmitReviewStampsOneReviewTime(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.newUser(t, 1)
	lib := newLibrary(env)

	// every clock read moves time forward by a second
	ticking := schedule.ClockFunc(func() time.Time {
		env.clock.Advance(time.Second)
		return env.clock.Now()
	})
	review := NewReviewUseCase(env.schedules, schedule.NewScheduler(ticking), nil)

	_, err := lib.TrackQuestion(ctx, u.ID(), "two-sum")
	require.NoError(t, err)
	entry, err := review.NextDue(ctx, u.ID())
	require.NoError(t, err)
	require.NotNil(t, entry)

	outcome, err := review.SubmitReview(ctx, u.ID(), entry.ID(), schedule.Good)
	require.NoError(t, err)
	reviewedAt := outcome.ReviewAt.AddDate(0, 0, -outcome.IntervalDays)
	assert.True(t, reviewedAt.Equal(outcome.Entry.UpdatedAt()))

	history, err := review.History(ctx, u.ID(), entry.ID())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, reviewedAt.Equal(history[0].ReviewedAt()))

	stored, err := env.schedules.FindByID(ctx, entry.ID())
	require.NoError(t, err)
	assert.True(t, reviewedAt.Equal(stored.UpdatedAt()))
}

func TestSubmitReviewRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.newUser(t, 1)
	intruder := env.newUser(t, 2)
	lib := newLibrary(env)
	review := newReview(env)

	_, err := lib.TrackQuestion(ctx, owner.ID(), "two-sum")
	require.NoError(t, err)
	entry, err := review.NextDue(ctx, owner.ID())
	require.NoError(t, err)

	_, err = review.SubmitReview(ctx, intruder.ID(), entry.ID(), schedule.Good)
	assert.ErrorIs(t, err, schedule.ErrEntryNotFound)

	_, err = review.History(ctx, intruder.ID(), entry.ID())
	assert.ErrorIs(t, err, schedule.ErrEntryNotFound)

	_, err = review.SubmitReview(ctx, owner.ID(), "missing", schedule.Good)
	assert.ErrorIs(t, err, schedule.ErrEntryNotFound)

	_, err = review.SubmitReview(ctx, owner.ID(), entry.ID(), schedule.Rating(0))
	assert.ErrorIs(t, err, schedule.ErrInvalidRating)

	// nothing was changed by the rejected attempts
	stored, err := env.schedules.FindByID(ctx, entry.ID())
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusNew, stored.Status())
	assert.Equal(t, 0, stored.IntervalDays())
}

func TestBoard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.newUser(t, 1)
	lib := newLibrary(env)
	review := newReview(env)

	added, err := lib.TrackStudyList(ctx, u.ID(), "blind-75")
	require.NoError(t, err)
	require.Equal(t, 3, added)

	// review two-sum (good, due in 2 days) and merge-intervals (again, due tomorrow)
	board, err := review.Board(ctx, u.ID(), schedule.ListFilter{})
	require.NoError(t, err)
	require.Len(t, board.New, 3)
	for _, e := range board.New {
		rating := schedule.Good
		if e.QuestionID() == "merge-intervals" {
			rating = schedule.Again
		}
		if e.QuestionID() == "valid-parentheses" {
			continue
		}
		_, err := review.SubmitReview(ctx, u.ID(), e.ID(), rating)
		require.NoError(t, err)
	}

	env.clock.Advance(25 * time.Hour)
	board, err = review.Board(ctx, u.ID(), schedule.ListFilter{})
	require.NoError(t, err)

	require.Len(t, board.Review, 1)
	assert.Equal(t, "merge-intervals", string(board.Review[0].QuestionID()))
	require.Len(t, board.Future, 1)
	assert.Equal(t, "two-sum", string(board.Future[0].QuestionID()))
	require.Len(t, board.New, 1)
	assert.Equal(t, 3, board.Total)
	assert.Equal(t, 0, board.Page)

	filtered, err := review.Board(ctx, u.ID(), schedule.ListFilter{TopicID: "stack"})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Len())
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t)
	review := newReview(env)

	p, err := review.Preview(schedule.Hard, 100)
	require.NoError(t, err)
	assert.Equal(t, 120, p.IntervalDays)
	assert.Equal(t, schedule.StatusReviewing, p.Status)
	assert.True(t, startTime.AddDate(0, 0, 120).Equal(p.ReviewAt))

	_, err = review.Preview(schedule.Good, -1)
	assert.ErrorIs(t, err, schedule.ErrNegativeInterval)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.newUser(t, 1)
	lib := newLibrary(env)
	review := newReview(env)

	_, err := lib.TrackStudyList(ctx, u.ID(), "blind-75")
	require.NoError(t, err)
	entry, err := review.NextDue(ctx, u.ID())
	require.NoError(t, err)
	_, err = review.SubmitReview(ctx, u.ID(), entry.ID(), schedule.Easy)
	require.NoError(t, err)

	stats, err := review.Stats(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.New)
	assert.Equal(t, 1, stats.Reviewing)
	assert.Equal(t, 2, stats.Due)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.Equal(t, 100, stats.Accuracy())
	assert.Equal(t, 1, stats.StreakDays)
}
