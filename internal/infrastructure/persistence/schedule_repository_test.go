package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
)

func frontendIDs(entries []*schedule.Entry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Question().FrontendID())
	}
	return out
}

func TestScheduleRepositoryTrack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)

	entry := schedule.NewEntry(u.ID(), "two-sum", testNow)
	created, err := repo.Track(ctx, entry)
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.FindByID(ctx, entry.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, schedule.StatusNew, found.Status())
	assert.Equal(t, 0, found.IntervalDays())
	assert.Equal(t, schedule.DefaultEaseFactor, found.EaseFactor())
	assert.True(t, testNow.Equal(found.NextReviewAt()))
	assert.Equal(t, "Two Sum", found.Question().Title())
	assert.Len(t, found.Question().Topics(), 2)

	missing, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestScheduleRepositoryRetrackKeepsProgress(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)

	entry := schedule.NewEntry(u.ID(), "two-sum", testNow)
	_, err := repo.Track(ctx, entry)
	require.NoError(t, err)

	scheduler := schedule.NewScheduler(schedule.ClockFunc(func() time.Time { return testNow }))
	_, err = entry.ApplyReview(scheduler, schedule.Good)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, entry))

	created, err := repo.Track(ctx, schedule.NewEntry(u.ID(), "two-sum", testNow.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByID(ctx, entry.ID())
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusReviewing, found.Status())
	assert.Equal(t, 2, found.IntervalDays())
}

func TestScheduleRepositoryTrackBatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)

	_, err := repo.Track(ctx, schedule.NewEntry(u.ID(), "two-sum", testNow))
	require.NoError(t, err)

	added, err := repo.TrackBatch(ctx, []*schedule.Entry{
		schedule.NewEntry(u.ID(), "two-sum", testNow),
		schedule.NewEntry(u.ID(), "three-sum", testNow),
		schedule.NewEntry(u.ID(), "trapping-rain-water", testNow),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	tracked, err := repo.TrackedQuestionIDs(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, map[question.ID]bool{"two-sum": true, "three-sum": true, "trapping-rain-water": true}, tracked)
}

func TestScheduleRepositoryUpdateMissing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewScheduleRepository(db)

	err := repo.Update(ctx, schedule.NewEntry(1, "two-sum", testNow))
	assert.ErrorIs(t, err, schedule.ErrEntryNotFound)
}

// seedBoard tracks four questions: 42 new, 3 due yesterday, 1 due in two
// days and 15 due earlier today
func seedBoard(t *testing.T, repo schedule.Repository, userID user.ID) {
	t.Helper()
	ctx := context.Background()

	restore := func(qid question.ID, status schedule.Status, due time.Time, interval int) *schedule.Entry {
		return schedule.Restore(schedule.NewID(), userID, qid, status, due, interval,
			schedule.DefaultEaseFactor, testNow, testNow)
	}

	added, err := repo.TrackBatch(ctx, []*schedule.Entry{
		restore("trapping-rain-water", schedule.StatusNew, testNow.Add(-time.Hour), 0),
		restore("longest-substring", schedule.StatusLearning, testNow.AddDate(0, 0, -1), 1),
		restore("two-sum", schedule.StatusReviewing, testNow.AddDate(0, 0, 2), 5),
		restore("three-sum", schedule.StatusReviewing, testNow.Add(-2*time.Hour), 3),
	})
	require.NoError(t, err)
	require.Equal(t, 4, added)
}

func TestScheduleRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)
	seedBoard(t, repo, u.ID())

	page, err := repo.List(ctx, u.ID(), schedule.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 15, 1, 42}, frontendIDs(page.Entries))
	assert.Equal(t, 4, page.Total)
	assert.Nil(t, page.NextPage)

	board := schedule.GroupEntries(page.Entries, testNow)
	assert.Equal(t, []int{3, 15}, frontendIDs(board.Review))
	assert.Equal(t, []int{1}, frontendIDs(board.Future))
	assert.Equal(t, []int{42}, frontendIDs(board.New))
}

func TestScheduleRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	other := seedUser(t, db, 2)
	repo := NewScheduleRepository(db)
	seedBoard(t, repo, u.ID())
	seedBoard(t, repo, other.ID())

	page, err := repo.List(ctx, u.ID(), schedule.ListFilter{TopicID: "topic-array"})
	require.NoError(t, err)
	assert.Equal(t, []int{15, 1, 42}, frontendIDs(page.Entries))

	page, err = repo.List(ctx, u.ID(), schedule.ListFilter{Search: "sum"})
	require.NoError(t, err)
	assert.Equal(t, []int{15, 1}, frontendIDs(page.Entries))

	page, err = repo.List(ctx, u.ID(), schedule.ListFilter{Search: "42"})
	require.NoError(t, err)
	assert.Equal(t, []int{42}, frontendIDs(page.Entries))

	page, err = repo.List(ctx, u.ID(), schedule.ListFilter{PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page.Entries, 3)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 1, *page.NextPage)
	assert.Equal(t, 4, page.Total)
}

func TestScheduleRepositoryFindDue(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)
	seedBoard(t, repo, u.ID())

	due, err := repo.FindDue(ctx, u.ID(), testNow, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 15, 42}, frontendIDs(due))

	first, err := repo.FindDue(ctx, u.ID(), testNow, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, frontendIDs(first))

	users, err := repo.UsersWithDueItems(ctx, testNow)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, u.ID(), users[0])

	users, err = repo.UsersWithDueItems(ctx, testNow.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestScheduleRepositorySaveReview(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)

	entry := schedule.NewEntry(u.ID(), "two-sum", testNow)
	_, err := repo.Track(ctx, entry)
	require.NoError(t, err)

	scheduler := schedule.NewScheduler(schedule.ClockFunc(func() time.Time { return testNow }))
	for _, rating := range []schedule.Rating{schedule.Good, schedule.Easy} {
		previous := entry.IntervalDays()
		_, err := entry.ApplyReview(scheduler, rating)
		require.NoError(t, err)

		log := schedule.NewReviewLog(entry, rating, previous, scheduler.Now())
		require.NoError(t, repo.SaveReview(ctx, entry, log))
		assert.NotZero(t, log.ID())
	}

	found, err := repo.FindByID(ctx, entry.ID())
	require.NoError(t, err)
	assert.Equal(t, 8, found.IntervalDays())
	assert.True(t, testNow.AddDate(0, 0, 8).Equal(found.NextReviewAt()))

	logs, err := repo.FindReviewLogs(ctx, entry.ID())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, schedule.Easy, logs[0].Rating())
	assert.Equal(t, 2, logs[0].PreviousInterval())
	assert.Equal(t, 8, logs[0].NewInterval())
	assert.Equal(t, schedule.Good, logs[1].Rating())
	assert.Equal(t, 0, logs[1].PreviousInterval())
	assert.Equal(t, 2, logs[1].NewInterval())
}

func TestScheduleRepositorySaveReviewRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewScheduleRepository(db)

	entry := schedule.NewEntry(1, "two-sum", testNow)
	log := schedule.NewReviewLog(entry, schedule.Good, 0, testNow)

	err := repo.SaveReview(ctx, entry, log)
	assert.ErrorIs(t, err, schedule.ErrEntryNotFound)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM review_history`).Scan(&count))
	assert.Zero(t, count)
}

func TestScheduleRepositoryUserStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	u := seedUser(t, db, 1)
	repo := NewScheduleRepository(db)
	seedBoard(t, repo, u.ID())

	due, err := repo.FindDue(ctx, u.ID(), testNow, 10)
	require.NoError(t, err)
	entry := due[0]

	// reviews today, yesterday and three days ago: streak of two
	reviews := []struct {
		at     time.Time
		rating schedule.Rating
	}{
		{testNow.Add(-time.Minute), schedule.Good},
		{testNow.AddDate(0, 0, -1), schedule.Again},
		{testNow.AddDate(0, 0, -3), schedule.Easy},
	}
	for _, r := range reviews {
		log := schedule.NewReviewLog(entry, r.rating, entry.IntervalDays(), r.at)
		require.NoError(t, repo.SaveReview(ctx, entry, log))
	}

	stats, err := repo.GetUserStats(ctx, u.ID(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Learning)
	assert.Equal(t, 2, stats.Reviewing)
	assert.Equal(t, 0, stats.Mastered)
	assert.Equal(t, 3, stats.Due)
	assert.Equal(t, 3, stats.TotalReviews)
	assert.Equal(t, 2, stats.CorrectReviews)
	assert.Equal(t, 2, stats.StreakDays)
	assert.Equal(t, 66, stats.Accuracy())
}

func TestScheduleRepositoryUserStatsEmpty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u := seedUser(t, db, 1)

	stats, err := NewScheduleRepository(db).GetUserStats(ctx, u.ID(), testNow)
	require.NoError(t, err)
	assert.Equal(t, schedule.UserStats{}, *stats)
}
