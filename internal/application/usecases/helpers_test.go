package usecases

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/infrastructure/persistence"
)

// fakeClock is a settable schedule.Clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (n *fakeNotifier) SendMessageWithMarkdown(chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("telegram unavailable")
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (n *fakeNotifier) Sent() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type testEnv struct {
	db        *sql.DB
	clock     *fakeClock
	users     user.Repository
	prefs     user.PreferencesRepository
	questions question.Repository
	schedules schedule.Repository
}

// Monday 10:00 UTC, outside default quiet hours
var startTime = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := persistence.NewDB(persistence.DriverPureGo, filepath.Join(t.TempDir(), "usecases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:        db,
		clock:     &fakeClock{now: startTime},
		users:     persistence.NewUserRepository(db),
		prefs:     persistence.NewUserPreferencesRepository(db),
		questions: persistence.NewQuestionRepository(db),
		schedules: persistence.NewScheduleRepository(db),
	}

	mk := func(slug string, n int, title string, d question.Difficulty, topic string) *question.Question {
		q := question.NewQuestion(question.ID(slug), n, title, slug, d)
		q.SetTopics([]question.Topic{{ID: question.TopicID(topic), Name: topic, Slug: topic}})
		return q
	}
	ctx := context.Background()
	require.NoError(t, env.questions.SaveBatch(ctx, []*question.Question{
		mk("two-sum", 1, "Two Sum", question.DifficultyEasy, "array"),
		mk("valid-parentheses", 20, "Valid Parentheses", question.DifficultyEasy, "stack"),
		mk("merge-intervals", 56, "Merge Intervals", question.DifficultyMedium, "array"),
	}))
	require.NoError(t, env.questions.SaveStudyLists(ctx, []*question.StudyList{
		{ID: "blind-75", Name: "Blind 75", Slug: "blind-75",
			QuestionIDs: []question.ID{"two-sum", "valid-parentheses", "merge-intervals"}},
	}))

	return env
}

func (e *testEnv) newUser(t *testing.T, telegramID int64) *user.User {
	t.Helper()
	uc := NewUserUseCase(e.users, e.prefs, e.clock)
	u, err := uc.GetOrCreateUser(context.Background(), user.TelegramID(telegramID), user.Profile{FirstName: "Ada"})
	require.NoError(t, err)
	return u
}
