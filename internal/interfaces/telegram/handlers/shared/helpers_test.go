package shared

import (
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
)

var now = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func entryFor(t *testing.T, slug string, n int, interval int, status schedule.Status, due time.Time) *schedule.Entry {
	t.Helper()
	q := question.NewQuestion(question.ID(slug), n, strings.ReplaceAll(slug, "-", " "), slug, question.DifficultyMedium)
	e := schedule.Restore(schedule.ID("entry-"+slug), user.ID(1), q.ID(), status, due, interval, 2.5, now, now)
	e.SetQuestion(q)
	return e
}

func callbacks(kb tgbotapi.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			data = append(data, *b.CallbackData)
		}
	}
	return data
}

func labels(kb tgbotapi.InlineKeyboardMarkup) []string {
	var text []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			text = append(text, b.Text)
		}
	}
	return text
}

func TestParseRatingCallback(t *testing.T) {
	id := schedule.ID("0b9f3c52-6c1e-4d0a-9b1e-2f1f0c6d8a11")

	gotID, rating, err := ParseRatingCallback(RatingCallback(id, schedule.Hard))
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, schedule.Hard, rating)

	for _, data := range []string{"rating_", "rating_abc", "track_abc_3", "rating__3"} {
		_, _, err := ParseRatingCallback(data)
		assert.ErrorIs(t, err, ErrInvalidCallback, data)
	}

	_, _, err = ParseRatingCallback("rating_abc_7")
	assert.ErrorIs(t, err, schedule.ErrInvalidRating)
}

func TestParsePageCallback(t *testing.T) {
	page, arg, err := ParsePageCallback(LibraryCallback(3))
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Empty(t, arg)

	data, ok := SearchCallback(1, "two_sum tree")
	require.True(t, ok)
	page, arg, err = ParsePageCallback(data)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, "two_sum tree", arg)

	_, ok = SearchCallback(0, strings.Repeat("x", MaxCallbackData))
	assert.False(t, ok)

	for _, bad := range []string{"lib", "lib_x", "lib_-1"} {
		_, _, err := ParsePageCallback(bad)
		assert.ErrorIs(t, err, ErrInvalidCallback, bad)
	}
}

func TestBoardCallback(t *testing.T) {
	data, ok := BoardCallback(2, "")
	require.True(t, ok)
	assert.Equal(t, "board_2", data)

	data, ok = BoardCallback(1, "#two-pointers")
	require.True(t, ok)
	page, arg, err := ParsePageCallback(data)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, "#two-pointers", arg)

	_, ok = BoardCallback(1, strings.Repeat("x", MaxCallbackData))
	assert.False(t, ok)
}

func TestCreateBoardKeyboard_CarriesFilter(t *testing.T) {
	next := 2
	view := &usecases.BoardView{Total: 60, Page: 1, NextPage: &next}

	kb := CreateBoardKeyboard(view, "Sum")
	assert.Equal(t, []string{"board_0_Sum", "board_2_Sum", CallbackBackMenu}, callbacks(kb))

	kb = CreateBoardKeyboard(view, strings.Repeat("x", MaxCallbackData))
	assert.Equal(t, []string{CallbackBackMenu}, callbacks(kb))
}

func TestParseTrackCallbacks(t *testing.T) {
	qid, err := ParseTrackCallback(TrackCallback("two-sum"))
	require.NoError(t, err)
	assert.Equal(t, question.ID("two-sum"), qid)

	_, err = ParseTrackCallback("track_")
	assert.ErrorIs(t, err, ErrInvalidCallback)

	lid, err := ParseTrackListCallback(TrackListCallback("blind-75"))
	require.NoError(t, err)
	assert.Equal(t, question.StudyListID("blind-75"), lid)
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	id := schedule.NewID()
	assert.LessOrEqual(t, len(RatingCallback(id, schedule.Easy)), MaxCallbackData)
	assert.LessOrEqual(t, len(TrackListCallback("6f1c2a8e-3b5d-5e7f-9a0b-1c2d3e4f5a6b")), MaxCallbackData)
}

func TestCreateRatingKeyboard_ShowsResultingIntervals(t *testing.T) {
	e := entryFor(t, "merge-intervals", 56, 10, schedule.StatusReviewing, now)

	kb := CreateRatingKeyboard(e)

	assert.Equal(t, []string{
		"😵 Again · 1 day", "😐 Hard · 12 days",
		"🙂 Good · 25 days", "😄 Easy · 40 days",
		"🏠 Back to Menu",
	}, labels(kb))
	assert.Equal(t, RatingCallback(e.ID(), schedule.Again), callbacks(kb)[0])
}

func TestCreateLibraryKeyboard(t *testing.T) {
	next := 2
	page := &usecases.LibraryPage{
		Items: []usecases.LibraryItem{
			{Question: question.NewQuestion("two-sum", 1, "Two Sum", "two-sum", question.DifficultyEasy), Tracked: true},
			{Question: question.NewQuestion("3sum", 15, "3Sum", "3sum", question.DifficultyMedium)},
		},
		Total:    70,
		Page:     1,
		NextPage: &next,
	}

	kb := CreateLibraryKeyboard(page, func(p int) (string, bool) { return LibraryCallback(p), true })

	assert.Equal(t, []string{"track_3sum", "lib_0", "lib_2", CallbackBackMenu}, callbacks(kb))
}

func TestCreateLibraryKeyboard_SkipsUnencodablePages(t *testing.T) {
	next := 1
	page := &usecases.LibraryPage{Total: 40, NextPage: &next}

	kb := CreateLibraryKeyboard(page, func(int) (string, bool) { return "", false })

	assert.Equal(t, []string{CallbackBackMenu}, callbacks(kb))
}

func TestFormatDue(t *testing.T) {
	assert.Equal(t, "due now", FormatDue(now, now))
	assert.Equal(t, "due now", FormatDue(now.Add(-time.Hour), now))
	assert.Equal(t, "due today", FormatDue(now.Add(time.Hour), now))
	assert.Equal(t, "due tomorrow", FormatDue(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "due in 25 days", FormatDue(now.AddDate(0, 0, 25), now))
}

func TestFormatBoardText(t *testing.T) {
	view := &usecases.BoardView{
		Board: schedule.Board{
			Review: []*schedule.Entry{entryFor(t, "two-sum", 1, 2, schedule.StatusReviewing, now.Add(-time.Hour))},
			Future: []*schedule.Entry{entryFor(t, "merge-intervals", 56, 5, schedule.StatusReviewing, now.AddDate(0, 0, 3))},
			New:    []*schedule.Entry{entryFor(t, "valid-parentheses", 20, 0, schedule.StatusNew, now)},
		},
		Total: 3,
	}

	text := FormatBoardText(view, now)

	assert.Contains(t, text, "3 tracked")
	assert.Contains(t, text, "*⏰ Due for review* (1)\n• 1. two sum\n")
	assert.Contains(t, text, "• 56. merge intervals · due in 3 days")
	assert.Contains(t, text, "*🆕 New* (1)\n• 20. valid parentheses")
	assert.NotContains(t, text, "Page")
}

func TestFormatStatsText(t *testing.T) {
	text := FormatStatsText(&schedule.UserStats{
		Total:          12,
		New:            4,
		Learning:       3,
		Reviewing:      5,
		Due:            6,
		TotalReviews:   8,
		CorrectReviews: 6,
		StreakDays:     1,
	})

	assert.Contains(t, text, "📚 Tracked: 12")
	assert.Contains(t, text, "⏰ Due now: 6")
	assert.Contains(t, text, "✅ Good or easy: 6 (75%)")
	assert.Contains(t, text, "🔥 Streak: 1 day")
}

func TestFormatQuestionCard(t *testing.T) {
	q := question.NewQuestion("lru-cache", 146, "LRU_Cache", "lru-cache", question.DifficultyMedium)
	q.SetAcRate(44.31)
	q.SetTopics([]question.Topic{{Name: "Hash Table"}, {Name: "Design"}})
	e := schedule.NewEntry(user.ID(1), q.ID(), now)
	e.SetQuestion(q)

	text := FormatQuestionCard(e)

	assert.Contains(t, text, "*146. LRU\\_Cache*")
	assert.Contains(t, text, "🟡 Medium · 44.3% acceptance")
	assert.Contains(t, text, "🏷 Hash Table, Design")
	assert.Contains(t, text, "🆕 First attempt")
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "a\\_b \\*c\\* \\`d\\` \\[e]", EscapeMarkdown("a_b *c* `d` [e]"))
	assert.Equal(t, "1. Two-Sum (easy)!", EscapeMarkdown("1. Two-Sum (easy)!"))
}
