package shared

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
)

const maxButtonLabel = 40

// CreateMainMenuKeyboard creates the standard main menu keyboard
func CreateMainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧠 Review", MenuReview),
			tgbotapi.NewInlineKeyboardButtonData("🗂 Board", MenuBoard),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Library", MenuLibrary),
			tgbotapi.NewInlineKeyboardButtonData("📝 Study Lists", MenuLists),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", MenuStats),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", MenuSettings),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", MenuHelp),
		),
	)
}

// CreateBackKeyboard has a single button returning to the main menu
func CreateBackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow())
}

// CreateStatsKeyboard creates a keyboard for stats view
func CreateStatsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧠 Review", MenuReview),
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Menu", CallbackBackMenu),
		),
	)
}

// CreateNothingDueKeyboard is shown when no problem is due
func CreateNothingDueKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Library", MenuLibrary),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", MenuStats),
		),
		backRow(),
	)
}

// CreateRatingKeyboard offers the four ratings, each labelled with the
// interval it would produce for entry
func CreateRatingKeyboard(entry *schedule.Entry) tgbotapi.InlineKeyboardMarkup {
	button := func(r schedule.Rating) tgbotapi.InlineKeyboardButton {
		label := RatingLabel(r)
		if days, err := schedule.NextInterval(r, entry.IntervalDays()); err == nil {
			label += " · " + FormatDays(days)
		}
		return tgbotapi.NewInlineKeyboardButtonData(label, RatingCallback(entry.ID(), r))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(schedule.Again), button(schedule.Hard)),
		tgbotapi.NewInlineKeyboardRow(button(schedule.Good), button(schedule.Easy)),
		backRow(),
	)
}

// CreateAfterReviewKeyboard follows a submitted rating when nothing else is due
func CreateAfterReviewKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 Board", MenuBoard),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", MenuStats),
		),
		backRow(),
	)
}

// CreateLibraryKeyboard adds a track button for every untracked question and
// a navigation row. pageData builds the payload for another page; it reports
// false when no button can be offered.
func CreateLibraryKeyboard(page *usecases.LibraryPage, pageData func(page int) (string, bool)) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range page.Items {
		if item.Tracked {
			continue
		}
		label := truncate("➕ "+item.Question.DisplayTitle(), maxButtonLabel)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, TrackCallback(item.Question.ID())),
		))
	}

	if nav := navigationRow(page.Page, page.NextPage, pageData); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CreateStudyListsKeyboard has one button per list that tracks the whole list
func CreateStudyListsKeyboard(lists []*question.StudyList) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range lists {
		label := truncate(fmt.Sprintf("📝 %s (%d)", l.Name, len(l.QuestionIDs)), maxButtonLabel)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, TrackListCallback(l.ID)),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CreateBoardKeyboard offers review when something is due, and paging
func CreateBoardKeyboard(view *usecases.BoardView, filter string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if len(view.Review) > 0 || len(view.New) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧠 Start Review", MenuReview),
		))
	}

	pageData := func(p int) (string, bool) { return BoardCallback(p, filter) }
	if nav := navigationRow(view.Page, view.NextPage, pageData); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CreateSettingsKeyboard creates the reminder settings keyboard
func CreateSettingsKeyboard(prefs *user.Preferences) tgbotapi.InlineKeyboardMarkup {
	action := "Enable"
	if prefs.SmartRemindersEnabled() {
		action = "Disable"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("⏰ %s Smart Reminders", action), CallbackToggleReminders),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖ 15min", CallbackIntervalMinus),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("⏰ %dmin", prefs.ReminderIntervalMinutes()), CallbackNoop),
			tgbotapi.NewInlineKeyboardButtonData("➕ 15min", CallbackIntervalPlus),
		),
		backRow(),
	)
}

func navigationRow(current int, next *int, pageData func(int) (string, bool)) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if current > 0 {
		if data, ok := pageData(current - 1); ok {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("« Prev", data))
		}
	}
	if next != nil {
		if data, ok := pageData(*next); ok {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next »", data))
		}
	}
	return row
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Menu", CallbackBackMenu),
	)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// EscapeMarkdown escapes the characters that are special in Telegram's
// legacy Markdown mode
func EscapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}
