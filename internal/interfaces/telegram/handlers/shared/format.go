package shared

import (
	"fmt"
	"strings"
	"time"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
)

// RatingLabel returns the button label of a rating
func RatingLabel(r schedule.Rating) string {
	switch r {
	case schedule.Again:
		return "😵 Again"
	case schedule.Hard:
		return "😐 Hard"
	case schedule.Good:
		return "🙂 Good"
	case schedule.Easy:
		return "😄 Easy"
	default:
		return r.String()
	}
}

// DifficultyBadge returns the difficulty with a colored marker
func DifficultyBadge(d question.Difficulty) string {
	switch d {
	case question.DifficultyEasy:
		return "🟢 Easy"
	case question.DifficultyMedium:
		return "🟡 Medium"
	case question.DifficultyHard:
		return "🔴 Hard"
	default:
		return string(d)
	}
}

// FormatDays renders an interval as "1 day" or "12 days"
func FormatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatDue describes when an entry is due relative to now
func FormatDue(at, now time.Time) string {
	if !at.After(now) {
		return "due now"
	}
	days := calendarDays(now, at)
	switch days {
	case 0:
		return "due today"
	case 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}

func calendarDays(from, to time.Time) int {
	to = to.In(from.Location())
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FormatQuestionCard renders the review card of an entry
func FormatQuestionCard(entry *schedule.Entry) string {
	var sb strings.Builder
	sb.WriteString("🧠 *Review*\n\n")

	q := entry.Question()
	if q == nil {
		sb.WriteString("_Problem details unavailable_\n")
	} else {
		fmt.Fprintf(&sb, "*%s*\n", EscapeMarkdown(q.DisplayTitle()))
		sb.WriteString(DifficultyBadge(q.Difficulty()))
		if rate := q.AcRate(); rate != nil {
			fmt.Fprintf(&sb, " · %.1f%% acceptance", *rate)
		}
		sb.WriteString("\n")
		if topics := q.Topics(); len(topics) > 0 {
			names := make([]string, 0, len(topics))
			for _, t := range topics {
				names = append(names, EscapeMarkdown(t.Name))
			}
			fmt.Fprintf(&sb, "🏷 %s\n", strings.Join(names, ", "))
		}
		fmt.Fprintf(&sb, "🔗 %s\n", EscapeMarkdown(q.URL()))
	}

	if entry.IsNew() {
		sb.WriteString("\n🆕 First attempt\n")
	} else {
		fmt.Fprintf(&sb, "\n📖 %s · last interval %s\n", entry.Status(), FormatDays(entry.IntervalDays()))
	}
	sb.WriteString("\nSolve it, then rate how it went:")
	return sb.String()
}

// FormatReviewOutcome summarizes a submitted rating
func FormatReviewOutcome(outcome *usecases.ReviewOutcome) string {
	title := "Problem"
	if q := outcome.Entry.Question(); q != nil {
		title = q.DisplayTitle()
	}
	return fmt.Sprintf("✅ *%s* rated %s\n⏱ %s → %s · next review %s",
		EscapeMarkdown(title),
		RatingLabel(outcome.Rating),
		FormatDays(outcome.PreviousInterval),
		FormatDays(outcome.IntervalDays),
		outcome.ReviewAt.Format("Mon, Jan 2"))
}

// FormatBoardText renders one page of the board
func FormatBoardText(view *usecases.BoardView, now time.Time) string {
	if view.Total == 0 {
		return "🗂 *Your Board*\n\nYou are not tracking any problems yet. Add some from the 📚 Library or a 📝 Study List."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 *Your Board* · %d tracked\n", view.Total)

	section := func(title string, entries []*schedule.Entry, withDue bool) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n*%s* (%d)\n", title, len(entries))
		for _, e := range entries {
			sb.WriteString("• ")
			sb.WriteString(entryTitle(e))
			if withDue {
				sb.WriteString(" · ")
				sb.WriteString(FormatDue(e.NextReviewAt(), now))
			}
			sb.WriteString("\n")
		}
	}
	section("⏰ Due for review", view.Review, false)
	section("📅 Upcoming", view.Future, true)
	section("🆕 New", view.New, false)

	if view.Page > 0 || view.NextPage != nil {
		fmt.Fprintf(&sb, "\n_Page %d_", view.Page+1)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func entryTitle(e *schedule.Entry) string {
	if q := e.Question(); q != nil {
		return EscapeMarkdown(q.DisplayTitle())
	}
	return EscapeMarkdown(string(e.QuestionID()))
}

// FormatLibraryText renders a library or search page
func FormatLibraryText(heading string, page *usecases.LibraryPage) string {
	if len(page.Items) == 0 {
		return heading + "\n\nNo problems found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s · %d problems\n\n", heading, page.Total)
	for _, item := range page.Items {
		marker := "▫️"
		if item.Tracked {
			marker = "✅"
		}
		fmt.Fprintf(&sb, "%s %s · %s\n", marker, EscapeMarkdown(item.Question.DisplayTitle()),
			DifficultyBadge(item.Question.Difficulty()))
	}
	sb.WriteString("\nTap ➕ to add a problem to your schedule.")
	if page.Page > 0 || page.NextPage != nil {
		fmt.Fprintf(&sb, "\n_Page %d_", page.Page+1)
	}
	return sb.String()
}

// FormatStudyListsText renders the study list overview
func FormatStudyListsText(lists []*question.StudyList) string {
	if len(lists) == 0 {
		return "📝 *Study Lists*\n\nNo study lists are available yet."
	}
	var sb strings.Builder
	sb.WriteString("📝 *Study Lists*\n\n")
	for _, l := range lists {
		fmt.Fprintf(&sb, "• %s · %d problems\n", EscapeMarkdown(l.Name), len(l.QuestionIDs))
	}
	sb.WriteString("\nTap a list to track all of its problems. Problems you already track keep their progress.")
	return sb.String()
}

// FormatStatsText formats user statistics into a readable message
func FormatStatsText(stats *schedule.UserStats) string {
	return fmt.Sprintf(
		"📊 *Your Progress*\n\n"+
			"📚 Tracked: %d\n"+
			"🆕 New: %d\n"+
			"📖 Learning: %d\n"+
			"🔁 Reviewing: %d\n"+
			"🏆 Mastered: %d\n"+
			"⏰ Due now: %d\n\n"+
			"📈 Total reviews: %d\n"+
			"✅ Good or easy: %d (%d%%)\n"+
			"🔥 Streak: %s",
		stats.Total, stats.New, stats.Learning, stats.Reviewing, stats.Mastered, stats.Due,
		stats.TotalReviews, stats.CorrectReviews, stats.Accuracy(), FormatDays(stats.StreakDays))
}

// FormatSettingsText renders the reminder settings
func FormatSettingsText(prefs *user.Preferences) string {
	status := "❌ *DISABLED*"
	if prefs.SmartRemindersEnabled() {
		status = "✅ *ENABLED*"
	}
	return fmt.Sprintf(
		"⚙️ *Settings*\n\n"+
			"⏰ Smart Reminders: %s\n"+
			"⌛️ Reminder Interval: *%d minutes*\n\n"+
			"_Use the buttons below to adjust settings:_",
		status, prefs.ReminderIntervalMinutes())
}

// GetHelpText returns the standard help text
func GetHelpText() string {
	return `🧠 *LeetCode Review Bot Help*

*Commands:*
/start - Show welcome message
/menu - Show main menu
/review - Review the next due problem
/board - Your tracked problems
/board <term> or /board #<topic> - Filter your board
/library - Browse the problem library
/search <title or number> - Find a problem
/lists - Track a whole study list
/stats - View your progress
/settings - Reminder settings
/help - Show this help

*How it works:*
Track problems from the library. When a problem is due, solve it again and rate how it went. The bot schedules the next attempt from your rating and the current interval.

*Rating Guide:*
😵 *Again* - could not solve it, back in 1 day
😐 *Hard* - solved with struggle, interval x1.2
🙂 *Good* - solved with some effort, interval x2.5
😄 *Easy* - solved right away, interval x4

Intervals are whole days and never shorter than one day.`
}
