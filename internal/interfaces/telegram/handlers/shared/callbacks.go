package shared

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
)

// MaxCallbackData is the Telegram limit for inline button payloads, in bytes
const MaxCallbackData = 64

// ErrInvalidCallback is returned when callback data cannot be parsed
var ErrInvalidCallback = errors.New("invalid callback data")

// Fixed callback payloads
const (
	CallbackNoop            = "noop"
	CallbackBackMenu        = "back_menu"
	CallbackReviewNext      = "review_next"
	CallbackToggleReminders = "toggle_smart_reminders"
	CallbackIntervalMinus   = "set_interval_minus-15"
	CallbackIntervalPlus    = "set_interval_plus-15"
)

// Menu payloads
const (
	MenuReview   = "menu_review"
	MenuBoard    = "menu_board"
	MenuLibrary  = "menu_library"
	MenuLists    = "menu_lists"
	MenuStats    = "menu_stats"
	MenuSettings = "menu_settings"
	MenuHelp     = "menu_help"
)

// RatingCallback builds "rating_<entryID>_<n>"
func RatingCallback(id schedule.ID, rating schedule.Rating) string {
	return fmt.Sprintf("rating_%s_%d", id, int(rating))
}

// ParseRatingCallback splits a rating payload into entry and rating
func ParseRatingCallback(data string) (schedule.ID, schedule.Rating, error) {
	rest, ok := strings.CutPrefix(data, "rating_")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	rating, err := schedule.ParseRating(rest[i+1:])
	if err != nil {
		return "", 0, err
	}
	return schedule.ID(rest[:i]), rating, nil
}

// TrackCallback builds "track_<questionID>"
func TrackCallback(id question.ID) string {
	return "track_" + string(id)
}

// ParseTrackCallback returns the question id of a track payload
func ParseTrackCallback(data string) (question.ID, error) {
	id, ok := strings.CutPrefix(data, "track_")
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	return question.ID(id), nil
}

// TrackListCallback builds "tracklist_<listID>"
func TrackListCallback(id question.StudyListID) string {
	return "tracklist_" + string(id)
}

// ParseTrackListCallback returns the study list id of a tracklist payload
func ParseTrackListCallback(data string) (question.StudyListID, error) {
	id, ok := strings.CutPrefix(data, "tracklist_")
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	return question.StudyListID(id), nil
}

// LibraryCallback builds "lib_<page>"
func LibraryCallback(page int) string {
	return "lib_" + strconv.Itoa(page)
}

// BoardCallback builds "board_<page>", or "board_<page>_<filter>" for a
// filtered board. It reports false when the filter does not fit into a
// button payload.
func BoardCallback(page int, filter string) (string, bool) {
	data := "board_" + strconv.Itoa(page)
	if filter != "" {
		data += "_" + filter
	}
	return data, len(data) <= MaxCallbackData
}

// SearchCallback builds "search_<page>_<term>". It reports false when the
// term does not fit into a button payload.
func SearchCallback(page int, term string) (string, bool) {
	data := "search_" + strconv.Itoa(page) + "_" + term
	return data, len(data) <= MaxCallbackData
}

// ParsePageCallback parses "<action>_<page>" and "<action>_<page>_<arg>"
func ParsePageCallback(data string) (page int, arg string, err error) {
	parts := strings.SplitN(data, "_", 3)
	if len(parts) < 2 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	page, err = strconv.Atoi(parts[1])
	if err != nil || page < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	if len(parts) == 3 {
		arg = parts[2]
	}
	return page, arg, nil
}
