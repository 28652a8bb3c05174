package handlers

import (
	"context"
	"errors"
	"fmt"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
)

// handleLibrary shows the first library page
func (h *BotHandler) handleLibrary(ctx context.Context, req *request) error {
	return h.showLibrary(ctx, req, 0)
}

// handleLibraryPage handles lib_<page>
func (h *BotHandler) handleLibraryPage(ctx context.Context, req *request) error {
	page, _, err := shared.ParsePageCallback(req.data)
	if err != nil {
		return err
	}
	return h.showLibrary(ctx, req, page)
}

// handleSearchPage handles search_<page>_<term>
func (h *BotHandler) handleSearchPage(ctx context.Context, req *request) error {
	page, term, err := shared.ParsePageCallback(req.data)
	if err != nil {
		return err
	}
	return h.showSearch(ctx, req, term, page)
}

func (h *BotHandler) showLibrary(ctx context.Context, req *request, page int) error {
	result, err := h.libraryUseCase.Browse(ctx, req.user.ID(), question.Filter{Page: page})
	if err != nil {
		return h.fail(req, "Sorry, there was an error loading the library.",
			fmt.Errorf("failed to browse library: %w", err))
	}

	pageData := func(p int) (string, bool) { return shared.LibraryCallback(p), true }
	return h.respond(req, shared.FormatLibraryText("📚 *Library*", result), shared.CreateLibraryKeyboard(result, pageData))
}

func (h *BotHandler) showSearch(ctx context.Context, req *request, term string, page int) error {
	result, err := h.libraryUseCase.Browse(ctx, req.user.ID(), question.Filter{Search: term, Page: page})
	if err != nil {
		return h.fail(req, "Sorry, the search failed. Please try again.",
			fmt.Errorf("failed to search library: %w", err))
	}

	heading := fmt.Sprintf("🔎 *Search:* %s", shared.EscapeMarkdown(term))
	pageData := func(p int) (string, bool) { return shared.SearchCallback(p, term) }
	return h.respond(req, shared.FormatLibraryText(heading, result), shared.CreateLibraryKeyboard(result, pageData))
}

// handleStudyLists shows the study lists
func (h *BotHandler) handleStudyLists(ctx context.Context, req *request) error {
	lists, err := h.libraryUseCase.StudyLists(ctx)
	if err != nil {
		return h.fail(req, "Sorry, there was an error loading the study lists.",
			fmt.Errorf("failed to list study lists: %w", err))
	}

	return h.respond(req, shared.FormatStudyListsText(lists), shared.CreateStudyListsKeyboard(lists))
}

// handleTrack handles track_<questionID>
func (h *BotHandler) handleTrack(ctx context.Context, req *request) error {
	questionID, err := shared.ParseTrackCallback(req.data)
	if err != nil {
		return err
	}

	created, err := h.libraryUseCase.TrackQuestion(ctx, req.user.ID(), questionID)
	switch {
	case errors.Is(err, question.ErrNotFound):
		return h.bot.SendMessage(req.chatID, "This problem is no longer in the library.")
	case err != nil:
		return h.fail(req, "Sorry, the problem could not be added. Please try again.",
			fmt.Errorf("failed to track question: %w", err))
	}

	text := "✅ Added to your schedule. It is due right away."
	if !created {
		text = "Already on your board. Progress is unchanged."
	}
	return h.bot.SendMessage(req.chatID, text)
}

// handleTrackList handles tracklist_<listID>
func (h *BotHandler) handleTrackList(ctx context.Context, req *request) error {
	listID, err := shared.ParseTrackListCallback(req.data)
	if err != nil {
		return err
	}

	added, err := h.libraryUseCase.TrackStudyList(ctx, req.user.ID(), listID)
	if err != nil {
		return h.fail(req, "Sorry, the study list could not be added. Please try again.",
			fmt.Errorf("failed to track study list: %w", err))
	}

	text := fmt.Sprintf("✅ Added %d problems to your schedule. Use /review to start.", added)
	if added == 0 {
		text = "You already track every problem of this list."
	}
	return h.bot.SendMessage(req.chatID, text)
}
