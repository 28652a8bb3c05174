package handlers

import (
	"context"

	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
	"leetcode-srs-bot/internal/log"
)

// handleMenuSelection processes menu button selections
func (h *BotHandler) handleMenuSelection(ctx context.Context, req *request) error {
	switch req.data {
	case shared.MenuReview:
		return h.handleReviewFlow(ctx, req)
	case shared.MenuBoard:
		return h.handleBoard(ctx, req)
	case shared.MenuLibrary:
		return h.handleLibrary(ctx, req)
	case shared.MenuLists:
		return h.handleStudyLists(ctx, req)
	case shared.MenuStats:
		return h.handleStatsFlow(ctx, req)
	case shared.MenuSettings:
		return h.handleSettings(ctx, req)
	case shared.MenuHelp:
		return h.handleHelpFlow(ctx, req)
	default:
		log.Debug("unknown menu selection", "data", req.data)
		return nil
	}
}

// handleBackToMenu returns to the main menu
func (h *BotHandler) handleBackToMenu(ctx context.Context, req *request) error {
	if req.data != shared.CallbackBackMenu {
		return nil
	}
	return h.respond(req, menuText, shared.CreateMainMenuKeyboard())
}
