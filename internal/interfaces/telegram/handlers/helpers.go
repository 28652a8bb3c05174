package handlers

import (
	"context"
	"fmt"

	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
)

// handleStatsFlow handles showing stats for both commands and callbacks
func (h *BotHandler) handleStatsFlow(ctx context.Context, req *request) error {
	stats, err := h.reviewUseCase.Stats(ctx, req.user.ID())
	if err != nil {
		return h.fail(req, "Sorry, there was an error getting your statistics.",
			fmt.Errorf("failed to get user stats: %w", err))
	}

	return h.respond(req, shared.FormatStatsText(stats), shared.CreateStatsKeyboard())
}

// handleHelpFlow handles showing help for both commands and callbacks
func (h *BotHandler) handleHelpFlow(ctx context.Context, req *request) error {
	return h.respond(req, shared.GetHelpText(), shared.CreateBackKeyboard())
}
