package handlers

import (
	"context"
	"fmt"

	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
)

// handleSettings shows reminder settings
func (h *BotHandler) handleSettings(ctx context.Context, req *request) error {
	prefs, err := h.userUseCase.GetUserPreferences(ctx, req.user.ID())
	if err != nil {
		return h.fail(req, "Sorry, there was an error loading your settings. Please try again.",
			fmt.Errorf("failed to get user preferences: %w", err))
	}

	return h.respond(req, shared.FormatSettingsText(prefs), shared.CreateSettingsKeyboard(prefs))
}

// handleToggleSmartReminders handles toggling smart reminders
func (h *BotHandler) handleToggleSmartReminders(ctx context.Context, req *request) error {
	if req.data != shared.CallbackToggleReminders {
		return nil
	}

	if _, err := h.userUseCase.ToggleSmartReminders(ctx, req.user.ID()); err != nil {
		return h.fail(req, "Sorry, there was an error updating your settings. Please try again.",
			fmt.Errorf("failed to toggle smart reminders: %w", err))
	}

	return h.handleSettings(ctx, req)
}

// handleAdjustInterval moves the reminder interval one step up or down
func (h *BotHandler) handleAdjustInterval(ctx context.Context, req *request) error {
	var steps int
	switch req.data {
	case shared.CallbackIntervalMinus:
		steps = -1
	case shared.CallbackIntervalPlus:
		steps = 1
	default:
		return nil
	}

	if _, err := h.userUseCase.AdjustReminderInterval(ctx, req.user.ID(), steps); err != nil {
		return h.fail(req, "Sorry, there was an error updating your settings. Please try again.",
			fmt.Errorf("failed to update reminder interval: %w", err))
	}

	return h.handleSettings(ctx, req)
}
