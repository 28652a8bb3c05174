package handlers

import (
	"context"
	"fmt"
	"strings"

	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
)

const menuText = "🧠 *LeetCode Review Bot - Main Menu*\n\nChoose an option:"

// handleStart processes the /start command
func (h *BotHandler) handleStart(ctx context.Context, req *request) error {
	welcomeText := fmt.Sprintf(
		"👋 Welcome, %s!\n\n"+
			"I'll help you keep interview problems fresh with spaced repetition. "+
			"Track problems from the library, solve them when they are due and rate how it went.\n\n"+
			"Choose an option below to get started:",
		shared.EscapeMarkdown(req.user.DisplayName()))

	return h.bot.SendMessageWithKeyboard(req.chatID, welcomeText, shared.CreateMainMenuKeyboard())
}

// handleMenu processes the /menu command
func (h *BotHandler) handleMenu(ctx context.Context, req *request) error {
	return h.bot.SendMessageWithKeyboard(req.chatID, menuText, shared.CreateMainMenuKeyboard())
}

// handleSearch processes /search <term>
func (h *BotHandler) handleSearch(ctx context.Context, req *request) error {
	term := strings.TrimSpace(req.args)
	if term == "" {
		return h.bot.SendMessage(req.chatID, "Usage: /search <title or problem number>, e.g. /search two sum")
	}
	return h.showSearch(ctx, req, term, 0)
}

// handleText treats plain text as a search and unknown commands as a
// request for help
func (h *BotHandler) handleText(ctx context.Context, req *request) error {
	text := strings.TrimSpace(req.data)
	if text == "" || strings.HasPrefix(text, "/") {
		return h.bot.SendMessage(req.chatID, "Use /menu to see available options, or /help for detailed help.")
	}
	return h.showSearch(ctx, req, text, 0)
}
