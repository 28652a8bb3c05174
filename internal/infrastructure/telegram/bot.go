package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leetcode-srs-bot/internal/log"
)

// Bot wraps the Telegram bot API
type Bot struct {
	api *tgbotapi.BotAPI
}

// NewBot creates a new Telegram bot
func NewBot(token string, debug bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = debug
	log.Info("authorized on telegram", "account", api.Self.UserName)

	return &Bot{api: api}, nil
}

// GetUpdatesChan returns a channel for receiving updates
func (b *Bot) GetUpdatesChan() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	return b.api.GetUpdatesChan(u)
}

// StopReceivingUpdates stops the long polling loop and closes the updates channel
func (b *Bot) StopReceivingUpdates() {
	b.api.StopReceivingUpdates()
}

// SendMessage sends a text message
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithMarkdown sends a message with markdown formatting
func (b *Bot) SendMessageWithMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithKeyboard sends a message with inline keyboard
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// EditMessageWithKeyboard edits an existing message and adds a keyboard
func (b *Bot) EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.DisableWebPagePreview = true
	edit.ReplyMarkup = &keyboard
	_, err := b.api.Send(edit)
	return err
}

// AnswerCallbackQuery answers a callback query. Telegram answers with a
// boolean, so Request is used instead of Send.
func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.api.Request(callback)
	return err
}

// Commands lists the commands shown in the Telegram menu
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "🏠 Welcome message and main menu"},
	{Command: "menu", Description: "📋 Show main menu with all options"},
	{Command: "review", Description: "🧠 Review the next due problem"},
	{Command: "board", Description: "🗂 Your tracked problems"},
	{Command: "library", Description: "📚 Browse the problem library"},
	{Command: "search", Description: "🔎 Search problems by title or number"},
	{Command: "lists", Description: "📝 Track a whole study list"},
	{Command: "stats", Description: "📊 View your progress"},
	{Command: "settings", Description: "⚙️ Reminder settings"},
	{Command: "help", Description: "❓ Get help and instructions"},
}

// SetupCommands configures the bot commands with BotFather
func (b *Bot) SetupCommands() error {
	setCommands := tgbotapi.NewSetMyCommands(Commands...)
	_, err := b.api.Request(setCommands)
	if err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	log.Debug("bot commands configured", "count", len(Commands))
	return nil
}
