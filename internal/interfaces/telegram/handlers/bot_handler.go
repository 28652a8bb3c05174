package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/interfaces/telegram"
	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

// Messenger is the part of the Telegram bot the handlers talk to
type Messenger interface {
	GetUpdatesChan() tgbotapi.UpdatesChannel
	SendMessage(chatID int64, text string) error
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	AnswerCallbackQuery(callbackID string, text string) error
}

// request is an update resolved to a user and a chat
type request struct {
	user       *user.User
	chatID     int64
	messageID  int
	isCallback bool
	data       string
	args       string
}

const updateTimeout = 20 * time.Second

type requestFunc func(ctx context.Context, req *request) error

// BotHandler handles Telegram bot interactions
type BotHandler struct {
	bot            Messenger
	dispatcher     telegram.Dispatcher
	userUseCase    *usecases.UserUseCase
	libraryUseCase *usecases.LibraryUseCase
	reviewUseCase  *usecases.ReviewUseCase
	clock          schedule.Clock
	clicks         *clickTracker
	metrics        *metrics.Metrics
	wg             sync.WaitGroup
}

// NewBotHandler creates a new bot handler and registers its routes
func NewBotHandler(
	bot Messenger,
	userUseCase *usecases.UserUseCase,
	libraryUseCase *usecases.LibraryUseCase,
	reviewUseCase *usecases.ReviewUseCase,
	clock schedule.Clock,
	m *metrics.Metrics,
) *BotHandler {
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	h := &BotHandler{
		bot:            bot,
		dispatcher:     telegram.NewDispatcher(),
		userUseCase:    userUseCase,
		libraryUseCase: libraryUseCase,
		reviewUseCase:  reviewUseCase,
		clock:          clock,
		clicks:         newClickTracker(clock.Now),
		metrics:        m,
	}
	h.registerRoutes()
	return h
}

func (h *BotHandler) registerRoutes() {
	d := h.dispatcher

	d.RegisterHandler("start", h.command(h.handleStart))
	d.RegisterHandler("menu", h.command(h.handleMenu))
	d.RegisterHandler("review", h.command(h.handleReviewFlow))
	d.RegisterHandler("board", h.command(h.handleBoard))
	d.RegisterHandler("library", h.command(h.handleLibrary))
	d.RegisterHandler("search", h.command(h.handleSearch))
	d.RegisterHandler("lists", h.command(h.handleStudyLists))
	d.RegisterHandler("stats", h.command(h.handleStatsFlow))
	d.RegisterHandler("settings", h.command(h.handleSettings))
	d.RegisterHandler("help", h.command(h.handleHelpFlow))
	d.SetFallback(h.command(h.handleText))

	d.RegisterCallback("noop", func(ctx context.Context, update tgbotapi.Update) error {
		return h.bot.AnswerCallbackQuery(update.CallbackQuery.ID, "")
	})
	d.RegisterCallback("menu", h.callback(h.handleMenuSelection))
	d.RegisterCallback("back", h.callback(h.handleBackToMenu))
	d.RegisterCallback("review", h.callback(h.handleReviewFlow))
	d.RegisterCallback("rating", h.callback(h.handleRating))
	d.RegisterCallback("board", h.callback(h.handleBoardPage))
	d.RegisterCallback("lib", h.callback(h.handleLibraryPage))
	d.RegisterCallback("search", h.callback(h.handleSearchPage))
	d.RegisterCallback("track", h.callback(h.handleTrack))
	d.RegisterCallback("tracklist", h.callback(h.handleTrackList))
	d.RegisterCallback("toggle", h.callback(h.handleToggleSmartReminders))
	d.RegisterCallback("set", h.callback(h.handleAdjustInterval))
}

// Start starts the bot and handles updates until ctx is cancelled
func (h *BotHandler) Start(ctx context.Context) error {
	updates := h.bot.GetUpdatesChan()

	log.Info("bot started, waiting for updates")
	defer h.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			log.Info("bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				// In-flight updates finish after shutdown starts
				uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), updateTimeout)
				defer cancel()
				h.handleUpdate(uctx, update)
			}()
		}
	}
}

// handleUpdate processes incoming updates
func (h *BotHandler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		h.metrics.IncUpdate("message")
	case update.CallbackQuery != nil:
		h.metrics.IncUpdate("callback")
	default:
		h.metrics.IncUpdate("other")
	}
	log.Trace("update received", "id", update.UpdateID)

	err := h.dispatcher.Dispatch(ctx, update)
	switch {
	case errors.Is(err, telegram.ErrNoHandler):
		if update.CallbackQuery != nil {
			log.Debug("unknown callback", "data", update.CallbackQuery.Data)
			_ = h.bot.AnswerCallbackQuery(update.CallbackQuery.ID, "")
		}
	case err != nil:
		log.Error("failed to handle update", "id", update.UpdateID, "error", err)
	}
}

// command wraps a handler for messages
func (h *BotHandler) command(fn requestFunc) telegram.HandlerFunc {
	return func(ctx context.Context, update tgbotapi.Update) error {
		message := update.Message
		if message.From == nil {
			return nil
		}
		u, err := h.getOrCreateUser(ctx, message.From)
		if err != nil {
			return fmt.Errorf("failed to get/create user: %w", err)
		}

		return fn(ctx, &request{
			user:      u,
			chatID:    message.Chat.ID,
			messageID: message.MessageID,
			args:      message.CommandArguments(),
			data:      message.Text,
		})
	}
}

// callback wraps a handler for inline keyboard callbacks
func (h *BotHandler) callback(fn requestFunc) telegram.HandlerFunc {
	return func(ctx context.Context, update tgbotapi.Update) error {
		cb := update.CallbackQuery

		// Answer the callback to remove loading state
		if err := h.bot.AnswerCallbackQuery(cb.ID, ""); err != nil {
			log.Debug("failed to answer callback query", "error", err)
		}

		if cb.Message == nil || cb.From == nil {
			return nil
		}
		if h.clicks.seen(cb.From.ID, cb.Data) {
			log.Debug("ignoring duplicate click", "telegram_id", cb.From.ID, "data", cb.Data)
			return nil
		}

		u, err := h.getOrCreateUser(ctx, cb.From)
		if err != nil {
			return fmt.Errorf("failed to get/create user: %w", err)
		}

		log.Debug("processing callback", "data", cb.Data, "message_id", cb.Message.MessageID)
		return fn(ctx, &request{
			user:       u,
			chatID:     cb.Message.Chat.ID,
			messageID:  cb.Message.MessageID,
			isCallback: true,
			data:       cb.Data,
		})
	}
}

// getOrCreateUser gets or creates a user from Telegram user info
func (h *BotHandler) getOrCreateUser(ctx context.Context, from *tgbotapi.User) (*user.User, error) {
	return h.userUseCase.GetOrCreateUser(ctx, user.TelegramID(from.ID), user.Profile{
		Username:     from.UserName,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		LanguageCode: from.LanguageCode,
	})
}

// respond edits the message behind a callback, or sends a new message
func (h *BotHandler) respond(req *request, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	if req.isCallback {
		return h.bot.EditMessageWithKeyboard(req.chatID, req.messageID, text, keyboard)
	}
	return h.bot.SendMessageWithKeyboard(req.chatID, text, keyboard)
}

// fail tells the user something went wrong and returns err for logging
func (h *BotHandler) fail(req *request, text string, err error) error {
	var sendErr error
	if req.isCallback {
		sendErr = h.bot.EditMessageWithKeyboard(req.chatID, req.messageID, text, shared.CreateBackKeyboard())
	} else {
		sendErr = h.bot.SendMessage(req.chatID, text)
	}
	if sendErr != nil {
		log.Debug("failed to send error message", "error", sendErr)
	}
	return err
}
