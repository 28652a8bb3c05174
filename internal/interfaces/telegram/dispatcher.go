package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrNoHandler is returned by Dispatch when nothing is registered for an update
var ErrNoHandler = errors.New("no handler registered")

// HandlerFunc is a function that handles a Telegram update
type HandlerFunc func(ctx context.Context, update tgbotapi.Update) error

// Dispatcher handles routing of Telegram updates to appropriate handlers
type Dispatcher interface {
	// RegisterHandler registers a handler for a specific command
	RegisterHandler(command string, handler HandlerFunc)
	// RegisterCallback registers a handler for callback data whose action
	// (the text before the first underscore) equals action
	RegisterCallback(action string, handler HandlerFunc)
	// SetFallback registers the handler for plain messages and unknown commands
	SetFallback(handler HandlerFunc)
	// Dispatch dispatches an update to the appropriate handler
	Dispatch(ctx context.Context, update tgbotapi.Update) error
}

// NewDispatcher creates a new dispatcher instance
func NewDispatcher() Dispatcher {
	return &defaultDispatcher{
		handlers:  make(map[string]HandlerFunc),
		callbacks: make(map[string]HandlerFunc),
	}
}

type defaultDispatcher struct {
	mu        sync.RWMutex
	handlers  map[string]HandlerFunc
	callbacks map[string]HandlerFunc
	fallback  HandlerFunc
}

func (d *defaultDispatcher) RegisterHandler(command string, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[command] = handler
}

func (d *defaultDispatcher) RegisterCallback(action string, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks[action] = handler
}

func (d *defaultDispatcher) SetFallback(handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback = handler
}

func (d *defaultDispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) error {
	d.mu.RLock()
	handler := d.route(update)
	d.mu.RUnlock()

	if handler == nil {
		return ErrNoHandler
	}
	return handler(ctx, update)
}

func (d *defaultDispatcher) route(update tgbotapi.Update) HandlerFunc {
	switch {
	case update.CallbackQuery != nil:
		return d.callbacks[CallbackAction(update.CallbackQuery.Data)]
	case update.Message != nil:
		if command := update.Message.Command(); command != "" {
			if handler, ok := d.handlers[command]; ok {
				return handler
			}
		}
		return d.fallback
	}
	return nil
}

// CallbackAction returns the routing key of callback data: "rating" for
// "rating_<entry>_<n>", "noop" for "noop"
func CallbackAction(data string) string {
	action, _, _ := strings.Cut(data, "_")
	return action
}
