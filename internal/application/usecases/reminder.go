package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

// Notifier delivers reminder messages to a Telegram chat
type Notifier interface {
	SendMessageWithMarkdown(chatID int64, text string) error
}

// ReminderConfig holds configuration for the reminder system
type ReminderConfig struct {
	// How often to check for reminders
	CheckInterval time.Duration
	// Floor for the per-user reminder interval preference
	MinReminderInterval time.Duration
	// Quiet window in hours of day (24-hour format); it may wrap midnight
	QuietHoursStart int
	QuietHoursEnd   int
	// Maximum reminders per day per user
	MaxRemindersPerDay int
	// Outgoing messages per second across all users
	SendRate  float64
	SendBurst int
}

// DefaultReminderConfig returns the default reminder settings
func DefaultReminderConfig() *ReminderConfig {
	return &ReminderConfig{
		CheckInterval:       30 * time.Minute,
		MinReminderInterval: 15 * time.Minute,
		QuietHoursStart:     22,
		QuietHoursEnd:       8,
		MaxRemindersPerDay:  6,
		SendRate:            20,
		SendBurst:           1,
	}
}

// UserReminderState tracks reminder state for each user
type UserReminderState struct {
	LastReminderSent time.Time
	RemindersToday   int
	LastCheckDate    time.Time
}

// ReminderUseCase periodically reminds users about due problems
type ReminderUseCase struct {
	notifier        Notifier
	userRepo        user.Repository
	scheduleRepo    schedule.Repository
	preferencesRepo user.PreferencesRepository
	config          *ReminderConfig
	clock           schedule.Clock
	limiter         *rate.Limiter
	metrics         *metrics.Metrics

	mu            sync.Mutex
	reminderState map[user.ID]*UserReminderState
}

// NewReminderUseCase creates a new reminder use case
func NewReminderUseCase(
	notifier Notifier,
	userRepo user.Repository,
	scheduleRepo schedule.Repository,
	preferencesRepo user.PreferencesRepository,
	config *ReminderConfig,
	clock schedule.Clock,
	m *metrics.Metrics,
) *ReminderUseCase {
	if config == nil {
		config = DefaultReminderConfig()
	}
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	burst := config.SendBurst
	if burst < 1 {
		burst = 1
	}

	return &ReminderUseCase{
		notifier:        notifier,
		userRepo:        userRepo,
		scheduleRepo:    scheduleRepo,
		preferencesRepo: preferencesRepo,
		config:          config,
		clock:           clock,
		limiter:         rate.NewLimiter(rate.Limit(config.SendRate), burst),
		metrics:         m,
		reminderState:   make(map[user.ID]*UserReminderState),
	}
}

// StartReminderService runs reminder checks until ctx is cancelled
func (uc *ReminderUseCase) StartReminderService(ctx context.Context) error {
	log.Info("starting reminder service", "check_interval", uc.config.CheckInterval)

	ticker := time.NewTicker(uc.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("reminder service stopping")
			return nil
		case <-ticker.C:
			uc.CheckAndSendReminders(ctx)
		}
	}
}

// CheckAndSendReminders sends reminders to every user who should get one
// and returns how many were sent
func (uc *ReminderUseCase) CheckAndSendReminders(ctx context.Context) int {
	now := uc.clock.Now()
	if uc.isQuietTime(now) {
		log.Debug("quiet hours, skipping reminders", "hour", now.Hour())
		return 0
	}

	userIDs, err := uc.scheduleRepo.UsersWithDueItems(ctx, now)
	if err != nil {
		log.Error("failed to get users with due items", "error", err)
		return 0
	}

	sent := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			break
		}

		u, err := uc.userRepo.FindByID(ctx, userID)
		if err != nil {
			log.Error("failed to get user", "user", userID, "error", err)
			continue
		}
		if u == nil {
			continue
		}

		prefs, err := uc.preferencesRepo.FindPreferences(ctx, userID)
		if err != nil {
			log.Error("failed to get preferences", "user", userID, "error", err)
			continue
		}

		if !uc.shouldSendReminder(u, prefs, now) {
			continue
		}
		if uc.sendReminderToUser(ctx, u, now) {
			sent++
		}
	}

	if sent > 0 {
		log.Info("sent reminders", "count", sent)
	}
	return sent
}

// shouldSendReminder applies the per-user limits
func (uc *ReminderUseCase) shouldSendReminder(u *user.User, prefs *user.Preferences, now time.Time) bool {
	if !prefs.SmartRemindersEnabled() {
		return false
	}

	// Don't remind users who were recently active
	if now.Sub(u.LastActive()) < time.Hour {
		return false
	}

	state := uc.state(u.ID(), now)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if state.RemindersToday >= uc.config.MaxRemindersPerDay {
		return false
	}

	interval := prefs.ReminderInterval()
	if interval < uc.config.MinReminderInterval {
		interval = uc.config.MinReminderInterval
	}
	return now.Sub(state.LastReminderSent) >= interval
}

// state returns the user's reminder state, resetting the daily counter on
// a new day
func (uc *ReminderUseCase) state(userID user.ID, now time.Time) *UserReminderState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	state, exists := uc.reminderState[userID]
	if !exists {
		state = &UserReminderState{LastCheckDate: now}
		uc.reminderState[userID] = state
	}

	if !isSameDay(state.LastCheckDate, now) {
		state.RemindersToday = 0
		state.LastCheckDate = now
	}
	return state
}

// sendReminderToUser sends a reminder to a specific user
func (uc *ReminderUseCase) sendReminderToUser(ctx context.Context, u *user.User, now time.Time) bool {
	userID := u.ID()

	stats, err := uc.scheduleRepo.GetUserStats(ctx, userID, now)
	if err != nil {
		log.Error("failed to get stats", "user", userID, "error", err)
		return false
	}
	if stats.Due == 0 {
		return false
	}

	if err := uc.limiter.Wait(ctx); err != nil {
		return false
	}

	if err := uc.notifier.SendMessageWithMarkdown(u.ChatID(), createReminderMessage(u, stats, now)); err != nil {
		uc.metrics.IncReminder("failed")
		log.Error("failed to send reminder", "user", userID, "chat", u.ChatID(), "error", err)
		return false
	}
	uc.metrics.IncReminder("sent")

	uc.mu.Lock()
	state := uc.reminderState[userID]
	state.LastReminderSent = now
	state.RemindersToday++
	uc.mu.Unlock()

	log.Debug("sent reminder", "user", userID, "due", stats.Due)
	return true
}

var reminderMarkdown = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// createReminderMessage creates a personalized reminder message
func createReminderMessage(u *user.User, stats *schedule.UserStats, now time.Time) string {
	name := reminderMarkdown.Replace(u.DisplayName())

	var greeting string
	switch hour := now.Hour(); {
	case hour < 12:
		greeting = "Good morning"
	case hour < 17:
		greeting = "Good afternoon"
	default:
		greeting = "Good evening"
	}

	var message string
	switch {
	case stats.Due == 1:
		message = fmt.Sprintf(
			"⏰ %s, %s!\n\n"+
				"You have *1 problem* ready for review. "+
				"Solving it again now keeps the pattern fresh.\n\n"+
				"Use /review to start, or /menu for options.",
			greeting, name)

	case stats.Due <= 5:
		message = fmt.Sprintf(
			"⏰ %s, %s!\n\n"+
				"You have *%d problems* waiting for review. "+
				"A short session now is enough.\n\n"+
				"Use /review to start, or /board to see them all.",
			greeting, name, stats.Due)

	default:
		message = fmt.Sprintf(
			"⏰ %s, %s!\n\n"+
				"You have *%d problems* due. "+
				"Start with the oldest and go at your own pace.\n\n"+
				"Use /review to begin, or /stats to see your progress.",
			greeting, name, stats.Due)
	}

	if stats.StreakDays > 1 {
		message += fmt.Sprintf("\n\n🔥 Keep your *%d-day* streak going!", stats.StreakDays)
	}

	return message
}

// isQuietTime checks if t is within quiet hours
func (uc *ReminderUseCase) isQuietTime(t time.Time) bool {
	return inQuietHours(t.Hour(), uc.config.QuietHoursStart, uc.config.QuietHoursEnd)
}

// inQuietHours reports whether hour falls in [start, end). A window with
// start > end wraps midnight; start == end means no quiet hours.
func inQuietHours(hour, start, end int) bool {
	if start > end {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}

// isSameDay checks if two times are on the same day
func isSameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
