package usecases

import (
	"context"
	"errors"
	"fmt"

	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/log"
)

// ErrUserNotFound is returned when a user ID does not exist
var ErrUserNotFound = errors.New("user not found")

// UserUseCase handles user-related business operations
type UserUseCase struct {
	userRepo        user.Repository
	preferencesRepo user.PreferencesRepository
	clock           schedule.Clock
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo user.Repository, preferencesRepo user.PreferencesRepository, clock schedule.Clock) *UserUseCase {
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &UserUseCase{
		userRepo:        userRepo,
		preferencesRepo: preferencesRepo,
		clock:           clock,
	}
}

// GetOrCreateUser gets an existing user or creates a new one, recording
// activity and refreshing the profile either way
func (uc *UserUseCase) GetOrCreateUser(ctx context.Context, telegramID user.TelegramID, profile user.Profile) (*user.User, error) {
	now := uc.clock.Now()

	existingUser, err := uc.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if existingUser != nil {
		existingUser.Touch(now)
		existingUser.UpdateProfile(profile)

		if err := uc.userRepo.Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return existingUser, nil
	}

	newUser := user.NewUser(telegramID, profile, now)
	if err := uc.userRepo.Save(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to save new user: %w", err)
	}

	// Defaults also apply when nothing is stored, so this is not fatal
	if err := uc.preferencesRepo.SavePreferences(ctx, user.NewPreferences(newUser.ID())); err != nil {
		log.Warn("failed to initialize preferences", "user", newUser.ID(), "error", err)
	}

	log.Info("new user", "user", newUser.ID(), "telegram_id", telegramID)
	return newUser, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, userID user.ID) (*user.User, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if u == nil {
		return nil, ErrUserNotFound
	}

	return u, nil
}

// GetUserPreferences retrieves user preferences
func (uc *UserUseCase) GetUserPreferences(ctx context.Context, userID user.ID) (*user.Preferences, error) {
	preferences, err := uc.preferencesRepo.FindPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user preferences: %w", err)
	}

	return preferences, nil
}

// UpdateUserPreferences updates user preferences
func (uc *UserUseCase) UpdateUserPreferences(ctx context.Context, preferences *user.Preferences) error {
	if err := uc.preferencesRepo.SavePreferences(ctx, preferences); err != nil {
		return fmt.Errorf("failed to update user preferences: %w", err)
	}

	return nil
}

// ToggleSmartReminders toggles smart reminders preference for a user
func (uc *UserUseCase) ToggleSmartReminders(ctx context.Context, userID user.ID) (bool, error) {
	preferences, err := uc.GetUserPreferences(ctx, userID)
	if err != nil {
		return false, err
	}

	newState := preferences.ToggleSmartReminders()

	if err := uc.UpdateUserPreferences(ctx, preferences); err != nil {
		return false, err
	}

	return newState, nil
}

// GetReminderInterval returns the user's minimum gap between reminders, in minutes
func (uc *UserUseCase) GetReminderInterval(ctx context.Context, userID user.ID) (int, error) {
	preferences, err := uc.GetUserPreferences(ctx, userID)
	if err != nil {
		return 0, err
	}
	return preferences.ReminderIntervalMinutes(), nil
}

// AdjustReminderInterval moves the reminder interval by steps of
// user.ReminderIntervalStep minutes and returns the new value
func (uc *UserUseCase) AdjustReminderInterval(ctx context.Context, userID user.ID, steps int) (int, error) {
	preferences, err := uc.GetUserPreferences(ctx, userID)
	if err != nil {
		return 0, err
	}

	minutes := preferences.AdjustReminderInterval(steps)

	if err := uc.UpdateUserPreferences(ctx, preferences); err != nil {
		return 0, err
	}

	return minutes, nil
}
