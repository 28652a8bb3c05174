package user

import "context"

// Repository defines the contract for user persistence
type Repository interface {
	// Save persists a new user and assigns its ID
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by their ID, or nil if unknown
	FindByID(ctx context.Context, id ID) (*User, error)

	// FindByTelegramID retrieves a user by their Telegram ID, or nil if unknown
	FindByTelegramID(ctx context.Context, telegramID TelegramID) (*User, error)

	// Update updates an existing user's profile and activity time
	Update(ctx context.Context, user *User) error
}

// PreferencesRepository handles user preferences persistence
type PreferencesRepository interface {
	// FindPreferences retrieves all preferences for a user, defaults included
	FindPreferences(ctx context.Context, userID ID) (*Preferences, error)

	// SavePreferences saves every preference of a user
	SavePreferences(ctx context.Context, preferences *Preferences) error
}
