package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leetcode-srs-bot/internal/domain/user"
)

type userPreferencesRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserPreferencesRepository creates a new user preferences repository
func NewUserPreferencesRepository(db *sql.DB) user.PreferencesRepository {
	return &userPreferencesRepository{db: db, now: time.Now}
}

// FindPreferences retrieves all preferences for a user on top of the defaults
func (r *userPreferencesRepository) FindPreferences(ctx context.Context, userID user.ID) (*user.Preferences, error) {
	query := `
		SELECT preference_key, preference_value
		FROM user_preferences
		WHERE user_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		stored[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	prefs := user.NewPreferences(userID)
	prefs.Merge(stored)
	return prefs, nil
}

// SavePreferences saves user preferences
func (r *userPreferencesRepository) SavePreferences(ctx context.Context, prefs *user.Preferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO user_preferences (user_id, preference_key, preference_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, preference_key)
		DO UPDATE SET preference_value = excluded.preference_value, updated_at = excluded.updated_at
	`

	updatedAt := formatTime(r.now())
	for key, value := range prefs.Values() {
		_, err = tx.ExecContext(ctx, query, int64(prefs.UserID()), key, value, updatedAt)
		if err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
