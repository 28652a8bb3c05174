package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leetcode-srs-bot/internal/domain/user"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &userRepository{db: db}
}

const userColumns = `id, telegram_id, username, first_name, last_name, language_code, created_at, last_active`

// Save persists a user to storage
func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, language_code, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		int64(u.TelegramID()), u.Username(), u.FirstName(), u.LastName(),
		u.LanguageCode(), formatTime(u.CreatedAt()), formatTime(u.LastActive()))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}

	u.SetID(user.ID(id))
	return nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, int64(id))

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// FindByTelegramID retrieves a user by their Telegram ID
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID user.TelegramID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, int64(telegramID))

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by Telegram ID: %w", err)
	}
	return u, nil
}

// Update updates an existing user
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET username = ?, first_name = ?, last_name = ?, language_code = ?, last_active = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		u.Username(), u.FirstName(), u.LastName(), u.LanguageCode(),
		formatTime(u.LastActive()), int64(u.ID()))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// scanUser returns nil, nil when the row does not exist
func scanUser(row scanner) (*user.User, error) {
	var id, telegramID int64
	var profile user.Profile
	var createdAtStr, lastActiveStr string

	err := row.Scan(&id, &telegramID, &profile.Username, &profile.FirstName, &profile.LastName,
		&profile.LanguageCode, &createdAtStr, &lastActiveStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	createdAt, err := parseDateTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	lastActive, err := parseDateTime(lastActiveStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_active: %w", err)
	}

	return user.Restore(user.ID(id), user.TelegramID(telegramID), profile, createdAt, lastActive), nil
}
