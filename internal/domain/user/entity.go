package user

import (
	"strings"
	"time"
)

// User represents a Telegram user practicing problems
type User struct {
	id           ID
	telegramID   TelegramID
	username     string
	firstName    string
	lastName     string
	languageCode string
	createdAt    time.Time
	lastActive   time.Time
}

// ID represents the user's unique identifier
type ID int64

// TelegramID represents the user's Telegram ID, which is also their private chat ID
type TelegramID int64

// Profile is the Telegram account data copied onto a user
type Profile struct {
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}

// NewUser creates a new user first seen at now
func NewUser(telegramID TelegramID, profile Profile, now time.Time) *User {
	u := &User{
		telegramID: telegramID,
		createdAt:  now,
		lastActive: now,
	}
	u.UpdateProfile(profile)
	return u
}

// Restore rebuilds a user from stored values (used by repository)
func Restore(id ID, telegramID TelegramID, profile Profile, createdAt, lastActive time.Time) *User {
	u := &User{
		id:         id,
		telegramID: telegramID,
		createdAt:  createdAt,
		lastActive: lastActive,
	}
	u.UpdateProfile(profile)
	return u
}

// Getters
func (u *User) ID() ID                 { return u.id }
func (u *User) TelegramID() TelegramID { return u.telegramID }
func (u *User) Username() string       { return u.username }
func (u *User) FirstName() string      { return u.firstName }
func (u *User) LastName() string       { return u.lastName }
func (u *User) LanguageCode() string   { return u.languageCode }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) LastActive() time.Time  { return u.lastActive }

// ChatID returns the private chat used to message the user
func (u *User) ChatID() int64 {
	return int64(u.telegramID)
}

// DisplayName returns the first name, falling back to the username
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.firstName); name != "" {
		return name
	}
	if u.username != "" {
		return "@" + u.username
	}
	return "there"
}

// SetID sets the user ID (used by repository)
func (u *User) SetID(id ID) {
	u.id = id
}

// Touch records activity at now
func (u *User) Touch(now time.Time) {
	u.lastActive = now
}

// UpdateProfile updates user profile information
func (u *User) UpdateProfile(p Profile) {
	u.username = p.Username
	u.firstName = p.FirstName
	u.lastName = p.LastName
	u.languageCode = p.LanguageCode
}
