package user

import (
	"strconv"
	"time"
)

// Preference keys
const (
	PrefSmartRemindersEnabled   = "smart_reminders_enabled"
	PrefReminderIntervalMinutes = "reminder_interval_minutes"
)

// Reminder interval bounds, in minutes
const (
	DefaultReminderInterval = 240
	MinReminderInterval     = 15
	MaxReminderInterval     = 24 * 60
	ReminderIntervalStep    = 15
)

// Preferences holds a user's settings as string key/value pairs
type Preferences struct {
	userID ID
	values map[string]string
}

// NewPreferences creates preferences with default values
func NewPreferences(userID ID) *Preferences {
	return &Preferences{
		userID: userID,
		values: map[string]string{
			PrefSmartRemindersEnabled:   "true",
			PrefReminderIntervalMinutes: strconv.Itoa(DefaultReminderInterval),
		},
	}
}

func (p *Preferences) UserID() ID { return p.userID }

// Values returns the raw key/value pairs
func (p *Preferences) Values() map[string]string {
	return p.values
}

// Merge overlays stored values on top of the defaults
func (p *Preferences) Merge(values map[string]string) {
	for k, v := range values {
		p.values[k] = v
	}
}

func (p *Preferences) boolValue(key string, fallback bool) bool {
	b, err := strconv.ParseBool(p.values[key])
	if err != nil {
		return fallback
	}
	return b
}

func (p *Preferences) intValue(key string, fallback int) int {
	n, err := strconv.Atoi(p.values[key])
	if err != nil {
		return fallback
	}
	return n
}

// SmartRemindersEnabled reports whether due-item reminders are sent
func (p *Preferences) SmartRemindersEnabled() bool {
	return p.boolValue(PrefSmartRemindersEnabled, true)
}

func (p *Preferences) SetSmartRemindersEnabled(enabled bool) {
	p.values[PrefSmartRemindersEnabled] = strconv.FormatBool(enabled)
}

// ToggleSmartReminders flips the reminder setting and returns the new value
func (p *Preferences) ToggleSmartReminders() bool {
	enabled := !p.SmartRemindersEnabled()
	p.SetSmartRemindersEnabled(enabled)
	return enabled
}

// ReminderIntervalMinutes is the minimum gap between two reminders
func (p *Preferences) ReminderIntervalMinutes() int {
	return clampInterval(p.intValue(PrefReminderIntervalMinutes, DefaultReminderInterval))
}

// ReminderInterval returns ReminderIntervalMinutes as a duration
func (p *Preferences) ReminderInterval() time.Duration {
	return time.Duration(p.ReminderIntervalMinutes()) * time.Minute
}

// SetReminderIntervalMinutes stores minutes clamped to the allowed range
func (p *Preferences) SetReminderIntervalMinutes(minutes int) {
	p.values[PrefReminderIntervalMinutes] = strconv.Itoa(clampInterval(minutes))
}

// AdjustReminderInterval moves the interval by steps of ReminderIntervalStep
func (p *Preferences) AdjustReminderInterval(steps int) int {
	p.SetReminderIntervalMinutes(p.ReminderIntervalMinutes() + steps*ReminderIntervalStep)
	return p.ReminderIntervalMinutes()
}

func clampInterval(minutes int) int {
	if minutes < MinReminderInterval {
		return MinReminderInterval
	}
	if minutes > MaxReminderInterval {
		return MaxReminderInterval
	}
	return minutes
}
