package persistence

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// timeLayout is fixed width and always UTC, so text order equals time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewDB opens a SQLite database with the given driver and creates the schema
func NewDB(driver, dbPath string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverCGO
	}
	if driver != DriverCGO && driver != DriverPureGo {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// NewSQLiteDB opens a database with the default cgo driver
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	return NewDB(DriverCGO, dbPath)
}

var schema = []struct {
	name string
	ddl  string
}{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_id INTEGER UNIQUE NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		language_code TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		last_active TEXT NOT NULL
	);`},
	{"user_preferences", `
	CREATE TABLE IF NOT EXISTS user_preferences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		preference_key TEXT NOT NULL,
		preference_value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id),
		UNIQUE(user_id, preference_key)
	);`},
	{"questions", `
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		frontend_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		title_slug TEXT NOT NULL UNIQUE,
		difficulty TEXT NOT NULL CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
		ac_rate REAL
	);`},
	{"topics", `
	CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE
	);`},
	{"question_topics", `
	CREATE TABLE IF NOT EXISTS question_topics (
		question_id TEXT NOT NULL,
		topic_id TEXT NOT NULL,
		PRIMARY KEY (question_id, topic_id),
		FOREIGN KEY (question_id) REFERENCES questions(id),
		FOREIGN KEY (topic_id) REFERENCES topics(id)
	);`},
	{"study_lists", `
	CREATE TABLE IF NOT EXISTS study_lists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE
	);`},
	{"question_study_lists", `
	CREATE TABLE IF NOT EXISTS question_study_lists (
		study_list_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (study_list_id, question_id),
		FOREIGN KEY (study_list_id) REFERENCES study_lists(id),
		FOREIGN KEY (question_id) REFERENCES questions(id)
	);`},
	{"user_schedule", `
	CREATE TABLE IF NOT EXISTS user_schedule (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		question_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new'
			CHECK (status IN ('new', 'learning', 'reviewing', 'mastered')),
		next_review_at TEXT NOT NULL,
		interval_days INTEGER NOT NULL DEFAULT 0 CHECK (interval_days >= 0),
		ease_factor REAL NOT NULL DEFAULT 2.5,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (question_id) REFERENCES questions(id),
		UNIQUE(user_id, question_id)
	);`},
	{"review_history", `
	CREATE TABLE IF NOT EXISTS review_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		question_id TEXT NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 4),
		previous_interval INTEGER NOT NULL,
		new_interval INTEGER NOT NULL,
		reviewed_at TEXT NOT NULL,
		FOREIGN KEY (entry_id) REFERENCES user_schedule(id)
	);`},
	{"idx_user_schedule_due", `
	CREATE INDEX IF NOT EXISTS idx_user_schedule_due
		ON user_schedule (user_id, next_review_at);`},
	{"idx_review_history_user", `
	CREATE INDEX IF NOT EXISTS idx_review_history_user
		ON review_history (user_id, reviewed_at);`},
	{"idx_questions_frontend_id", `
	CREATE INDEX IF NOT EXISTS idx_questions_frontend_id
		ON questions (frontend_id);`},
}

func createTables(db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.Exec(s.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseDateTime reads a stored timestamp. Rows written by older builds may
// use SQLite's CURRENT_TIMESTAMP format.
func parseDateTime(str string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, str); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime: %s", str)
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type scanner interface {
	Scan(dest ...any) error
}
