package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *sql.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

const entryColumns = `
	s.id, s.user_id, s.question_id, s.status, s.next_review_at, s.interval_days,
	s.ease_factor, s.created_at, s.updated_at,
	q.id, q.frontend_id, q.title, q.title_slug, q.difficulty, q.ac_rate`

// boardOrder puts reviewed entries before new ones, soonest first
const boardOrder = `
	ORDER BY CASE WHEN s.status = 'new' THEN 1 ELSE 0 END, s.next_review_at, q.frontend_id`

const trackQuery = `
	INSERT INTO user_schedule
	(id, user_id, question_id, status, next_review_at, interval_days, ease_factor, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, question_id) DO NOTHING
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Track inserts the entry unless the user already tracks the question
func (r *scheduleRepository) Track(ctx context.Context, entry *schedule.Entry) (bool, error) {
	created, err := trackEntry(ctx, r.db, entry)
	if err != nil {
		return false, fmt.Errorf("failed to track question: %w", err)
	}
	return created, nil
}

// TrackBatch tracks entries in one transaction
func (r *scheduleRepository) TrackBatch(ctx context.Context, entries []*schedule.Entry) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, e := range entries {
		created, err := trackEntry(ctx, tx, e)
		if err != nil {
			return 0, fmt.Errorf("failed to track question %s: %w", e.QuestionID(), err)
		}
		if created {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return added, nil
}

func trackEntry(ctx context.Context, db execer, e *schedule.Entry) (bool, error) {
	result, err := db.ExecContext(ctx, trackQuery,
		string(e.ID()), int64(e.UserID()), string(e.QuestionID()), string(e.Status()),
		formatTime(e.NextReviewAt()), e.IntervalDays(), e.EaseFactor(),
		formatTime(e.CreatedAt()), formatTime(e.UpdatedAt()))
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByID retrieves an entry with its question
func (r *scheduleRepository) FindByID(ctx context.Context, id schedule.ID) (*schedule.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM user_schedule s
		JOIN questions q ON q.id = s.question_id
		WHERE s.id = ?`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule entry: %w", err)
	}

	if err := loadTopics(ctx, r.db, []*question.Question{e.Question()}); err != nil {
		return nil, err
	}
	return e, nil
}

// Update persists the schedule fields of an entry
func (r *scheduleRepository) Update(ctx context.Context, entry *schedule.Entry) error {
	if err := updateEntry(ctx, r.db, entry); err != nil {
		return fmt.Errorf("failed to update schedule entry: %w", err)
	}
	return nil
}

func updateEntry(ctx context.Context, db execer, e *schedule.Entry) error {
	query := `
		UPDATE user_schedule
		SET status = ?, next_review_at = ?, interval_days = ?, ease_factor = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		string(e.Status()), formatTime(e.NextReviewAt()), e.IntervalDays(), e.EaseFactor(),
		formatTime(e.UpdatedAt()), string(e.ID()))
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return schedule.ErrEntryNotFound
	}
	return nil
}

// List returns a page of the user's entries in board order
func (r *scheduleRepository) List(ctx context.Context, userID user.ID, filter schedule.ListFilter) (*schedule.EntryPage, error) {
	page, pageSize := question.Normalize(filter.Page, filter.PageSize, schedule.DefaultPageSize)

	where := []string{"s.user_id = ?"}
	args := []any{int64(userID)}

	if clause, clauseArgs := searchClause(question.ParseSearch(filter.Search)); clause != "" {
		where = append(where, clause)
		args = append(args, clauseArgs...)
	}
	if filter.TopicID != "" {
		where = append(where, `EXISTS (SELECT 1 FROM question_topics qt WHERE qt.question_id = s.question_id AND qt.topic_id = ?)`)
		args = append(args, string(filter.TopicID))
	}

	from := `
		FROM user_schedule s
		JOIN questions q ON q.id = s.question_id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count schedule entries: %w", err)
	}

	query := `SELECT ` + entryColumns + from + boardOrder + ` LIMIT ? OFFSET ?`
	entries, err := r.queryEntries(ctx, query, append(args, pageSize, page*pageSize)...)
	if err != nil {
		return nil, err
	}

	return &schedule.EntryPage{
		Entries:  entries,
		Total:    total,
		NextPage: question.NextPage(page, pageSize, len(entries)),
	}, nil
}

// FindDue returns entries whose review time has passed, in board order
func (r *scheduleRepository) FindDue(ctx context.Context, userID user.ID, now time.Time, limit int) ([]*schedule.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM user_schedule s
		JOIN questions q ON q.id = s.question_id
		WHERE s.user_id = ? AND s.next_review_at <= ?` + boardOrder + `
		LIMIT ?`

	return r.queryEntries(ctx, query, int64(userID), formatTime(now), limit)
}

func (r *scheduleRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*schedule.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*schedule.Entry
	var questions []*question.Question
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
		questions = append(questions, e.Question())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}
	rows.Close()

	if err := loadTopics(ctx, r.db, questions); err != nil {
		return nil, err
	}
	return entries, nil
}

// TrackedQuestionIDs returns the set of questions the user tracks
func (r *scheduleRepository) TrackedQuestionIDs(ctx context.Context, userID user.ID) (map[question.ID]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT question_id FROM user_schedule WHERE user_id = ?`, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked questions: %w", err)
	}
	defer rows.Close()

	tracked := make(map[question.ID]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tracked question: %w", err)
		}
		tracked[question.ID(id)] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked questions: %w", err)
	}
	return tracked, nil
}

// SaveReview updates the entry and appends the review log atomically
func (r *scheduleRepository) SaveReview(ctx context.Context, entry *schedule.Entry, log *schedule.ReviewLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateEntry(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to update schedule entry: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO review_history
		(entry_id, user_id, question_id, rating, previous_interval, new_interval, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(log.EntryID()), int64(log.UserID()), string(log.QuestionID()), int(log.Rating()),
		log.PreviousInterval(), log.NewInterval(), formatTime(log.ReviewedAt()))
	if err != nil {
		return fmt.Errorf("failed to save review history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get review history ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.SetID(id)
	return nil
}

// FindReviewLogs returns the history of an entry, newest first
func (r *scheduleRepository) FindReviewLogs(ctx context.Context, entryID schedule.ID) ([]*schedule.ReviewLog, error) {
	query := `
		SELECT id, entry_id, user_id, question_id, rating, previous_interval, new_interval, reviewed_at
		FROM review_history
		WHERE entry_id = ?
		ORDER BY reviewed_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, string(entryID))
	if err != nil {
		return nil, fmt.Errorf("failed to query review history: %w", err)
	}
	defer rows.Close()

	var logs []*schedule.ReviewLog
	for rows.Next() {
		var id, userID int64
		var eid, qid, reviewedAtStr string
		var rating, prev, next int

		if err := rows.Scan(&id, &eid, &userID, &qid, &rating, &prev, &next, &reviewedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan review history: %w", err)
		}

		reviewedAt, err := parseDateTime(reviewedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reviewed_at: %w", err)
		}

		logs = append(logs, schedule.RestoreReviewLog(id, schedule.ID(eid), user.ID(userID),
			question.ID(qid), schedule.Rating(rating), prev, next, reviewedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review history: %w", err)
	}
	return logs, nil
}

// GetUserStats computes status totals, due count, accuracy and streak
func (r *scheduleRepository) GetUserStats(ctx context.Context, userID user.ID, now time.Time) (*schedule.UserStats, error) {
	stats := &schedule.UserStats{}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM user_schedule WHERE user_id = ? GROUP BY status`, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to count entries by status: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}

		stats.Total += count
		switch schedule.Status(status) {
		case schedule.StatusNew:
			stats.New = count
		case schedule.StatusLearning:
			stats.Learning = count
		case schedule.StatusReviewing:
			stats.Reviewing = count
		case schedule.StatusMastered:
			stats.Mastered = count
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_schedule WHERE user_id = ? AND next_review_at <= ?`,
		int64(userID), formatTime(now)).Scan(&stats.Due)
	if err != nil {
		return nil, fmt.Errorf("failed to count due entries: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN rating >= ? THEN 1 ELSE 0 END), 0)
		FROM review_history WHERE user_id = ?
	`, int(schedule.Good), int64(userID)).Scan(&stats.TotalReviews, &stats.CorrectReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	days, err := r.reviewDays(ctx, userID, now.Location())
	if err != nil {
		return nil, err
	}
	stats.StreakDays = schedule.CalculateStreak(days, now)

	return stats, nil
}

// reviewDays returns the local calendar days on which the user reviewed
func (r *scheduleRepository) reviewDays(ctx context.Context, userID user.ID, loc *time.Location) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT reviewed_at FROM review_history WHERE user_id = ?`, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query review days: %w", err)
	}
	defer rows.Close()

	days := make(map[string]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan review day: %w", err)
		}
		t, err := parseDateTime(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reviewed_at: %w", err)
		}
		days[t.In(loc).Format("2006-01-02")] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review days: %w", err)
	}
	return days, nil
}

// UsersWithDueItems lists users with at least one entry due at now
func (r *scheduleRepository) UsersWithDueItems(ctx context.Context, now time.Time) ([]user.ID, error) {
	query := `
		SELECT DISTINCT user_id FROM user_schedule
		WHERE next_review_at <= ?
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to query users with due items: %w", err)
	}
	defer rows.Close()

	var ids []user.ID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user ID: %w", err)
		}
		ids = append(ids, user.ID(id))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return ids, nil
}

func scanEntry(row scanner) (*schedule.Entry, error) {
	var id, questionID, status, nextReviewStr, createdStr, updatedStr string
	var userID int64
	var interval int
	var ease float64
	var qid, title, slug, difficulty string
	var frontendID int
	var acRate sql.NullFloat64

	err := row.Scan(&id, &userID, &questionID, &status, &nextReviewStr, &interval,
		&ease, &createdStr, &updatedStr,
		&qid, &frontendID, &title, &slug, &difficulty, &acRate)
	if err != nil {
		return nil, err
	}

	nextReviewAt, err := parseDateTime(nextReviewStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse next_review_at: %w", err)
	}
	createdAt, err := parseDateTime(createdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := parseDateTime(updatedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	e := schedule.Restore(schedule.ID(id), user.ID(userID), question.ID(questionID),
		schedule.Status(status), nextReviewAt, interval, ease, createdAt, updatedAt)

	q := question.NewQuestion(question.ID(qid), frontendID, title, slug, question.Difficulty(difficulty))
	if acRate.Valid {
		q.SetAcRate(acRate.Float64)
	}
	e.SetQuestion(q)

	return e, nil
}
