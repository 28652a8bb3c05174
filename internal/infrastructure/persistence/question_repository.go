package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"leetcode-srs-bot/internal/domain/question"
)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new question catalog repository
func NewQuestionRepository(db *sql.DB) question.Repository {
	return &questionRepository{db: db}
}

const questionColumns = `q.id, q.frontend_id, q.title, q.title_slug, q.difficulty, q.ac_rate`

// SaveBatch upserts questions and replaces their topic links
func (r *questionRepository) SaveBatch(ctx context.Context, questions []*question.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	questionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, frontend_id, title, title_slug, difficulty, ac_rate)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			frontend_id = excluded.frontend_id,
			title = excluded.title,
			title_slug = excluded.title_slug,
			difficulty = excluded.difficulty,
			ac_rate = excluded.ac_rate
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare question statement: %w", err)
	}
	defer questionStmt.Close()

	topicStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO topics (id, name, slug) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, slug = excluded.slug
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare topic statement: %w", err)
	}
	defer topicStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO question_topics (question_id, topic_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare topic link statement: %w", err)
	}
	defer linkStmt.Close()

	for _, q := range questions {
		var acRate sql.NullFloat64
		if rate := q.AcRate(); rate != nil {
			acRate = sql.NullFloat64{Float64: *rate, Valid: true}
		}

		_, err := questionStmt.ExecContext(ctx, string(q.ID()), q.FrontendID(), q.Title(),
			q.TitleSlug(), string(q.Difficulty()), acRate)
		if err != nil {
			return fmt.Errorf("failed to save question %s: %w", q.TitleSlug(), err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM question_topics WHERE question_id = ?`, string(q.ID())); err != nil {
			return fmt.Errorf("failed to clear topics of %s: %w", q.TitleSlug(), err)
		}

		for _, t := range q.Topics() {
			if _, err := topicStmt.ExecContext(ctx, string(t.ID), t.Name, t.Slug); err != nil {
				return fmt.Errorf("failed to save topic %s: %w", t.Slug, err)
			}
			if _, err := linkStmt.ExecContext(ctx, string(q.ID()), string(t.ID)); err != nil {
				return fmt.Errorf("failed to link topic %s: %w", t.Slug, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SaveStudyLists upserts study lists and replaces their membership
func (r *questionRepository) SaveStudyLists(ctx context.Context, lists []*question.StudyList) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, l := range lists {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO study_lists (id, name, slug) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, slug = excluded.slug
		`, string(l.ID), l.Name, l.Slug)
		if err != nil {
			return fmt.Errorf("failed to save study list %s: %w", l.Slug, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM question_study_lists WHERE study_list_id = ?`, string(l.ID)); err != nil {
			return fmt.Errorf("failed to clear study list %s: %w", l.Slug, err)
		}

		for pos, qid := range l.QuestionIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO question_study_lists (study_list_id, question_id, position)
				VALUES (?, ?, ?)
			`, string(l.ID), string(qid), pos)
			if err != nil {
				return fmt.Errorf("failed to add question to study list %s: %w", l.Slug, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a question with its topics
func (r *questionRepository) FindByID(ctx context.Context, id question.ID) (*question.Question, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions q WHERE q.id = ?`, string(id))

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	if err := loadTopics(ctx, r.db, []*question.Question{q}); err != nil {
		return nil, err
	}
	return q, nil
}

// List returns one page of questions ordered by problem number
func (r *questionRepository) List(ctx context.Context, filter question.Filter) (*question.Page, error) {
	page, pageSize := question.Normalize(filter.Page, filter.PageSize, question.DefaultPageSize)

	var where []string
	var args []any

	if clause, clauseArgs := searchClause(question.ParseSearch(filter.Search)); clause != "" {
		where = append(where, clause)
		args = append(args, clauseArgs...)
	}
	if filter.TopicID != "" {
		where = append(where, `EXISTS (SELECT 1 FROM question_topics qt WHERE qt.question_id = q.id AND qt.topic_id = ?)`)
		args = append(args, string(filter.TopicID))
	}
	if filter.StudyListID != "" {
		where = append(where, `EXISTS (SELECT 1 FROM question_study_lists sl WHERE sl.question_id = q.id AND sl.study_list_id = ?)`)
		args = append(args, string(filter.StudyListID))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions q`+whereSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	query := `SELECT ` + questionColumns + ` FROM questions q` + whereSQL +
		` ORDER BY q.frontend_id, q.title_slug LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, page*pageSize)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	rows.Close()

	if err := loadTopics(ctx, r.db, questions); err != nil {
		return nil, err
	}

	return &question.Page{
		Questions: questions,
		Total:     total,
		NextPage:  question.NextPage(page, pageSize, len(questions)),
	}, nil
}

// ListTopics returns topics with their question counts, largest first
func (r *questionRepository) ListTopics(ctx context.Context) ([]*question.TopicCount, error) {
	query := `
		SELECT t.id, t.name, t.slug, COUNT(qt.question_id) AS cnt
		FROM topics t
		LEFT JOIN question_topics qt ON qt.topic_id = t.id
		GROUP BY t.id, t.name, t.slug
		ORDER BY cnt DESC, t.name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []*question.TopicCount
	for rows.Next() {
		var tc question.TopicCount
		var id string
		if err := rows.Scan(&id, &tc.Name, &tc.Slug, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		tc.ID = question.TopicID(id)
		topics = append(topics, &tc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}
	return topics, nil
}

// ListStudyLists returns all study lists with their questions
func (r *questionRepository) ListStudyLists(ctx context.Context) ([]*question.StudyList, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug FROM study_lists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query study lists: %w", err)
	}
	defer rows.Close()

	var lists []*question.StudyList
	for rows.Next() {
		var l question.StudyList
		var id string
		if err := rows.Scan(&id, &l.Name, &l.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan study list: %w", err)
		}
		l.ID = question.StudyListID(id)
		lists = append(lists, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating study lists: %w", err)
	}
	rows.Close()

	for _, l := range lists {
		ids, err := r.StudyListQuestionIDs(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		l.QuestionIDs = ids
	}
	return lists, nil
}

// StudyListQuestionIDs returns the questions of a study list in list order
func (r *questionRepository) StudyListQuestionIDs(ctx context.Context, id question.StudyListID) ([]question.ID, error) {
	query := `
		SELECT question_id FROM question_study_lists
		WHERE study_list_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query study list questions: %w", err)
	}
	defer rows.Close()

	var ids []question.ID
	for rows.Next() {
		var qid string
		if err := rows.Scan(&qid); err != nil {
			return nil, fmt.Errorf("failed to scan study list question: %w", err)
		}
		ids = append(ids, question.ID(qid))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating study list questions: %w", err)
	}
	return ids, nil
}

// searchClause builds the title/number condition for a search term
func searchClause(s question.Search) (string, []any) {
	if s.IsEmpty() {
		return "", nil
	}
	if s.FrontendID != nil {
		return `(q.title LIKE ? OR q.frontend_id = ?)`, []any{s.LikePattern(), *s.FrontendID}
	}
	return `q.title LIKE ?`, []any{s.LikePattern()}
}

func scanQuestion(row scanner) (*question.Question, error) {
	var id, title, slug, difficulty string
	var frontendID int
	var acRate sql.NullFloat64

	if err := row.Scan(&id, &frontendID, &title, &slug, &difficulty, &acRate); err != nil {
		return nil, err
	}

	q := question.NewQuestion(question.ID(id), frontendID, title, slug, question.Difficulty(difficulty))
	if acRate.Valid {
		q.SetAcRate(acRate.Float64)
	}
	return q, nil
}

// loadTopics fills in the topics of questions with a single query
func loadTopics(ctx context.Context, db *sql.DB, questions []*question.Question) error {
	if len(questions) == 0 {
		return nil
	}

	byID := make(map[question.ID]*question.Question, len(questions))
	args := make([]any, 0, len(questions))
	for _, q := range questions {
		byID[q.ID()] = q
		args = append(args, string(q.ID()))
	}

	query := `
		SELECT qt.question_id, t.id, t.name, t.slug
		FROM question_topics qt
		JOIN topics t ON t.id = qt.topic_id
		WHERE qt.question_id IN (` + placeholders(len(args)) + `)
		ORDER BY t.name
	`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query question topics: %w", err)
	}
	defer rows.Close()

	topics := make(map[question.ID][]question.Topic)
	for rows.Next() {
		var qid, tid, name, slug string
		if err := rows.Scan(&qid, &tid, &name, &slug); err != nil {
			return fmt.Errorf("failed to scan question topic: %w", err)
		}
		topics[question.ID(qid)] = append(topics[question.ID(qid)], question.Topic{
			ID:   question.TopicID(tid),
			Name: name,
			Slug: slug,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating question topics: %w", err)
	}

	for id, q := range byID {
		q.SetTopics(topics[id])
	}
	return nil
}
