package usecases

import (
	"context"
	"fmt"
	"strings"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

// LibraryItem is a catalog question annotated for one user
type LibraryItem struct {
	Question *question.Question
	Tracked  bool
}

// LibraryPage is one page of the library as seen by a user
type LibraryPage struct {
	Items    []LibraryItem
	Total    int
	Page     int
	NextPage *int
}

// LibraryUseCase handles browsing the catalog and tracking problems
type LibraryUseCase struct {
	questionRepo question.Repository
	scheduleRepo schedule.Repository
	clock        schedule.Clock
	metrics      *metrics.Metrics
}

// NewLibraryUseCase creates a new library use case
func NewLibraryUseCase(
	questionRepo question.Repository,
	scheduleRepo schedule.Repository,
	clock schedule.Clock,
	m *metrics.Metrics,
) *LibraryUseCase {
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &LibraryUseCase{
		questionRepo: questionRepo,
		scheduleRepo: scheduleRepo,
		clock:        clock,
		metrics:      m,
	}
}

// Browse returns a library page with each question flagged as tracked or not
func (uc *LibraryUseCase) Browse(ctx context.Context, userID user.ID, filter question.Filter) (*LibraryPage, error) {
	page, err := uc.questionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	tracked, err := uc.scheduleRepo.TrackedQuestionIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked questions: %w", err)
	}

	result := &LibraryPage{
		Items:    make([]LibraryItem, 0, len(page.Questions)),
		Total:    page.Total,
		Page:     filter.Page,
		NextPage: page.NextPage,
	}
	if result.Page < 0 {
		result.Page = 0
	}
	for _, q := range page.Questions {
		result.Items = append(result.Items, LibraryItem{Question: q, Tracked: tracked[q.ID()]})
	}

	return result, nil
}

// TrackQuestion adds a question to the user's schedule. Tracking an already
// tracked question keeps its progress and reports false.
func (uc *LibraryUseCase) TrackQuestion(ctx context.Context, userID user.ID, questionID question.ID) (bool, error) {
	q, err := uc.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to find question: %w", err)
	}
	if q == nil {
		return false, question.ErrNotFound
	}

	created, err := uc.scheduleRepo.Track(ctx, schedule.NewEntry(userID, questionID, uc.clock.Now()))
	if err != nil {
		return false, err
	}

	if created {
		uc.metrics.AddTracked("question", 1)
		log.Info("question tracked", "user", userID, "question", q.TitleSlug())
	}
	return created, nil
}

// TrackStudyList tracks every question of a study list the user does not
// track yet and returns how many were added
func (uc *LibraryUseCase) TrackStudyList(ctx context.Context, userID user.ID, listID question.StudyListID) (int, error) {
	ids, err := uc.questionRepo.StudyListQuestionIDs(ctx, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to get study list questions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tracked, err := uc.scheduleRepo.TrackedQuestionIDs(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get tracked questions: %w", err)
	}

	now := uc.clock.Now()
	var entries []*schedule.Entry
	for _, id := range ids {
		if !tracked[id] {
			entries = append(entries, schedule.NewEntry(userID, id, now))
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}

	added, err := uc.scheduleRepo.TrackBatch(ctx, entries)
	if err != nil {
		return 0, err
	}

	uc.metrics.AddTracked("study_list", added)
	log.Info("study list tracked", "user", userID, "list", listID, "added", added)
	return added, nil
}

// Topics returns catalog topics ordered by question count
func (uc *LibraryUseCase) Topics(ctx context.Context) ([]*question.TopicCount, error) {
	topics, err := uc.questionRepo.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// TopicBySlug finds a catalog topic by slug. It returns nil when no topic matches.
func (uc *LibraryUseCase) TopicBySlug(ctx context.Context, slug string) (*question.Topic, error) {
	topics, err := uc.Topics(ctx)
	if err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, t := range topics {
		if t.Slug == slug {
			topic := t.Topic
			return &topic, nil
		}
	}
	return nil, nil
}

// StudyLists returns all study lists
func (uc *LibraryUseCase) StudyLists(ctx context.Context) ([]*question.StudyList, error) {
	lists, err := uc.questionRepo.ListStudyLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list study lists: %w", err)
	}
	return lists, nil
}
