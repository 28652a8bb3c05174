package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

const (
	defaultMaxSize = 256
	defaultTTL     = 10 * time.Minute

	topicsKey     = "topics"
	studyListsKey = "study_lists"
)

// Config configures the catalog cache.
type Config struct {
	// MaxSize is the maximum number of entries in the LRU cache.
	MaxSize int
	// TTL is how long a cached value remains valid.
	TTL time.Duration
}

type entry struct {
	value    any
	storedAt time.Time
}

// QuestionRepository wraps a question.Repository with an LRU cache for
// catalog reads. Writes go to the delegate and purge the cache.
// Library listings are not cached since they depend on free-text filters.
type QuestionRepository struct {
	delegate question.Repository
	cache    *lru.Cache[string, entry]
	ttl      time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewQuestionRepository wraps delegate. Zero config values fall back to
// defaults. m may be nil.
func NewQuestionRepository(delegate question.Repository, config Config, m *metrics.Metrics) *QuestionRepository {
	if config.MaxSize <= 0 {
		config.MaxSize = defaultMaxSize
	}
	if config.TTL <= 0 {
		config.TTL = defaultTTL
	}

	// lru.New only fails on a non-positive size
	c, _ := lru.New[string, entry](config.MaxSize)

	return &QuestionRepository{
		delegate: delegate,
		cache:    c,
		ttl:      config.TTL,
		metrics:  m,
		now:      time.Now,
	}
}

var _ question.Repository = (*QuestionRepository)(nil)

func (r *QuestionRepository) lookup(key, name string) (any, bool) {
	if e, ok := r.cache.Get(key); ok {
		if r.now().Sub(e.storedAt) < r.ttl {
			r.metrics.CacheHit(name)
			return e.value, true
		}
		r.cache.Remove(key)
	}
	r.metrics.CacheMiss(name)
	return nil, false
}

func (r *QuestionRepository) store(key string, value any) {
	r.cache.Add(key, entry{value: value, storedAt: r.now()})
}

// Purge drops every cached value
func (r *QuestionRepository) Purge() {
	r.cache.Purge()
	log.Debug("catalog cache purged")
}

func (r *QuestionRepository) SaveBatch(ctx context.Context, questions []*question.Question) error {
	defer r.Purge()
	return r.delegate.SaveBatch(ctx, questions)
}

func (r *QuestionRepository) SaveStudyLists(ctx context.Context, lists []*question.StudyList) error {
	defer r.Purge()
	return r.delegate.SaveStudyLists(ctx, lists)
}

// FindByID caches found questions; misses are not cached
func (r *QuestionRepository) FindByID(ctx context.Context, id question.ID) (*question.Question, error) {
	key := "question:" + string(id)
	if v, ok := r.lookup(key, "question"); ok {
		return v.(*question.Question), nil
	}

	q, err := r.delegate.FindByID(ctx, id)
	if err != nil || q == nil {
		return q, err
	}
	r.store(key, q)
	return q, nil
}

func (r *QuestionRepository) List(ctx context.Context, filter question.Filter) (*question.Page, error) {
	return r.delegate.List(ctx, filter)
}

func (r *QuestionRepository) ListTopics(ctx context.Context) ([]*question.TopicCount, error) {
	if v, ok := r.lookup(topicsKey, topicsKey); ok {
		return v.([]*question.TopicCount), nil
	}

	topics, err := r.delegate.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	r.store(topicsKey, topics)
	return topics, nil
}

func (r *QuestionRepository) ListStudyLists(ctx context.Context) ([]*question.StudyList, error) {
	if v, ok := r.lookup(studyListsKey, studyListsKey); ok {
		return v.([]*question.StudyList), nil
	}

	lists, err := r.delegate.ListStudyLists(ctx)
	if err != nil {
		return nil, err
	}
	r.store(studyListsKey, lists)
	return lists, nil
}

func (r *QuestionRepository) StudyListQuestionIDs(ctx context.Context, id question.StudyListID) ([]question.ID, error) {
	key := "study_list:" + string(id)
	if v, ok := r.lookup(key, "study_list"); ok {
		return v.([]question.ID), nil
	}

	ids, err := r.delegate.StudyListQuestionIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(key, ids)
	return ids, nil
}
