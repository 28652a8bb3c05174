package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/cache"
	"leetcode-srs-bot/internal/config"
	"leetcode-srs-bot/internal/domain/question"
	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/domain/user"
	"leetcode-srs-bot/internal/infrastructure/filesystem"
	"leetcode-srs-bot/internal/infrastructure/persistence"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

// app wires repositories and use cases on top of one database
type app struct {
	db        *sql.DB
	clock     schedule.Clock
	metrics   *metrics.Metrics
	users     user.Repository
	prefs     user.PreferencesRepository
	questions question.Repository
	schedules schedule.Repository

	userUseCase    *usecases.UserUseCase
	libraryUseCase *usecases.LibraryUseCase
	reviewUseCase  *usecases.ReviewUseCase
}

func newApp(cfg *config.Config, m *metrics.Metrics) (*app, error) {
	db, err := persistence.NewDB(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Debug("database opened", "driver", cfg.Database.Driver, "path", cfg.Database.Path)

	clock := schedule.SystemClock{}
	a := &app{
		db:        db,
		clock:     clock,
		metrics:   m,
		users:     persistence.NewUserRepository(db),
		prefs:     persistence.NewUserPreferencesRepository(db),
		schedules: persistence.NewScheduleRepository(db),
		questions: cache.NewQuestionRepository(persistence.NewQuestionRepository(db), cache.Config{
			MaxSize: cfg.Cache.Size,
			TTL:     cfg.Cache.TTL,
		}, m),
	}

	a.userUseCase = usecases.NewUserUseCase(a.users, a.prefs, clock)
	a.libraryUseCase = usecases.NewLibraryUseCase(a.questions, a.schedules, clock, m)
	a.reviewUseCase = usecases.NewReviewUseCase(a.schedules, schedule.NewScheduler(clock), m)
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// importCatalog loads a catalog file and upserts it. Re-importing the same
// file is a no-op since ids are derived from slugs.
func (a *app) importCatalog(ctx context.Context, path string) (*filesystem.Catalog, error) {
	log.Progress("Loading catalog %s...", path)
	catalog, err := filesystem.NewCatalogLoader().LoadFromFile(path)
	if err != nil {
		log.ProgressDone()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	log.Progress("Importing %d problems...", len(catalog.Questions))
	if err := a.questions.SaveBatch(ctx, catalog.Questions); err != nil {
		log.ProgressDone()
		return nil, fmt.Errorf("failed to import questions: %w", err)
	}
	if err := a.questions.SaveStudyLists(ctx, catalog.StudyLists); err != nil {
		log.ProgressDone()
		return nil, fmt.Errorf("failed to import study lists: %w", err)
	}
	log.ProgressDone()

	log.Info("catalog imported", "path", path, "questions", len(catalog.Questions), "study_lists", len(catalog.StudyLists))
	return catalog, nil
}
