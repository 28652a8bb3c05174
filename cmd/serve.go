package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"leetcode-srs-bot/internal/application/usecases"
	"leetcode-srs-bot/internal/config"
	"leetcode-srs-bot/internal/infrastructure/telegram"
	"leetcode-srs-bot/internal/interfaces/api"
	"leetcode-srs-bot/internal/interfaces/telegram/handlers"
	"leetcode-srs-bot/internal/log"
	"leetcode-srs-bot/internal/metrics"
)

// NewCmdServe creates the serve command.
func NewCmdServe(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Long: `Connects to Telegram and handles updates until interrupted.
Also runs the reminder loop and the HTTP server when they are enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	m := metrics.Default()
	a, err := newApp(cfg, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()

	if cfg.Catalog.Path != "" {
		if _, err := a.importCatalog(ctx, cfg.Catalog.Path); err != nil {
			return err
		}
	}

	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.Debug)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	if err := bot.SetupCommands(); err != nil {
		log.Warn("failed to set up bot commands", "error", err)
	}

	handler := handlers.NewBotHandler(bot, a.userUseCase, a.libraryUseCase, a.reviewUseCase, a.clock, m)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		bot.StopReceivingUpdates()
		return nil
	})

	if cfg.Reminder.Enabled {
		reminders := usecases.NewReminderUseCase(bot, a.users, a.schedules, a.prefs, &usecases.ReminderConfig{
			CheckInterval:       cfg.Reminder.CheckInterval,
			MinReminderInterval: cfg.Reminder.MinInterval,
			QuietHoursStart:     cfg.Reminder.QuietHoursStart,
			QuietHoursEnd:       cfg.Reminder.QuietHoursEnd,
			MaxRemindersPerDay:  cfg.Reminder.MaxPerDay,
			SendRate:            cfg.Reminder.SendRate,
			SendBurst:           cfg.Reminder.SendBurst,
		}, a.clock, m)
		g.Go(func() error {
			return reminders.StartReminderService(gctx)
		})
	}

	if cfg.HTTP.Addr != "" {
		server := api.NewServer(a.reviewUseCase, prometheus.DefaultGatherer)
		g.Go(func() error {
			return server.Run(gctx, cfg.HTTP.Addr)
		})
	}

	log.Info("bot started", "reminders", cfg.Reminder.Enabled, "http", cfg.HTTP.Addr)
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("bot stopped")
	return nil
}
