package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leetcode-srs-bot/internal/config"
	"leetcode-srs-bot/internal/log"
)

// Options holds the shared command-line options.
type Options struct {
	ConfigFile string
	EnvFiles   []string
	Verbosity  int
}

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "srsbot",
		Short: "Spaced-repetition Telegram bot for coding-interview problems",
		Long: `A Telegram bot that schedules LeetCode problems for review.
Track problems, rate how each attempt went and the bot tells you when
to solve them again.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (default: ./srsbot.yaml if present)")
	flags.StringSliceVar(&opts.EnvFiles, "env", []string{".env"}, "Env files loaded before reading the environment")
	flags.CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(NewCmdServe(opts))
	rootCmd.AddCommand(NewCmdImport(opts))
	rootCmd.AddCommand(NewCmdPreview())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// loadConfig reads the configuration and sets up logging. The -v flag and
// log.verbosity both raise the level; the higher one wins.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: opts.ConfigFile,
		EnvFiles:   opts.EnvFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	verbosity := max(opts.Verbosity, cfg.Log.Verbosity)
	log.Initialize(verbosity, os.Stderr, cfg.Log.JSON)
	return cfg, nil
}
