package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SRSBOT"

// Config holds runtime settings for the bot, the reminder worker and the
// HTTP surface.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	// Driver is "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type CatalogConfig struct {
	// Path of a JSON or YAML catalog imported on startup. Empty skips the import.
	Path string `mapstructure:"path"`
}

type ReminderConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	CheckInterval   time.Duration `mapstructure:"check_interval"`
	MinInterval     time.Duration `mapstructure:"min_interval"`
	QuietHoursStart int           `mapstructure:"quiet_hours_start"`
	QuietHoursEnd   int           `mapstructure:"quiet_hours_end"`
	MaxPerDay       int           `mapstructure:"max_per_day"`
	SendRate        float64       `mapstructure:"send_rate"`
	SendBurst       int           `mapstructure:"send_burst"`
}

type HTTPConfig struct {
	// Addr is the listen address. Empty disables the HTTP server.
	Addr string `mapstructure:"addr"`
}

type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity"`
	JSON      bool `mapstructure:"json"`
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML file. When empty, srsbot.yaml is searched
	// in the working directory and missing files are not an error.
	ConfigFile string
	// EnvFiles are loaded with godotenv before reading the environment.
	// Missing files are ignored.
	EnvFiles []string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", "leetcode_srs.db")

	v.SetDefault("catalog.path", "")

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.check_interval", 30*time.Minute)
	v.SetDefault("reminder.min_interval", 15*time.Minute)
	v.SetDefault("reminder.quiet_hours_start", 22)
	v.SetDefault("reminder.quiet_hours_end", 8)
	v.SetDefault("reminder.max_per_day", 6)
	v.SetDefault("reminder.send_rate", 20.0)
	v.SetDefault("reminder.send_burst", 1)

	v.SetDefault("http.addr", "")

	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)
}

// Load reads configuration from defaults, an optional YAML file, .env files
// and the environment, in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain names kept for existing deployments.
	_ = v.BindEnv("telegram.token", envPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("database.path", envPrefix+"_DATABASE_PATH", "DB_PATH")

	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("srsbot")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if !validHour(c.Reminder.QuietHoursStart) || !validHour(c.Reminder.QuietHoursEnd) {
		return fmt.Errorf("quiet hours must be within 0-23, got %d-%d",
			c.Reminder.QuietHoursStart, c.Reminder.QuietHoursEnd)
	}
	if c.Reminder.CheckInterval <= 0 {
		return errors.New("reminder check interval must be positive")
	}
	if c.Reminder.SendRate <= 0 {
		return errors.New("reminder send rate must be positive")
	}
	if c.Cache.Size <= 0 {
		return errors.New("cache size must be positive")
	}
	return nil
}

// RequireToken reports an error when no Telegram token is configured.
func (c *Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is required (set TELEGRAM_BOT_TOKEN or telegram.token)")
	}
	return nil
}

func validHour(h int) bool {
	return h >= 0 && h <= 23
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
