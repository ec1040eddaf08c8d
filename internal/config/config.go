package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment and an
// optional .env file.
type Config struct {
	DiscordToken          string   `env:"DISCORD_TOKEN"`
	DeveloperID           string   `env:"DEVELOPER_ID"`
	DiscordGuildBlacklist []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands     bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	CommandCacheDir       string   `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`
	CommandRegisterRPS    float64  `env:"COMMAND_REGISTER_RPS" envDefault:"40"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	DefaultVolume float64 `env:"DEFAULT_VOLUME" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

var (
	ErrMissingToken  = errors.New("DISCORD_TOKEN is not set")
	ErrDefaultVolume = errors.New("DEFAULT_VOLUME must be between 0 and 100")
)

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 100 {
		return fmt.Errorf("%w: got %v", ErrDefaultVolume, c.DefaultVolume)
	}
	if c.CommandRegisterRPS <= 0 {
		c.CommandRegisterRPS = 40
	}
	return nil
}
