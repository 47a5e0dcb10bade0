package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage engines for the local backend.
const (
	EngineBolt   = "bolt"
	EngineSQLite = "sqlite"
)

// Config carries everything the composition root needs to wire storage,
// repositories and services. Values come from an optional YAML file
// overridden by LOREKEEPER_* environment variables.
type Config struct {
	Engine        string        `yaml:"engine" env:"LOREKEEPER_ENGINE" env-default:"bolt"`
	DBPath        string        `yaml:"db_path" env:"LOREKEEPER_DB_PATH" env-default:"lorekeeper.db"`
	UseRemote     bool          `yaml:"use_remote" env:"LOREKEEPER_USE_REMOTE" env-default:"false"`
	RemoteURL     string        `yaml:"remote_url" env:"LOREKEEPER_REMOTE_URL" env-default:"http://localhost:8080"`
	RemoteTimeout time.Duration `yaml:"remote_timeout" env:"LOREKEEPER_REMOTE_TIMEOUT" env-default:"30s"`
	LogLevel      string        `yaml:"log_level" env:"LOREKEEPER_LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from path (when it exists) and the environment.
// An empty path skips the file and reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
			return &cfg, cfg.validate()
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Engine {
	case EngineBolt, EngineSQLite:
	default:
		return fmt.Errorf("unknown storage engine %q (want %q or %q)", c.Engine, EngineBolt, EngineSQLite)
	}
	return nil
}
