package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerConfig configures the standalone session server.
type ServerConfig struct {
	TCPAddr        string `env:"ERIANTYS_TCP_ADDR" envDefault:":12345"`
	WSAddr         string `env:"ERIANTYS_WS_ADDR" envDefault:":8080"`
	GameConfigPath string `env:"ERIANTYS_GAME_CONFIG" envDefault:"data/game_config.json"`

	LogLevel string `env:"ERIANTYS_LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"ERIANTYS_LOG_JSON" envDefault:"false"`

	BeatInterval  time.Duration `env:"ERIANTYS_BEAT_INTERVAL" envDefault:"1s"`
	CheckInterval time.Duration `env:"ERIANTYS_CHECK_INTERVAL" envDefault:"2s"`
	BeatTimeout   time.Duration `env:"ERIANTYS_BEAT_TIMEOUT" envDefault:"3s"`

	// Inbound frames per second allowed on one connection, and the burst above it.
	MessageRate  float64 `env:"ERIANTYS_MESSAGE_RATE" envDefault:"20"`
	MessageBurst int     `env:"ERIANTYS_MESSAGE_BURST" envDefault:"40"`
}

// LoadServerConfig loads the given .env files (".env" when none are named; missing files
// are ignored) and then parses the environment. Variables already set win over the files.
func LoadServerConfig(files ...string) (ServerConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ServerConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.MessageRate <= 0 || cfg.MessageBurst <= 0 {
		return ServerConfig{}, fmt.Errorf("invalid message rate %v burst %d", cfg.MessageRate, cfg.MessageBurst)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
