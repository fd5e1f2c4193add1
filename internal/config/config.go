package config

import (
	"encoding/json"
	"fmt"
	"os"

	"eriantys/internal/domain"
)

// GameConfig tunes gameplay around the rules: bot pacing, the expert character pool and
// the rewards paid when a match ends.
type GameConfig struct {
	// Characters restricts the cards drawn in expert matches. Empty means all of them.
	Characters []string `json:"characters"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before filling a solo human lobby with bots.
	BotAutoFillDelaySeconds int   `json:"bot_auto_fill_delay_seconds"`
	BotMinDelaySeconds      int   `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      int   `json:"bot_max_delay_seconds"`
	WinReward               int64 `json:"win_reward"`
	DrawReward              int64 `json:"draw_reward"`
}

// DefaultGameConfig is used when no tuning file is present.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		BotAutoFillDelaySeconds: 5,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		WinReward:               100,
		DrawReward:              20,
	}
}

// LoadGameConfig reads the tuning file at path on top of the defaults.
func LoadGameConfig(path string) (GameConfig, error) {
	cfg := DefaultGameConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read game config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks names and delay bounds.
func (c GameConfig) Validate() error {
	if _, err := c.CharacterKinds(); err != nil {
		return err
	}
	if c.BotMinDelaySeconds < 0 || c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		return fmt.Errorf("invalid bot delay range %d..%d", c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	}
	return nil
}

// CharacterKinds resolves the configured character names.
func (c GameConfig) CharacterKinds() ([]domain.CharacterKind, error) {
	kinds := make([]domain.CharacterKind, 0, len(c.Characters))
	for _, name := range c.Characters {
		k, err := domain.ParseCharacter(name)
		if err != nil {
			return nil, fmt.Errorf("game config: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
