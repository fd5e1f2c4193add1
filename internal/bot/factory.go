package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelRandom BotLevel = iota
	BotLevelGood
)

// ParseLevel maps a difficulty name to a level. Unknown names fall back to random.
func ParseLevel(s string) BotLevel {
	switch strings.ToLower(s) {
	case "good", "medium", "hard":
		return BotLevelGood
	default:
		return BotLevelRandom
	}
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelRandom:
		return &RandomBot{rng: rng}, nil
	case BotLevelGood:
		return &GoodBot{Weights: DefaultTuning, rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
