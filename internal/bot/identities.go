package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// BotPrefix marks nicknames and user ids of generated bots.
const BotPrefix = "bot-"

type BotIdentity struct {
	UserID      string `json:"user_id"`
	Nickname    string `json:"nickname"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "good"
}

var (
	identityMu    sync.RWMutex
	botIdentities []BotIdentity
	botIDMap      map[string]BotIdentity
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read bot identities: %w", err)
	}
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	SetIdentities(identities)
	return nil
}

// SetIdentities replaces the bot pool.
func SetIdentities(identities []BotIdentity) {
	ids := make(map[string]BotIdentity, len(identities))
	for _, identity := range identities {
		if identity.UserID != "" {
			ids[identity.UserID] = identity
		}
	}
	identityMu.Lock()
	botIdentities = identities
	botIDMap = ids
	identityMu.Unlock()
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	identityMu.RLock()
	defer identityMu.RUnlock()
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("%s%d", BotPrefix, index),
			Nickname:    fmt.Sprintf("%s%d", BotPrefix, index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  "good",
		}
	}
	identity := botIdentities[index%len(botIdentities)]
	if identity.Nickname == "" {
		identity.Nickname = fmt.Sprintf("%s%d", BotPrefix, index)
	}
	return identity
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, BotPrefix) {
		return true
	}
	identityMu.RLock()
	defer identityMu.RUnlock()
	_, ok := botIDMap[userID]
	return ok
}
