// Package settlement pays out match rewards once a match is over.
package settlement

import (
	"context"
	"fmt"

	"eriantys/internal/app"
	"eriantys/internal/ports"
)

// Rewards holds the gold paid per player.
type Rewards struct {
	Win  int64
	Draw int64
}

// Service turns finished matches into wallet updates.
type Service struct {
	economy ports.EconomyPort
	rewards Rewards
}

// NewService constructs a settlement service. economy must be non-nil.
func NewService(economy ports.EconomyPort, rewards Rewards) *Service {
	return &Service{economy: economy, rewards: rewards}
}

// Settle pays every winner, or every player on a draw. userIDs maps nicknames to wallet
// owners; players missing from it (bots) are skipped. It returns the updates it applied.
func (s *Service) Settle(ctx context.Context, matchID string, result app.GameEndedPayload, userIDs map[string]string) ([]ports.WalletUpdate, error) {
	if s.economy == nil {
		return nil, fmt.Errorf("settlement service not configured")
	}

	paid, amount, reason := result.Winners, s.rewards.Win, "match_win"
	if result.Draw {
		paid, amount, reason = result.Players, s.rewards.Draw, "match_draw"
	}
	if amount == 0 {
		return nil, nil
	}

	var updates []ports.WalletUpdate
	for _, nickname := range paid {
		userID, ok := userIDs[nickname]
		if !ok {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   reason,
			},
		})
	}
	if len(updates) == 0 {
		return nil, nil
	}
	if err := s.economy.UpdateBalances(ctx, updates); err != nil {
		return nil, fmt.Errorf("failed to pay match rewards: %w", err)
	}
	return updates, nil
}
