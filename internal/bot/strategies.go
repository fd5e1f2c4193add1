package bot

import (
	"math/rand"

	botinternal "eriantys/internal/bot/internal"
	"eriantys/internal/domain"
)

// RandomBot plays a uniformly random legal move.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) CalculateMove(m *domain.Match, player *domain.Player) (domain.Move, error) {
	moves := botinternal.Candidates(m, player)
	if len(moves) == 0 {
		return domain.Move{}, ErrNoMove
	}
	return moves[b.rng.Intn(len(moves))], nil
}
