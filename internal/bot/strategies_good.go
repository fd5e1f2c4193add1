package bot

import (
	"math/rand"
	"sort"

	botinternal "eriantys/internal/bot/internal"
	"eriantys/internal/domain"
)

// GoodBot plays the highest scoring legal move, breaking ties at random.
type GoodBot struct {
	Weights botinternal.Weights
	rng     *rand.Rand
}

func (b *GoodBot) CalculateMove(m *domain.Match, player *domain.Player) (domain.Move, error) {
	moves := botinternal.Candidates(m, player)
	if len(moves) == 0 {
		return domain.Move{}, ErrNoMove
	}

	scored := botinternal.ScoreMoves(m, player, moves, b.Weights)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	best := 1
	for best < len(scored) && scored[best].Score == scored[0].Score {
		best++
	}
	if b.rng == nil || best == 1 {
		return scored[0].Move, nil
	}
	return scored[b.rng.Intn(best)].Move, nil
}
