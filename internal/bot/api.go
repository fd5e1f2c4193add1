package bot

import (
	"errors"

	"eriantys/internal/domain"
)

// ErrNoMove is returned when the bot has nothing legal to play.
var ErrNoMove = errors.New("bot: no legal move")

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(m *domain.Match, player *domain.Player) (domain.Move, error)
}
