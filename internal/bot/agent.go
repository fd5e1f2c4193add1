package bot

import (
	"fmt"

	"eriantys/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to calculate its move based on the current match state.
func (a *Agent) Play(m *domain.Match) (domain.Move, error) {
	idx := m.PlayerIndex(a.Name)
	if idx < 0 {
		return domain.Move{}, fmt.Errorf("bot %s is not seated", a.Name)
	}
	player := m.Players[idx]
	if m.CurrentPlayer() != player {
		return domain.Move{}, fmt.Errorf("bot %s: %w", a.Name, ErrNoMove)
	}
	return a.Strategy.CalculateMove(m, player)
}

// ChooseIdentity picks the first free wizard and tower offered.
func (a *Agent) ChooseIdentity(wizards []domain.Wizard, towers []domain.TowerColor) (domain.Wizard, domain.TowerColor, error) {
	if len(wizards) == 0 || len(towers) == 0 {
		return "", "", fmt.Errorf("bot %s: no identity left", a.Name)
	}
	return wizards[0], towers[0], nil
}
