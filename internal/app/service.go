package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"eriantys/internal/domain"
)

// Service contains the Eriantys use-cases operating on domain state. It is safe for
// concurrent use; every match it creates gets its own random source.
type Service struct {
	mu         sync.Mutex
	rng        *rand.Rand
	characters []domain.CharacterKind
}

// NewService constructs a Service with provided rng or a time-seeded default. characters
// restricts the cards drawn in expert matches; empty means all of them.
func NewService(rng *rand.Rand, characters ...domain.CharacterKind) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, characters: characters}
}

var (
	ErrBadIdentity   = errors.New("invalid wizard or tower")
	ErrUnknownPlayer = errors.New("player not found")
	ErrMatchOver     = errors.New("match is over")
)

// CreateMatch builds an empty match waiting for players.
func (s *Service) CreateMatch(players int, expert bool) (*domain.Match, error) {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()
	return domain.NewMatch(domain.Options{
		Players:    players,
		Expert:     expert,
		Characters: s.characters,
		Rand:       rand.New(rand.NewSource(seed)),
	})
}

// AddPlayer seats a player with the chosen identity. Once the match is full it is prepared
// and the initial state is emitted.
func (s *Service) AddPlayer(m *domain.Match, nickname, wizard, tower string) ([]Event, error) {
	w, err := domain.ParseWizard(wizard)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadIdentity, err)
	}
	tc, err := domain.ParseTowerColor(tower)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadIdentity, err)
	}
	if err := m.AddPlayer(nickname, w, tc); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventPlayerAdded,
		Payload: PlayerAddedPayload{Nickname: nickname, Wizard: w, Tower: tc},
	}}
	if m.Stage != domain.StagePreparation {
		return events, nil
	}
	if err := m.Preparation(); err != nil {
		return events, err
	}
	return append(events, Event{
		Kind:    EventMatchInitialized,
		Payload: MatchInitializedPayload{State: NewSnapshot(m)},
	}), nil
}

// Prompt asks nickname to pick among the identities still free.
func (s *Service) Prompt(m *domain.Match, nickname string) Event {
	return Event{
		Kind: EventChooseWizardTower,
		Payload: ChooseWizardTowerPayload{
			Nickname: nickname,
			Wizards:  AvailableWizards(m),
			Towers:   AvailableTowers(m),
		},
	}
}

// AvailableWizards lists the wizards nobody has picked yet.
func AvailableWizards(m *domain.Match) []domain.Wizard {
	taken := map[domain.Wizard]bool{}
	for _, p := range m.Players {
		taken[p.Wizard] = true
	}
	var out []domain.Wizard
	for _, w := range domain.Wizards {
		if !taken[w] {
			out = append(out, w)
		}
	}
	return out
}

// AvailableTowers lists the tower colors that can still be claimed. In four player matches a
// color stays available until two players share it, and only two colors are used.
func AvailableTowers(m *domain.Match) []domain.TowerColor {
	count := map[domain.TowerColor]int{}
	for _, p := range m.Players {
		count[p.Tower]++
	}
	team := m.Variant.TeamSize()
	limit := len(domain.TowerColors)
	if m.Variant.Players == 4 {
		limit = 2
	}
	var out []domain.TowerColor
	for _, tc := range domain.TowerColors {
		if count[tc] >= team {
			continue
		}
		if count[tc] == 0 && len(count) >= limit {
			continue
		}
		out = append(out, tc)
	}
	return out
}

// ApplyMove validates and applies a move on behalf of its player. command is the wire command
// that carried the move and is echoed back to every party.
func (s *Service) ApplyMove(m *domain.Match, mv domain.Move, command string) ([]Event, error) {
	if m.Over() {
		return nil, ErrMatchOver
	}
	if m.PlayerIndex(mv.Player) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, mv.Player)
	}
	if err := m.Apply(mv); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventMoveDone,
		Payload: MoveDonePayload{Player: mv.Player, Command: command, State: NewSnapshot(m)},
	}}
	if m.Over() {
		events = append(events, Event{Kind: EventGameEnded, Payload: gameEnded(m)})
	}
	return events, nil
}

func gameEnded(m *domain.Match) GameEndedPayload {
	out := GameEndedPayload{Winner: m.Winner, Draw: m.Draw}
	for _, p := range m.Players {
		out.Players = append(out.Players, p.Nickname)
		if !m.Draw && p.Tower == m.Winner {
			out.Winners = append(out.Winners, p.Nickname)
		}
	}
	return out
}

// Abort ends the match for everyone because nickname left, timed out or broke the protocol.
func (s *Service) Abort(reason, nickname string) []Event {
	return []Event{{
		Kind:    EventMatchAborted,
		Payload: MatchAbortedPayload{Reason: reason, Nickname: nickname},
	}}
}
