package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Options configures a new match.
type Options struct {
	Players int
	Expert  bool
	// Characters restricts the character cards drawn in expert matches. Empty means all.
	Characters []CharacterKind
	Rand       *rand.Rand
}

// TurnState is reset every time the current player changes during the action phase.
type TurnState struct {
	StudentsMoved   int
	CharacterPlayed bool
	Effect          Effect
}

// Match is the authoritative state of one game. It is a passive data owner: callers
// serialize access and react to the returned errors.
type Match struct {
	Variant Variant
	Expert  bool
	Stage   Stage

	Players      []*Player
	Islands      []*Island
	Clouds       []*Cloud
	MotherNature int
	Current      int // index into Players, -1 while waiting for players and after game over
	Bag          Students
	Bank         int
	Professors   [NumColors]int // owning player index per color, -1 when unowned
	Characters   []*Character
	NoEntryTiles int

	PlanningOrder []int
	ActionOrder   []int
	Turn          TurnState
	turnIndex     int

	// LastRound is set when the bag could not refill the clouds or a fill emptied it.
	LastRound bool
	Round     int
	Winner    TowerColor
	Draw      bool

	characterPool []CharacterKind
	rng           *rand.Rand
}

// NewMatch creates an empty match waiting for players.
func NewMatch(opts Options) (*Match, error) {
	variant, err := NewVariant(opts.Players)
	if err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	pool := opts.Characters
	if len(pool) == 0 {
		pool = AllCharacters()
	}
	m := &Match{
		Variant:       variant,
		Expert:        opts.Expert,
		Stage:         StageWaitForPlayers,
		Current:       -1,
		characterPool: pool,
		rng:           rng,
	}
	for c := range m.Professors {
		m.Professors[c] = -1
	}
	return m, nil
}

// AddPlayer seats a new player. The match moves to PREPARATION once it is full.
func (m *Match) AddPlayer(nickname string, wizard Wizard, tower TowerColor) error {
	if m.Stage != StageWaitForPlayers || len(m.Players) >= m.Variant.Players {
		return fmt.Errorf("%w: add player during %s with %d/%d players",
			ErrOutOfOrder, m.Stage, len(m.Players), m.Variant.Players)
	}
	if nickname == "" {
		return ErrEmptyNickname
	}
	sameTower := 0
	for _, p := range m.Players {
		if p.Nickname == nickname {
			return fmt.Errorf("%w: %s", ErrDuplicateNickname, nickname)
		}
		if p.Wizard == wizard {
			return fmt.Errorf("%w: %s", ErrDuplicateWizard, wizard)
		}
		if p.Tower == tower {
			sameTower++
		}
	}
	if sameTower >= m.Variant.TeamSize() {
		return fmt.Errorf("%w: %s", ErrDuplicateTower, tower)
	}
	if m.Variant.Players == 4 && sameTower == 0 && len(m.towerColors()) == 2 {
		// Four players split into exactly two teams.
		return fmt.Errorf("%w: %s would form a third team", ErrDuplicateTower, tower)
	}

	m.Players = append(m.Players, &Player{
		Nickname: nickname,
		Wizard:   wizard,
		Tower:    tower,
		Seat:     len(m.Players),
	})
	if len(m.Players) == m.Variant.Players {
		m.Current = 0
		return m.fire(onPlayersComplete)
	}
	return nil
}

// Preparation sets up islands, bag, entrances, towers and clouds, then opens the first
// planning phase.
func (m *Match) Preparation() error {
	if m.Stage != StagePreparation {
		return fmt.Errorf("%w: preparation during %s with %d/%d players",
			ErrOutOfOrder, m.Stage, len(m.Players), m.Variant.Players)
	}

	m.MotherNature = m.rng.Intn(IslandCount)
	antipode := (m.MotherNature + IslandCount/2) % IslandCount
	initial := setupStudents(m.rng)
	m.Islands = make([]*Island, IslandCount)
	for i := range m.Islands {
		island := &Island{Index: i, Size: 1}
		if i != m.MotherNature && i != antipode {
			island.Students[initial[0]]++
			initial = initial[1:]
		}
		m.Islands[i] = island
	}

	for c := range m.Bag {
		m.Bag[c] = StudentsPerColor - setupStudentsPerColor
	}

	seen := map[TowerColor]bool{}
	for _, p := range m.Players {
		entrance, err := drawStudents(&m.Bag, m.rng, m.Variant.EntranceCapacity)
		if err != nil {
			return err
		}
		p.Board = Board{Entrance: entrance}
		p.Assistants = NewAssistantDeck()
		p.Leader = !seen[p.Tower]
		seen[p.Tower] = true
		if p.Leader {
			p.Towers = m.Variant.TowerCapacity
		}
	}

	m.Clouds = make([]*Cloud, m.Variant.CloudCount)
	for i := range m.Clouds {
		m.Clouds[i] = &Cloud{Capacity: m.Variant.StudentsPerCloud}
	}

	if m.Expert {
		m.Bank = TotalCoins - len(m.Players)
		for _, p := range m.Players {
			p.Coins = 1
		}
		m.NoEntryTiles = NoEntryTiles
		m.Characters = drawCharacters(m.rng, m.characterPool, 3)
	}

	m.PlanningOrder = make([]int, len(m.Players))
	for i := range m.PlanningOrder {
		m.PlanningOrder[i] = i
	}
	m.turnIndex = 0
	m.Current = m.PlanningOrder[0]
	m.Round = 1
	return m.fire(onPrepared)
}

// FillClouds draws StudentsPerCloud students into every cloud. When the bag cannot fill
// all of them no cloud is filled and the match is flagged to end with this round.
func (m *Match) FillClouds() error {
	if m.Stage != StagePlanningFillClouds {
		return fmt.Errorf("%w: fill clouds during %s", ErrOutOfOrder, m.Stage)
	}
	need := len(m.Clouds) * m.Variant.StudentsPerCloud
	if m.Bag.Total() < need {
		m.LastRound = true
		return m.fire(onCloudsFilled)
	}
	for _, cloud := range m.Clouds {
		drawn, err := drawStudents(&m.Bag, m.rng, cloud.Capacity)
		if err != nil {
			return err
		}
		cloud.Students = drawn
	}
	if m.Bag.Total() == 0 {
		m.LastRound = true
	}
	return m.fire(onCloudsFilled)
}

// CurrentPlayer returns the player whose turn it is, or nil.
func (m *Match) CurrentPlayer() *Player {
	if m.Current < 0 || m.Current >= len(m.Players) {
		return nil
	}
	return m.Players[m.Current]
}

// PlayerIndex returns the index of the player with the given nickname, or -1.
func (m *Match) PlayerIndex(nickname string) int {
	for i, p := range m.Players {
		if p.Nickname == nickname {
			return i
		}
	}
	return -1
}

// ProfessorsOf returns the colors whose professor is held by player i.
func (m *Match) ProfessorsOf(i int) []Color {
	var out []Color
	for c, owner := range m.Professors {
		if owner == i {
			out = append(out, Color(c))
		}
	}
	return out
}

// Leader returns the player holding the supply of the given tower color.
func (m *Match) Leader(tower TowerColor) *Player {
	for _, p := range m.Players {
		if p.Tower == tower && p.Leader {
			return p
		}
	}
	return nil
}

// TowersPlaced counts the towers of the given color standing on islands.
func (m *Match) TowersPlaced(tower TowerColor) int {
	leader := m.Leader(tower)
	if leader == nil {
		return 0
	}
	return m.Variant.TowerCapacity - leader.Towers
}

// Over reports whether the match has ended.
func (m *Match) Over() bool {
	return m.Stage == StageGameOver
}

func (m *Match) towerColors() []TowerColor {
	var out []TowerColor
	seen := map[TowerColor]bool{}
	for _, p := range m.Players {
		if !seen[p.Tower] {
			seen[p.Tower] = true
			out = append(out, p.Tower)
		}
	}
	return out
}

// computeActionOrder sorts players by the priority of the assistant they played, keeping
// the planning order for equal priorities.
func (m *Match) computeActionOrder() {
	order := append([]int(nil), m.PlanningOrder...)
	sort.SliceStable(order, func(a, b int) bool {
		return m.Players[order[a]].Played.Priority < m.Players[order[b]].Played.Priority
	})
	m.ActionOrder = order
}

func (m *Match) endRound() error {
	if err := m.fire(onRoundEnded); err != nil {
		return err
	}
	if m.gameOverReached() {
		m.decideWinner()
		m.Current = -1
		return m.fire(onGameOver)
	}

	first := m.ActionOrder[0]
	m.PlanningOrder = m.PlanningOrder[:0]
	for i := 0; i < len(m.Players); i++ {
		m.PlanningOrder = append(m.PlanningOrder, (first+i)%len(m.Players))
	}
	for _, p := range m.Players {
		p.Played = nil
	}
	m.turnIndex = 0
	m.Current = m.PlanningOrder[0]
	m.Round++
	return m.fire(onNextRound)
}

func (m *Match) gameOverReached() bool {
	if m.LastRound || len(m.Islands) <= 3 {
		return true
	}
	for _, p := range m.Players {
		if p.Leader && p.Towers == 0 {
			return true
		}
		if len(p.Assistants) == 0 {
			return true
		}
	}
	return false
}

// decideWinner picks the tower color with the most towers placed; a tie is a draw.
func (m *Match) decideWinner() {
	best, tie := -1, false
	winner := TowerNone
	for _, tower := range m.towerColors() {
		placed := m.TowersPlaced(tower)
		switch {
		case placed > best:
			best, winner, tie = placed, tower, false
		case placed == best:
			tie = true
		}
	}
	if tie {
		m.Winner, m.Draw = TowerNone, true
		return
	}
	m.Winner, m.Draw = winner, false
}
