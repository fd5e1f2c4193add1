package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func towerFor(players, seat int) TowerColor {
	if players == 4 {
		return TowerColors[seat%2]
	}
	return TowerColors[seat]
}

func newFullMatch(t *testing.T, players int, expert bool, seed int64) *Match {
	t.Helper()
	m, err := NewMatch(Options{Players: players, Expert: expert, Rand: rand.New(rand.NewSource(seed))})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	for i := 0; i < players; i++ {
		if err := m.AddPlayer(fmt.Sprintf("p%d", i), Wizards[i], towerFor(players, i)); err != nil {
			t.Fatalf("add player %d: %v", i, err)
		}
	}
	return m
}

func newPreparedMatch(t *testing.T, players int, expert bool) *Match {
	t.Helper()
	m := newFullMatch(t, players, expert, 7)
	if err := m.Preparation(); err != nil {
		t.Fatalf("preparation: %v", err)
	}
	return m
}

func TestPreparation(t *testing.T) {
	for _, players := range []int{2, 3, 4} {
		players := players
		t.Run(fmt.Sprintf("%d players", players), func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				m := newFullMatch(t, players, false, seed)
				if err := m.Preparation(); err != nil {
					t.Fatalf("preparation: %v", err)
				}
				variant, _ := NewVariant(players)

				if len(m.Islands) != IslandCount {
					t.Fatalf("islands = %d, want %d", len(m.Islands), IslandCount)
				}
				if len(m.Clouds) != variant.CloudCount {
					t.Fatalf("clouds = %d, want %d", len(m.Clouds), variant.CloudCount)
				}
				antipode := (m.MotherNature + IslandCount/2) % IslandCount
				onIslands := 0
				for i, island := range m.Islands {
					n := island.Students.Total()
					onIslands += n
					if (i == m.MotherNature || i == antipode) && n != 0 {
						t.Fatalf("seed %d: island %d holds %d students, want 0", seed, i, n)
					}
					if i != m.MotherNature && i != antipode && n != 1 {
						t.Fatalf("seed %d: island %d holds %d students, want 1", seed, i, n)
					}
				}
				if onIslands != 10 {
					t.Fatalf("students on islands = %d, want 10", onIslands)
				}
				wantBag := NumColors*StudentsPerColor - 10 - players*variant.EntranceCapacity
				if m.Bag.Total() != wantBag {
					t.Fatalf("bag = %d, want %d", m.Bag.Total(), wantBag)
				}
				for _, p := range m.Players {
					if p.Board.Entrance.Total() != variant.EntranceCapacity {
						t.Fatalf("%s entrance = %d, want %d", p.Nickname, p.Board.Entrance.Total(), variant.EntranceCapacity)
					}
					if len(p.Assistants) != 10 {
						t.Fatalf("%s assistants = %d, want 10", p.Nickname, len(p.Assistants))
					}
				}
				if m.Stage != StagePlanningPlayAssistants {
					t.Fatalf("stage = %s, want %s", m.Stage, StagePlanningPlayAssistants)
				}
				if m.CurrentPlayer() == nil {
					t.Fatalf("no current player after preparation")
				}
			}
		})
	}
}

func TestPreparationAssignsLeaders(t *testing.T) {
	m := newPreparedMatch(t, 4, false)
	wantLeader := []bool{true, true, false, false}
	for i, p := range m.Players {
		if p.Leader != wantLeader[i] {
			t.Fatalf("%s leader = %t, want %t", p.Nickname, p.Leader, wantLeader[i])
		}
		wantTowers := 0
		if p.Leader {
			wantTowers = m.Variant.TowerCapacity
		}
		if p.Towers != wantTowers {
			t.Fatalf("%s towers = %d, want %d", p.Nickname, p.Towers, wantTowers)
		}
	}

	m3 := newPreparedMatch(t, 3, false)
	for _, p := range m3.Players {
		if !p.Leader || p.Towers != 6 {
			t.Fatalf("%s leader=%t towers=%d, want leader with 6 towers", p.Nickname, p.Leader, p.Towers)
		}
	}
}

func TestPreparationExpertBank(t *testing.T) {
	m := newPreparedMatch(t, 3, true)
	if m.Bank != TotalCoins-3 {
		t.Fatalf("bank = %d, want %d", m.Bank, TotalCoins-3)
	}
	if len(m.Characters) != 3 {
		t.Fatalf("characters = %d, want 3", len(m.Characters))
	}
	for _, p := range m.Players {
		if p.Coins != 1 {
			t.Fatalf("%s coins = %d, want 1", p.Nickname, p.Coins)
		}
	}
}

func TestAddPlayerConflicts(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		wizard   Wizard
		tower    TowerColor
		want     error
	}{
		{name: "empty nickname", nickname: "", wizard: WizardPixie, tower: TowerBlack, want: ErrEmptyNickname},
		{name: "duplicate nickname", nickname: "alice", wizard: WizardPixie, tower: TowerBlack, want: ErrDuplicateNickname},
		{name: "duplicate wizard", nickname: "bob", wizard: WizardKing, tower: TowerBlack, want: ErrDuplicateWizard},
		{name: "duplicate tower", nickname: "bob", wizard: WizardPixie, tower: TowerWhite, want: ErrDuplicateTower},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatch(Options{Players: 3})
			if err != nil {
				t.Fatalf("new match: %v", err)
			}
			if err := m.AddPlayer("alice", WizardKing, TowerWhite); err != nil {
				t.Fatalf("add alice: %v", err)
			}
			err = m.AddPlayer(tt.nickname, tt.wizard, tt.tower)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AddPlayer() error = %v, want %v", err, tt.want)
			}
			if len(m.Players) != 1 {
				t.Fatalf("players = %d, want 1", len(m.Players))
			}
		})
	}
}

func TestAddPlayerTeams(t *testing.T) {
	m, _ := NewMatch(Options{Players: 4})
	steps := []struct {
		nickname string
		wizard   Wizard
		tower    TowerColor
		want     error
	}{
		{"a", WizardKing, TowerWhite, nil},
		{"b", WizardPixie, TowerBlack, nil},
		{"c", WizardSorcerer, TowerGrey, ErrDuplicateTower},
		{"c", WizardSorcerer, TowerWhite, nil},
		{"d", WizardWizard, TowerWhite, ErrDuplicateTower},
		{"d", WizardWizard, TowerBlack, nil},
	}
	for _, s := range steps {
		if err := m.AddPlayer(s.nickname, s.wizard, s.tower); !errors.Is(err, s.want) {
			t.Fatalf("AddPlayer(%s, %s) error = %v, want %v", s.nickname, s.tower, err, s.want)
		}
	}
	if m.Stage != StagePreparation {
		t.Fatalf("stage = %s, want %s", m.Stage, StagePreparation)
	}
}

func TestAddPlayerBeyondCap(t *testing.T) {
	m := newFullMatch(t, 2, false, 1)
	err := m.AddPlayer("late", WizardSorcerer, TowerGrey)
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("AddPlayer() error = %v, want %v", err, ErrOutOfOrder)
	}
	if len(m.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(m.Players))
	}
}

func TestPreparationBeforeCap(t *testing.T) {
	m, _ := NewMatch(Options{Players: 3})
	if err := m.Preparation(); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("Preparation() on empty match error = %v, want %v", err, ErrOutOfOrder)
	}
	_ = m.AddPlayer("a", WizardKing, TowerWhite)
	_ = m.AddPlayer("b", WizardPixie, TowerBlack)
	if err := m.Preparation(); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("Preparation() with 2/3 players error = %v, want %v", err, ErrOutOfOrder)
	}
	if m.Islands != nil {
		t.Fatalf("islands created before preparation")
	}
}

func TestFillClouds(t *testing.T) {
	for _, players := range []int{2, 3, 4} {
		m := newPreparedMatch(t, players, false)
		m.Stage = StagePlanningFillClouds
		bag := m.Bag.Total()
		if err := m.FillClouds(); err != nil {
			t.Fatalf("fill clouds: %v", err)
		}
		for i, c := range m.Clouds {
			if c.Students.Total() != m.Variant.StudentsPerCloud {
				t.Fatalf("%d players: cloud %d holds %d, want %d", players, i, c.Students.Total(), m.Variant.StudentsPerCloud)
			}
		}
		if got, want := m.Bag.Total(), bag-len(m.Clouds)*m.Variant.StudentsPerCloud; got != want {
			t.Fatalf("bag = %d, want %d", got, want)
		}
		if m.Stage != StageActionMoveStudents {
			t.Fatalf("stage = %s, want %s", m.Stage, StageActionMoveStudents)
		}
	}
}

func TestFillCloudsShortBagFlagsLastRound(t *testing.T) {
	m := newPreparedMatch(t, 2, false)
	m.Stage = StagePlanningFillClouds
	m.Bag = Students{Green: 2, Red: 3}
	if err := m.FillClouds(); err != nil {
		t.Fatalf("fill clouds: %v", err)
	}
	if !m.LastRound {
		t.Fatalf("expected last round flag")
	}
	for i, c := range m.Clouds {
		if !c.Empty() {
			t.Fatalf("cloud %d filled from a short bag", i)
		}
	}
	if m.Bag.Total() != 5 {
		t.Fatalf("bag = %d, want 5", m.Bag.Total())
	}
}

func TestFillCloudsOutOfOrder(t *testing.T) {
	m := newPreparedMatch(t, 2, false)
	if err := m.FillClouds(); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("FillClouds() error = %v, want %v", err, ErrOutOfOrder)
	}
}

func TestDecideWinner(t *testing.T) {
	m := newPreparedMatch(t, 2, false)
	m.Players[0].Towers = 5
	m.Players[1].Towers = 6
	m.decideWinner()
	if m.Draw || m.Winner != m.Players[0].Tower {
		t.Fatalf("winner = %q draw=%t, want %q", m.Winner, m.Draw, m.Players[0].Tower)
	}

	m.Players[1].Towers = 5
	m.decideWinner()
	if !m.Draw || m.Winner != TowerNone {
		t.Fatalf("winner = %q draw=%t, want draw", m.Winner, m.Draw)
	}
}
