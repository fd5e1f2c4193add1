package domain

import (
	"errors"
	"testing"
)

// expertActionMatch returns a two-player expert match in ACTION_MOVE_STUDENTS with the
// given characters on the table and plenty of coins for the current player.
func expertActionMatch(t *testing.T, kinds ...CharacterKind) (*Match, *Player) {
	t.Helper()
	m := newPreparedMatch(t, 2, true)
	m.Characters = nil
	for _, k := range kinds {
		m.Characters = append(m.Characters, &Character{Kind: k, Cost: characterCosts[k]})
	}
	playPlanning(t, m, 1, 2)
	p := m.CurrentPlayer()
	p.Coins = 10
	return m, p
}

func TestPlayCharacterPaysAndRaisesCost(t *testing.T) {
	m, p := expertActionMatch(t, Knight)
	bank := m.Bank
	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Knight}); err != nil {
		t.Fatalf("play knight: %v", err)
	}
	if p.Coins != 8 || m.Bank != bank+2 {
		t.Fatalf("coins = %d bank = %d, want 8 and %d", p.Coins, m.Bank, bank+2)
	}
	card := m.character(Knight)
	if !card.Used || card.Cost != 3 {
		t.Fatalf("knight = %+v, want used with cost 3", card)
	}
	if m.Turn.Effect.Bonus != 2 {
		t.Fatalf("bonus = %d, want 2", m.Turn.Effect.Bonus)
	}

	err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Knight})
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("second character error = %v, want %v", err, ErrIllegalMove)
	}
}

func TestPlayCharacterRejections(t *testing.T) {
	t.Run("standard match", func(t *testing.T) {
		m := newPreparedMatch(t, 2, false)
		playPlanning(t, m, 1, 2)
		err := m.Apply(Move{Kind: MovePlayCharacter, Player: m.CurrentPlayer().Nickname, Character: Knight})
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("error = %v, want %v", err, ErrIllegalMove)
		}
	})
	t.Run("not on table", func(t *testing.T) {
		m, p := expertActionMatch(t, Knight)
		err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Farmer})
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("error = %v, want %v", err, ErrIllegalMove)
		}
	})
	t.Run("too poor", func(t *testing.T) {
		m, p := expertActionMatch(t, Centaur)
		p.Coins = 2
		bank := m.Bank
		err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Centaur})
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("error = %v, want %v", err, ErrIllegalMove)
		}
		if p.Coins != 2 || m.Bank != bank || m.Turn.CharacterPlayed {
			t.Fatalf("rejected character changed the match")
		}
	})
	t.Run("herbalist without tiles", func(t *testing.T) {
		m, p := expertActionMatch(t, Herbalist)
		m.NoEntryTiles = 0
		err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Herbalist, Island: 1})
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("error = %v, want %v", err, ErrIllegalMove)
		}
	})
}

func TestPostmanExtendsMotherNature(t *testing.T) {
	m, p := expertActionMatch(t, Postman)
	// Assistant 1 moves one step; the postman adds two.
	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Postman}); err != nil {
		t.Fatalf("play postman: %v", err)
	}
	p.Board.Entrance = Students{Green: 3}
	for i := 0; i < 3; i++ {
		if err := m.Apply(Move{Kind: MoveStudentToIsland, Player: p.Nickname, Color: Green, Island: 0}); err != nil {
			t.Fatalf("move student: %v", err)
		}
	}
	if err := m.Apply(Move{Kind: MoveMotherNature, Player: p.Nickname, Steps: 3}); err != nil {
		t.Fatalf("move three steps with postman: %v", err)
	}
}

func TestHeraldResolvesIsland(t *testing.T) {
	m, p := expertActionMatch(t, Herald)
	idx := m.PlayerIndex(p.Nickname)
	m.Professors[Red] = idx
	m.Islands[5].Students = Students{Red: 2}
	mn := m.MotherNature
	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Herald, Island: 5}); err != nil {
		t.Fatalf("play herald: %v", err)
	}
	if m.MotherNature != mn {
		t.Fatalf("herald moved mother nature from %d to %d", mn, m.MotherNature)
	}
	found := false
	for _, island := range m.Islands {
		if island.Tower == p.Tower {
			found = true
		}
	}
	if !found {
		t.Fatalf("herald did not place a %s tower", p.Tower)
	}
}

func TestHerbalistBlocksIsland(t *testing.T) {
	m, p := expertActionMatch(t, Herbalist)
	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Herbalist, Island: 4}); err != nil {
		t.Fatalf("play herbalist: %v", err)
	}
	if !m.Islands[4].Blocked() || m.NoEntryTiles != NoEntryTiles-1 {
		t.Fatalf("island 4 no-entry = %d, tiles left = %d", m.Islands[4].NoEntry, m.NoEntryTiles)
	}
}

func TestFarmerWinsProfessorTies(t *testing.T) {
	m, p := expertActionMatch(t, Farmer)
	idx := m.PlayerIndex(p.Nickname)
	other := 1 - idx
	m.Players[other].Board.Hall[Yellow] = 2
	m.Professors[Yellow] = other
	p.Board.Hall[Yellow] = 2

	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Farmer}); err != nil {
		t.Fatalf("play farmer: %v", err)
	}
	if m.Professors[Yellow] != idx {
		t.Fatalf("yellow professor = %d, want %d", m.Professors[Yellow], idx)
	}
}

func TestCentaurAndMushroomHunter(t *testing.T) {
	m, p := expertActionMatch(t, Centaur, MushroomHunter)
	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: MushroomHunter, Color: Blue}); err != nil {
		t.Fatalf("play mushroom hunter: %v", err)
	}
	if _, ok := m.influenceRule().(IgnoreStudentInfluence); !ok {
		t.Fatalf("rule = %T, want IgnoreStudentInfluence", m.influenceRule())
	}

	m.Turn = TurnState{}
	if err := m.Apply(Move{Kind: MovePlayCharacter, Player: p.Nickname, Character: Centaur}); err != nil {
		t.Fatalf("play centaur: %v", err)
	}
	if _, ok := m.influenceRule().(IgnoreTowerInfluence); !ok {
		t.Fatalf("rule = %T, want IgnoreTowerInfluence", m.influenceRule())
	}
}
