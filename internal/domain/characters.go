package domain

import (
	"fmt"
	"math/rand"
	"strings"
)

// CharacterKind identifies a character card of the expert variant.
type CharacterKind string

const (
	Centaur        CharacterKind = "CENTAUR"
	MushroomHunter CharacterKind = "MUSHROOM_HUNTER"
	Knight         CharacterKind = "KNIGHT"
	Postman        CharacterKind = "POSTMAN"
	Herald         CharacterKind = "HERALD"
	Herbalist      CharacterKind = "HERBALIST"
	Farmer         CharacterKind = "FARMER"
)

var characterCosts = map[CharacterKind]int{
	Centaur:        3,
	MushroomHunter: 3,
	Knight:         2,
	Postman:        1,
	Herald:         3,
	Herbalist:      2,
	Farmer:         2,
}

// AllCharacters returns every implemented character in a stable order.
func AllCharacters() []CharacterKind {
	return []CharacterKind{Centaur, MushroomHunter, Knight, Postman, Herald, Herbalist, Farmer}
}

// ParseCharacter resolves a character name.
func ParseCharacter(s string) (CharacterKind, error) {
	k := CharacterKind(strings.ToUpper(s))
	if _, ok := characterCosts[k]; !ok {
		return "", fmt.Errorf("unknown character %q", s)
	}
	return k, nil
}

// Character is a card on the table. Its cost grows by one after the first use.
type Character struct {
	Kind CharacterKind
	Cost int
	Used bool
}

// Effect collects the modifiers active for the rest of the current turn.
type Effect struct {
	IgnoreTowers bool
	IgnoreColor  bool
	Color        Color
	Bonus        int
	ExtraSteps   int
	WinTies      bool
}

func drawCharacters(rng *rand.Rand, pool []CharacterKind, n int) []*Character {
	kinds := append([]CharacterKind(nil), pool...)
	rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })
	if len(kinds) > n {
		kinds = kinds[:n]
	}
	out := make([]*Character, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, &Character{Kind: k, Cost: characterCosts[k]})
	}
	return out
}

func (m *Match) character(kind CharacterKind) *Character {
	for _, c := range m.Characters {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

func (m *Match) playCharacter(p *Player, mv Move) error {
	if !m.Expert {
		return illegal("characters are only available in expert matches")
	}
	if m.Turn.CharacterPlayed {
		return illegal("a character was already played this turn")
	}
	card := m.character(mv.Character)
	if card == nil {
		return illegal("character %s is not on the table", mv.Character)
	}
	if p.Coins < card.Cost {
		return illegal("%s costs %d coins, %s has %d", card.Kind, card.Cost, p.Nickname, p.Coins)
	}
	switch card.Kind {
	case MushroomHunter:
		if !mv.Color.Valid() {
			return illegal("invalid color %d", mv.Color)
		}
	case Herald, Herbalist:
		if mv.Island < 0 || mv.Island >= len(m.Islands) {
			return illegal("island %d does not exist", mv.Island)
		}
		if card.Kind == Herbalist && m.NoEntryTiles == 0 {
			return illegal("no no-entry tile left")
		}
	}

	p.Coins -= card.Cost
	m.Bank += card.Cost
	if !card.Used {
		card.Used = true
		card.Cost++
	}
	m.Turn.CharacterPlayed = true

	switch card.Kind {
	case Centaur:
		m.Turn.Effect.IgnoreTowers = true
	case MushroomHunter:
		m.Turn.Effect.IgnoreColor = true
		m.Turn.Effect.Color = mv.Color
	case Knight:
		m.Turn.Effect.Bonus = 2
	case Postman:
		m.Turn.Effect.ExtraSteps = 2
	case Herald:
		m.resolveIsland(mv.Island)
	case Herbalist:
		m.Islands[mv.Island].NoEntry++
		m.NoEntryTiles--
	case Farmer:
		m.Turn.Effect.WinTies = true
		for _, c := range AllColors() {
			m.updateProfessor(c)
		}
	}
	return nil
}
