package domain

import (
	"fmt"
	"strings"
)

// Color is the color of a student or of the professor that rules it.
type Color int

const (
	Green Color = iota
	Red
	Yellow
	Pink
	Blue
)

// NumColors is the number of student colors.
const NumColors = 5

var colorNames = [NumColors]string{"GREEN", "RED", "YELLOW", "PINK", "BLUE"}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c is one of the five student colors.
func (c Color) Valid() bool {
	return c >= 0 && c < NumColors
}

// ParseColor resolves a color name, case-insensitively.
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if strings.EqualFold(name, s) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// AllColors returns the colors in their canonical order.
func AllColors() []Color {
	return []Color{Green, Red, Yellow, Pink, Blue}
}

// Students is a multiset of students indexed by color.
type Students [NumColors]int

// Total returns the number of students in the set.
func (s Students) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// Add merges other into s.
func (s *Students) Add(other Students) {
	for i := range s {
		s[i] += other[i]
	}
}

// TowerColor identifies a player's (or a team's) towers.
type TowerColor string

const (
	TowerNone  TowerColor = ""
	TowerWhite TowerColor = "WHITE"
	TowerBlack TowerColor = "BLACK"
	TowerGrey  TowerColor = "GREY"
)

// TowerColors lists the selectable tower colors.
var TowerColors = []TowerColor{TowerWhite, TowerBlack, TowerGrey}

// ParseTowerColor resolves a tower color name.
func ParseTowerColor(s string) (TowerColor, error) {
	for _, t := range TowerColors {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return TowerNone, fmt.Errorf("unknown tower color %q", s)
}

// Wizard is the identity printed on the back of a player's assistant deck.
type Wizard string

const (
	WizardKing     Wizard = "KING"
	WizardPixie    Wizard = "PIXIE"
	WizardSorcerer Wizard = "SORCERER"
	WizardWizard   Wizard = "WIZARD"
)

// Wizards lists the selectable wizards.
var Wizards = []Wizard{WizardKing, WizardPixie, WizardSorcerer, WizardWizard}

// ParseWizard resolves a wizard name.
func ParseWizard(s string) (Wizard, error) {
	for _, w := range Wizards {
		if strings.EqualFold(string(w), s) {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown wizard %q", s)
}

// Assistant is a planning card. Lower priority acts first; movement caps mother nature.
type Assistant struct {
	Priority int
	Movement int
}

// NewAssistantDeck returns the ten assistants every player starts with.
func NewAssistantDeck() []Assistant {
	deck := make([]Assistant, 0, 10)
	for p := 1; p <= 10; p++ {
		deck = append(deck, Assistant{Priority: p, Movement: (p + 1) / 2})
	}
	return deck
}

// Board is a player's personal school board.
type Board struct {
	Entrance Students
	Hall     Students
}

// Player holds the domain state for a participant in a match.
type Player struct {
	Nickname   string
	Wizard     Wizard
	Tower      TowerColor
	Seat       int // 0-based seat, also the original seating order
	Board      Board
	Assistants []Assistant
	Played     *Assistant // assistant played in the current round, nil before planning
	Coins      int
	Leader     bool // only leaders count towers for influence and hold the tower supply
	Towers     int  // towers left in the supply
}

// HasAssistant reports whether the assistant with the given priority is still in hand.
func (p *Player) HasAssistant(priority int) bool {
	for _, a := range p.Assistants {
		if a.Priority == priority {
			return true
		}
	}
	return false
}

func (p *Player) removeAssistant(priority int) Assistant {
	for i, a := range p.Assistants {
		if a.Priority == priority {
			p.Assistants = append(p.Assistants[:i], p.Assistants[i+1:]...)
			return a
		}
	}
	return Assistant{}
}

// Island is a position on the ring. Merged islands keep the accumulated Size.
type Island struct {
	Index    int
	Students Students
	Tower    TowerColor
	Towers   int
	NoEntry  int // no-entry tiles; a landing consumes one instead of scoring
	Size     int
}

// Blocked reports whether the island holds at least one no-entry tile.
func (i *Island) Blocked() bool {
	return i.NoEntry > 0
}

// Cloud is refilled from the bag once per round and emptied by a single pick.
type Cloud struct {
	Students Students
	Capacity int
}

// Empty reports whether the cloud holds no students.
func (c *Cloud) Empty() bool {
	return c.Students.Total() == 0
}
