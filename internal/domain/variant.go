package domain

import "fmt"

// Per-variant parameters, indexed by players-2.
var (
	entranceCapacity = [3]int{7, 9, 7}
	towerCapacity    = [3]int{8, 6, 8}
	cloudCount       = [3]int{2, 3, 4}
	studentsPerCloud = [3]int{3, 4, 3}
	exodusSize       = [3]int{3, 4, 3}
)

// Variant holds the numeric parameters of a 2, 3 or 4 player match.
type Variant struct {
	Players          int
	EntranceCapacity int
	TowerCapacity    int
	CloudCount       int
	StudentsPerCloud int
	ExodusSize       int // students moved out of the entrance each turn
}

// NewVariant returns the configuration for the given player count.
func NewVariant(players int) (Variant, error) {
	if players < 2 || players > 4 {
		return Variant{}, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, players)
	}
	i := players - 2
	return Variant{
		Players:          players,
		EntranceCapacity: entranceCapacity[i],
		TowerCapacity:    towerCapacity[i],
		CloudCount:       cloudCount[i],
		StudentsPerCloud: studentsPerCloud[i],
		ExodusSize:       exodusSize[i],
	}, nil
}

// TeamSize is the number of players sharing one tower color.
func (v Variant) TeamSize() int {
	if v.Players == 4 {
		return 2
	}
	return 1
}
