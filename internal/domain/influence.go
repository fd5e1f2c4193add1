package domain

// InfluenceRule computes a player's influence over an island. professors are the colors
// whose professor the player holds.
type InfluenceRule interface {
	Influence(island *Island, player *Player, professors []Color) int
}

// Standard counts towers (leaders only) plus students of every owned professor color.
type Standard struct{}

func (Standard) Influence(island *Island, player *Player, professors []Color) int {
	return towerInfluence(island, player) + studentInfluence(island, professors, nil)
}

// IgnoreStudentInfluence is Standard with one color never counting.
type IgnoreStudentInfluence struct {
	Color Color
}

func (r IgnoreStudentInfluence) Influence(island *Island, player *Player, professors []Color) int {
	skip := func(c Color) bool { return c == r.Color }
	return towerInfluence(island, player) + studentInfluence(island, professors, skip)
}

// IgnoreTowerInfluence counts students only.
type IgnoreTowerInfluence struct{}

func (IgnoreTowerInfluence) Influence(island *Island, player *Player, professors []Color) int {
	return studentInfluence(island, professors, nil)
}

type bonusRule struct {
	base  InfluenceRule
	bonus int
}

func (r bonusRule) Influence(island *Island, player *Player, professors []Color) int {
	return r.base.Influence(island, player, professors) + r.bonus
}

// WithBonus adds a flat bonus on top of rule.
func WithBonus(rule InfluenceRule, bonus int) InfluenceRule {
	if bonus == 0 {
		return rule
	}
	return bonusRule{base: rule, bonus: bonus}
}

func towerInfluence(island *Island, player *Player) int {
	if island.Tower == TowerNone || island.Tower != player.Tower || !player.Leader {
		return 0
	}
	return island.Towers
}

func studentInfluence(island *Island, professors []Color, skip func(Color) bool) int {
	n := 0
	for _, c := range professors {
		if skip != nil && skip(c) {
			continue
		}
		n += island.Students[c]
	}
	return n
}
