package domain

// resolveIsland scores island idx and hands it to the team with strictly the highest
// influence. A no-entry tile on the island absorbs the resolution instead.
func (m *Match) resolveIsland(idx int) {
	island := m.Islands[idx]
	if island.Blocked() {
		island.NoEntry--
		m.NoEntryTiles++
		return
	}

	scores := m.teamInfluence(island)
	winner, best, tie := TowerNone, -1, false
	for _, tower := range m.towerColors() {
		score, ok := scores[tower]
		if !ok {
			continue
		}
		switch {
		case score > best:
			winner, best, tie = tower, score, false
		case score == best:
			tie = true
		}
	}
	if tie || best <= 0 || winner == island.Tower {
		return
	}

	m.placeTowers(island, winner)
	m.mergeAround(idx)
}

// teamInfluence sums the influence of every professor holder per tower color using the
// rule selected by the active character effect. Teams without a professor are absent.
func (m *Match) teamInfluence(island *Island) map[TowerColor]int {
	rule := m.influenceRule()
	scores := make(map[TowerColor]int, len(m.Players))
	for i, p := range m.Players {
		professors := m.ProfessorsOf(i)
		if len(professors) == 0 {
			continue
		}
		r := rule
		if i == m.Current {
			r = WithBonus(rule, m.Turn.Effect.Bonus)
		}
		scores[p.Tower] += r.Influence(island, p, professors)
	}
	return scores
}

func (m *Match) influenceRule() InfluenceRule {
	switch e := m.Turn.Effect; {
	case e.IgnoreTowers:
		return IgnoreTowerInfluence{}
	case e.IgnoreColor:
		return IgnoreStudentInfluence{Color: e.Color}
	default:
		return Standard{}
	}
}

// placeTowers swaps the towers on island for the winner's, returning the previous ones to
// their owner's supply.
func (m *Match) placeTowers(island *Island, winner TowerColor) {
	if island.Tower != TowerNone {
		if prev := m.Leader(island.Tower); prev != nil {
			prev.Towers += island.Towers
		}
	}
	n := 0
	if leader := m.Leader(winner); leader != nil {
		n = min(island.Size, leader.Towers)
		leader.Towers -= n
	}
	island.Tower = winner
	island.Towers = n
}

// mergeAround merges island idx with neighbors that share its tower color until none is
// left, returning the index of the merged island.
func (m *Match) mergeAround(idx int) int {
	for len(m.Islands) > 1 {
		tower := m.Islands[idx].Tower
		if tower == TowerNone {
			return idx
		}
		next := (idx + 1) % len(m.Islands)
		prev := (idx - 1 + len(m.Islands)) % len(m.Islands)
		switch {
		case m.Islands[next].Tower == tower:
			idx = m.mergeIslands(idx, next)
		case m.Islands[prev].Tower == tower:
			idx = m.mergeIslands(prev, idx)
		default:
			return idx
		}
	}
	return idx
}

// mergeIslands folds island b into its ring predecessor a and returns a's new index.
// Mother nature follows the merged island.
func (m *Match) mergeIslands(a, b int) int {
	dst, src := m.Islands[a], m.Islands[b]
	dst.Students.Add(src.Students)
	dst.Towers += src.Towers
	dst.NoEntry += src.NoEntry
	dst.Size += src.Size

	m.Islands = append(m.Islands[:b], m.Islands[b+1:]...)
	if b < a {
		a--
	}
	switch {
	case m.MotherNature == b:
		m.MotherNature = a
	case m.MotherNature > b:
		m.MotherNature--
	}
	for i, island := range m.Islands {
		island.Index = i
	}
	return a
}
