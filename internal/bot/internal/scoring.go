package internal

import "eriantys/internal/domain"

// Weights tune how a greedy bot values each kind of move.
type Weights struct {
	LowAssistant    float64 // per priority point saved
	AssistantSteps  float64 // per step of mother nature movement
	HallStudent     float64
	HallCoin        float64
	ProfessorGain   float64
	IslandStudent   float64 // student of an owned professor color onto an island
	OwnIsland       float64 // student onto an island already carrying our towers
	InfluenceMargin float64
	TowerGain       float64
	StepPenalty     float64
	CloudStudent    float64
	CharacterUse    float64 // per coin left after paying
}

// ScoredMove holds a candidate with its computed score.
type ScoredMove struct {
	Move  domain.Move
	Score float64
}

// ScoreMoves scores every candidate for p.
func ScoreMoves(m *domain.Match, p *domain.Player, moves []domain.Move, w Weights) []ScoredMove {
	out := make([]ScoredMove, 0, len(moves))
	for _, mv := range moves {
		out = append(out, ScoredMove{Move: mv, Score: Score(m, p, mv, w)})
	}
	return out
}

// Score rates one move from p's point of view without applying it.
func Score(m *domain.Match, p *domain.Player, mv domain.Move, w Weights) float64 {
	seat := m.PlayerIndex(p.Nickname)
	switch mv.Kind {
	case domain.MovePlayAssistant:
		movement := (mv.Assistant + 1) / 2
		return float64(10-mv.Assistant)*w.LowAssistant + float64(movement)*w.AssistantSteps
	case domain.MoveStudentToHall:
		score := w.HallStudent
		seated := p.Board.Hall[mv.Color] + 1
		if m.Expert && seated%3 == 0 && m.Bank > 0 {
			score += w.HallCoin
		}
		if owner := m.Professors[mv.Color]; owner != seat {
			if owner < 0 || seated > m.Players[owner].Board.Hall[mv.Color] {
				score += w.ProfessorGain
			}
		}
		return score
	case domain.MoveStudentToIsland:
		score := 0.0
		if m.Professors[mv.Color] == seat {
			score += w.IslandStudent
		}
		if m.Islands[mv.Island].Tower == p.Tower {
			score += w.OwnIsland
		}
		return score
	case domain.MoveMotherNature:
		island := m.Islands[(m.MotherNature+mv.Steps)%len(m.Islands)]
		score := -float64(mv.Steps) * w.StepPenalty
		if island.Blocked() {
			return score
		}
		margin := InfluenceMargin(m, island, p.Tower)
		score += float64(margin) * w.InfluenceMargin
		if margin > 0 && island.Tower != p.Tower {
			score += w.TowerGain * float64(island.Size)
		}
		return score
	case domain.MovePickCloud:
		score := 0.0
		for _, c := range domain.AllColors() {
			n := float64(m.Clouds[mv.Cloud].Students[c])
			if m.Professors[c] == seat {
				n *= 1.5
			}
			score += n * w.CloudStudent
		}
		return score
	case domain.MovePlayCharacter:
		for _, card := range m.Characters {
			if card.Kind == mv.Character {
				return float64(p.Coins-card.Cost) * w.CharacterUse
			}
		}
	}
	return 0
}

// InfluenceMargin is tower's standard influence on island minus the best other team's.
func InfluenceMargin(m *domain.Match, island *domain.Island, tower domain.TowerColor) int {
	scores := map[domain.TowerColor]int{}
	for i, p := range m.Players {
		professors := m.ProfessorsOf(i)
		if len(professors) == 0 {
			continue
		}
		scores[p.Tower] += domain.Standard{}.Influence(island, p, professors)
	}
	best := 0
	for t, s := range scores {
		if t != tower && s > best {
			best = s
		}
	}
	return scores[tower] - best
}
