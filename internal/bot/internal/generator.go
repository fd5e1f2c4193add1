package internal

import (
	"eriantys/internal/domain"
)

// Candidates returns every move player p may legally attempt in the current stage. The
// list is never empty while p is the current player of a running match.
func Candidates(m *domain.Match, p *domain.Player) []domain.Move {
	var moves []domain.Move
	switch m.Stage {
	case domain.StagePlanningPlayAssistants:
		moves = assistantMoves(m, p)
	case domain.StageActionMoveStudents:
		moves = studentMoves(m, p)
	case domain.StageActionMoveMotherNature:
		limit := p.Played.Movement + m.Turn.Effect.ExtraSteps
		for steps := 1; steps <= limit; steps++ {
			moves = append(moves, domain.Move{Kind: domain.MoveMotherNature, Player: p.Nickname, Steps: steps})
		}
	case domain.StageActionTakeStudentsFromCloud:
		for i, c := range m.Clouds {
			if !c.Empty() {
				moves = append(moves, domain.Move{Kind: domain.MovePickCloud, Player: p.Nickname, Cloud: i})
			}
		}
	case domain.StageActionEndTurn:
		moves = append(moves, domain.Move{Kind: domain.MoveEndTurn, Player: p.Nickname})
	}
	if domain.MovePlayCharacter.LegalIn(m.Stage) {
		moves = append(moves, characterMoves(m, p)...)
	}
	return moves
}

func assistantMoves(m *domain.Match, p *domain.Player) []domain.Move {
	taken := map[int]bool{}
	for _, other := range m.Players {
		if other.Played != nil {
			taken[other.Played.Priority] = true
		}
	}
	var fresh, all []domain.Move
	for _, a := range p.Assistants {
		mv := domain.Move{Kind: domain.MovePlayAssistant, Player: p.Nickname, Assistant: a.Priority}
		all = append(all, mv)
		if !taken[a.Priority] {
			fresh = append(fresh, mv)
		}
	}
	if len(fresh) > 0 {
		return fresh
	}
	return all
}

func studentMoves(m *domain.Match, p *domain.Player) []domain.Move {
	var moves []domain.Move
	for _, c := range domain.AllColors() {
		if p.Board.Entrance[c] == 0 {
			continue
		}
		if p.Board.Hall[c] < domain.HallCapacity {
			moves = append(moves, domain.Move{Kind: domain.MoveStudentToHall, Player: p.Nickname, Color: c})
		}
		for i := range m.Islands {
			moves = append(moves, domain.Move{Kind: domain.MoveStudentToIsland, Player: p.Nickname, Color: c, Island: i})
		}
	}
	return moves
}

func characterMoves(m *domain.Match, p *domain.Player) []domain.Move {
	if !m.Expert || m.Turn.CharacterPlayed {
		return nil
	}
	var moves []domain.Move
	for _, card := range m.Characters {
		if p.Coins < card.Cost {
			continue
		}
		base := domain.Move{Kind: domain.MovePlayCharacter, Player: p.Nickname, Character: card.Kind}
		switch card.Kind {
		case domain.MushroomHunter:
			for _, c := range domain.AllColors() {
				mv := base
				mv.Color = c
				moves = append(moves, mv)
			}
		case domain.Herald, domain.Herbalist:
			if card.Kind == domain.Herbalist && m.NoEntryTiles == 0 {
				continue
			}
			for i := range m.Islands {
				mv := base
				mv.Island = i
				moves = append(moves, mv)
			}
		default:
			moves = append(moves, base)
		}
	}
	return moves
}
