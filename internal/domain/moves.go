package domain

// Move is a player intent. Only the fields relevant to Kind are read.
type Move struct {
	Kind      MoveKind
	Player    string
	Assistant int // priority of the assistant to play
	Color     Color
	Island    int
	Steps     int
	Cloud     int
	Character CharacterKind
}

type moveHandler func(m *Match, p *Player, mv Move) error

var moveHandlers = map[MoveKind]moveHandler{
	MovePlayAssistant:   (*Match).playAssistant,
	MoveStudentToHall:   (*Match).moveStudentToHall,
	MoveStudentToIsland: (*Match).moveStudentToIsland,
	MoveMotherNature:    (*Match).moveMotherNature,
	MovePickCloud:       (*Match).pickCloud,
	MovePlayCharacter:   (*Match).playCharacter,
	MoveEndTurn:         (*Match).endTurn,
}

// Apply validates and applies a move. Any error wraps ErrIllegalMove and leaves the match
// unchanged.
func (m *Match) Apply(mv Move) error {
	handler, ok := moveHandlers[mv.Kind]
	if !ok {
		return illegal("unknown move %q", mv.Kind)
	}
	if !mv.Kind.LegalIn(m.Stage) {
		return illegal("%s not allowed during %s", mv.Kind, m.Stage)
	}
	p := m.CurrentPlayer()
	if p == nil || p.Nickname != mv.Player {
		return illegal("not %s's turn", mv.Player)
	}
	return handler(m, p, mv)
}

func (m *Match) playAssistant(p *Player, mv Move) error {
	if !p.HasAssistant(mv.Assistant) {
		return illegal("assistant %d not in hand", mv.Assistant)
	}
	taken := m.assistantsPlayedThisRound()
	if taken[mv.Assistant] {
		for _, a := range p.Assistants {
			if !taken[a.Priority] {
				return illegal("assistant %d already played this round", mv.Assistant)
			}
		}
	}

	card := p.removeAssistant(mv.Assistant)
	p.Played = &card
	m.turnIndex++
	if m.turnIndex < len(m.PlanningOrder) {
		m.Current = m.PlanningOrder[m.turnIndex]
		return nil
	}

	if err := m.fire(onAssistantsPlayed); err != nil {
		return err
	}
	if err := m.FillClouds(); err != nil {
		return err
	}
	m.computeActionOrder()
	m.turnIndex = 0
	m.Current = m.ActionOrder[0]
	m.Turn = TurnState{}
	return nil
}

func (m *Match) assistantsPlayedThisRound() map[int]bool {
	taken := map[int]bool{}
	for _, other := range m.Players {
		if other.Played != nil {
			taken[other.Played.Priority] = true
		}
	}
	return taken
}

func (m *Match) moveStudentToHall(p *Player, mv Move) error {
	if !mv.Color.Valid() || p.Board.Entrance[mv.Color] == 0 {
		return illegal("no %s student in entrance", mv.Color)
	}
	if p.Board.Hall[mv.Color] >= HallCapacity {
		return illegal("%s hall row is full", mv.Color)
	}

	p.Board.Entrance[mv.Color]--
	m.receiveInHall(p, mv.Color)
	return m.studentMoved()
}

// receiveInHall seats a student of color c in p's hall, paying the coin for every third
// seat in expert matches and re-evaluating the professor.
func (m *Match) receiveInHall(p *Player, c Color) {
	p.Board.Hall[c]++
	if m.Expert && p.Board.Hall[c]%3 == 0 && m.Bank > 0 {
		p.Coins++
		m.Bank--
	}
	m.updateProfessor(c)
}

func (m *Match) moveStudentToIsland(p *Player, mv Move) error {
	if !mv.Color.Valid() || p.Board.Entrance[mv.Color] == 0 {
		return illegal("no %s student in entrance", mv.Color)
	}
	if mv.Island < 0 || mv.Island >= len(m.Islands) {
		return illegal("island %d does not exist", mv.Island)
	}

	p.Board.Entrance[mv.Color]--
	m.Islands[mv.Island].Students[mv.Color]++
	return m.studentMoved()
}

func (m *Match) studentMoved() error {
	m.Turn.StudentsMoved++
	if m.Turn.StudentsMoved < m.Variant.ExodusSize {
		return nil
	}
	return m.fire(onStudentsMoved)
}

func (m *Match) moveMotherNature(p *Player, mv Move) error {
	limit := p.Played.Movement + m.Turn.Effect.ExtraSteps
	if mv.Steps < 1 || mv.Steps > limit {
		return illegal("mother nature can move 1 to %d steps, not %d", limit, mv.Steps)
	}

	m.MotherNature = (m.MotherNature + mv.Steps) % len(m.Islands)
	m.resolveIsland(m.MotherNature)
	for _, cloud := range m.Clouds {
		if !cloud.Empty() {
			return m.fire(onMotherNatureMoved)
		}
	}
	return m.fire(onNoCloudLeft)
}

func (m *Match) pickCloud(p *Player, mv Move) error {
	if mv.Cloud < 0 || mv.Cloud >= len(m.Clouds) {
		return illegal("cloud %d does not exist", mv.Cloud)
	}
	cloud := m.Clouds[mv.Cloud]
	if cloud.Empty() {
		return illegal("cloud %d is empty", mv.Cloud)
	}

	p.Board.Entrance.Add(cloud.Students)
	cloud.Students = Students{}
	return m.fire(onCloudPicked)
}

func (m *Match) endTurn(p *Player, _ Move) error {
	m.Turn = TurnState{}
	m.turnIndex++
	if m.turnIndex < len(m.ActionOrder) {
		m.Current = m.ActionOrder[m.turnIndex]
		return m.fire(onTurnEnded)
	}
	return m.endRound()
}

// updateProfessor hands the professor of c to whoever has strictly more students of that
// color than the holder. With the farmer active, the current player also wins ties.
func (m *Match) updateProfessor(c Color) {
	owner := m.Professors[c]
	best := 0
	if owner >= 0 {
		best = m.Players[owner].Board.Hall[c]
	}
	for i, p := range m.Players {
		if i == owner {
			continue
		}
		n := p.Board.Hall[c]
		if n > best || (n == best && n > 0 && i == m.Current && m.Turn.Effect.WinTies) {
			owner, best = i, n
		}
	}
	m.Professors[c] = owner
}
