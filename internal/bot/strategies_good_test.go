package bot

import (
	"math/rand"
	"testing"

	"eriantys/internal/domain"
)

func newTwoPlayerMatch(t *testing.T, expert bool) *domain.Match {
	t.Helper()
	m, err := domain.NewMatch(domain.Options{Players: 2, Expert: expert, Rand: rand.New(rand.NewSource(11))})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	_ = m.AddPlayer("a", domain.WizardKing, domain.TowerWhite)
	_ = m.AddPlayer("b", domain.WizardPixie, domain.TowerBlack)
	if err := m.Preparation(); err != nil {
		t.Fatalf("preparation: %v", err)
	}
	return m
}

func TestGoodBot_PlaysLowestFreeAssistant(t *testing.T) {
	m := newTwoPlayerMatch(t, false)
	if err := m.Apply(domain.Move{Kind: domain.MovePlayAssistant, Player: "a", Assistant: 1}); err != nil {
		t.Fatalf("play assistant: %v", err)
	}

	bot := &GoodBot{Weights: DefaultTuning}
	move, err := bot.CalculateMove(m, m.CurrentPlayer())
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if move.Kind != domain.MovePlayAssistant || move.Assistant != 2 {
		t.Errorf("Bot should have played assistant 2, played %+v", move)
	}
}

func TestGoodBot_TakesProfessor(t *testing.T) {
	m := newTwoPlayerMatch(t, false)
	for _, prio := range []int{1, 2} {
		if err := m.Apply(domain.Move{Kind: domain.MovePlayAssistant, Player: m.CurrentPlayer().Nickname, Assistant: prio}); err != nil {
			t.Fatalf("play assistant: %v", err)
		}
	}
	p := m.CurrentPlayer()
	p.Board.Entrance = domain.Students{domain.Yellow: 3, domain.Pink: 4}
	m.Players[1-m.PlayerIndex(p.Nickname)].Board.Hall[domain.Pink] = 2

	bot := &GoodBot{Weights: DefaultTuning}
	move, err := bot.CalculateMove(m, p)
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if move.Kind != domain.MoveStudentToHall || move.Color != domain.Yellow {
		t.Errorf("Bot should have claimed the yellow professor, played %+v", move)
	}
}

func TestGoodBot_MovesToWinnableIsland(t *testing.T) {
	m := newTwoPlayerMatch(t, false)
	for _, prio := range []int{9, 10} {
		if err := m.Apply(domain.Move{Kind: domain.MovePlayAssistant, Player: m.CurrentPlayer().Nickname, Assistant: prio}); err != nil {
			t.Fatalf("play assistant: %v", err)
		}
	}
	p := m.CurrentPlayer()
	seat := m.PlayerIndex(p.Nickname)
	m.Stage = domain.StageActionMoveMotherNature
	for i := range m.Professors {
		m.Professors[i] = -1
	}
	m.Professors[domain.Green] = seat
	for _, island := range m.Islands {
		island.Students = domain.Students{}
	}
	target := (m.MotherNature + 3) % len(m.Islands)
	m.Islands[target].Students[domain.Green] = 2

	bot := &GoodBot{Weights: DefaultTuning}
	move, err := bot.CalculateMove(m, p)
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if move.Kind != domain.MoveMotherNature || move.Steps != 3 {
		t.Errorf("Bot should move mother nature 3 steps, played %+v", move)
	}
}

func TestRandomBot_OnlyLegalMoves(t *testing.T) {
	m := newTwoPlayerMatch(t, true)
	bot, _ := NewBrain(BotLevelRandom, rand.New(rand.NewSource(5)))
	for i := 0; i < 200 && !m.Over(); i++ {
		p := m.CurrentPlayer()
		move, err := bot.CalculateMove(m, p)
		if err != nil {
			t.Fatalf("CalculateMove failed: %v", err)
		}
		if err := m.Apply(move); err != nil {
			t.Fatalf("illegal move %+v in %s: %v", move, m.Stage, err)
		}
	}
}
