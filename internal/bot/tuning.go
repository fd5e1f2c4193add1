package bot

import botinternal "eriantys/internal/bot/internal"

// DefaultTuning favors professors and islands it can take now over coins and characters.
var DefaultTuning = botinternal.Weights{
	LowAssistant:    0.6,
	AssistantSteps:  0.4,
	HallStudent:     1.0,
	HallCoin:        1.5,
	ProfessorGain:   3.0,
	IslandStudent:   1.2,
	OwnIsland:       0.5,
	InfluenceMargin: 1.0,
	TowerGain:       4.0,
	StepPenalty:     0.1,
	CloudStudent:    1.0,
	CharacterUse:    -0.5,
}
