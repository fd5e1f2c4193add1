package domain

import "fmt"

// Stage is the step of a round that decides which moves are legal.
type Stage string

const (
	StageWaitForPlayers              Stage = "WAIT_FOR_PLAYERS"
	StagePreparation                 Stage = "PREPARATION"
	StagePlanningPlayAssistants      Stage = "PLANNING_PLAY_ASSISTANTS"
	StagePlanningFillClouds          Stage = "PLANNING_FILL_CLOUDS"
	StageActionMoveStudents          Stage = "ACTION_MOVE_STUDENTS"
	StageActionMoveMotherNature      Stage = "ACTION_MOVE_MOTHER_NATURE"
	StageActionTakeStudentsFromCloud Stage = "ACTION_TAKE_STUDENTS_FROM_CLOUD"
	StageActionEndTurn               Stage = "ACTION_END_TURN"
	StageRoundEnd                    Stage = "ROUND_END"
	StageGameOver                    Stage = "GAME_OVER"
)

type trigger string

const (
	onPlayersComplete   trigger = "playersComplete"
	onPrepared          trigger = "prepared"
	onAssistantsPlayed  trigger = "assistantsPlayed"
	onCloudsFilled      trigger = "cloudsFilled"
	onStudentsMoved     trigger = "studentsMoved"
	onMotherNatureMoved trigger = "motherNatureMoved"
	onNoCloudLeft       trigger = "noCloudLeft"
	onCloudPicked       trigger = "cloudPicked"
	onTurnEnded         trigger = "turnEnded"
	onRoundEnded        trigger = "roundEnded"
	onNextRound         trigger = "nextRound"
	onGameOver          trigger = "gameOver"
)

// transitions is the whole stage machine: (stage, trigger) -> next stage.
var transitions = map[Stage]map[trigger]Stage{
	StageWaitForPlayers:         {onPlayersComplete: StagePreparation},
	StagePreparation:            {onPrepared: StagePlanningPlayAssistants},
	StagePlanningPlayAssistants: {onAssistantsPlayed: StagePlanningFillClouds},
	StagePlanningFillClouds:     {onCloudsFilled: StageActionMoveStudents},
	StageActionMoveStudents:     {onStudentsMoved: StageActionMoveMotherNature},
	StageActionMoveMotherNature: {
		onMotherNatureMoved: StageActionTakeStudentsFromCloud,
		onNoCloudLeft:       StageActionEndTurn,
	},
	StageActionTakeStudentsFromCloud: {onCloudPicked: StageActionEndTurn},
	StageActionEndTurn: {
		onTurnEnded:  StageActionMoveStudents,
		onRoundEnded: StageRoundEnd,
	},
	StageRoundEnd: {
		onNextRound: StagePlanningPlayAssistants,
		onGameOver:  StageGameOver,
	},
}

func (m *Match) fire(t trigger) error {
	next, ok := transitions[m.Stage][t]
	if !ok {
		return fmt.Errorf("%w: %s during %s", ErrOutOfOrder, t, m.Stage)
	}
	m.Stage = next
	return nil
}

// MoveKind names a player move.
type MoveKind string

const (
	MovePlayAssistant   MoveKind = "PLAY_ASSISTANT"
	MoveStudentToHall   MoveKind = "MOVE_STUDENT_TO_HALL"
	MoveStudentToIsland MoveKind = "MOVE_STUDENT_TO_ISLAND"
	MoveMotherNature    MoveKind = "MOVE_MOTHER_NATURE"
	MovePickCloud       MoveKind = "PICK_CLOUD"
	MovePlayCharacter   MoveKind = "PLAY_CHARACTER"
	MoveEndTurn         MoveKind = "END_TURN"
)

// moveStages lists the stages in which each move is legal.
var moveStages = map[MoveKind][]Stage{
	MovePlayAssistant:   {StagePlanningPlayAssistants},
	MoveStudentToHall:   {StageActionMoveStudents},
	MoveStudentToIsland: {StageActionMoveStudents},
	MoveMotherNature:    {StageActionMoveMotherNature},
	MovePickCloud:       {StageActionTakeStudentsFromCloud},
	MovePlayCharacter: {
		StageActionMoveStudents,
		StageActionMoveMotherNature,
		StageActionTakeStudentsFromCloud,
	},
	MoveEndTurn: {StageActionEndTurn},
}

// LegalIn reports whether a move of kind k may be played during stage s.
func (k MoveKind) LegalIn(s Stage) bool {
	for _, st := range moveStages[k] {
		if st == s {
			return true
		}
	}
	return false
}
