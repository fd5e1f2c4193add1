package protocol

// Kind is the command discriminator carried under the "command" key of every frame.
type Kind string

const (
	Login                  Kind = "login"
	LoginSuccessful        Kind = "loginSuccessful"
	NicknameAlreadyPresent Kind = "nicknameAlreadyPresent"
	EnterNickname          Kind = "enterNickname"
	JoinMatch              Kind = "joinMatch"
	JoinSuccessful         Kind = "joinSuccessful"
	ChooseWizardTower      Kind = "chooseWizardTower"
	AddPlayer              Kind = "addPlayer"
	Initialization         Kind = "initialization"

	PlayAssistant         Kind = "playerMovePlayAssistant"
	MoveStudentToHall     Kind = "playerMoveMoveStudentFromEntranceToHall"
	MoveStudentToIsland   Kind = "playerMoveMoveStudentFromEntranceToIsland"
	MoveMotherNature      Kind = "playerMoveMoveMotherNature"
	PickStudentsFromCloud Kind = "playerMovePickStudentsFromCloud"
	PlayCharacter         Kind = "playerMovePlayCharacter"
	EndTurn               Kind = "playerMoveEndTurn"

	MoveDone      Kind = "moveDone"
	IllegalMove   Kind = "illegalMove"
	ForceEndMatch Kind = "forceEndMatch"
	Beat          Kind = "beat"
	Logout        Kind = "logout"
)

// Kinds lists every command the codec accepts, in a stable order.
var Kinds = []Kind{
	Login, LoginSuccessful, NicknameAlreadyPresent, EnterNickname, JoinMatch, JoinSuccessful,
	ChooseWizardTower, AddPlayer, Initialization,
	PlayAssistant, MoveStudentToHall, MoveStudentToIsland, MoveMotherNature,
	PickStudentsFromCloud, PlayCharacter, EndTurn,
	MoveDone, IllegalMove, ForceEndMatch, Beat, Logout,
}

// IsMove reports whether k is one of the player move commands.
func (k Kind) IsMove() bool {
	switch k {
	case PlayAssistant, MoveStudentToHall, MoveStudentToIsland, MoveMotherNature,
		PickStudentsFromCloud, PlayCharacter, EndTurn:
		return true
	}
	return false
}
