package nakama

import "eriantys/internal/protocol"

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a match of a variant.
	RpcQuickMatch = "quick_match"

	// MatchNameEriantys is the authoritative match handler name registered with Nakama.
	MatchNameEriantys = "eriantys_match"

	// LabelGame tags every match label so quick match only lists our matches.
	LabelGame = "eriantys"
)

// Op codes carry exactly one command kind each; the payload is the encoded frame.
const (
	OpLogin                  int64 = 1
	OpLoginSuccessful        int64 = 2
	OpNicknameAlreadyPresent int64 = 3
	OpEnterNickname          int64 = 4
	OpJoinMatch              int64 = 5
	OpJoinSuccessful         int64 = 6
	OpChooseWizardTower      int64 = 7
	OpAddPlayer              int64 = 8
	OpInitialization         int64 = 9

	OpPlayAssistant         int64 = 20
	OpMoveStudentToHall     int64 = 21
	OpMoveStudentToIsland   int64 = 22
	OpMoveMotherNature      int64 = 23
	OpPickStudentsFromCloud int64 = 24
	OpPlayCharacter         int64 = 25
	OpEndTurn               int64 = 26

	OpMoveDone      int64 = 101
	OpIllegalMove   int64 = 102
	OpForceEndMatch int64 = 103
	OpBeat          int64 = 104
	OpLogout        int64 = 105
)

var opCodes = map[protocol.Kind]int64{
	protocol.Login:                  OpLogin,
	protocol.LoginSuccessful:        OpLoginSuccessful,
	protocol.NicknameAlreadyPresent: OpNicknameAlreadyPresent,
	protocol.EnterNickname:          OpEnterNickname,
	protocol.JoinMatch:              OpJoinMatch,
	protocol.JoinSuccessful:         OpJoinSuccessful,
	protocol.ChooseWizardTower:      OpChooseWizardTower,
	protocol.AddPlayer:              OpAddPlayer,
	protocol.Initialization:         OpInitialization,
	protocol.PlayAssistant:          OpPlayAssistant,
	protocol.MoveStudentToHall:      OpMoveStudentToHall,
	protocol.MoveStudentToIsland:    OpMoveStudentToIsland,
	protocol.MoveMotherNature:       OpMoveMotherNature,
	protocol.PickStudentsFromCloud:  OpPickStudentsFromCloud,
	protocol.PlayCharacter:          OpPlayCharacter,
	protocol.EndTurn:                OpEndTurn,
	protocol.MoveDone:               OpMoveDone,
	protocol.IllegalMove:            OpIllegalMove,
	protocol.ForceEndMatch:          OpForceEndMatch,
	protocol.Beat:                   OpBeat,
	protocol.Logout:                 OpLogout,
}

var kindsByOpCode = func() map[int64]protocol.Kind {
	out := make(map[int64]protocol.Kind, len(opCodes))
	for k, op := range opCodes {
		out[op] = k
	}
	return out
}()

// OpCodeFor returns the op code carrying kind.
func OpCodeFor(kind protocol.Kind) (int64, bool) {
	op, ok := opCodes[kind]
	return op, ok
}

// KindFor returns the command kind carried by op.
func KindFor(op int64) (protocol.Kind, bool) {
	k, ok := kindsByOpCode[op]
	return k, ok
}
