package app

import "eriantys/internal/domain"

// EventKind identifies emitted match events for dispatch by the front ends.
type EventKind string

const (
	EventPlayerAdded       EventKind = "player_added"
	EventChooseWizardTower EventKind = "choose_wizard_tower"
	EventMatchInitialized  EventKind = "match_initialized"
	EventMoveDone          EventKind = "move_done"
	EventGameEnded         EventKind = "game_ended"
	EventMatchAborted      EventKind = "match_aborted"
)

// Event is a match event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // nicknames; empty means broadcast
}

type PlayerAddedPayload struct {
	Nickname string
	Wizard   domain.Wizard
	Tower    domain.TowerColor
}

// ChooseWizardTowerPayload prompts Nickname with the identities still available.
type ChooseWizardTowerPayload struct {
	Nickname string
	Wizards  []domain.Wizard
	Towers   []domain.TowerColor
}

type MatchInitializedPayload struct {
	State Snapshot
}

type MoveDonePayload struct {
	Player  string
	Command string
	State   Snapshot
}

// GameEndedPayload names the winning tower color and the players who share it. Draw is
// set when several colors tie on towers placed.
type GameEndedPayload struct {
	Winner  domain.TowerColor
	Draw    bool
	Winners []string
	Players []string
}

type MatchAbortedPayload struct {
	Reason   string
	Nickname string
}

// Reasons carried by EventMatchAborted.
const (
	ReasonLogout      = "logout"
	ReasonUnreachable = "unreachable"
	ReasonProtocol    = "protocol"
)
