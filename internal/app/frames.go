package app

import (
	"encoding/json"
	"fmt"

	"eriantys/internal/domain"
	"eriantys/internal/protocol"
)

var moveKinds = map[protocol.Kind]domain.MoveKind{
	protocol.PlayAssistant:         domain.MovePlayAssistant,
	protocol.MoveStudentToHall:     domain.MoveStudentToHall,
	protocol.MoveStudentToIsland:   domain.MoveStudentToIsland,
	protocol.MoveMotherNature:      domain.MoveMotherNature,
	protocol.PickStudentsFromCloud: domain.MovePickCloud,
	protocol.PlayCharacter:         domain.MovePlayCharacter,
	protocol.EndTurn:               domain.MoveEndTurn,
}

// ParseMove turns a player move command into a domain move for player. Missing parameters
// fail with protocol.ErrMissingKey, values naming nothing real fail with
// domain.ErrIllegalMove.
func ParseMove(msg protocol.Message, player string) (domain.Move, error) {
	kind, ok := moveKinds[msg.Command]
	if !ok {
		return domain.Move{}, fmt.Errorf("%w: %s is not a move", protocol.ErrUnknownCommand, msg.Command)
	}
	mv := domain.Move{Kind: kind, Player: player}
	var err error
	switch kind {
	case domain.MovePlayAssistant:
		mv.Assistant, err = msg.IntValue("assistant")
	case domain.MoveStudentToHall:
		mv.Color, err = parseColor(msg)
	case domain.MoveStudentToIsland:
		if mv.Color, err = parseColor(msg); err == nil {
			mv.Island, err = msg.IntValue("island")
		}
	case domain.MoveMotherNature:
		mv.Steps, err = msg.IntValue("steps")
	case domain.MovePickCloud:
		mv.Cloud, err = msg.IntValue("cloud")
	case domain.MovePlayCharacter:
		err = parseCharacter(msg, &mv)
	}
	return mv, err
}

func parseColor(msg protocol.Message) (domain.Color, error) {
	s, err := msg.String("color")
	if err != nil {
		return 0, err
	}
	c, err := domain.ParseColor(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrIllegalMove, err)
	}
	return c, nil
}

func parseCharacter(msg protocol.Message, mv *domain.Move) error {
	s, err := msg.String("character")
	if err != nil {
		return err
	}
	if mv.Character, err = domain.ParseCharacter(s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIllegalMove, err)
	}
	switch mv.Character {
	case domain.MushroomHunter:
		mv.Color, err = parseColor(msg)
	case domain.Herald, domain.Herbalist:
		mv.Island, err = msg.IntValue("island")
	}
	return err
}

// MoveMessage renders a domain move as the command a client would send.
func MoveMessage(mv domain.Move) protocol.Message {
	var msg protocol.Message
	for cmd, kind := range moveKinds {
		if kind == mv.Kind {
			msg = protocol.New(cmd)
			break
		}
	}
	msg = msg.Quoted("player", mv.Player)
	switch mv.Kind {
	case domain.MovePlayAssistant:
		msg = msg.Int("assistant", mv.Assistant)
	case domain.MoveStudentToHall:
		msg = msg.Quoted("color", mv.Color.String())
	case domain.MoveStudentToIsland:
		msg = msg.Quoted("color", mv.Color.String()).Int("island", mv.Island)
	case domain.MoveMotherNature:
		msg = msg.Int("steps", mv.Steps)
	case domain.MovePickCloud:
		msg = msg.Int("cloud", mv.Cloud)
	case domain.MovePlayCharacter:
		msg = msg.Quoted("character", string(mv.Character))
		switch mv.Character {
		case domain.MushroomHunter:
			msg = msg.Quoted("color", mv.Color.String())
		case domain.Herald, domain.Herbalist:
			msg = msg.Int("island", mv.Island)
		}
	}
	return msg
}

// Frame renders an event as the wire message sent to its recipients. Events without a wire
// form return false.
func Frame(ev Event) (protocol.Message, bool) {
	switch p := ev.Payload.(type) {
	case PlayerAddedPayload:
		return protocol.New(protocol.AddPlayer).
			Quoted("nickname", p.Nickname).
			Quoted("wizard", string(p.Wizard)).
			Quoted("tower", string(p.Tower)), true
	case ChooseWizardTowerPayload:
		return protocol.New(protocol.ChooseWizardTower).
			Quoted("nickname", p.Nickname).
			Bare("wizards", jsonList(p.Wizards)).
			Bare("towers", jsonList(p.Towers)), true
	case MatchInitializedPayload:
		return protocol.New(protocol.Initialization).Bare("state", p.State.JSON()), true
	case MoveDonePayload:
		return protocol.New(protocol.MoveDone).
			Quoted("player", p.Player).
			Quoted("move", p.Command).
			Bare("state", p.State.JSON()), true
	case MatchAbortedPayload:
		return protocol.New(protocol.ForceEndMatch).
			Quoted("reason", p.Reason).
			Quoted("nickname", p.Nickname), true
	}
	return protocol.Message{}, false
}

// IllegalMoveMessage tells the sender its move was rejected.
func IllegalMoveMessage(reason string, move protocol.Kind) protocol.Message {
	msg := protocol.New(protocol.IllegalMove).Quoted("reason", reason)
	if move != "" {
		msg = msg.Quoted("move", string(move))
	}
	return msg
}

func jsonList[T ~string](items []T) string {
	if items == nil {
		items = []T{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
