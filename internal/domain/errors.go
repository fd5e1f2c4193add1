package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned for a well-formed move that breaks a rule, arrives in the
	// wrong stage or comes from a player whose turn it is not. The match is left untouched.
	ErrIllegalMove = errors.New("illegal move")
	// ErrOutOfOrder is returned when a setup operation runs before its precondition.
	ErrOutOfOrder = errors.New("operation out of order")

	ErrEmptyNickname      = errors.New("empty nickname")
	ErrDuplicateNickname  = errors.New("nickname already taken")
	ErrDuplicateWizard    = errors.New("wizard already taken")
	ErrDuplicateTower     = errors.New("tower color already taken")
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrBagEmpty           = errors.New("not enough students in the bag")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalMove, fmt.Sprintf(format, args...))
}
