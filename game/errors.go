package game

import "errors"

// Rejection reasons for intents. The host loop treats all of them as no-ops; they exist so
// callers and tests can tell rejections apart.
var (
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrGameOver         = errors.New("game is over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidSeat      = errors.New("invalid seat")
	ErrSameTile         = errors.New("defense and attack must be different tiles")
	ErrTileNotInHand    = errors.New("tile not in hand")
	ErrMatchRule        = errors.New("defense does not match the active attack")
	ErrKingAttack       = errors.New("king may not attack yet")
	ErrCannotPass       = errors.New("cannot pass without an active attack")
	ErrNotDecider       = errors.New("seat is not the redeal decider")
	ErrBadChoice        = errors.New("unknown redeal choice")
	ErrNotHost          = errors.New("only the host may do this")
	ErrNotEnoughPlayers = errors.New("four players are required")
	ErrRoomFull         = errors.New("room is full")
)
