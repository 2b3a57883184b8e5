package matcherrors

import "errors"

// Room lookup and join errors. Used by both matchmaking and ws packages to avoid circular imports.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomClosed    = errors.New("room closed")
	ErrUnauthorized  = errors.New("join token rejected")
	ErrAlreadySeated = errors.New("connection already has a seat")
)
