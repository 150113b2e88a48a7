package service

import "errors"

// Business errors returned by the service layer. Handlers map these onto
// HTTP statuses; anything else is treated as an internal error.
var (
	// ErrValidation covers malformed or missing input; no state was mutated.
	ErrValidation = errors.New("service: validation failed")

	ErrUserNotFound = errors.New("service: user not found")
	ErrRoomNotFound = errors.New("service: room not found")
	ErrQuizNotFound = errors.New("service: quiz not found")

	// ErrRoomExpired marks a room whose ranking window has elapsed; it is
	// no longer accessible and will be removed by the sweep.
	ErrRoomExpired = errors.New("service: room expired")

	// ErrDuplicateRoom is returned when (title, start, creator) collide.
	ErrDuplicateRoom = errors.New("service: room already exists")

	// ErrDuplicateSummary is returned when a PDF with the same original
	// filename was already summarized in the room.
	ErrDuplicateSummary = errors.New("service: summary for this file already exists")

	ErrInvalidJoinCode = errors.New("service: invalid join code")
	ErrNotRoomMember   = errors.New("service: user is not a member of this room")

	ErrRegistrationFailed   = errors.New("service: registration failed")
	ErrAuthenticationFailed = errors.New("service: authentication failed")

	ErrInternalServer = errors.New("service: internal error")
)
