package domain

import "errors"

var (
	ErrSeatUnavailable    = errors.New("seat is not available")
	ErrSeatAlreadyFree    = errors.New("seat is already free")
	ErrUnknownZone        = errors.New("unknown seat zone")
	ErrAircraftNotFound   = errors.New("aircraft not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrZoneUnknown        = errors.New("ticket has no recorded zone")
	ErrTicketIDsExhausted = errors.New("no free ticket ids left")
	ErrTicketExists       = errors.New("ticket already exists")
	ErrInvalidInput       = errors.New("invalid input")
)
