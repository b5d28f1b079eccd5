package apperrors

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrIdempotencyConflict  = errors.New("idempotency key conflict")
	ErrInternalServerError  = errors.New("internal server error")
)
