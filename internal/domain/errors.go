package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadySettled  = errors.New("transaction already settled")
	ErrReorderInFlight = errors.New("reorder already in flight")
	ErrUnknownResource = errors.New("unknown catalog resource")
)
