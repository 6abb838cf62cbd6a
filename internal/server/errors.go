package server

import "errors"

// Store errors. Every operation failure wraps one of these so handlers
// can map to a status code while surfacing the message verbatim.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrValidation        = errors.New("invalid input")
	ErrSequenceExhausted = errors.New("no rounds remain in the podrida sequence")
	ErrStorage           = errors.New("backing store unavailable")
)
