package domain

import "errors"

// Sentinel errors shared by services and mapped to HTTP status codes by controllers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrFormInactive is returned when a guest submits to a form that is switched off.
	ErrFormInactive = errors.New("rsvp form is not accepting responses")
)
