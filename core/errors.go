package core

import (
	"errors"
)

// The error taxonomy of the workflow core. Callers distinguish "not a
// valid move" from "not allowed" from "not found", because the UI renders
// different affordances for each. All four abort before any persistence.
//
// ErrConflict is the optimistic-lock outcome: a concurrent transition won
// the race on the same article. Delivery failures are logged and never
// surfaced, see Dispatcher.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflicting update")
)
