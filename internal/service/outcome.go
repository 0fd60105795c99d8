package service

import (
	"errors"

	"realm-presence/internal/domain"
)

var (
	// ErrMissingSession means no username accompanied the signal.
	ErrMissingSession = errors.New("no current user")
	// ErrLookupFailure wraps a store error raised while resolving the credential.
	ErrLookupFailure = errors.New("credential lookup failed")
	// ErrNotFound means no credential matches the username.
	ErrNotFound = errors.New("credential not found")
	// ErrWriteFailure wraps a store error raised by the presence upsert.
	ErrWriteFailure = errors.New("presence write failed")
)

// OutcomeKind classifies how a SetActiveFlag call ended.
type OutcomeKind int

const (
	OutcomeUpdated OutcomeKind = iota
	OutcomeMissingSession
	OutcomeLookupFailure
	OutcomeNotFound
	OutcomeWriteFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUpdated:
		return "updated"
	case OutcomeMissingSession:
		return "missing_session"
	case OutcomeLookupFailure:
		return "lookup_failure"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeWriteFailure:
		return "write_failure"
	default:
		return "unknown"
	}
}

// Outcome reports the result of one presence update. Err is nil only for
// OutcomeUpdated and otherwise matches the kind's sentinel with errors.Is.
type Outcome struct {
	Kind     OutcomeKind
	UserID   string
	Presence *domain.Presence
	Err      error
}

// OK reports whether the presence row was written.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeUpdated
}
