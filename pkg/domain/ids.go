// Package domain holds shared value types used across vetflow packages.
// Typed IDs prevent accidental cross-assignment of identifiers at compile
// time; construct them via the Parse helpers at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "vetflow/pkg/domain-errors"
)

// CheckID identifies a background-check workflow instance.
type CheckID uuid.UUID

// CandidateID identifies the person a check is run against.
type CandidateID uuid.UUID

// UserID identifies an operator, initiator, or digest subscriber.
type UserID uuid.UUID

// EventID identifies an escalation event or audit record.
type EventID uuid.UUID

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be nil", kind)
	}
	return u, nil
}

// ParseCheckID constructs a CheckID from external input.
// Errors: CodeInvalidInput when the value is empty, malformed, or nil.
func ParseCheckID(s string) (CheckID, error) {
	u, err := parseUUID("check id", s)
	return CheckID(u), err
}

// ParseCandidateID constructs a CandidateID from external input.
func ParseCandidateID(s string) (CandidateID, error) {
	u, err := parseUUID("candidate id", s)
	return CandidateID(u), err
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

// ParseEventID constructs an EventID from external input.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID("event id", s)
	return EventID(u), err
}

// NewCheckID generates a fresh CheckID.
func NewCheckID() CheckID { return CheckID(uuid.New()) }

// NewEventID generates a fresh EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id CheckID) String() string     { return uuid.UUID(id).String() }
func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id EventID) String() string     { return uuid.UUID(id).String() }

func (id CheckID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
