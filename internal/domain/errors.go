package domain

import "fmt"

// All errors below are recoverable: callers are expected to surface them and
// re-prompt without discarding the draft or the session.

// ValidationError reports a draft invariant violation, such as removing the
// last remaining adult.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an entity that is not present.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

func NotFound(entity string, ref interface{}) error {
	return &NotFoundError{Entity: entity, Ref: fmt.Sprint(ref)}
}

// SeatConflictError reports a seat already chosen by another passenger in
// the same party.
type SeatConflictError struct {
	SeatID      int64
	PassengerID int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %d already chosen by passenger %d in this party", e.SeatID, e.PassengerID)
}

// SeatUnavailableError reports a seat the server marks as occupied.
type SeatUnavailableError struct {
	SeatID int64
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %d is occupied", e.SeatID)
}

// InconsistentStateError reports a mismatch between the booking and the
// server seat map. It must never be defaulted to a zero charge.
type InconsistentStateError struct {
	Reason string
}

func (e *InconsistentStateError) Error() string {
	return "inconsistent state: " + e.Reason
}

func Inconsistentf(format string, args ...interface{}) error {
	return &InconsistentStateError{Reason: fmt.Sprintf(format, args...)}
}
