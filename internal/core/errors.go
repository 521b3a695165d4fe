package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInputIndex is returned when an input references a position
	// outside the generated challenge's domain. The input is not scored.
	ErrInvalidInputIndex = errors.New("input outside challenge bounds")

	// ErrInvalidTransition is returned when an operation is not allowed in the
	// current session state. The call has no effect.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidChallenge is returned when a challenge does not belong to the
	// evaluating strategy or is malformed.
	ErrInvalidChallenge = errors.New("invalid challenge")

	// ErrUnknownKind is returned for kinds outside the closed set.
	ErrUnknownKind = errors.New("unknown game kind")

	// ErrPersistence matches every *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failure")
)

// PersistenceError reports a failed save. In-memory state has already been
// updated when it is returned; the save can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPersistence) true for any PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
