package tickfsm

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateTransition = errors.New("duplicate transition")
	ErrNoSuchTransition    = errors.New("no such transition")
	ErrNotStarted          = errors.New("machine not started")
	ErrAlreadyStarted      = errors.New("machine already started")
	ErrUnregisteredState   = errors.New("unregistered state")
	ErrInvalidVariant      = errors.New("invalid variant: id must be set, not the wildcard, and New non-nil")
	ErrInvalidTransition   = errors.New("invalid transition: from, event and to are required; to cannot be the wildcard")
	ErrNoPreviousState     = errors.New("no previous state")
	ErrCascadeLimit        = errors.New("cascading dispatch exceeded depth limit")
	ErrDispatchInExit      = errors.New("dispatch called from OnExit")
)

// DuplicateTransitionError is returned when a (from, event) pair is registered twice.
// The table keeps Existing; Rejected is the destination that was refused.
type DuplicateTransitionError struct {
	From     StateID
	Event    EventID
	Existing StateID
	Rejected StateID
}

func (e *DuplicateTransitionError) Error() string {
	return fmt.Sprintf("transition from state %q on event %q already registered (to %q, rejected %q)",
		e.From, e.Event, e.Existing, e.Rejected)
}

func (e *DuplicateTransitionError) Unwrap() error {
	return ErrDuplicateTransition
}

// NoSuchTransitionError reports an event with no mapping for the current state
// and no wildcard mapping either.
type NoSuchTransitionError struct {
	State StateID
	Event EventID
}

func (e *NoSuchTransitionError) Error() string {
	return fmt.Sprintf("no transition from state %q for event %q", e.State, e.Event)
}

func (e *NoSuchTransitionError) Unwrap() error {
	return ErrNoSuchTransition
}

func IsNoSuchTransition(err error) bool {
	var e *NoSuchTransitionError
	return errors.As(err, &e)
}

func IsDuplicateTransition(err error) bool {
	var e *DuplicateTransitionError
	return errors.As(err, &e)
}
