package domain

import "errors"

// Typed failures returned by the engine, coordinator and tracker. Callers
// match with errors.Is; wrapping with fmt.Errorf("...: %w", err) preserves
// the sentinel.
var (
	// ErrInvalidTransition: the requested status is not a legal successor
	// of the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyTerminal: the order is delivered or cancelled.
	ErrAlreadyTerminal = errors.New("order is in a terminal state")
	// ErrConflict: lost a concurrent compare-and-set race; retryable.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrInvalidState: rider assignment attempted while the order is not ready.
	ErrInvalidState = errors.New("order is not in the required state")
	// ErrUnknownOrder / ErrUnknownRider: referential lookup miss.
	ErrUnknownOrder = errors.New("unknown order")
	ErrUnknownRider = errors.New("unknown rider")
	// ErrNotAssigned: a rider acted on a delivery that is not theirs.
	ErrNotAssigned = errors.New("order is not assigned to this rider")
	// ErrNotAuthorized: the actor's role may not perform the operation.
	ErrNotAuthorized = errors.New("role is not authorized for this operation")
	// ErrStoreUnavailable: transient store I/O failure; retryable with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
)
