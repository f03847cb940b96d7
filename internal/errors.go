package internal

import (
	"errors"
	"fmt"
)

// Sentinels are plain stdlib errors: zerr.With wraps a stdlib error with a
// proper cause chain, so errors.Is against these survives the key context
// attached at the call sites.
var (
	// ErrPendingRead is a control signal, not a failure: the node's value is
	// being computed asynchronously and the caller should retry after the
	// next notification for the node's key.
	ErrPendingRead = errors.New("pending read")

	// ErrCyclicDependency is returned when an edge update or an evaluation
	// would close a cycle in the dependency graph.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrDuplicateKey is returned when registering a node under a key that
	// is already taken.
	ErrDuplicateKey = errors.New("duplicate node key")

	// ErrUnknownKey is returned when reading or writing a key that was
	// never registered.
	ErrUnknownKey = errors.New("unknown node key")

	// ErrNotAnAtom is returned when writing to a selector node.
	ErrNotAnAtom = errors.New("write target is not an atom")

	// ErrStaleScope is returned by Scope.Get once the scope's evaluation
	// has been superseded; nothing is recorded for a stale scope.
	ErrStaleScope = errors.New("scope superseded")
)

// ComputationError wraps the failure of a selector's compute function (or
// the rejection of its deferred handle). It propagates through dependents
// unchanged, so errors.Is against the root cause holds at any depth.
type ComputationError struct {
	Key   string
	cause error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("selector %q failed: %v", e.Key, e.cause)
}

func (e *ComputationError) Unwrap() error { return e.cause }

// newComputationError classifies err, keeping an existing classification
// from an upstream dependent instead of re-wrapping it.
func newComputationError(key string, err error) error {
	var ce *ComputationError
	if errors.As(err, &ce) {
		return err
	}
	return &ComputationError{Key: key, cause: err}
}
