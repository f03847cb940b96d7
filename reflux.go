// Package reflux is a fine-grained reactive state engine: primitive atoms
// and derived selectors connected by a dependency graph discovered at
// evaluation time, with push-based invalidation, per-node memoization and
// token-sequenced asynchronous resolution.
package reflux

import (
	"errors"

	"github.com/avendel/reflux/internal"
)

// Scope is the tracking context passed to a selector's compute function.
// Reads made through it become the selector's dependency edges.
type Scope = internal.Scope

// Status of a node's cache entry.
type Status = internal.Status

const (
	StatusUninitialized = internal.StatusUninitialized
	StatusPending       = internal.StatusPending
	StatusResolved      = internal.StatusResolved
	StatusRejected      = internal.StatusRejected
	StatusInvalidated   = internal.StatusInvalidated
)

var (
	ErrPendingRead      = internal.ErrPendingRead
	ErrCyclicDependency = internal.ErrCyclicDependency
	ErrDuplicateKey     = internal.ErrDuplicateKey
	ErrUnknownKey       = internal.ErrUnknownKey
	ErrNotAnAtom        = internal.ErrNotAnAtom
	ErrStaleScope       = internal.ErrStaleScope
)

// ComputationError carries a failed selector computation to every reader.
type ComputationError = internal.ComputationError

// IsPending reports whether err is the retry-after-notification signal.
func IsPending(err error) bool {
	return errors.Is(err, ErrPendingRead)
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Store is one engine instance. Construct it explicitly; nothing is shared
// between stores.
type Store struct {
	store *internal.Store
}

func NewStore() *Store {
	return &Store{internal.NewStore()}
}

// Read returns the node's current value by key. This is the untyped
// boundary used by binding layers; typed handles wrap it.
func (s *Store) Read(key string) (any, error) {
	return s.store.Read(key)
}

// Write sets an atom's value by key and propagates. Writing a selector
// fails with ErrNotAnAtom.
func (s *Store) Write(key string, value any) error {
	return s.store.Write(key, value)
}

// Subscribe registers fn to run after the node resolves, rejects or is
// invalidated. The returned function unsubscribes; extra calls are no-ops.
func (s *Store) Subscribe(key string, fn func()) func() {
	return s.store.Subscribe(key, fn)
}

// Batch coalesces the writes made inside fn into a single propagation
// pass. Batches nest.
func (s *Store) Batch(fn func()) {
	s.store.Batch(fn)
}

// Status reports the node's current cache status.
func (s *Store) Status(key string) Status {
	return s.store.StatusOf(key)
}

// Dependencies returns the keys the node read during its last committed
// evaluation.
func (s *Store) Dependencies(key string) []string {
	return s.store.Dependencies(key)
}

// Dependents returns the keys currently reading the node.
func (s *Store) Dependents(key string) []string {
	return s.store.Dependents(key)
}

// Atom is a typed handle to a source-of-truth state cell.
type Atom[T any] struct {
	store *internal.Store
	key   string
}

// NewAtom registers an atom with a default value under a globally unique
// key. Registering a taken key fails with ErrDuplicateKey.
func NewAtom[T any](s *Store, key string, def T) (*Atom[T], error) {
	node := &internal.Node{Key: key, Kind: internal.KindAtom, Default: def}
	if err := s.store.Register(node); err != nil {
		return nil, err
	}
	return &Atom[T]{store: s.store, key: key}, nil
}

func (a *Atom[T]) Key() string { return a.key }

// Read the atom's current value from outside any computation.
func (a *Atom[T]) Read() (T, error) {
	v, err := a.store.Read(a.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

// Write a new value, triggering a propagation pass through dependents.
func (a *Atom[T]) Write(v T) error {
	return a.store.Write(a.key, v)
}

// Get reads the atom inside a computation, recording the dependency.
func (a *Atom[T]) Get(sc *Scope) (T, error) {
	v, err := sc.Get(a.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

func (a *Atom[T]) Subscribe(fn func()) func() {
	return a.store.Subscribe(a.key, fn)
}

// Selector is a typed handle to a derived node.
type Selector[T any] struct {
	store *internal.Store
	key   string
}

// NewSelector registers a selector computed by the given pure function.
// Dependencies are whatever the function reads through the scope; they are
// rediscovered on every evaluation.
func NewSelector[T any](s *Store, key string, compute func(sc *Scope) (T, error)) (*Selector[T], error) {
	node := &internal.Node{
		Key:  key,
		Kind: internal.KindSelector,
		Compute: func(sc *internal.Scope) (any, error) {
			v, err := compute(sc)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	if err := s.store.Register(node); err != nil {
		return nil, err
	}
	return &Selector[T]{store: s.store, key: key}, nil
}

func (sel *Selector[T]) Key() string { return sel.key }

// Read the selector's current value, evaluating it if stale. Fails with
// ErrPendingRead while an asynchronous computation is in flight.
func (sel *Selector[T]) Read() (T, error) {
	v, err := sel.store.Read(sel.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

// Get reads the selector inside another computation, recording the edge.
func (sel *Selector[T]) Get(sc *Scope) (T, error) {
	v, err := sc.Get(sel.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

func (sel *Selector[T]) Subscribe(fn func()) func() {
	return sel.store.Subscribe(sel.key, fn)
}
