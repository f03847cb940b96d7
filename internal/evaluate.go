package internal

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

// evaluate recomputes a selector from scratch inside a fresh tracking
// scope, then commits the discovered edges and the outcome. Called with the
// store lock held.
func (s *Store) evaluate(n *Node) (any, error) {
	if s.evalStack[n.Key] {
		return nil, zerr.With(ErrCyclicDependency, "key", n.Key)
	}
	s.evalStack[n.Key] = true
	sc := s.newScope(n)
	value, err := runCompute(n, sc)
	delete(s.evalStack, n.Key)

	switch {
	case err == nil:
		if d, ok := value.(*Deferred); ok {
			return s.beginDeferred(n, sc, d)
		}
		if gerr := s.graph.SetDependencies(n.Key, sc.reads); gerr != nil {
			return nil, gerr
		}
		s.cache.resolve(n.Key, value)
		s.propagate([]string{n.Key})
		return value, nil

	case errors.Is(err, ErrPendingRead):
		// A dependency is still computing. Commit the partial read set so
		// its resolution reaches this node, park the entry as Pending, and
		// surface the pend to the caller.
		if gerr := s.graph.SetDependencies(n.Key, sc.reads); gerr != nil {
			return nil, gerr
		}
		s.nextToken++
		s.cache.beginAsync(n.Key, s.nextToken)
		return nil, zerr.With(ErrPendingRead, "key", n.Key)

	case errors.Is(err, ErrCyclicDependency):
		// Aborted: prior cache entry and edges stay untouched.
		return nil, err

	default:
		if gerr := s.graph.SetDependencies(n.Key, sc.reads); gerr != nil {
			return nil, gerr
		}
		rerr := newComputationError(n.Key, err)
		s.cache.reject(n.Key, rerr)
		s.propagate([]string{n.Key})
		return nil, rerr
	}
}

// beginDeferred commits the pre-suspension read set, opens the Pending
// period, and wires the deferred's settlement back into the store under the
// token issued here.
func (s *Store) beginDeferred(n *Node, sc *Scope, d *Deferred) (any, error) {
	if err := s.graph.SetDependencies(n.Key, sc.reads); err != nil {
		return nil, err
	}
	s.nextToken++
	token := s.nextToken
	s.cache.beginAsync(n.Key, token)
	sc.detach(token)

	key := n.Key
	d.onSettle(func(value any, err error) {
		s.resolveAsync(key, token, value, err)
	})
	return nil, zerr.With(ErrPendingRead, "key", key)
}

// resolveAsync applies an asynchronous completion, discarding it when the
// token no longer matches (the computation was superseded).
func (s *Store) resolveAsync(key string, token uint64, value any, err error) {
	s.mu.Lock()
	e := s.cache.entry(key)
	if e.status != StatusPending || e.token != token {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.cache.reject(key, newComputationError(key, err))
	} else {
		s.cache.resolve(key, value)
	}
	s.propagate([]string{key})
	s.mu.Unlock()
	s.flush()
}

func runCompute(n *Node, sc *Scope) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("compute panicked: %v", r)
		}
	}()
	return n.Compute(sc)
}
