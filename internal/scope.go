package internal

import (
	"github.com/petermattis/goid"
	"go.trai.ch/zerr"
)

// Scope is the tracking context handed to a compute function. Every Get is
// recorded as a dependency before the read is attempted, so reads that pend
// or fail still count as edges.
//
// A scope starts attached: the store lock is already held by the evaluation
// and reads from the evaluating goroutine accumulate locally, committed in
// one SetDependencies when the compute function returns. Once the
// evaluation suspends on a deferred, the scope is detached and later Gets
// take the store lock themselves, verify the scope still holds the node's
// current token, and append edges one by one. Gets from any other
// goroutine always take the locked path; the mutex parks them until the
// suspension point, so they observe a consistent token.
type Scope struct {
	store *Store
	node  *Node
	gid   int64

	reads []string
	seen  map[string]bool

	detached bool
	token    uint64
}

func (s *Store) newScope(n *Node) *Scope {
	return &Scope{store: s, node: n, gid: goid.Get(), seen: make(map[string]bool)}
}

// Get returns key's current value, recording it as a dependency of the
// node under evaluation.
func (sc *Scope) Get(key string) (any, error) {
	if goid.Get() != sc.gid || sc.detached {
		return sc.getDetached(key)
	}
	sc.record(key)
	return sc.store.readLocked(key)
}

func (sc *Scope) record(key string) {
	if sc.seen[key] {
		return
	}
	sc.seen[key] = true
	sc.reads = append(sc.reads, key)
}

// detach is called under the store lock when the evaluation suspends.
func (sc *Scope) detach(token uint64) {
	sc.detached = true
	sc.token = token
}

// getDetached serves reads made after the suspension point. A superseded
// scope records nothing: only the evaluation whose token won keeps edges.
func (sc *Scope) getDetached(key string) (any, error) {
	s := sc.store
	s.mu.Lock()
	if !sc.detached || s.cache.entry(sc.node.Key).token != sc.token {
		s.mu.Unlock()
		return nil, zerr.With(ErrStaleScope, "key", sc.node.Key)
	}
	if err := s.graph.AddDependency(sc.node.Key, key); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	value, err := s.readLocked(key)
	s.mu.Unlock()
	s.flush()
	return value, err
}
