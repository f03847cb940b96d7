package internal

import (
	"sync"

	"go.trai.ch/zerr"
)

// Store is one reactive engine instance: node registry, dependency graph,
// cache and subscriptions behind a single mutex. The engine is cooperative,
// not parallel — the lock serializes entries from the outside world (reads,
// writes, deferred settlements) so that everything between two suspension
// points is atomic to observers.
type Store struct {
	mu sync.Mutex

	registry *registry
	graph    *Graph
	cache    *cacheStore
	subs     *subscribers

	evalStack map[string]bool
	nextToken uint64

	batchDepth     int
	pendingOrigins *keyList

	notifyQueue []func()
	flushing    bool
}

func NewStore() *Store {
	return &Store{
		registry:       newRegistry(),
		graph:          NewGraph(),
		cache:          newCacheStore(),
		subs:           newSubscribers(),
		evalStack:      make(map[string]bool),
		pendingOrigins: newKeyList(),
	}
}

func (s *Store) Register(n *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.register(n)
}

// Read returns key's current value, evaluating it first when the cache is
// cold or invalidated. Pending nodes fail with ErrPendingRead; the caller
// retries after the next notification for key.
func (s *Store) Read(key string) (any, error) {
	s.mu.Lock()
	value, err := s.readLocked(key)
	s.mu.Unlock()
	s.flush()
	return value, err
}

func (s *Store) readLocked(key string) (any, error) {
	n, err := s.registry.lookup(key)
	if err != nil {
		return nil, err
	}
	e := s.cache.entry(key)
	switch e.status {
	case StatusResolved:
		return e.value, nil
	case StatusRejected:
		return nil, e.err
	case StatusPending:
		return nil, zerr.With(ErrPendingRead, "key", key)
	}

	if n.Kind == KindAtom {
		// First read materializes the default. Not a change: no propagation.
		s.cache.resolve(key, n.Default)
		return n.Default, nil
	}
	return s.evaluate(n)
}

// Write sets an atom's value and runs a full propagation pass, even when
// the value is unchanged — there is no equality short-circuit.
func (s *Store) Write(key string, value any) error {
	s.mu.Lock()
	n, err := s.registry.lookup(key)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if n.Kind != KindAtom {
		s.mu.Unlock()
		return zerr.With(ErrNotAnAtom, "key", key)
	}
	s.cache.resolve(key, value)
	if s.batchDepth > 0 {
		s.pendingOrigins.add(key)
		s.mu.Unlock()
		return nil
	}
	s.propagate([]string{key})
	s.mu.Unlock()
	s.flush()
	return nil
}

// Batch coalesces the writes made inside fn into a single propagation pass,
// so a node reachable from several written atoms is invalidated and
// notified once. Batches nest; only the outermost flushes.
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	fn()

	s.mu.Lock()
	s.batchDepth--
	if s.batchDepth == 0 && len(s.pendingOrigins.keys) > 0 {
		origins := s.pendingOrigins.keys
		s.pendingOrigins = newKeyList()
		s.propagate(origins)
	}
	s.mu.Unlock()
	s.flush()
}

// Subscribe registers fn to run after key resolves, rejects or is
// invalidated. The returned closure unsubscribes and is safe to call more
// than once.
func (s *Store) Subscribe(key string, fn func()) func() {
	s.mu.Lock()
	id := s.subs.add(key, fn)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.subs.remove(key, id)
		s.mu.Unlock()
	}
}

// StatusOf reports key's current cache status.
func (s *Store) StatusOf(key string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.peek(key)
}

// Dependencies returns the keys key read during its last committed
// evaluation, in read order.
func (s *Store) Dependencies(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.DependenciesOf(key)
}

// Dependents returns the keys currently reading key, in edge order.
func (s *Store) Dependents(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.DependentsOf(key)
}

// flush drains queued notifications. One pass's callbacks fully complete
// before a pass they trigger begins; re-entrant calls (a callback reading
// or writing the store) return immediately and leave the draining to the
// outer loop. During a batch nothing drains until the batch closes.
func (s *Store) flush() {
	s.mu.Lock()
	if s.flushing || s.batchDepth > 0 {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	for len(s.notifyQueue) > 0 {
		fn := s.notifyQueue[0]
		s.notifyQueue = s.notifyQueue[1:]
		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}
	s.flushing = false
	s.mu.Unlock()
}
