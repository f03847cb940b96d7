package internal

type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusResolved
	StatusRejected
	StatusInvalidated
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "Uninitialized"
	case StatusPending:
		return "Pending"
	case StatusResolved:
		return "Resolved"
	case StatusRejected:
		return "Rejected"
	case StatusInvalidated:
		return "Invalidated"
	}
	return "Unknown"
}

// entry is a node's cache slot. token is non-zero only while Pending and
// names the single authoritative in-flight computation.
type entry struct {
	status Status
	value  any
	err    error
	token  uint64
}

// cacheStore owns every cache entry; all status transitions go through it.
type cacheStore struct {
	entries map[string]*entry
}

func newCacheStore() *cacheStore {
	return &cacheStore{entries: make(map[string]*entry)}
}

// peek reports key's status without materializing an entry, so probing an
// unregistered or never-read key does not accrete state.
func (c *cacheStore) peek(key string) Status {
	if e, ok := c.entries[key]; ok {
		return e.status
	}
	return StatusUninitialized
}

func (c *cacheStore) entry(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{status: StatusUninitialized}
		c.entries[key] = e
	}
	return e
}

func (c *cacheStore) resolve(key string, value any) {
	e := c.entry(key)
	e.status = StatusResolved
	e.value = value
	e.err = nil
	e.token = 0
}

func (c *cacheStore) reject(key string, err error) {
	e := c.entry(key)
	e.status = StatusRejected
	e.value = nil
	e.err = err
	e.token = 0
}

// beginAsync opens a Pending period under token. A previous in-flight
// computation is superseded, not cancelled: its completion will fail the
// token comparison and be discarded.
func (c *cacheStore) beginAsync(key string, token uint64) {
	e := c.entry(key)
	e.status = StatusPending
	e.value = nil
	e.err = nil
	e.token = token
}

// invalidate marks key stale and reports whether the status actually
// transitioned. Clearing the token supersedes any in-flight computation.
func (c *cacheStore) invalidate(key string) bool {
	e := c.entry(key)
	switch e.status {
	case StatusResolved, StatusRejected, StatusPending:
		e.status = StatusInvalidated
		e.token = 0
		return true
	}
	return false
}
