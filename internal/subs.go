package internal

// subscribers is the per-key listener registry. Listeners are kept in
// registration order; snapshots taken during a propagation pass are what
// actually run, so unsubscribing mid-pass does not reorder anyone else.
type subscribers struct {
	byKey  map[string][]*subscription
	nextID uint64
}

type subscription struct {
	id uint64
	fn func()
}

func newSubscribers() *subscribers {
	return &subscribers{byKey: make(map[string][]*subscription)}
}

func (s *subscribers) add(key string, fn func()) uint64 {
	s.nextID++
	id := s.nextID
	s.byKey[key] = append(s.byKey[key], &subscription{id: id, fn: fn})
	return id
}

// remove is a no-op for ids already removed, which makes unsubscribe
// closures idempotent.
func (s *subscribers) remove(key string, id uint64) {
	subs := s.byKey[key]
	for i, sub := range subs {
		if sub.id == id {
			s.byKey[key] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

func (s *subscribers) snapshot(key string) []func() {
	subs := s.byKey[key]
	if len(subs) == 0 {
		return nil
	}
	out := make([]func(), len(subs))
	for i, sub := range subs {
		out[i] = sub.fn
	}
	return out
}
