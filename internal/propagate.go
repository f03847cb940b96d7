package internal

// propagate performs one invalidation pass: a breadth-first walk of the
// dependents index starting from the changed origins. Each reachable node
// is invalidated at most once per pass (diamonds collapse), and only nodes
// that actually transition are notified; a node already Invalidated from an
// earlier pass stays silent. Nothing is recomputed here — re-evaluation
// happens lazily on the next read.
//
// Called with the store lock held. Notifications are queued, not run: the
// flush loop drains them outside the lock, one pass at a time.
func (s *Store) propagate(origins []string) {
	order := make([]string, 0, len(origins))
	visited := make(map[string]bool, len(origins))
	var queue []string

	for _, o := range origins {
		visited[o] = true
		order = append(order, o)
	}
	for _, o := range origins {
		queue = append(queue, s.graph.DependentsOf(o)...)
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if visited[key] {
			continue
		}
		visited[key] = true
		if !s.cache.invalidate(key) {
			continue
		}
		order = append(order, key)
		queue = append(queue, s.graph.DependentsOf(key)...)
	}

	for _, key := range order {
		s.notifyQueue = append(s.notifyQueue, s.subs.snapshot(key)...)
	}
}
