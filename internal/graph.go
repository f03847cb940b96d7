package internal

import "go.trai.ch/zerr"

// keyList is an insertion-ordered string set. Order matters: propagation
// visits dependents in the order their edges were first recorded, which
// keeps notification order deterministic.
type keyList struct {
	keys  []string
	index map[string]int
}

func newKeyList(keys ...string) *keyList {
	l := &keyList{index: make(map[string]int, len(keys))}
	for _, k := range keys {
		l.add(k)
	}
	return l
}

func (l *keyList) add(key string) {
	if _, ok := l.index[key]; ok {
		return
	}
	l.index[key] = len(l.keys)
	l.keys = append(l.keys, key)
}

func (l *keyList) remove(key string) {
	i, ok := l.index[key]
	if !ok {
		return
	}
	delete(l.index, key)
	l.keys = append(l.keys[:i], l.keys[i+1:]...)
	for j := i; j < len(l.keys); j++ {
		l.index[l.keys[j]] = j
	}
}

func (l *keyList) has(key string) bool {
	_, ok := l.index[key]
	return ok
}

// Graph holds dependency edges (node -> nodes it reads) and their exact
// transpose (node -> nodes that read it), updated together.
type Graph struct {
	deps map[string]*keyList
	subs map[string]*keyList
}

func NewGraph() *Graph {
	return &Graph{
		deps: make(map[string]*keyList),
		subs: make(map[string]*keyList),
	}
}

func (g *Graph) subsOf(key string) *keyList {
	l, ok := g.subs[key]
	if !ok {
		l = newKeyList()
		g.subs[key] = l
	}
	return l
}

// SetDependencies replaces key's outgoing edges with reads, keeping the
// dependents index consistent via set difference: only edges actually
// removed or added touch the transpose. Rejects cycles without mutating.
func (g *Graph) SetDependencies(key string, reads []string) error {
	next := newKeyList(reads...)
	for _, dep := range next.keys {
		if err := g.checkAcyclic(key, dep); err != nil {
			return err
		}
	}

	old := g.deps[key]
	if old != nil {
		for _, dep := range old.keys {
			if !next.has(dep) {
				g.subsOf(dep).remove(key)
			}
		}
	}
	for _, dep := range next.keys {
		if old == nil || !old.has(dep) {
			g.subsOf(dep).add(key)
		}
	}
	g.deps[key] = next
	return nil
}

// AddDependency appends a single edge, used when an async evaluation reads
// another node after its suspension point.
func (g *Graph) AddDependency(key, dep string) error {
	if err := g.checkAcyclic(key, dep); err != nil {
		return err
	}
	cur := g.deps[key]
	if cur == nil {
		cur = newKeyList()
		g.deps[key] = cur
	}
	if cur.has(dep) {
		return nil
	}
	cur.add(dep)
	g.subsOf(dep).add(key)
	return nil
}

// DependentsOf returns a snapshot of key's dependents in edge order.
func (g *Graph) DependentsOf(key string) []string {
	l, ok := g.subs[key]
	if !ok || len(l.keys) == 0 {
		return nil
	}
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// DependenciesOf returns a snapshot of key's outgoing edges in read order.
func (g *Graph) DependenciesOf(key string) []string {
	l, ok := g.deps[key]
	if !ok || len(l.keys) == 0 {
		return nil
	}
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// checkAcyclic reports whether linking key -> dep would close a cycle,
// i.e. whether key is reachable from dep along existing dependency edges.
func (g *Graph) checkAcyclic(key, dep string) error {
	if dep == key {
		return zerr.With(ErrCyclicDependency, "key", key)
	}
	seen := map[string]bool{dep: true}
	stack := []string{dep}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		next, ok := g.deps[cur]
		if !ok {
			continue
		}
		for _, n := range next.keys {
			if n == key {
				return zerr.With(ErrCyclicDependency, "key", key)
			}
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return nil
}
