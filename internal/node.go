package internal

import "go.trai.ch/zerr"

type Kind int

const (
	KindAtom Kind = iota
	KindSelector
)

// ComputeFunc derives a selector's value from other nodes read through the
// scope. Returning a *Deferred switches the evaluation to the async path.
type ComputeFunc func(sc *Scope) (any, error)

// Node is an immutable descriptor. It carries either a default value (atom)
// or a compute function (selector), never both.
type Node struct {
	Key     string
	Kind    Kind
	Default any
	Compute ComputeFunc
}

type registry struct {
	nodes map[string]*Node
}

func newRegistry() *registry {
	return &registry{nodes: make(map[string]*Node)}
}

func (r *registry) register(n *Node) error {
	if _, ok := r.nodes[n.Key]; ok {
		return zerr.With(ErrDuplicateKey, "key", n.Key)
	}
	r.nodes[n.Key] = n
	return nil
}

func (r *registry) lookup(key string) (*Node, error) {
	n, ok := r.nodes[key]
	if !ok {
		return nil, zerr.With(ErrUnknownKey, "key", key)
	}
	return n, nil
}
