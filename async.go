package reflux

import "github.com/avendel/reflux/internal"

// Deferred is a typed asynchronous completion handle. It settles exactly
// once; the engine discards settlements of superseded computations through
// its token check, so settling a stale deferred is always safe.
type Deferred[T any] struct {
	inner *internal.Deferred
}

func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{inner: internal.NewDeferred()}
}

func (d *Deferred[T]) Resolve(v T) { d.inner.Resolve(v) }

func (d *Deferred[T]) Reject(err error) { d.inner.Reject(err) }

// Defer runs fn on its own goroutine and settles the returned handle with
// its outcome.
func Defer[T any](fn func() (T, error)) *Deferred[T] {
	d := NewDeferred[T]()
	go func() {
		v, err := fn()
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(v)
	}()
	return d
}

// NewAsyncSelector registers a selector whose compute function returns a
// deferred handle instead of a value. Reads made through the scope before
// returning are the pre-suspension dependencies; reads after are appended
// incrementally while the evaluation's token stays current. Reading the
// selector fails with ErrPendingRead until the handle settles.
func NewAsyncSelector[T any](s *Store, key string, compute func(sc *Scope) (*Deferred[T], error)) (*Selector[T], error) {
	node := &internal.Node{
		Key:  key,
		Kind: internal.KindSelector,
		Compute: func(sc *internal.Scope) (any, error) {
			d, err := compute(sc)
			if err != nil {
				return nil, err
			}
			return d.inner, nil
		},
	}
	if err := s.store.Register(node); err != nil {
		return nil, err
	}
	return &Selector[T]{store: s.store, key: key}, nil
}
