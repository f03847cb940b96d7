package internal

import "sync"

// Deferred is the asynchronous completion handle a compute function may
// return instead of a value. It settles exactly once; later settles are
// no-ops. The engine never cancels a deferred — superseding happens at the
// store through the token check when the settlement arrives.
type Deferred struct {
	mu        sync.Mutex
	settled   bool
	value     any
	err       error
	callbacks []func(value any, err error)
}

func NewDeferred() *Deferred {
	return &Deferred{}
}

func (d *Deferred) Resolve(value any) { d.settle(value, nil) }

func (d *Deferred) Reject(err error) { d.settle(nil, err) }

func (d *Deferred) settle(value any, err error) {
	d.mu.Lock()
	if d.settled {
		d.mu.Unlock()
		return
	}
	d.settled = true
	d.value = value
	d.err = err
	callbacks := d.callbacks
	d.callbacks = nil
	d.mu.Unlock()

	for _, fn := range callbacks {
		fn(value, err)
	}
}

// onSettle runs fn when the deferred settles. If it already has, fn runs on
// a fresh goroutine: the caller registers while holding the store lock, and
// the callback re-enters the store.
func (d *Deferred) onSettle(fn func(value any, err error)) {
	d.mu.Lock()
	if d.settled {
		value, err := d.value, d.err
		d.mu.Unlock()
		go fn(value, err)
		return
	}
	d.callbacks = append(d.callbacks, fn)
	d.mu.Unlock()
}
