package reflux

import (
	"sync"

	"github.com/petermattis/goid"
)

var defaults sync.Map

// Default returns the calling goroutine's shared store, creating it on
// first use. It is a convenience for small programs; anything with a
// lifecycle (servers, tests) should construct its own store with NewStore.
func Default() *Store {
	gid := goid.Get()

	if s, ok := defaults.Load(gid); ok {
		return s.(*Store)
	}

	s := NewStore()
	defaults.Store(gid, s)
	return s
}
