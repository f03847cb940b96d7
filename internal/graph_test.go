package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph(t *testing.T) {
	t.Run("replacement keeps the transpose exact", func(t *testing.T) {
		g := NewGraph()

		require.NoError(t, g.SetDependencies("s", []string{"a", "b"}))
		assert.Equal(t, []string{"s"}, g.DependentsOf("a"))
		assert.Equal(t, []string{"s"}, g.DependentsOf("b"))

		require.NoError(t, g.SetDependencies("s", []string{"b", "c"}))
		assert.Empty(t, g.DependentsOf("a"), "stale edge must be dropped")
		assert.Equal(t, []string{"s"}, g.DependentsOf("b"))
		assert.Equal(t, []string{"s"}, g.DependentsOf("c"))
		assert.Equal(t, []string{"b", "c"}, g.DependenciesOf("s"))
	})

	t.Run("dependents keep edge order", func(t *testing.T) {
		g := NewGraph()

		require.NoError(t, g.SetDependencies("first", []string{"x"}))
		require.NoError(t, g.SetDependencies("second", []string{"x"}))
		require.NoError(t, g.SetDependencies("third", []string{"x"}))

		assert.Equal(t, []string{"first", "second", "third"}, g.DependentsOf("x"))
	})

	t.Run("cycle is rejected atomically", func(t *testing.T) {
		g := NewGraph()

		require.NoError(t, g.SetDependencies("b", []string{"a"}))
		require.NoError(t, g.SetDependencies("c", []string{"b"}))

		// a -> c would close a -> c -> b -> a.
		err := g.SetDependencies("a", []string{"fresh", "c"})
		assert.ErrorIs(t, err, ErrCyclicDependency)
		assert.Empty(t, g.DependenciesOf("a"), "rejected update must not leave partial edges")
		assert.Empty(t, g.DependentsOf("fresh"))

		err = g.SetDependencies("a", []string{"a"})
		assert.ErrorIs(t, err, ErrCyclicDependency, "self-loop")
	})

	t.Run("incremental append", func(t *testing.T) {
		g := NewGraph()

		require.NoError(t, g.SetDependencies("s", []string{"a"}))
		require.NoError(t, g.AddDependency("s", "b"))
		require.NoError(t, g.AddDependency("s", "b"))
		assert.Equal(t, []string{"a", "b"}, g.DependenciesOf("s"))
		assert.Equal(t, []string{"s"}, g.DependentsOf("b"))

		require.NoError(t, g.SetDependencies("t", []string{"s"}))
		err := g.AddDependency("s", "t")
		assert.ErrorIs(t, err, ErrCyclicDependency)
		assert.Equal(t, []string{"a", "b"}, g.DependenciesOf("s"))
	})
}

func TestCacheStore(t *testing.T) {
	t.Run("peek does not materialize entries", func(t *testing.T) {
		c := newCacheStore()

		assert.Equal(t, StatusUninitialized, c.peek("typo"))
		assert.Empty(t, c.entries)

		c.resolve("a", 1)
		assert.Equal(t, StatusResolved, c.peek("a"))
		assert.Len(t, c.entries, 1)
	})

	t.Run("invalidate only transitions live entries", func(t *testing.T) {
		c := newCacheStore()

		assert.False(t, c.invalidate("cold"), "uninitialized entries stay silent")

		c.resolve("a", 1)
		assert.True(t, c.invalidate("a"))
		assert.False(t, c.invalidate("a"), "already invalidated")

		c.beginAsync("b", 7)
		assert.True(t, c.invalidate("b"))
		assert.Zero(t, c.entry("b").token, "invalidation supersedes the in-flight token")
	})
}
