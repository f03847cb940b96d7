package reflux

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtom(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		s := NewStore()

		count, err := NewAtom(s, "count", 0)
		require.NoError(t, err)

		v, err := count.Read()
		require.NoError(t, err)
		assert.Equal(t, 0, v)

		require.NoError(t, count.Write(10))
		v, err = count.Read()
		require.NoError(t, err)
		assert.Equal(t, 10, v)
	})

	t.Run("zero values", func(t *testing.T) {
		s := NewStore()

		e, err := NewAtom[error](s, "err", nil)
		require.NoError(t, err)

		v, err := e.Read()
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, e.Write(errors.New("oops")))
		v, err = e.Read()
		require.NoError(t, err)
		assert.EqualError(t, v, "oops")
	})

	t.Run("duplicate key", func(t *testing.T) {
		s := NewStore()

		_, err := NewAtom(s, "count", 0)
		require.NoError(t, err)

		_, err = NewAtom(s, "count", 1)
		assert.ErrorIs(t, err, ErrDuplicateKey)

		_, err = NewSelector(s, "count", func(sc *Scope) (int, error) {
			return 0, nil
		})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("unknown key", func(t *testing.T) {
		s := NewStore()

		_, err := s.Read("missing")
		assert.ErrorIs(t, err, ErrUnknownKey)

		err = s.Write("missing", 1)
		assert.ErrorIs(t, err, ErrUnknownKey)

		assert.Equal(t, StatusUninitialized, s.Status("missing"))
	})

	t.Run("writing a selector is rejected", func(t *testing.T) {
		s := NewStore()

		sel, err := NewSelector(s, "derived", func(sc *Scope) (int, error) {
			return 1, nil
		})
		require.NoError(t, err)

		err = s.Write(sel.Key(), 2)
		assert.ErrorIs(t, err, ErrNotAnAtom)

		v, err := sel.Read()
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("keys are isolated per store", func(t *testing.T) {
		s1 := NewStore()
		s2 := NewStore()

		a1, err := NewAtom(s1, "count", 1)
		require.NoError(t, err)
		a2, err := NewAtom(s2, "count", 2)
		require.NoError(t, err)

		require.NoError(t, a1.Write(10))

		v, err := a2.Read()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
}

func TestDefault(t *testing.T) {
	t.Run("same goroutine gets the same store", func(t *testing.T) {
		assert.Same(t, Default(), Default())
	})

	t.Run("usable without explicit construction", func(t *testing.T) {
		count, err := NewAtom(Default(), "default-count", 7)
		require.NoError(t, err)

		v, err := count.Read()
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})
}
