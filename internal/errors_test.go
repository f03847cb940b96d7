package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func TestErrors(t *testing.T) {
	t.Run("sentinel identity survives key context", func(t *testing.T) {
		for _, sentinel := range []error{
			ErrPendingRead,
			ErrCyclicDependency,
			ErrDuplicateKey,
			ErrUnknownKey,
			ErrNotAnAtom,
			ErrStaleScope,
		} {
			wrapped := zerr.With(sentinel, "key", "count")
			assert.ErrorIs(t, wrapped, sentinel)
		}
	})

	t.Run("computation error carries the cause", func(t *testing.T) {
		boom := errors.New("boom")

		err := newComputationError("failing", boom)
		assert.ErrorIs(t, err, boom)

		var ce *ComputationError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "failing", ce.Key)
	})

	t.Run("an already classified error is not re-wrapped", func(t *testing.T) {
		inner := newComputationError("origin", errors.New("boom"))

		outer := newComputationError("dependent", inner)
		assert.Same(t, inner, outer)

		var ce *ComputationError
		require.ErrorAs(t, outer, &ce)
		assert.Equal(t, "origin", ce.Key, "the originating selector stays named")
	})
}
