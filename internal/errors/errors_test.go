package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("WrapNilReturnsNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("WrapPreservesErrorChain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "failed to load token")
		assert.True(t, Is(wrapped, ErrNotFound))
		assert.Equal(t, "failed to load token: not found", wrapped.Error())
	})

	t.Run("WrapTwicePreservesRoot", func(t *testing.T) {
		inner := Wrap(ErrUnauthorized, "inner")
		outer := Wrap(inner, "outer")
		assert.True(t, Is(outer, ErrUnauthorized))
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("lookup failed: %w", ErrNotFound)
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
}

func TestNew(t *testing.T) {
	err := New("boom")
	assert.EqualError(t, err, "boom")
}
