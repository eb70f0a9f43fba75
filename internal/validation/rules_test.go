package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("NilReturnsNil", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("token"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(""))
}

func TestTokenString(t *testing.T) {
	assert.NoError(t, TokenString.Validate("aB3xK9mPqR7sT2vW5yZ8cD1fG4hJ6kL0"))
	assert.Error(t, TokenString.Validate("abc<script>"))
	assert.Error(t, TokenString.Validate("with space"))
	assert.Error(t, TokenString.Validate("dash-ed"))
}
