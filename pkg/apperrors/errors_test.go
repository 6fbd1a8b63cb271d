package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := NewValidationError(map[string]string{
		"b_field": "second",
		"a_field": "first",
	})

	// Field order in the message is alphabetical regardless of map order.
	assert.Equal(t, "validation failed: a_field: first; b_field: second", err.Error())
}

func TestCascadeErrorWrapsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := NewCascadeError(42, 10, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "request 42")
	assert.Contains(t, err.Error(), "equipment 10")

	var cascadeErr *CascadeError
	require.ErrorAs(t, error(err), &cascadeErr)
	assert.Equal(t, uint64(42), cascadeErr.RequestID)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewInternalError("something broke", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 500, err.Code)
}
