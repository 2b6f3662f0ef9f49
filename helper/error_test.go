package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	t.Run("Wraps operation and error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := NewError("query", inner)

		require.NotNil(t, err, "Expected NewError to return a non-nil error")
		assert.Equal(t, "query", err.Operation, "Expected operation to be kept")
		assert.Equal(t, inner, err.Err, "Expected inner error to be kept")
		assert.Contains(t, err.Error(), "query", "Expected message to contain the operation")
		assert.Contains(t, err.Error(), "connection refused", "Expected message to contain the inner error")
	})

	t.Run("Unwraps to the inner error", func(t *testing.T) {
		inner := errors.New("no rows")
		err := NewError("scan", inner)

		assert.ErrorIs(t, err, inner, "Expected errors.Is to find the inner error")
	})

	t.Run("Supports wrapped chains", func(t *testing.T) {
		inner := errors.New("timeout")
		middle := fmt.Errorf("request failed: %w", inner)
		err := NewError("generate embedding", middle)

		assert.ErrorIs(t, err, inner, "Expected errors.Is to traverse the whole chain")
	})
}
