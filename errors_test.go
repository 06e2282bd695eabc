package rttrace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesContext(t *testing.T) {
	err := NewCoreError("decode", 2, ErrCodeMalformedEvent, "unknown opcode 99")
	assert.Contains(t, err.Error(), "unknown opcode 99")
	assert.Contains(t, err.Error(), "core=2")
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NewCoreError("decode", 0, ErrCodeMalformedEvent, "truncated header")
	assert.True(t, errors.Is(err, &Error{Code: ErrCodeMalformedEvent}))
	assert.False(t, errors.Is(err, &Error{Code: ErrCodeMissingSyntheticTask}))
}

func TestWrapErrorPreservesCode(t *testing.T) {
	inner := NewTaskError("reconstruct", 1, 7, ErrCodeMissingSyntheticTask, "no tick task for core 1")
	wrapped := WrapError("reconstruct", inner)

	require.NotNil(t, wrapped)
	assert.Equal(t, "reconstruct", wrapped.Op)
	assert.Equal(t, ErrCodeMissingSyntheticTask, wrapped.Code)
	assert.Equal(t, uint32(7), wrapped.TaskID)
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapErrorNilIsNil(t *testing.T) {
	assert.Nil(t, WrapError("op", nil))
}

func TestIsCode(t *testing.T) {
	err := NewError("merge", ErrCodeTruncatedRun, "stream ended with open jobs")
	assert.True(t, IsCode(err, ErrCodeTruncatedRun))
	assert.False(t, IsCode(err, ErrCodeMalformedEvent))
	assert.False(t, IsCode(errors.New("plain error"), ErrCodeTruncatedRun))
}
