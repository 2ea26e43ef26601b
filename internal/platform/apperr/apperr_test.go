package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "pet %d", 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "not found: pet 3", err.Error())
}

func TestKeepWrites(t *testing.T) {
	assert.Nil(t, KeepWrites(nil))

	err := KeepWrites(Wrap(ErrAlreadyDead, "pet 1"))
	assert.True(t, ShouldKeepWrites(err))
	assert.ErrorIs(t, err, ErrAlreadyDead)

	wrapped := fmt.Errorf("handle: %w", err)
	assert.True(t, ShouldKeepWrites(wrapped))

	assert.False(t, ShouldKeepWrites(errors.New("plain")))
	assert.False(t, ShouldKeepWrites(ErrAlreadyDead))
}
