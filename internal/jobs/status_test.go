package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionAllowsLegalMoves(t *testing.T) {
	to, err := Transition(StatusPending, StatusRunning)
	assert.NoError(t, err)
	assert.Equal(t, StatusRunning, to)

	to, err = Transition(StatusRunning, StatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, to)

	to, err = Transition(StatusRunning, StatusFailed)
	assert.NoError(t, err)
	assert.Equal(t, StatusFailed, to)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	_, err := Transition(StatusPending, StatusCompleted)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransitionRejectsAnyMoveFromTerminalState(t *testing.T) {
	_, err := Transition(StatusCompleted, StatusRunning)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = Transition(StatusFailed, StatusPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
