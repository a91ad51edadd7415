package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionForward(t *testing.T) {
	assert.NoError(t, CanTransition(StatusPlaced, StatusAccepted))
	assert.NoError(t, CanTransition(StatusAccepted, StatusBeingPrepared))
	assert.NoError(t, CanTransition(StatusBeingPrepared, StatusOutForDelivery))
	assert.NoError(t, CanTransition(StatusOutForDelivery, StatusDelivered))
	assert.NoError(t, CanTransition(StatusOutForDelivery, StatusCompleted))
}

func TestCanTransitionSkipsIntermediateStates(t *testing.T) {
	assert.NoError(t, CanTransition(StatusPlaced, StatusOutForDelivery))
	assert.NoError(t, CanTransition(StatusAccepted, StatusCompleted))
}

func TestCanTransitionRejectsBackwardMoves(t *testing.T) {
	assert.ErrorIs(t, CanTransition(StatusOutForDelivery, StatusAccepted), ErrBackwardTransition)
	assert.ErrorIs(t, CanTransition(StatusAccepted, StatusPlaced), ErrBackwardTransition)
	assert.ErrorIs(t, CanTransition(StatusPlaced, StatusPlaced), ErrBackwardTransition)
}

func TestCanTransitionRejectsTerminalStates(t *testing.T) {
	assert.ErrorIs(t, CanTransition(StatusDelivered, StatusCompleted), ErrTerminalStatus)
	assert.ErrorIs(t, CanTransition(StatusDelivered, StatusAccepted), ErrTerminalStatus)
	assert.ErrorIs(t, CanTransition(StatusCompleted, StatusDelivered), ErrTerminalStatus)
}

func TestCanTransitionRejectsUnknownStatuses(t *testing.T) {
	assert.ErrorIs(t, CanTransition("Placed", "Cancelled"), ErrUnknownStatus)
	assert.ErrorIs(t, CanTransition("Refunded", StatusAccepted), ErrUnknownStatus)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.False(t, IsTerminal(StatusPlaced))
	assert.False(t, IsTerminal(StatusOutForDelivery))
}
