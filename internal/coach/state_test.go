package coach_test

import (
	"testing"

	"alcyxob/fitness-coach/internal/coach"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_HappyPathToSuccess(t *testing.T) {
	tr := coach.NewTracker()
	assert.Equal(t, coach.StatePending, tr.State())
	assert.False(t, tr.Terminal())

	require.NoError(t, tr.Confirm())
	assert.Equal(t, coach.StateConfirmed, tr.State())

	require.NoError(t, tr.Complete(true))
	assert.Equal(t, coach.StateSucceeded, tr.State())
	assert.True(t, tr.Terminal())
}

func TestTracker_FailureIsTerminal(t *testing.T) {
	tr := coach.NewTracker()
	require.NoError(t, tr.Confirm())
	require.NoError(t, tr.Complete(false))

	assert.Equal(t, coach.StateFailed, tr.State())
	assert.True(t, tr.Terminal())

	// No retry: a failed action cannot be confirmed or completed again.
	assert.ErrorIs(t, tr.Confirm(), coach.ErrInvalidTransition)
	assert.ErrorIs(t, tr.Complete(true), coach.ErrInvalidTransition)
}

func TestTracker_CancelOnlyFromPending(t *testing.T) {
	tr := coach.NewTracker()
	require.NoError(t, tr.Cancel())
	assert.Equal(t, coach.StateCancelled, tr.State())
	assert.True(t, tr.Terminal())

	confirmed := coach.NewTracker()
	require.NoError(t, confirmed.Confirm())
	assert.ErrorIs(t, confirmed.Cancel(), coach.ErrInvalidTransition)
}

func TestTracker_CannotCompleteFromPending(t *testing.T) {
	tr := coach.NewTracker()
	assert.ErrorIs(t, tr.Complete(true), coach.ErrInvalidTransition)
	assert.Equal(t, coach.StatePending, tr.State())
}

func TestTracker_DoubleConfirmRejected(t *testing.T) {
	tr := coach.NewTracker()
	require.NoError(t, tr.Confirm())
	assert.ErrorIs(t, tr.Confirm(), coach.ErrInvalidTransition)
	assert.Equal(t, coach.StateConfirmed, tr.State())
}
