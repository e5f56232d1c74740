package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentionWindow_Transitions(t *testing.T) {
	w := &ContentionWindow{State: WindowScheduled}

	require.NoError(t, w.TransitionTo(WindowOpen))
	require.NoError(t, w.TransitionTo(WindowClosed))
	require.NoError(t, w.TransitionTo(WindowAllocating))
	require.NoError(t, w.TransitionTo(WindowAllocated))
	assert.True(t, w.IsTerminal())

	// Из терминального состояния переходов нет
	assert.ErrorIs(t, w.TransitionTo(WindowAllocating), ErrInvalidTransition)
}

func TestContentionWindow_FailedRetry(t *testing.T) {
	w := &ContentionWindow{State: WindowAllocating}

	require.NoError(t, w.TransitionTo(WindowFailed))

	// Повтор прогона: failed -> allocating
	require.NoError(t, w.TransitionTo(WindowAllocating))
	require.NoError(t, w.TransitionTo(WindowAllocated))
}

func TestContentionWindow_InvalidTransitions(t *testing.T) {
	cases := []struct {
		from WindowState
		to   WindowState
	}{
		{WindowScheduled, WindowClosed},
		{WindowScheduled, WindowAllocating},
		{WindowOpen, WindowAllocating},
		{WindowClosed, WindowOpen},
		{WindowClosed, WindowAllocated},
		{WindowFailed, WindowClosed},
	}

	for _, tc := range cases {
		w := &ContentionWindow{State: tc.from}
		assert.ErrorIs(t, w.TransitionTo(tc.to), ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, w.State)
	}
}

func TestContentionWindow_AcceptsPreferenceWrites(t *testing.T) {
	assert.True(t, (&ContentionWindow{State: WindowScheduled}).AcceptsPreferenceWrites())
	assert.True(t, (&ContentionWindow{State: WindowOpen}).AcceptsPreferenceWrites())

	// После закрытия снапшот неизменяем
	assert.False(t, (&ContentionWindow{State: WindowClosed}).AcceptsPreferenceWrites())
	assert.False(t, (&ContentionWindow{State: WindowAllocating}).AcceptsPreferenceWrites())
	assert.False(t, (&ContentionWindow{State: WindowAllocated}).AcceptsPreferenceWrites())
	assert.False(t, (&ContentionWindow{State: WindowFailed}).AcceptsPreferenceWrites())
}
