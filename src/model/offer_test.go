package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusAccepted))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.True(t, StatusPending.CanTransitionTo(StatusCanceled))
	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))

	assert.True(t, StatusAccepted.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusAccepted.CanTransitionTo(StatusCanceled))
	assert.False(t, StatusAccepted.CanTransitionTo(StatusRejected))

	for _, terminal := range []OfferStatus{StatusRejected, StatusCanceled, StatusCompleted} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range []OfferStatus{StatusPending, StatusAccepted, StatusRejected, StatusCanceled, StatusCompleted} {
			assert.False(t, terminal.CanTransitionTo(next))
		}
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPending, ParseStatus(0))
	assert.Equal(t, StatusCompleted, ParseStatus(4))
	assert.Equal(t, StatusUnknown, ParseStatus(9))
	assert.Equal(t, StatusUnknown, ParseStatus(-3))
}

func TestDefaultVisibleStatuses(t *testing.T) {
	visible := DefaultVisibleStatuses()
	assert.True(t, visible[StatusPending])
	assert.True(t, visible[StatusAccepted])
	assert.True(t, visible[StatusRejected])
	assert.False(t, visible[StatusCanceled])
	assert.False(t, visible[StatusCompleted])
	assert.False(t, visible[StatusUnknown])
}
