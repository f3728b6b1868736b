package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	StatusReserved, StatusCheckedIn, StatusProgressing, StatusCompleted, StatusCancelled,
}

func TestNextStatus_LegalTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		ev   Event
		to   BookingStatus
	}{
		{StatusReserved, EventCheckIn, StatusCheckedIn},
		{StatusReserved, EventAssignServices, StatusProgressing},
		{StatusCheckedIn, EventAssignServices, StatusProgressing},
		{StatusProgressing, EventAssignServices, StatusProgressing},
		{StatusProgressing, EventComplete, StatusCompleted},
		{StatusCheckedIn, EventComplete, StatusCompleted},
		{StatusReserved, EventCancel, StatusCancelled},
		{StatusCheckedIn, EventCancel, StatusCancelled},
		{StatusProgressing, EventCancel, StatusCancelled},
		{StatusCancelled, EventRestore, StatusProgressing},
		{StatusCompleted, EventRestore, StatusProgressing},
		{StatusCompleted, EventFeedback, StatusCompleted},
		{StatusReserved, EventEdit, StatusReserved},
		{StatusCheckedIn, EventEdit, StatusCheckedIn},
		{StatusProgressing, EventEdit, StatusProgressing},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestNextStatus_EverythingElseIsIllegal(t *testing.T) {
	legal := map[Event][]BookingStatus{
		EventCheckIn:        {StatusReserved},
		EventAssignServices: {StatusReserved, StatusCheckedIn, StatusProgressing},
		EventComplete:       {StatusCheckedIn, StatusProgressing},
		EventCancel:         {StatusReserved, StatusCheckedIn, StatusProgressing},
		EventRestore:        {StatusCancelled, StatusCompleted},
		EventFeedback:       {StatusCompleted},
		EventEdit:           {StatusReserved, StatusCheckedIn, StatusProgressing},
	}

	for ev, allowed := range legal {
		for _, from := range allStatuses {
			if containsStatus(allowed, from) {
				continue
			}
			t.Run(string(from)+"/"+string(ev), func(t *testing.T) {
				got, err := NextStatus(from, ev)
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrIllegalTransition))
				assert.Equal(t, from, got)

				var te *TransitionError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, from, te.From)
				assert.Equal(t, ev, te.Event)
			})
		}
	}
}

func TestNextStatus_Examples(t *testing.T) {
	_, err := NextStatus(StatusCompleted, EventCancel)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = NextStatus(StatusProgressing, EventCheckIn)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestArchivesOnEnter(t *testing.T) {
	assert.True(t, ArchivesOnEnter(StatusProgressing, StatusCompleted))
	assert.True(t, ArchivesOnEnter(StatusReserved, StatusCancelled))
	assert.False(t, ArchivesOnEnter(StatusCompleted, StatusCompleted))
	assert.False(t, ArchivesOnEnter(StatusCheckedIn, StatusProgressing))
}

func TestRequiresAdmin(t *testing.T) {
	assert.True(t, RequiresAdmin(EventRestore))
	assert.False(t, RequiresAdmin(EventCancel))
}

func containsStatus(list []BookingStatus, s BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
