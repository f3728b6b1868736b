package domain

import (
	"errors"
	"fmt"
)

// Event is a lifecycle trigger applied to a booking
type Event string

const (
	EventCheckIn        Event = "check_in"
	EventAssignServices Event = "assign_services"
	EventComplete       Event = "complete"
	EventCancel         Event = "cancel"
	EventRestore        Event = "restore"
	EventFeedback       Event = "feedback"
	EventEdit           Event = "edit"
)

// ErrIllegalTransition is the root of every rejected lifecycle transition
var ErrIllegalTransition = errors.New("illegal booking transition")

// TransitionError carries the current status so callers can reconcile their state
type TransitionError struct {
	From  BookingStatus
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s booking in status %s", ErrIllegalTransition, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// transitions lists every legal (from, event) pair and its target status.
// Anything not listed here is rejected.
var transitions = map[Event]map[BookingStatus]BookingStatus{
	EventCheckIn: {
		StatusReserved: StatusCheckedIn,
	},
	EventAssignServices: {
		StatusReserved:    StatusProgressing,
		StatusCheckedIn:   StatusProgressing,
		StatusProgressing: StatusProgressing,
	},
	EventComplete: {
		StatusCheckedIn:   StatusCompleted,
		StatusProgressing: StatusCompleted,
	},
	EventCancel: {
		StatusReserved:    StatusCancelled,
		StatusCheckedIn:   StatusCancelled,
		StatusProgressing: StatusCancelled,
	},
	EventRestore: {
		StatusCancelled: StatusProgressing,
		StatusCompleted: StatusProgressing,
	},
	EventFeedback: {
		StatusCompleted: StatusCompleted,
	},
	EventEdit: {
		StatusReserved:    StatusReserved,
		StatusCheckedIn:   StatusCheckedIn,
		StatusProgressing: StatusProgressing,
	},
}

// NextStatus returns the status a booking moves to when ev is applied in status from.
func NextStatus(from BookingStatus, ev Event) (BookingStatus, error) {
	if to, ok := transitions[ev][from]; ok {
		return to, nil
	}
	return from, &TransitionError{From: from, Event: ev}
}

// CanApply reports whether ev is legal in status from
func CanApply(from BookingStatus, ev Event) bool {
	_, err := NextStatus(from, ev)
	return err == nil
}

// RequiresAdmin reports whether the event is reserved for administrators
func RequiresAdmin(ev Event) bool {
	return ev == EventRestore
}

// ArchivesOnEnter reports whether entering status creates a HistoricalRecord
func ArchivesOnEnter(from, to BookingStatus) bool {
	return to.IsTerminal() && from != to
}
