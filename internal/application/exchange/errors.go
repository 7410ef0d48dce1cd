package exchange

import "errors"

var (
	// ErrGroupDrawn is returned when an operation requires an open group.
	ErrGroupDrawn = errors.New("group has already been drawn")

	// ErrGroupNotDrawn is returned when an operation requires assignments
	// to exist.
	ErrGroupNotDrawn = errors.New("group has not been drawn yet")

	// ErrParticipantNotFound is returned when a participant ID does not
	// belong to the group.
	ErrParticipantNotFound = errors.New("participant not found in group")

	// ErrDuplicateEmail is returned when a join request reuses an email
	// already present in the group.
	ErrDuplicateEmail = errors.New("a participant with this email already joined")

	// ErrSelfExclusion is returned when an exclusion names the same
	// participant twice.
	ErrSelfExclusion = errors.New("an exclusion must name two different participants")
)
