package apperr

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how the client should treat them.
type Kind int

const (
	KindNotFound Kind = iota
	KindConflict
	KindPrecondition
	KindIntegrity
)

// Error is a domain error with a stable machine code.
// Raw storage errors are never exposed to clients; every client-visible
// failure is one of these.
type Error struct {
	Code    string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Not-found family
var (
	ErrUserNotFound            = &Error{Code: "USER_NOT_FOUND", Kind: KindNotFound, Message: "user not found"}
	ErrTutorNotFound           = &Error{Code: "TUTOR_NOT_FOUND", Kind: KindNotFound, Message: "tutor not found"}
	ErrSubjectNotFound         = &Error{Code: "SUBJECT_NOT_FOUND", Kind: KindNotFound, Message: "subject not found"}
	ErrTimeSlotNotFound        = &Error{Code: "TIME_SLOT_NOT_FOUND", Kind: KindNotFound, Message: "time slot not found"}
	ErrSubjectTierNotFound     = &Error{Code: "SUBJECT_TIER_NOT_FOUND", Kind: KindNotFound, Message: "no subject tier covers this subject for this tutor"}
	ErrPackageOfferingNotFound = &Error{Code: "PACKAGE_OFFERING_NOT_FOUND", Kind: KindNotFound, Message: "package offering not found"}
	ErrPackageTypeNotFound     = &Error{Code: "PACKAGE_TYPE_NOT_FOUND", Kind: KindNotFound, Message: "package type not found"}
	ErrPackageNotFound         = &Error{Code: "PACKAGE_NOT_FOUND", Kind: KindNotFound, Message: "session package not found"}
	ErrSessionNotFound         = &Error{Code: "SESSION_NOT_FOUND", Kind: KindNotFound, Message: "class session not found"}
	ErrBookingNotFound         = &Error{Code: "BOOKING_NOT_FOUND", Kind: KindNotFound, Message: "booking not found"}
	ErrMeetLinkNotFound        = &Error{Code: "MEET_LINK_NOT_FOUND", Kind: KindNotFound, Message: "meet link expired or unknown"}
)

// Conflict family
var (
	ErrTimeSlotAlreadyBooked = &Error{Code: "TIME_SLOT_ALREADY_BOOKED", Kind: KindConflict, Message: "time slot is already booked"}
	ErrPackageTypeExists     = &Error{Code: "PACKAGE_TYPE_ALREADY_EXISTS", Kind: KindConflict, Message: "package type already exists"}
	ErrBookingAlreadyExists  = &Error{Code: "BOOKING_ALREADY_EXISTS", Kind: KindConflict, Message: "an active booking already exists for this slot"}
	ErrPackageNotPending     = &Error{Code: "PACKAGE_NOT_PENDING", Kind: KindConflict, Message: "session package has already been decided"}
	ErrBookingNotActive      = &Error{Code: "BOOKING_NOT_ACTIVE", Kind: KindConflict, Message: "booking is not in an active state"}
	ErrSessionNotCancelable  = &Error{Code: "SESSION_NOT_CANCELABLE", Kind: KindConflict, Message: "session is completed and can no longer be canceled"}
)

// Precondition family
var (
	ErrInsufficientCredits = &Error{Code: "INSUFFICIENT_CREDITS", Kind: KindPrecondition, Message: "student does not have enough credits"}
	ErrInvalidTimeSlots    = &Error{Code: "INVALID_TIMESLOTS", Kind: KindPrecondition, Message: "time slot list must be non-empty"}
	ErrMixedSlotOwners     = &Error{Code: "MIXED_SLOT_OWNERS", Kind: KindPrecondition, Message: "all requested time slots must belong to one tutor"}
	ErrTooManySessions     = &Error{Code: "TOO_MANY_SESSIONS", Kind: KindPrecondition, Message: "requested sessions exceed the package maximum"}
	ErrOfferingMismatch    = &Error{Code: "OFFERING_TUTOR_MISMATCH", Kind: KindPrecondition, Message: "package offering does not belong to the slots' tutor"}
	ErrNoPermission        = &Error{Code: "NO_PERMISSION", Kind: KindPrecondition, Message: "caller may not perform this action"}
	ErrNotATutor           = &Error{Code: "NOT_A_TUTOR", Kind: KindPrecondition, Message: "user is not a tutor"}
	ErrSlotInPast          = &Error{Code: "TIME_SLOT_IN_PAST", Kind: KindPrecondition, Message: "time slot start is in the past"}
	ErrInvalidAmount       = &Error{Code: "INVALID_AMOUNT", Kind: KindPrecondition, Message: "credit amount must be positive"}
)

// Integrity family — data errors, not user errors.
var (
	ErrAmbiguousSubjectTier = &Error{Code: "AMBIGUOUS_SUBJECT_TIER", Kind: KindIntegrity, Message: "subject belongs to more than one tier for this tutor"}
)

// Is reports whether err is (or wraps) the given domain error.
func Is(err error, target *Error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == target.Code
	}
	return false
}

// CodeOf extracts the stable code from err, empty if err is not a domain error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
