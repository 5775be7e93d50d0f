package models

import "errors"

// Error taxonomy shared by the repositories and services. Handlers match
// these with errors.Is and map them to HTTP status codes.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrForbidden is returned when an authenticated caller fails an
	// ownership or role check for the target entity.
	ErrForbidden = errors.New("not authorized for this resource")

	// ErrCapacityExceeded is a business-rule rejection, not a fault: the
	// event has no spare seats at commit time, or a capacity edit would
	// drop seats_total below the current number of active bookings.
	ErrCapacityExceeded = errors.New("event is fully booked")

	// ErrDuplicateBooking guards the one-active-booking-per-(event,user)
	// invariant, backed by a unique compound index on the collection.
	ErrDuplicateBooking = errors.New("event already booked by this user")

	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrStoreUnavailable wraps connectivity-level failures from the
	// entity store so callers can tell them apart from domain rejections.
	ErrStoreUnavailable = errors.New("store unavailable")
)
