package attendance

import "errors"

// Attendance domain errors. Every precondition failure names what was
// violated so callers can render a precise message.
var (
	// State machine errors
	ErrAlreadyCheckedIn  = errors.New("check-in time is already set for today")
	ErrAlreadyCheckedOut = errors.New("check-out time is already set for today")
	ErrCheckInRequired   = errors.New("no check-in has been recorded for today")

	// Filter validation errors
	ErrInvalidEmployeeID = errors.New("employee id is not a valid identifier")
	ErrInvalidDateFilter = errors.New("date filter could not be parsed")

	// General errors
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrStoreUnavailable = errors.New("attendance store unavailable")
)
