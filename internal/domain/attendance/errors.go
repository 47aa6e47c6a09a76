package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrPayRunClosed       = errors.New("pay run is closed, attendance can no longer change")
	ErrInvalidHours       = errors.New("hours must be between 0 and 24 in steps of 0.5")
)
