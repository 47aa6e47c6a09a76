package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrInvalidDateRange             = errors.New("start date must not be after end date")
	ErrEmployeeProfileRequired      = errors.New("current user is not linked to an employee profile")
)
