package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeaveRequest_WorkingDays(t *testing.T) {
	req := LeaveRequest{
		StartDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 5, req.WorkingDays())

	req.EndDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, req.WorkingDays())
}

func TestLeaveStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusPending.IsValid())
	assert.False(t, LeaveStatus("PENDING").IsValid())
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	req := CreateLeaveRequest{Type: TypeAnnual, StartDate: "2025-03-03", EndDate: "2025-03-07"}
	assert.NoError(t, req.Validate())

	req = CreateLeaveRequest{Type: TypeAnnual, StartDate: "2025-03-07", EndDate: "2025-03-03"}
	assert.ErrorContains(t, req.Validate(), "endDate")

	req = CreateLeaveRequest{Type: "RTT", StartDate: "2025-03-03", EndDate: "2025-03-07"}
	assert.ErrorContains(t, req.Validate(), "type")
}

func TestCountByStatus(t *testing.T) {
	c := CountByStatus([]LeaveRequest{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusApproved},
		{Status: StatusRejected},
		{Status: StatusCancelled},
	})
	assert.Equal(t, Counters{Total: 5, Pending: 2, Approved: 1, Rejected: 1}, c)
}
