package http

import (
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	ListByCompany(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	MyBalance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// Create submits a leave request. Without employeeId the request is filed for the
// caller's own employee profile.
func (h *leaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req, "CreateLeave") {
		return
	}

	row, err := h.leaveService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", row)
}

func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Leave request ID")
	if !ok {
		return
	}

	row, err := h.leaveService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", row)
}

func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Leave request ID")
	if !ok {
		return
	}

	var req leave.RejectRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req, "RejectLeave") {
		return
	}
	req.ID = id

	row, err := h.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", row)
}

func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Leave request ID")
	if !ok {
		return
	}

	row, err := h.leaveService.Cancel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", row)
}

// ListByCompany lists the active company's requests, optionally filtered by ?status=.
func (h *leaveHandlerImpl) ListByCompany(w http.ResponseWriter, r *http.Request) {
	status := leave.LeaveStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		response.BadRequest(w, "Invalid leave status", map[string]string{"status": string(status)})
		return
	}

	result, err := h.leaveService.ListByCompany(r.Context(), status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	rows, err := h.leaveService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaveService.ListMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

func (h *leaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	balance, err := h.leaveService.Balance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

func (h *leaveHandlerImpl) MyBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.leaveService.MyBalance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
