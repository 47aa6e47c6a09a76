package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	BulkGenerate(w http.ResponseWriter, r *http.Request)
	ListForCycle(w http.ResponseWriter, r *http.Request)
	DailyView(w http.ResponseWriter, r *http.Request)
	DailyCycles(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Absence automation
	MarkAutomaticAbsences(w http.ResponseWriter, r *http.Request)
	MarkAbsencesForDate(w http.ResponseWriter, r *http.Request)
	AbsenceStatistics(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Record upserts one employee's entry for one day.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordRequest
	if !decodeJSON(w, r, &req, "RecordAttendance") {
		return
	}

	result, err := h.attendanceService.RecordSingle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance recorded", result)
}

func (h *attendanceHandlerImpl) BulkGenerate(w http.ResponseWriter, r *http.Request) {
	var req attendance.BulkGenerateRequest
	if !decodeJSON(w, r, &req, "BulkGenerateAttendance") {
		return
	}

	result, err := h.attendanceService.BulkGenerate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance generated", result)
}

func (h *attendanceHandlerImpl) ListForCycle(w http.ResponseWriter, r *http.Request) {
	payRunID, ok := pathID(w, r, "payRunId", "Pay run ID")
	if !ok {
		return
	}

	list, err := h.attendanceService.ListForCycle(r.Context(), payRunID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// DailyView expects ?date=YYYY-MM-DD.
func (h *attendanceHandlerImpl) DailyView(w http.ResponseWriter, r *http.Request) {
	payRunID, ok := pathID(w, r, "payRunId", "Pay run ID")
	if !ok {
		return
	}

	view, err := h.attendanceService.DailyView(r.Context(), payRunID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *attendanceHandlerImpl) DailyCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.attendanceService.DailyCycles(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cycles)
}

func (h *attendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}

	list, err := h.attendanceService.ListByEmployee(r.Context(), employeeID, r.URL.Query().Get("payRunId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", "Employee ID")
	if !ok {
		return
	}
	payRunID, ok := pathID(w, r, "payRunId", "Pay run ID")
	if !ok {
		return
	}

	stats, err := h.attendanceService.Stats(r.Context(), employeeID, payRunID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Attendance ID")
	if !ok {
		return
	}

	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req, "UpdateAttendance") {
		return
	}
	req.ID = id

	updated, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", updated)
}

func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Attendance ID")
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(r.Context(), id, confirm.FromRequest(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

// MarkAutomaticAbsences targets the company in the path, or the active company
// when the route carries none.
func (h *attendanceHandlerImpl) MarkAutomaticAbsences(w http.ResponseWriter, r *http.Request) {
	run, err := h.attendanceService.MarkAutomaticAbsences(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Automatic absences marked", run)
}

func (h *attendanceHandlerImpl) MarkAbsencesForDate(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkForDateRequest
	if !decodeJSON(w, r, &req, "MarkAbsencesForDate") {
		return
	}

	run, err := h.attendanceService.MarkAbsencesForDate(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absences marked", run)
}

func (h *attendanceHandlerImpl) AbsenceStatistics(w http.ResponseWriter, r *http.Request) {
	payRunID, ok := pathID(w, r, "payRunId", "Pay run ID")
	if !ok {
		return
	}

	stats, err := h.attendanceService.AbsenceStatistics(r.Context(), payRunID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
