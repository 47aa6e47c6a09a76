package http

import (
	"net/http"
	"strconv"

	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	ToggleStatus(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// ListEmployees implements EmployeeHandler. Query parameters narrow the listing:
// companyId, contractType, position, search and isActive.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := employee.EmployeeFilter{
		CompanyID:    q.Get("companyId"),
		ContractType: employee.ContractType(q.Get("contractType")),
		Position:     q.Get("position"),
		Search:       q.Get("search"),
	}
	if filter.Search == "" {
		filter.Search = q.Get("q")
	}
	if v := q.Get("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "isActive must be true or false", nil)
			return
		}
		filter.IsActive = &active
	}

	employees, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	result, err := h.employeeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req, "CreateEmployee") {
		return
	}

	created, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", created)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req, "UpdateEmployee") {
		return
	}
	req.ID = id

	updated, err := h.employeeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", updated)
}

// ToggleStatus implements EmployeeHandler
func (h *employeeHandlerImpl) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	updated, err := h.employeeService.ToggleStatus(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Employee deactivated"
	if updated.IsActive {
		message = "Employee activated"
	}
	response.SuccessWithMessage(w, message, updated)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	if err := h.employeeService.Delete(r.Context(), id, confirm.FromRequest(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// GetStats implements EmployeeHandler
func (h *employeeHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	stats, err := h.employeeService.Stats(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
