package backendtest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type employeeBody struct {
	FirstName    *string                `json:"firstName"`
	LastName     *string                `json:"lastName"`
	Email        *string                `json:"email"`
	Phone        *string                `json:"phone"`
	Position     *string                `json:"position"`
	ContractType *employee.ContractType `json:"contractType"`
	Rate         *float64               `json:"rate"`
	BankDetails  *string                `json:"bankDetails"`
	IsActive     *bool                  `json:"isActive"`
	CompanyID    *string                `json:"companyId"`
}

func (b employeeBody) apply(e *employee.Employee) {
	if b.FirstName != nil {
		e.FirstName = *b.FirstName
	}
	if b.LastName != nil {
		e.LastName = *b.LastName
	}
	if b.Email != nil {
		e.Email = b.Email
	}
	if b.Phone != nil {
		e.Phone = b.Phone
	}
	if b.Position != nil {
		e.Position = *b.Position
	}
	if b.ContractType != nil {
		e.ContractType = *b.ContractType
	}
	if b.Rate != nil {
		e.Rate = decimal.NewFromFloat(*b.Rate)
	}
	if b.BankDetails != nil {
		e.BankDetails = b.BankDetails
	}
	if b.IsActive != nil {
		e.IsActive = *b.IsActive
	}
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		companyID = r.URL.Query().Get("companyId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []employee.Employee{}
	for _, e := range s.employees {
		if companyID == "" || e.CompanyID == companyID {
			out = append(out, *e)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": out})
}

func (s *Server) searchEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []employee.Employee{}
	for _, e := range s.employees {
		if v := q.Get("companyId"); v != "" && e.CompanyID != v {
			continue
		}
		if v := q.Get("contractType"); v != "" && string(e.ContractType) != v {
			continue
		}
		if v := q.Get("position"); v != "" && !strings.EqualFold(e.Position, v) {
			continue
		}
		if v := q.Get("isActive"); v != "" && (v == "true") != e.IsActive {
			continue
		}
		if v := strings.ToLower(q.Get("search")); v != "" &&
			!strings.Contains(strings.ToLower(e.FullName()), v) {
			continue
		}
		out = append(out, *e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": out})
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.employee(chi.URLParam(r, "id"))
	if e == nil {
		writeError(w, http.StatusNotFound, "Employé non trouvé")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employee": e})
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	var body employeeBody
	if err := decode(r, &body); err != nil || body.CompanyID == nil || body.FirstName == nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e := &employee.Employee{
		ID:        s.nextID("emp"),
		IsActive:  true,
		CompanyID: *body.CompanyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	body.apply(e)
	s.employees = append(s.employees, e)
	writeJSON(w, http.StatusCreated, map[string]any{"employee": e})
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var body employeeBody
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.employee(chi.URLParam(r, "id"))
	if e == nil {
		writeError(w, http.StatusNotFound, "Employé non trouvé")
		return
	}
	body.apply(e)
	e.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, map[string]any{"employee": e})
}

func (s *Server) toggleEmployee(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.employee(chi.URLParam(r, "id"))
	if e == nil {
		writeError(w, http.StatusNotFound, "Employé non trouvé")
		return
	}
	e.IsActive = !e.IsActive
	writeJSON(w, http.StatusOK, map[string]any{"employee": e})
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.employees {
		if e.ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Employé supprimé"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Employé non trouvé")
}

func (s *Server) employeeStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.employee(chi.URLParam(r, "id"))
	if e == nil {
		writeError(w, http.StatusNotFound, "Employé non trouvé")
		return
	}

	stats := employee.Stats{Employee: *e, TotalPaid: decimal.Zero, TotalPending: decimal.Zero}
	for _, ps := range s.payslips {
		if ps.EmployeeID != e.ID {
			continue
		}
		view := s.payslipView(ps, false)
		paid := decimal.Zero
		for _, p := range view.Payments {
			paid = paid.Add(p.Amount)
		}
		stats.TotalPayslips++
		stats.TotalPaid = stats.TotalPaid.Add(paid)
		stats.TotalPending = stats.TotalPending.Add(ps.Net.Sub(paid))
		stats.Payslips = append(stats.Payslips, employee.PayslipSummary{
			ID:         ps.ID,
			PayRunID:   ps.PayRunID,
			Gross:      ps.Gross,
			Deductions: ps.Deductions,
			Net:        ps.Net,
			Status:     string(ps.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
