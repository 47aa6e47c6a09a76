package backendtest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/leave"
)

// AnnualAllowance is the yearly leave entitlement reported by the balance endpoints.
const AnnualAllowance = 30

func (s *Server) leaveView(l *leave.LeaveRequest) leave.LeaveRequest {
	view := *l
	if e := s.employee(l.EmployeeID); e != nil {
		ee := *e
		view.Employee = &ee
	}
	return view
}

func (s *Server) createLeave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EmployeeID *string         `json:"employeeId"`
		Type       leave.LeaveType `json:"type"`
		StartDate  string          `json:"startDate"`
		EndDate    string          `json:"endDate"`
		Reason     *string         `json:"reason"`
		Notes      *string         `json:"notes"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Données invalides")
		return
	}
	start, errStart := parseDay(body.StartDate)
	end, errEnd := parseDay(body.EndDate)
	if errStart != nil || errEnd != nil || start.After(end) {
		writeError(w, http.StatusBadRequest, "Dates invalides")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	employeeID := ""
	if body.EmployeeID != nil {
		employeeID = *body.EmployeeID
	} else if u := s.currentUser(r); u != nil {
		employeeID = s.myEmployee[u.ID]
	}
	if s.employee(employeeID) == nil {
		writeError(w, http.StatusBadRequest, "Profil employé introuvable")
		return
	}

	l := &leave.LeaveRequest{
		ID:         s.nextID("lv"),
		EmployeeID: employeeID,
		Type:       body.Type,
		StartDate:  start,
		EndDate:    end,
		Reason:     body.Reason,
		Notes:      body.Notes,
		Status:     leave.StatusPending,
		CreatedAt:  s.now(),
	}
	s.leaves = append(s.leaves, l)
	writeJSON(w, http.StatusCreated, map[string]any{"leave": s.leaveView(l)})
}

func (s *Server) decideLeave(w http.ResponseWriter, r *http.Request) {
	var d leave.Decision
	if err := decode(r, &d); err != nil || (d.Status != leave.StatusApproved && d.Status != leave.StatusRejected) {
		writeError(w, http.StatusBadRequest, "Statut invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.leave(chi.URLParam(r, "id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "Demande de congé non trouvée")
		return
	}
	if l.Status != leave.StatusPending {
		writeError(w, http.StatusBadRequest, "Cette demande a déjà été traitée")
		return
	}
	l.Status = d.Status
	l.RejectionReason = d.RejectionReason
	writeJSON(w, http.StatusOK, map[string]any{"leave": s.leaveView(l)})
}

func (s *Server) cancelLeave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.leave(chi.URLParam(r, "id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "Demande de congé non trouvée")
		return
	}
	if l.Status != leave.StatusPending {
		writeError(w, http.StatusBadRequest, "Seules les demandes en attente peuvent être annulées")
		return
	}
	l.Status = leave.StatusCancelled
	writeJSON(w, http.StatusOK, map[string]any{"leave": s.leaveView(l)})
}

func (s *Server) leavesWhere(match func(*leave.LeaveRequest) bool) []leave.LeaveRequest {
	out := []leave.LeaveRequest{}
	for _, l := range s.leaves {
		if match(l) {
			out = append(out, s.leaveView(l))
		}
	}
	return out
}

func (s *Server) leavesByEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.leavesWhere(func(l *leave.LeaveRequest) bool { return l.EmployeeID == id })
	writeJSON(w, http.StatusOK, map[string]any{"leaves": out})
}

func (s *Server) myLeaves(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Token invalide")
		return
	}
	id := s.myEmployee[u.ID]
	out := s.leavesWhere(func(l *leave.LeaveRequest) bool { return l.EmployeeID == id })
	writeJSON(w, http.StatusOK, map[string]any{"leaves": out})
}

func (s *Server) leavesByCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")
	status := leave.LeaveStatus(r.URL.Query().Get("status"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.leavesWhere(func(l *leave.LeaveRequest) bool {
		e := s.employee(l.EmployeeID)
		return e != nil && e.CompanyID == companyID && (status == "" || l.Status == status)
	})
	writeJSON(w, http.StatusOK, map[string]any{"leaves": out})
}

func (s *Server) balanceOf(employeeID string) leave.Balance {
	used := 0
	for _, l := range s.leaves {
		if l.EmployeeID == employeeID && l.Type == leave.TypeAnnual && l.Status == leave.StatusApproved {
			used += attendance.CountWorkingDays(l.StartDate, l.EndDate)
		}
	}
	return leave.Balance{Total: AnnualAllowance, Used: float64(used), Remaining: float64(AnnualAllowance - used)}
}

func (s *Server) leaveBalance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"balance": s.balanceOf(chi.URLParam(r, "id"))})
}

func (s *Server) myBalance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.currentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Token invalide")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": s.balanceOf(s.myEmployee[u.ID])})
}
