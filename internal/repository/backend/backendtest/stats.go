package backendtest

import (
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/shopspring/decimal"
)

func (s *Server) globalStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := dashboard.GlobalStats{
		TotalCompanies: len(s.companies),
		TotalUsers:     len(s.accounts),
		TotalEmployees: len(s.employees),
		TotalPayRuns:   len(s.payRuns),
		TotalPayments:  decimal.Zero,
	}
	for _, e := range s.employees {
		if e.IsActive {
			stats.ActiveEmployees++
		}
	}
	for _, p := range s.payments {
		stats.TotalPayments = stats.TotalPayments.Add(p.Amount)
	}
	for _, role := range user.Roles {
		n := 0
		for _, a := range s.accounts {
			if a.user.Role == role {
				n++
			}
		}
		stats.UserRoleStats = append(stats.UserRoleStats, dashboard.RoleCount{Role: string(role), Count: n})
	}
	for _, c := range s.companies {
		n := 0
		for _, e := range s.employees {
			if e.CompanyID == c.ID {
				n++
			}
		}
		stats.TopCompaniesByEmployees = append(stats.TopCompaniesByEmployees, dashboard.CompanyCount{ID: c.ID, Name: c.Name, Employees: n})
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"health": dashboard.BackendHealth{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: now,
	}})
}
