package dashboard

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Overview is the company dashboard.
type Overview struct {
	CompanyID        string                       `json:"companyId,omitempty"`
	ActiveEmployees  int                          `json:"activeEmployees"`
	TotalSalary      decimal.Decimal              `json:"totalSalary"`
	PaidAmount       decimal.Decimal              `json:"paidAmount"`
	PendingAmount    decimal.Decimal              `json:"pendingAmount"`
	PayRunsByStatus  map[payroll.PayRunStatus]int `json:"payRunsByStatus"`
	UpcomingPayments []payroll.PendingPayslip     `json:"upcomingPayments"`
	SalaryEvolution  []payroll.MonthlyAmount      `json:"salaryEvolution"`
	RecentPayments   []payroll.Payment            `json:"recentPayments"`
	RecentActivity   []Invalidation               `json:"recentActivity"`
	GeneratedAt      time.Time                    `json:"generatedAt"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type ContractCount struct {
	ContractType string `json:"contractType"`
	Count        int    `json:"count"`
}

type CompanyCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Employees int    `json:"employees"`
}

// GlobalStats is the super admin's cross-company view, computed by the backend.
type GlobalStats struct {
	TotalCompanies          int                     `json:"totalCompanies"`
	TotalUsers              int                     `json:"totalUsers"`
	TotalEmployees          int                     `json:"totalEmployees"`
	ActiveEmployees         int                     `json:"activeEmployees"`
	TotalPayRuns            int                     `json:"totalPayRuns"`
	TotalPayments           decimal.Decimal         `json:"totalPayments"`
	UserRoleStats           []RoleCount             `json:"userRoleStats"`
	ContractTypeStats       []ContractCount         `json:"contractTypeStats"`
	TopCompaniesByEmployees []CompanyCount          `json:"topCompaniesByEmployees"`
	MonthlyStats            []payroll.MonthlyAmount `json:"monthlyStats"`
}

// BackendHealth is the backend's own health report.
type BackendHealth struct {
	Status    string    `json:"status"`
	Database  string    `json:"database,omitempty"`
	Uptime    float64   `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ComponentHealth struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health combines the backend's report with the console's own dependencies.
type Health struct {
	Status     string            `json:"status"`
	Backend    *BackendHealth    `json:"backend,omitempty"`
	Components []ComponentHealth `json:"components"`
}
