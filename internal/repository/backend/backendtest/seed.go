package backendtest

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/shopspring/decimal"
)

func (s *Server) AddCompany(name string) company.Company {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := &company.Company{
		ID:        s.nextID("co"),
		Name:      name,
		Currency:  "XOF",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.companies = append(s.companies, c)
	return *c
}

// AddEmployee seeds an active employee.
func (s *Server) AddEmployee(companyID, firstName, lastName string, contract employee.ContractType, rate int64) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := &employee.Employee{
		ID:           s.nextID("emp"),
		FirstName:    firstName,
		LastName:     lastName,
		Position:     "Agent",
		ContractType: contract,
		Rate:         decimal.NewFromInt(rate),
		IsActive:     true,
		CompanyID:    companyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.employees = append(s.employees, e)
	return *e
}

func (s *Server) SetEmployeeActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.employee(id); e != nil {
		e.IsActive = active
	}
}

func (s *Server) AddPayRun(companyID string, start, end time.Time, status payroll.PayRunStatus) payroll.PayRun {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := &payroll.PayRun{
		ID:        s.nextID("pr"),
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CompanyID: companyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.payRuns = append(s.payRuns, p)
	return s.payRunView(p)
}

// SetPayRunStatus moves a pay run behind the console's back, as another operator would.
func (s *Server) SetPayRunStatus(id string, status payroll.PayRunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.payRun(id); p != nil {
		p.Status = status
	}
}

func (s *Server) AddPayslip(payRunID, employeeID string, net int64) payroll.Payslip {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps := &payroll.Payslip{
		ID:         s.nextID("ps"),
		PayRunID:   payRunID,
		EmployeeID: employeeID,
		Gross:      decimal.NewFromInt(net),
		Deductions: decimal.Zero,
		Net:        decimal.NewFromInt(net),
		Status:     payroll.PayslipPending,
		CreatedAt:  s.now(),
	}
	s.payslips = append(s.payslips, ps)
	return s.payslipView(ps, true)
}

func (s *Server) AddPayment(payslipID string, amount int64, method payroll.PaymentMethod) payroll.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &payroll.Payment{
		ID:        s.nextID("pay"),
		PayslipID: payslipID,
		Amount:    decimal.NewFromInt(amount),
		Method:    method,
		CreatedAt: s.now(),
	}
	s.payments = append(s.payments, p)
	s.foldPayslipStatus(payslipID)
	return *p
}

func (s *Server) AddAttendance(employeeID, payRunID string, day time.Time, t attendance.Type) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a := &attendance.Attendance{
		ID:         s.nextID("att"),
		EmployeeID: employeeID,
		PayRunID:   payRunID,
		Date:       day.UTC(),
		Type:       t,
		IsPresent:  t.IsPresence(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.attendances = append(s.attendances, a)
	return *a
}

func (s *Server) AddLeave(employeeID string, t leave.LeaveType, start, end time.Time, status leave.LeaveStatus) leave.LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := &leave.LeaveRequest{
		ID:         s.nextID("lv"),
		EmployeeID: employeeID,
		Type:       t,
		StartDate:  start,
		EndDate:    end,
		Status:     status,
		CreatedAt:  s.now(),
	}
	s.leaves = append(s.leaves, l)
	return *l
}

// AddUser registers an account that can log in with password. employeeID links
// the account to an employee record for the "my leaves" endpoints.
func (s *Server) AddUser(email, password string, role user.Role, companyID *string, employeeID string) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user.User{
		ID:        s.nextID("usr"),
		Email:     email,
		Role:      role,
		CompanyID: companyID,
		CreatedAt: s.now(),
	}
	s.accounts = append(s.accounts, &account{user: u, password: password})
	if employeeID != "" {
		s.myEmployee[u.ID] = employeeID
	}
	return u
}

// PayRunStatus reads the stored status.
func (s *Server) PayRunStatus(id string) payroll.PayRunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.payRun(id); p != nil {
		return p.Status
	}
	return ""
}

func (s *Server) Attendances() []attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attendance.Attendance, 0, len(s.attendances))
	for _, a := range s.attendances {
		out = append(out, *a)
	}
	return out
}

func (s *Server) Payments() []payroll.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]payroll.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, *p)
	}
	return out
}

func (s *Server) Leave(id string) leave.LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l := s.leave(id); l != nil {
		return *l
	}
	return leave.LeaveRequest{}
}
