package backendtest

import (
	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Lookups and views below expect s.mu to be held.

func (s *Server) company(id string) *company.Company {
	for _, c := range s.companies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Server) employee(id string) *employee.Employee {
	for _, e := range s.employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *Server) payRun(id string) *payroll.PayRun {
	for _, p := range s.payRuns {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) payslip(id string) *payroll.Payslip {
	for _, p := range s.payslips {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) payment(id string) *payroll.Payment {
	for _, p := range s.payments {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) attendance(id string) *attendance.Attendance {
	for _, a := range s.attendances {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) leave(id string) *leave.LeaveRequest {
	for _, l := range s.leaves {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *Server) payRunView(p *payroll.PayRun) payroll.PayRun {
	view := *p
	if c := s.company(p.CompanyID); c != nil {
		cc := *c
		view.Company = &cc
	}
	view.Payslips = nil
	for _, ps := range s.payslips {
		if ps.PayRunID == p.ID {
			view.Payslips = append(view.Payslips, s.payslipView(ps, false))
		}
	}
	return view
}

func (s *Server) payslipView(ps *payroll.Payslip, withPayRun bool) payroll.Payslip {
	view := *ps
	if e := s.employee(ps.EmployeeID); e != nil {
		ee := *e
		view.Employee = &ee
	}
	view.Payments = nil
	for _, p := range s.payments {
		if p.PayslipID == ps.ID {
			view.Payments = append(view.Payments, *p)
		}
	}
	if withPayRun {
		if pr := s.payRun(ps.PayRunID); pr != nil {
			prView := *pr
			prView.Payslips = nil
			if c := s.company(pr.CompanyID); c != nil {
				cc := *c
				prView.Company = &cc
			}
			view.PayRun = &prView
		}
	}
	return view
}

func (s *Server) paymentView(p *payroll.Payment) payroll.Payment {
	view := *p
	if ps := s.payslip(p.PayslipID); ps != nil {
		psView := s.payslipView(ps, true)
		psView.Payments = nil
		view.Payslip = &psView
	}
	return view
}

func (s *Server) paymentCompany(p *payroll.Payment) string {
	if ps := s.payslip(p.PayslipID); ps != nil {
		if pr := s.payRun(ps.PayRunID); pr != nil {
			return pr.CompanyID
		}
	}
	return ""
}

// foldPayslipStatus recomputes a payslip's status from its payments.
func (s *Server) foldPayslipStatus(payslipID string) {
	ps := s.payslip(payslipID)
	if ps == nil {
		return
	}
	paid := decimal.Zero
	for _, p := range s.payments {
		if p.PayslipID == payslipID {
			paid = paid.Add(p.Amount)
		}
	}
	switch {
	case paid.IsZero():
		ps.Status = payroll.PayslipPending
	case paid.LessThan(ps.Net):
		ps.Status = payroll.PayslipPartial
	default:
		ps.Status = payroll.PayslipPaid
	}
}
