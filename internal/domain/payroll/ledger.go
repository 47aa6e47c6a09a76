package payroll

import "github.com/shopspring/decimal"

// PaidTotal folds the payslip's payments into the amount already disbursed.
func (s *Payslip) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Remaining is net minus everything paid so far. It goes negative on overpayment.
func (s *Payslip) Remaining() decimal.Decimal {
	return s.Net.Sub(s.PaidTotal())
}

// IsSettled reports whether nothing is left to pay.
func (s *Payslip) IsSettled() bool {
	return s.Status == PayslipPaid || !s.Remaining().IsPositive()
}

// PendingView denormalizes a payslip with its pay run and company branding.
func PendingView(ps *Payslip, pr *PayRun) PendingPayslip {
	paid := ps.PaidTotal()
	view := PendingPayslip{
		ID:          ps.ID,
		PayRunID:    pr.ID,
		PayRunState: pr.Status,
		PeriodLabel: pr.PeriodLabel(),
		Employee:    ps.Employee,
		Net:         ps.Net,
		Paid:        paid,
		Remaining:   ps.Net.Sub(paid),
		Status:      ps.Status,
	}
	if pr.Company != nil {
		view.Company = pr.Company.Branding()
	}
	return view
}
