package payroll

import "errors"

var (
	ErrPayRunNotFound           = errors.New("pay run not found")
	ErrPayslipNotFound          = errors.New("payslip not found")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrInvalidTransition        = errors.New("action not allowed in the pay run's current status")
	ErrPayRunClosed             = errors.New("pay run is closed and can no longer change")
	ErrPayslipsAlreadyGenerated = errors.New("payslips were already generated for this pay run")
	ErrInvalidPeriod            = errors.New("invalid pay run period")
)
