package payroll

import "fmt"

// Action is an operator command on a pay run.
type Action string

const (
	ActionGeneratePayslips Action = "generate-payslips"
	ActionApprove          Action = "approve"
	ActionClose            Action = "close"
	ActionEdit             Action = "edit"
	ActionDelete           Action = "delete"
)

// CanGeneratePayslips allows generation once, on a draft pay run.
func (p *PayRun) CanGeneratePayslips() error {
	if p.Status != PayRunDraft {
		return fmt.Errorf("%w: cannot generate payslips on a %s pay run", ErrInvalidTransition, p.Status)
	}
	if len(p.Payslips) > 0 {
		return ErrPayslipsAlreadyGenerated
	}
	return nil
}

func (p *PayRun) CanApprove() error {
	if p.Status != PayRunDraft {
		return fmt.Errorf("%w: cannot approve a %s pay run", ErrInvalidTransition, p.Status)
	}
	return nil
}

func (p *PayRun) CanClose() error {
	if p.Status != PayRunApproved {
		return fmt.Errorf("%w: only an approved pay run can be closed, status is %s", ErrInvalidTransition, p.Status)
	}
	return nil
}

// CanEdit allows changing the name or period while the pay run is a draft.
func (p *PayRun) CanEdit() error {
	if p.Status != PayRunDraft {
		return fmt.Errorf("%w: cannot edit a %s pay run", ErrInvalidTransition, p.Status)
	}
	return nil
}

// AcceptsAttendance reports whether attendance may still be recorded against the pay run.
func (p *PayRun) AcceptsAttendance() bool {
	return p.Status == PayRunDraft || p.Status == PayRunApproved
}

// AllowedActions lists what an operator may trigger next. A closed pay run exposes nothing.
func (p *PayRun) AllowedActions() []Action {
	actions := []Action{}
	switch p.Status {
	case PayRunDraft:
		if len(p.Payslips) == 0 {
			actions = append(actions, ActionGeneratePayslips)
		}
		actions = append(actions, ActionApprove, ActionEdit, ActionDelete)
	case PayRunApproved:
		actions = append(actions, ActionClose)
	}
	return actions
}
