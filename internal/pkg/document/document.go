// Package document renders payslips and payment receipts as standalone HTML.
// It only formats: every figure comes denormalized from the ledger.
package document

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const ContentType = "text/html; charset=utf-8"

//go:embed templates/*.html
var templateFS embed.FS

// Party is the employee as printed on a document.
type Party struct {
	FullName     string
	FirstName    string
	LastName     string
	Position     string
	ContractType string
	Matricule    string
}

// Payslip is a fully denormalized payslip ready for rendering.
type Payslip struct {
	Company     company.Branding
	Employee    Party
	PeriodLabel string
	Gross       decimal.Decimal
	Deductions  decimal.Decimal
	Net         decimal.Decimal
	Paid        decimal.Decimal
	Remaining   decimal.Decimal
	Status      payroll.PayslipStatus
	IssuedAt    time.Time
}

// Receipt is a fully denormalized payment receipt ready for rendering.
type Receipt struct {
	Number      string
	Company     company.Branding
	Employee    Party
	PeriodLabel string
	PaidAt      time.Time
	Method      payroll.PaymentMethod
	Reference   string
	Amount      decimal.Decimal
	Gross       decimal.Decimal
	Deductions  decimal.Decimal
	Net         decimal.Decimal
	IssuedAt    time.Time
}

func (p Payslip) Filename() string {
	return Filename("html", "bulletin", p.Employee.FirstName, p.Employee.LastName, p.PeriodLabel)
}

func (r Receipt) Filename() string {
	return Filename("html", "recu_paiement", r.Employee.FirstName, r.Employee.LastName, r.PaidAt.UTC().Format("2006-01-02"))
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money":    FormatXAF,
		"date":     FormatDate,
		"time":     FormatTime,
		"initial":  initial,
		"status":   statusLabel,
		"contract": contractLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse document templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) RenderPayslip(w io.Writer, p Payslip) error {
	if err := r.templates.ExecuteTemplate(w, "payslip.html", p); err != nil {
		return fmt.Errorf("failed to render payslip: %w", err)
	}
	return nil
}

func (r *Renderer) RenderReceipt(w io.Writer, rc Receipt) error {
	if err := r.templates.ExecuteTemplate(w, "receipt.html", rc); err != nil {
		return fmt.Errorf("failed to render receipt: %w", err)
	}
	return nil
}

// NewParty builds the printed identity of an employee. The matricule is derived
// from the last four characters of the employee id.
func NewParty(e *employee.Employee) Party {
	if e == nil {
		return Party{}
	}
	id := e.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return Party{
		FullName:     e.FullName(),
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Position:     e.Position,
		ContractType: string(e.ContractType),
		Matricule:    "EMP-" + strings.ToUpper(id),
	}
}

// ReceiptNumber is the last eight characters of the payment id, upper-cased.
func ReceiptNumber(paymentID string) string {
	if len(paymentID) > 8 {
		paymentID = paymentID[len(paymentID)-8:]
	}
	return strings.ToUpper(paymentID)
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "E"
}

func statusLabel(s payroll.PayslipStatus) string {
	switch s {
	case payroll.PayslipPaid:
		return "Payé"
	case payroll.PayslipPartial:
		return "Paiement partiel"
	}
	return "En attente"
}

func contractLabel(c string) string {
	switch employee.ContractType(c) {
	case employee.ContractDaily:
		return "Journalier"
	case employee.ContractFixed:
		return "Fixe"
	case employee.ContractHonorarium:
		return "Honoraire"
	}
	return c
}
