// Package export writes ledger data to spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const paymentsSheet = "Paiements"

// ContentType is the media type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var paymentHeaders = []string{
	"Date", "Employé", "Période", "Mode de paiement", "Référence", "Montant (FCFA)", "Net du bulletin (FCFA)", "Statut du bulletin",
}

// PaymentsFilename names an export generated at now.
func PaymentsFilename(now time.Time) string {
	return fmt.Sprintf("paiements_%s.xlsx", now.UTC().Format("2006-01-02"))
}

// WritePayments writes the payment history as an xlsx workbook with a total row.
func WritePayments(w io.Writer, payments []payroll.Payment) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), paymentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(paymentHeaders))
	for i, h := range paymentHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(paymentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(paymentsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, p := range payments {
		row := paymentRow(p)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(paymentsSheet, cell, &row); err != nil {
			return fmt.Errorf("write payment %s: %w", p.ID, err)
		}
	}

	totalRow := len(payments) + 2
	if err := f.SetCellValue(paymentsSheet, fmt.Sprintf("E%d", totalRow), "Total"); err != nil {
		return err
	}
	if len(payments) > 0 {
		formula := fmt.Sprintf("SUM(F2:F%d)", totalRow-1)
		if err := f.SetCellFormula(paymentsSheet, fmt.Sprintf("F%d", totalRow), formula); err != nil {
			return fmt.Errorf("write total: %w", err)
		}
	} else if err := f.SetCellValue(paymentsSheet, fmt.Sprintf("F%d", totalRow), 0); err != nil {
		return err
	}
	if err := f.SetRowStyle(paymentsSheet, totalRow, totalRow, bold); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	if err := f.SetColWidth(paymentsSheet, "A", "H", 20); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func paymentRow(p payroll.Payment) []interface{} {
	var (
		employeeName, period, slipStatus string
		net                              float64
	)
	if p.Payslip != nil {
		if p.Payslip.Employee != nil {
			employeeName = p.Payslip.Employee.FullName()
		}
		if p.Payslip.PayRun != nil {
			period = p.Payslip.PayRun.PeriodLabel()
		}
		net = p.Payslip.Net.InexactFloat64()
		slipStatus = string(p.Payslip.Status)
	}
	reference := ""
	if p.Reference != nil {
		reference = *p.Reference
	}

	return []interface{}{
		p.CreatedAt.UTC().Format("02/01/2006"),
		employeeName,
		period,
		p.Method.Label(),
		reference,
		p.Amount.InexactFloat64(),
		net,
		slipStatus,
	}
}
