package document

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestFormatXAF(t *testing.T) {
	got := FormatXAF(decimal.NewFromInt(120000))
	assert.True(t, strings.HasSuffix(got, " FCFA"))
	assert.Equal(t, "120000", digitsOnly(got))
	assert.NotEqual(t, "120000 FCFA", got, "thousands must be grouped")

	assert.Equal(t, "70001", digitsOnly(FormatXAF(decimal.RequireFromString("70000.5"))))
}

func TestFilename(t *testing.T) {
	p := Payslip{
		Employee:    Party{FirstName: "Awa", LastName: "Ndiaye"},
		PeriodLabel: "Du 01/01/2025 au 31/01/2025",
	}
	assert.Equal(t, "bulletin_Awa_Ndiaye_Du_01-01-2025_au_31-01-2025.html", p.Filename())

	r := Receipt{
		Employee: Party{FirstName: "Awa", LastName: "Ndiaye"},
		PaidAt:   time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "recu_paiement_Awa_Ndiaye_2025-02-03.html", r.Filename())
}

func TestNewParty(t *testing.T) {
	emp := &employee.Employee{ID: "emp-00af", FirstName: "Awa", LastName: "Ndiaye", Position: "Caissière", ContractType: employee.ContractDaily}
	p := NewParty(emp)
	assert.Equal(t, "EMP-00AF", p.Matricule)
	assert.Equal(t, "Awa Ndiaye", p.FullName)
	assert.Equal(t, Party{}, NewParty(nil))
	assert.Equal(t, "A1B2C3D4", ReceiptNumber("pay-a1b2c3d4"))
}

func TestRenderer_Payslip(t *testing.T) {
	// Arrange
	r, err := NewRenderer()
	require.NoError(t, err)
	addr := "Rue 10, Dakar"
	co := company.Company{Name: "Acme <Sarl>", Address: &addr}
	slip := Payslip{
		Company:     co.Branding(),
		Employee:    NewParty(&employee.Employee{ID: "emp-1234", FirstName: "Awa", LastName: "Ndiaye", Position: "Caissière", ContractType: employee.ContractFixed}),
		PeriodLabel: "Janvier 2025",
		Gross:       decimal.NewFromInt(126316),
		Deductions:  decimal.NewFromInt(6316),
		Net:         decimal.NewFromInt(120000),
		Paid:        decimal.NewFromInt(50000),
		Remaining:   decimal.NewFromInt(70000),
		Status:      payroll.PayslipPartial,
		IssuedAt:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	// Act
	var out strings.Builder
	require.NoError(t, r.RenderPayslip(&out, slip))
	html := out.String()

	// Assert
	assert.Contains(t, html, "BULLETIN DE PAIE")
	assert.Contains(t, html, "Période: Janvier 2025")
	assert.Contains(t, html, "Acme &lt;Sarl&gt;")
	assert.Contains(t, html, "Rue 10, Dakar")
	assert.Contains(t, html, "Fixe")
	assert.Contains(t, html, "EMP-1234")
	assert.Contains(t, html, "Paiement partiel")
	assert.Contains(t, html, "01/02/2025")
	assert.Contains(t, html, "FCFA")
}

func TestRenderer_Receipt(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	rc := Receipt{
		Number:      ReceiptNumber("pay-0000beef"),
		Company:     company.Branding{Name: "Acme"},
		Employee:    Party{FullName: "Awa Ndiaye", Position: "Caissière"},
		PeriodLabel: "Du 01/01/2025 au 31/01/2025",
		PaidAt:      time.Date(2025, 2, 3, 14, 5, 9, 0, time.UTC),
		Method:      payroll.MethodMobileMoneyA,
		Amount:      decimal.NewFromInt(50000),
		Net:         decimal.NewFromInt(120000),
	}

	var out strings.Builder
	require.NoError(t, r.RenderReceipt(&out, rc))
	html := out.String()

	assert.Contains(t, html, "N° 0000BEEF")
	assert.Contains(t, html, "Orange Money")
	assert.Contains(t, html, "Le 03/02/2025 à 14:05:09")
	assert.Contains(t, html, "Adresse non spécifiée")
}
