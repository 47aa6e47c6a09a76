package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayslip_Remaining(t *testing.T) {
	slip := Payslip{Net: decimal.NewFromInt(120000)}
	assert.True(t, slip.Remaining().Equal(decimal.NewFromInt(120000)))
	assert.False(t, slip.IsSettled())

	slip.Payments = append(slip.Payments, Payment{Amount: decimal.NewFromInt(50000)})
	assert.True(t, slip.Remaining().Equal(decimal.NewFromInt(70000)))

	slip.Payments = append(slip.Payments, Payment{Amount: decimal.RequireFromString("70000.50")})
	assert.True(t, slip.Remaining().Equal(decimal.RequireFromString("-0.50")))
	assert.True(t, slip.IsSettled())
}

func TestPayRun_PeriodLabel(t *testing.T) {
	run := PayRun{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Du 01/01/2025 au 31/01/2025", run.PeriodLabel())

	name := "Janvier 2025"
	run.Name = &name
	assert.Equal(t, "Janvier 2025", run.PeriodLabel())
	assert.Equal(t, "Du 01/01/2025 au 31/01/2025", run.PeriodRange())

	assert.Equal(t, "Période non définie", (&PayRun{}).PeriodRange())
}

func TestPayRun_Covers(t *testing.T) {
	run := PayRun{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, run.Covers(time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, run.Covers(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}
