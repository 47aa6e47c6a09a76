package payroll

import (
	"fmt"
	"strings"
	"time"
)

const displayDate = "02/01/2006"

// PeriodRange renders the pay run's dates the way they appear on documents.
func (p *PayRun) PeriodRange() string {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return "Période non définie"
	}
	return fmt.Sprintf("Du %s au %s", p.StartDate.UTC().Format(displayDate), p.EndDate.UTC().Format(displayDate))
}

// PeriodLabel is the display name, falling back to the date range.
func (p *PayRun) PeriodLabel() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		return strings.TrimSpace(*p.Name)
	}
	return p.PeriodRange()
}

// Covers reports whether day falls inside the pay run's inclusive period.
func (p *PayRun) Covers(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(p.StartDate)) && !d.After(truncateDay(p.EndDate))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
