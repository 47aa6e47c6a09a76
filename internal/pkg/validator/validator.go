package validator

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar date format exchanged with the payroll backend.
const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// OrNil returns nil when no error was collected so callers can return it as an error.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// amountRegex accepts a non-negative number with at most two decimals.
var amountRegex = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// IsValidAmount reports whether s is a monetary amount strictly greater than zero.
func IsValidAmount(s string) bool {
	s = strings.TrimSpace(s)
	if !amountRegex.MatchString(s) {
		return false
	}
	return strings.Trim(strings.ReplaceAll(s, ".", ""), "0") != ""
}

// IsHalfHourStep reports whether h lies in [0, 24] on a 0.5 grid.
func IsHalfHourStep(h float64) bool {
	if math.IsNaN(h) || h < 0 || h > 24 {
		return false
	}
	return math.Mod(h*2, 1) == 0
}

var (
	minCycleDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxCycleDate = time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// IsWithinCycleBounds reports whether d lies within [2000-01-01, 2100-12-31].
func IsWithinCycleBounds(d time.Time) bool {
	return !d.Before(minCycleDate) && !d.After(maxCycleDate)
}
