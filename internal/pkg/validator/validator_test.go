package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"caisse@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-01-01", "2000-12-31"}
	invalid := []string{"2025-13-01", "01-01-2025", "", "2025/01/01"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidAmount(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"50000", true},
		{"70000.5", true},
		{"0.01", true},
		{"120000.00", true},
		{"0", false},
		{"0.00", false},
		{"-5", false},
		{"10.123", false},
		{"1,5", false},
		{"", false},
		{"abc", false},
		{".5", false},
	}
	for _, c := range cases {
		if got := IsValidAmount(c.input); got != c.want {
			t.Errorf("IsValidAmount(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsHalfHourStep(t *testing.T) {
	cases := []struct {
		input float64
		want  bool
	}{
		{0, true},
		{0.5, true},
		{7.5, true},
		{24, true},
		{24.5, false},
		{-0.5, false},
		{3.25, false},
	}
	for _, c := range cases {
		if got := IsHalfHourStep(c.input); got != c.want {
			t.Errorf("IsHalfHourStep(%v) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsWithinCycleBounds(t *testing.T) {
	cases := []struct {
		input time.Time
		want  bool
	}{
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2101, 1, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, c := range cases {
		if got := IsWithinCycleBounds(c.input); got != c.want {
			t.Errorf("IsWithinCycleBounds(%v) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.OrNil() != nil {
		t.Fatalf("empty ValidationErrors must convert to nil")
	}
	errs.Add("amount", "amount must be greater than zero")
	errs.Add("method", "method is invalid")

	if got := errs.Error(); got != "amount: amount must be greater than zero; method: method is invalid" {
		t.Errorf("Error() = %q", got)
	}
	m := errs.ToMap()
	if m["method"] != "method is invalid" {
		t.Errorf("ToMap()[method] = %q", m["method"])
	}
}
