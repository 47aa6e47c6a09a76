package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

var printer = message.NewPrinter(language.French)

// FormatXAF renders an amount in CFA francs without decimals, French grouping.
func FormatXAF(amount decimal.Decimal) string {
	return printer.Sprintf("%d", amount.Round(0).IntPart()) + " FCFA"
}

// FormatDate renders the UTC calendar date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

var filenameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "", " ", "_",
)

// Filename joins the parts with underscores and strips characters that are not
// safe in a download name.
func Filename(ext string, parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = filenameReplacer.Replace(strings.TrimSpace(p))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "_") + "." + ext
}
