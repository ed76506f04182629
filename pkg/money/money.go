package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders monetary amounts with locale-aware digit grouping and no
// currency symbol. Formatting the same value twice yields identical text.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for the given BCP 47 locale. An empty or
// unparseable locale falls back to Vietnamese, matching the storefront UI.
func NewFormatter(locale string) *Formatter {
	tag := language.Vietnamese
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		if parsed, err := language.Parse(trimmed); err == nil {
			tag = parsed
		}
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders the amount with grouped digits and at most three fraction
// digits, mirroring the default browser number formatter.
func (f *Formatter) Format(amount decimal.Decimal) string {
	if f == nil || f.printer == nil {
		return amount.String()
	}
	value, _ := amount.Float64()
	return f.printer.Sprint(number.Decimal(value,
		number.MaxFractionDigits(3),
		number.MinFractionDigits(0),
	))
}

// FormatInt renders a whole amount with grouped digits.
func (f *Formatter) FormatInt(amount int64) string {
	if f == nil || f.printer == nil {
		return decimal.NewFromInt(amount).String()
	}
	return f.printer.Sprint(number.Decimal(amount))
}
