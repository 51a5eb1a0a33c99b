// Package currency provides display formatting for whole-unit amounts.
// This is part of the platform layer and contains no business logic.
package currency

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders whole-currency amounts with a fixed 3-letter code
// prefix and locale-aware digit grouping, e.g. "KES 25,000".
// Amounts are whole currency units; no decimal places are printed.
type Formatter struct {
	code    string
	printer *message.Printer
}

// NewFormatter creates a formatter for the given ISO 4217 code.
func NewFormatter(code string) *Formatter {
	return &Formatter{
		code:    strings.ToUpper(strings.TrimSpace(code)),
		printer: message.NewPrinter(language.English),
	}
}

// Code returns the configured 3-letter currency code.
func (f *Formatter) Code() string {
	return f.code
}

// Format renders an amount of whole currency units.
func (f *Formatter) Format(amount int) string {
	return f.printer.Sprintf("%s %v", f.code, number.Decimal(amount, number.MaxFractionDigits(0)))
}
