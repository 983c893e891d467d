// Package money converts between user-typed currency strings and exact
// integer centavo amounts. Typed input is read as digits filling in from
// the right: "100" means R$ 1,00, not R$ 100,00.
package money

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/cltpj/cltpj/internal/model"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// ParseTyped strips every non-digit character and treats the remaining
// digit string as centavos. Empty or all-non-digit input yields zero.
func ParseTyped(raw string) model.CurrencyAmount {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return 0
	}

	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Longer than any representable amount; not a plausible salary.
		return 0
	}

	return model.CurrencyAmount(cents)
}

// FormatForDisplay re-renders a typed string as a pt-BR decimal with
// exactly two fraction digits and no currency symbol. Empty input stays
// empty so an untouched field remains visually blank.
func FormatForDisplay(raw string) string {
	if raw == "" {
		return ""
	}
	return FormatAmount(ParseTyped(raw))
}

// FormatAmount renders centavos as a pt-BR decimal string, e.g. 123456
// becomes "1.234,56".
func FormatAmount(a model.CurrencyAmount) string {
	return printer.Sprint(number.Decimal(float64(a)/100,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// FormatDecimal renders an already-decimal value (as received on the wire)
// the same way FormatAmount renders centavos.
func FormatDecimal(v float64) string {
	return FormatAmount(model.CurrencyAmount(math.Round(v * 100)))
}

// ToDecimalUnits converts centavos to decimal reais for the wire payload.
// No rounding beyond the division: the gateway consumes two-decimal values
// and cents/100 is exact for any realistic amount.
func ToDecimalUnits(a model.CurrencyAmount) float64 {
	return float64(a) / 100
}

// IsPositive is the minimal validity predicate for required money fields.
func IsPositive(raw string) bool {
	return ParseTyped(raw).IsPositive()
}
