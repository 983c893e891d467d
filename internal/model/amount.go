// Package model holds the domain types shared across the client.
package model

// CurrencyAmount is an exact, non-negative count of minor currency units
// (centavos). All accumulation and comparison happens on this type; the
// conversion to decimal reais occurs exactly once, at request assembly.
type CurrencyAmount int64

// IsPositive reports whether the amount is greater than zero.
func (a CurrencyAmount) IsPositive() bool {
	return a > 0
}
