package strategy

import "github.com/shopspring/decimal"

// Computable is anything a rate calculator can charge against:
// a line item, a shipment, or a whole order
type Computable interface {
	// ComputableAmount returns the monetary amount the calculator keys off
	ComputableAmount() decimal.Decimal
}

// RateCalculator computes a charge from a computable subject.
// Implementations are stateless with respect to the subject; configuration
// (base amounts, tiers) is fixed at construction time.
type RateCalculator interface {
	Strategy
	// Valid reports whether the calculator's configuration is usable
	Valid() bool
	// Compute returns the charge for the subject
	Compute(subject Computable) decimal.Decimal
}
