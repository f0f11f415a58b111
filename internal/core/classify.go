package core

import "github.com/shopspring/decimal"

const (
	StatusUnderpaid PaymentStatus = "underpaid"
	StatusOverpaid  PaymentStatus = "overpaid"
	StatusNormal    PaymentStatus = "normal"
)

// PaymentStatus flags a payment as unusually low or high relative to its
// bill's base amount.
type PaymentStatus string

// DefaultAcceptableMargin is the tolerance fraction used when no margin
// is configured.
var DefaultAcceptableMargin = decimal.RequireFromString("0.25")

// Classify compares a payment amount against the bill's base amount and
// an acceptable-margin fraction. Amounts below margin x base are
// underpaid, amounts above (1+margin) x base are overpaid, everything in
// between (boundaries included) is normal.
func Classify(amount, base Money, margin decimal.Decimal) PaymentStatus {
	amt := decimal.New(amount.Cents, -2)
	b := decimal.New(base.Cents, -2)
	low := b.Mul(margin)
	high := b.Mul(margin.Add(decimal.NewFromInt(1)))
	switch {
	case amt.LessThan(low):
		return StatusUnderpaid
	case amt.GreaterThan(high):
		return StatusOverpaid
	default:
		return StatusNormal
	}
}
