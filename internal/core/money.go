// Package core holds the bill/payment domain model and money handling.
//
// This file normalizes monetary input of unknown origin (numbers or
// formatted strings) into a canonical cents representation.
package core

import (
	"encoding/json"
	"math"
	"strconv"
)

// Money is a monetary value in whole cents. Calculations stay in cents
// to avoid floating-point drift; formatting happens at the edges.
type Money struct {
	Cents int64
}

// Units returns the value in currency units for display purposes only.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

const maxUnits = (1<<63 - 1) / 100

// NormalizeAmount converts a monetary value of unknown origin into Money
// with exactly two fractional digits.
//
// Numeric input passes through (rounded half away from zero to cents);
// NaN and infinities are rejected. String input is reduced to its digit
// run: if the original string contained a comma the digits are read as
// cents ("1.234,56" -> 1234.56), otherwise as whole currency units
// ("1500" -> 1500.00). An empty digit run, or any other input type,
// fails with ErrInvalidAmount.
//
// Money input passes through unchanged, which makes normalization
// idempotent.
func NormalizeAmount(v any) (Money, error) {
	switch val := v.(type) {
	case Money:
		return val, nil
	case float64:
		return normalizeFloat(val)
	case float32:
		return normalizeFloat(float64(val))
	case int:
		return normalizeInt(int64(val))
	case int64:
		return normalizeInt(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Money{}, ErrInvalidAmount
		}
		return normalizeFloat(f)
	case string:
		return normalizeString(val)
	default:
		return Money{}, ErrInvalidAmount
	}
}

func normalizeFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, ErrInvalidAmount
	}
	if f > maxUnits || f < -maxUnits {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: int64(math.Round(f * 100))}, nil
}

func normalizeInt(n int64) (Money, error) {
	if n > maxUnits || n < -maxUnits {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: n * 100}, nil
}

func normalizeString(s string) (Money, error) {
	hasComma := false
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ',' {
			hasComma = true
		}
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return Money{}, ErrInvalidAmount
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if hasComma {
		// Digit run is already cents: 1.234,56 -> 123456 -> 1234.56
		return Money{Cents: n}, nil
	}
	// No comma: digits are whole currency units.
	if n > maxUnits {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: n * 100}, nil
}
