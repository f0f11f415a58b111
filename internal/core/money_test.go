package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestNormalizeAmount_Strings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "thousands separator with decimal comma", input: "1.500,00", wantCents: 150000},
		{name: "decimal comma only", input: "1.234,56", wantCents: 123456},
		{name: "plain integer means whole units", input: "1500", wantCents: 150000},
		{name: "currency prefix stripped", input: "R$ 99,90", wantCents: 9990},
		{name: "no comma keeps units semantics", input: "12.34", wantCents: 123400},
		{name: "empty string", input: "", wantErr: true},
		{name: "no digits at all", input: "abc,-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("NormalizeAmount(%q) err = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("NormalizeAmount(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestNormalizeAmount_Numbers(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		wantCents int64
		wantErr   bool
	}{
		{name: "float passes through", input: 1234.56, wantCents: 123456},
		{name: "float rounds to two decimals", input: 10.005, wantCents: 1001},
		{name: "int means whole units", input: 1500, wantCents: 150000},
		{name: "json number", input: json.Number("42.50"), wantCents: 4250},
		{name: "NaN rejected", input: math.NaN(), wantErr: true},
		{name: "infinity rejected", input: math.Inf(1), wantErr: true},
		{name: "unsupported type", input: []string{"10"}, wantErr: true},
		{name: "nil rejected", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("NormalizeAmount(%v) err = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeAmount(%v) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("NormalizeAmount(%v) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestNormalizeAmount_Idempotent(t *testing.T) {
	once, err := NormalizeAmount("1.500,00")
	if err != nil {
		t.Fatalf("first normalize: %v", err)
	}
	twice, err := NormalizeAmount(once)
	if err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if once != twice {
		t.Errorf("normalize(normalize(x)) = %v, want %v", twice, once)
	}
}
