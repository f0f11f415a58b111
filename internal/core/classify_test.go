package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	base := Money{Cents: 10000} // 100.00
	margin := DefaultAcceptableMargin

	tests := []struct {
		name   string
		amount Money
		want   PaymentStatus
	}{
		{name: "just below lower bound", amount: Money{Cents: 2499}, want: StatusUnderpaid},
		{name: "exactly lower bound is normal", amount: Money{Cents: 2500}, want: StatusNormal},
		{name: "base amount is normal", amount: Money{Cents: 10000}, want: StatusNormal},
		{name: "exactly upper bound is normal", amount: Money{Cents: 12500}, want: StatusNormal},
		{name: "just above upper bound", amount: Money{Cents: 12501}, want: StatusOverpaid},
		{name: "zero amount", amount: Money{}, want: StatusUnderpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.amount, base, margin); got != tt.want {
				t.Errorf("Classify(%d, %d) = %v, want %v", tt.amount.Cents, base.Cents, got, tt.want)
			}
		})
	}
}

func TestClassify_CustomMargin(t *testing.T) {
	base := Money{Cents: 20000}
	margin := decimal.RequireFromString("0.1")

	if got := Classify(Money{Cents: 1999}, base, margin); got != StatusUnderpaid {
		t.Errorf("below 10%% of base = %v, want underpaid", got)
	}
	if got := Classify(Money{Cents: 22001}, base, margin); got != StatusOverpaid {
		t.Errorf("above 110%% of base = %v, want overpaid", got)
	}
	if got := Classify(base, base, margin); got != StatusNormal {
		t.Errorf("base = %v, want normal", got)
	}
}
