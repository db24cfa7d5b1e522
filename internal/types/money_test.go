package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func inr(amount int64) Money {
	return NewMoney(decimal.NewFromInt(amount), "inr")
}

func TestMoneySubFloorsAtZero(t *testing.T) {
	tests := []struct {
		name string
		a, b Money
		want Money
	}{
		{name: "plain subtraction", a: inr(2000), b: inr(400), want: inr(1600)},
		{name: "equal amounts reach zero", a: inr(500), b: inr(500), want: inr(0)},
		{name: "oversized deduction clamps to zero", a: inr(100), b: inr(5000), want: inr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Sub(tt.b)
			if !got.Equal(tt.want) {
				t.Errorf("%v.Sub(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMoneyMulPercent(t *testing.T) {
	got := inr(2000).MulPercent(decimal.NewFromInt(20))
	if !got.Equal(inr(400)) {
		t.Errorf("20%% of 2000 = %v, want 400", got)
	}

	fractional := inr(999).MulPercent(decimal.NewFromInt(50))
	want := NewMoney(decimal.NewFromFloat(499.5), "inr")
	if !fractional.Equal(want) {
		t.Errorf("50%% of 999 = %v, want 499.5", fractional)
	}
}

func TestMoneyMulInt(t *testing.T) {
	got := inr(5000).MulInt(3)
	if !got.Equal(inr(15000)) {
		t.Errorf("5000 x 3 = %v, want 15000", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := inr(100).Validate(); err != nil {
		t.Errorf("valid money failed validation: %v", err)
	}

	negative := Money{Amount: decimal.NewFromInt(-1), Currency: "inr"}
	if err := negative.Validate(); err == nil {
		t.Error("negative amount must fail validation")
	}
}
