package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestTrackedProduct_BelowTarget(t *testing.T) {
	cases := []struct {
		name    string
		current decimal.NullDecimal
		target  decimal.NullDecimal
		want    bool
	}{
		{name: "below", current: nd("9.50"), target: nd("10.00"), want: true},
		{name: "equal", current: nd("19.99"), target: nd("19.99"), want: true},
		{name: "above", current: nd("10.01"), target: nd("10.00"), want: false},
		{name: "no current price", target: nd("10.00"), want: false},
		{name: "no target", current: nd("1.00"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tp := TrackedProduct{WishlistItem: WishlistItem{TargetPrice: tc.target}, CurrentPrice: tc.current}
			if got := tp.BelowTarget(); got != tc.want {
				t.Fatalf("BelowTarget()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestUserUpdate_Empty(t *testing.T) {
	if !(UserUpdate{}).Empty() {
		t.Fatalf("zero update should be empty")
	}
	name := "x"
	if (UserUpdate{Name: &name}).Empty() {
		t.Fatalf("update with name should not be empty")
	}
}
