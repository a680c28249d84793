package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotal(t *testing.T) {
	inv := Invoice{
		Items: []InvoiceItem{
			{Description: "Consultation", Quantity: 1, UnitPriceCents: 50000},
			{Description: "Blood panel", Quantity: 2, UnitPriceCents: 12500},
			{Description: "Dressing", Quantity: 0, UnitPriceCents: 3000}, // zero quantity counts as one
		},
	}
	inv.RecomputeTotal()
	assert.Equal(t, int64(78000), inv.TotalCents)
}

func TestBalance(t *testing.T) {
	inv := Invoice{
		TotalCents: 78000,
		Payments: []Payment{
			{AmountCents: 50000},
			{AmountCents: 20000},
		},
	}
	assert.Equal(t, int64(70000), inv.AmountPaidCents())
	assert.Equal(t, int64(8000), inv.BalanceCents())
}

func TestBalanceClampsAtZero(t *testing.T) {
	inv := Invoice{
		TotalCents: 10000,
		Payments:   []Payment{{AmountCents: 15000}},
	}
	assert.Equal(t, int64(0), inv.BalanceCents())
}

func TestBalanceWithNoPayments(t *testing.T) {
	inv := Invoice{TotalCents: 42000}
	assert.Equal(t, int64(0), inv.AmountPaidCents())
	assert.Equal(t, int64(42000), inv.BalanceCents())
}
