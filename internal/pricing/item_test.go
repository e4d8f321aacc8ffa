package pricing_test

import (
	"testing"

	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRecompute(t *testing.T) {
	tests := []struct {
		name             string
		item             pricing.Item
		wantSubtotal     string
		wantDiscount     string
		wantTaxable      string
		wantTax          string
		wantTotal        string
	}{
		{
			name: "plain item without discount or tax",
			item: pricing.Item{
				ItemCode:  "STEEL-01",
				Quantity:  dec("2"),
				UnitPrice: dec("100"),
			},
			wantSubtotal: "200.00",
			wantDiscount: "0.00",
			wantTaxable:  "200.00",
			wantTax:      "0.00",
			wantTotal:    "200.00",
		},
		{
			name: "discount and tax cascade",
			item: pricing.Item{
				ItemCode:        "STEEL-02",
				Quantity:        dec("3"),
				UnitPrice:       dec("199.90"),
				DiscountPercent: dec("10"),
				TaxPercent:      dec("25"),
			},
			wantSubtotal: "599.70",
			wantDiscount: "59.97",
			wantTaxable:  "539.73",
			wantTax:      "134.93",
			wantTotal:    "674.66",
		},
		{
			name: "subtotal rounds before discount",
			item: pricing.Item{
				ItemCode:   "FRAC-01",
				Quantity:   dec("1"),
				UnitPrice:  dec("10.555"),
				TaxPercent: dec("25"),
			},
			wantSubtotal: "10.56",
			wantDiscount: "0.00",
			wantTaxable:  "10.56",
			wantTax:      "2.64",
			wantTotal:    "13.20",
		},
		{
			name: "full discount zeroes the total",
			item: pricing.Item{
				ItemCode:        "FREE-01",
				Quantity:        dec("4"),
				UnitPrice:       dec("250"),
				DiscountPercent: dec("100"),
				TaxPercent:      dec("25"),
			},
			wantSubtotal: "1000.00",
			wantDiscount: "1000.00",
			wantTaxable:  "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
		{
			name: "tax above 100 percent is applied",
			item: pricing.Item{
				ItemCode:   "DUTY-01",
				Quantity:   dec("1"),
				UnitPrice:  dec("100"),
				TaxPercent: dec("150"),
			},
			wantSubtotal: "100.00",
			wantDiscount: "0.00",
			wantTaxable:  "100.00",
			wantTax:      "150.00",
			wantTotal:    "250.00",
		},
		{
			name: "negative quantity is clamped to zero",
			item: pricing.Item{
				ItemCode:  "NEG-01",
				Quantity:  dec("-5"),
				UnitPrice: dec("100"),
			},
			wantSubtotal: "0.00",
			wantDiscount: "0.00",
			wantTaxable:  "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
		{
			name: "negative unit price is clamped to zero",
			item: pricing.Item{
				ItemCode:  "NEG-02",
				Quantity:  dec("5"),
				UnitPrice: dec("-10"),
			},
			wantSubtotal: "0.00",
			wantDiscount: "0.00",
			wantTaxable:  "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Recompute(tt.item)
			assert.Equal(t, tt.wantSubtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantDiscount, got.DiscountAmount.StringFixed(2))
			assert.Equal(t, tt.wantTaxable, got.TaxableAmount.StringFixed(2))
			assert.Equal(t, tt.wantTax, got.TaxAmount.StringFixed(2))
			assert.Equal(t, tt.wantTotal, got.Total.StringFixed(2))
		})
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	item := pricing.Item{
		ItemCode:        "IDEM-01",
		Quantity:        dec("7"),
		UnitPrice:       dec("133.37"),
		DiscountPercent: dec("12.5"),
		TaxPercent:      dec("25"),
	}

	once := pricing.Recompute(item)
	twice := pricing.Recompute(once)

	assert.True(t, once.Subtotal.Equal(twice.Subtotal))
	assert.True(t, once.DiscountAmount.Equal(twice.DiscountAmount))
	assert.True(t, once.TaxableAmount.Equal(twice.TaxableAmount))
	assert.True(t, once.TaxAmount.Equal(twice.TaxAmount))
	assert.True(t, once.Total.Equal(twice.Total))
}

func TestRecompute_DoesNotMutateInput(t *testing.T) {
	item := pricing.Item{
		ItemCode:  "PURE-01",
		Quantity:  dec("2"),
		UnitPrice: dec("50"),
	}

	_ = pricing.Recompute(item)
	assert.True(t, item.Subtotal.IsZero(), "input item must stay untouched")
	assert.True(t, item.Total.IsZero(), "input item must stay untouched")
}

func TestItemPatch_Validate(t *testing.T) {
	t.Run("empty patch is valid", func(t *testing.T) {
		assert.NoError(t, pricing.ItemPatch{}.Validate())
	})

	t.Run("valid percents pass", func(t *testing.T) {
		discount := dec("15")
		tax := dec("25")
		patch := pricing.ItemPatch{DiscountPercent: &discount, TaxPercent: &tax}
		assert.NoError(t, patch.Validate())
	})

	t.Run("discount above 100 is rejected", func(t *testing.T) {
		discount := dec("101")
		patch := pricing.ItemPatch{DiscountPercent: &discount}
		assert.ErrorIs(t, patch.Validate(), pricing.ErrDiscountOutOfRange)
	})

	t.Run("negative tax is rejected", func(t *testing.T) {
		tax := dec("-25")
		patch := pricing.ItemPatch{TaxPercent: &tax}
		assert.ErrorIs(t, patch.Validate(), pricing.ErrNegativeTaxPercent)
	})
}
