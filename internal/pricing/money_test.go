package pricing_test

import (
	"math"
	"testing"

	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already two places", "125.50", "125.50"},
		{"half rounds up", "10.555", "10.56"},
		{"below half rounds down", "10.554", "10.55"},
		{"integer stays", "100", "100.00"},
		{"zero", "0", "0.00"},
		{"long fraction", "33.33333", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.expected, pricing.Round(d).StringFixed(2))
		})
	}
}

func TestApplyPercent(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		percent  string
		expected string
	}{
		{"25 percent of 100", "100", "25", "25.00"},
		{"10 percent of 599.70", "599.70", "10", "59.97"},
		{"rounds half up", "100.05", "50", "50.03"},
		{"zero percent", "500", "0", "0.00"},
		{"100 percent", "42.42", "100", "42.42"},
		{"above 100 percent", "100", "150", "150.00"},
		{"zero base", "0", "25", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := decimal.RequireFromString(tt.base)
			percent := decimal.RequireFromString(tt.percent)
			assert.Equal(t, tt.expected, pricing.ApplyPercent(base, percent).StringFixed(2))
		})
	}
}

func TestFromFloat(t *testing.T) {
	t.Run("normal value", func(t *testing.T) {
		d, ok := pricing.FromFloat(199.90)
		assert.True(t, ok)
		assert.Equal(t, "199.90", d.StringFixed(2))
	})

	t.Run("zero", func(t *testing.T) {
		d, ok := pricing.FromFloat(0)
		assert.True(t, ok)
		assert.True(t, d.IsZero())
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		d, ok := pricing.FromFloat(math.NaN())
		assert.False(t, ok)
		assert.True(t, d.IsZero())
	})

	t.Run("positive infinity is rejected", func(t *testing.T) {
		d, ok := pricing.FromFloat(math.Inf(1))
		assert.False(t, ok)
		assert.True(t, d.IsZero())
	})

	t.Run("negative infinity is rejected", func(t *testing.T) {
		d, ok := pricing.FromFloat(math.Inf(-1))
		assert.False(t, ok)
		assert.True(t, d.IsZero())
	})
}

func TestValidateDiscountPercent(t *testing.T) {
	tests := []struct {
		name    string
		percent string
		wantErr bool
	}{
		{"zero is valid", "0", false},
		{"mid range is valid", "12.5", false},
		{"exactly 100 is valid", "100", false},
		{"negative is invalid", "-0.01", true},
		{"above 100 is invalid", "100.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pricing.ValidateDiscountPercent(decimal.RequireFromString(tt.percent))
			if tt.wantErr {
				assert.ErrorIs(t, err, pricing.ErrDiscountOutOfRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTaxPercent(t *testing.T) {
	tests := []struct {
		name    string
		percent string
		wantErr bool
	}{
		{"zero is valid", "0", false},
		{"standard rate is valid", "25", false},
		{"above 100 is valid", "150", false},
		{"negative is invalid", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pricing.ValidateTaxPercent(decimal.RequireFromString(tt.percent))
			if tt.wantErr {
				assert.ErrorIs(t, err, pricing.ErrNegativeTaxPercent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
