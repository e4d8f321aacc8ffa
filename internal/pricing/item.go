package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a single priced entry on a document line: a product or service
// with quantity, unit price, discount and tax. The derived fields are filled
// in by Recompute and are never edited directly.
//
// ItemCode is the stable identity key used for updates and for revision
// diffing. It stays constant when items are reordered within a line.
type Item struct {
	ItemCode    string          `json:"itemCode"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`

	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`

	// TaxRateID is an opaque reference to the registry rate TaxPercent was
	// resolved from. The computation never reads it; it is carried so that
	// persistence and revision snapshots keep the link to the rate.
	TaxRateID *uuid.UUID `json:"taxRateId,omitempty"`

	// Derived fields, each rounded to the minor unit.
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableAmount  decimal.Decimal `json:"taxableAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
}

// ItemPatch describes a partial update of an item's editable fields.
// Nil fields are left unchanged.
type ItemPatch struct {
	Description     *string
	Unit            *string
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent *decimal.Decimal
	TaxPercent      *decimal.Decimal

	// TaxRateID records which registry rate produced TaxPercent. A manual
	// TaxPercent without a rate detaches the reference.
	TaxRateID *uuid.UUID
}

// Validate checks the percent fields of a patch at the edit boundary.
func (p ItemPatch) Validate() error {
	if p.DiscountPercent != nil {
		if err := ValidateDiscountPercent(*p.DiscountPercent); err != nil {
			return err
		}
	}
	if p.TaxPercent != nil {
		if err := ValidateTaxPercent(*p.TaxPercent); err != nil {
			return err
		}
	}
	return nil
}

// apply returns a copy of item with the patch applied. Derived fields are
// left stale; the caller recomputes.
func (p ItemPatch) apply(item Item) Item {
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = *p.UnitPrice
	}
	if p.DiscountPercent != nil {
		item.DiscountPercent = *p.DiscountPercent
	}
	if p.TaxPercent != nil {
		item.TaxPercent = *p.TaxPercent
	}
	if p.TaxRateID != nil {
		item.TaxRateID = p.TaxRateID
	} else if p.TaxPercent != nil {
		item.TaxRateID = nil
	}
	return item
}

// Recompute fills in all derived fields of an item from its editable fields:
//
//	subtotal       = quantity × unitPrice
//	discountAmount = subtotal × discountPercent / 100
//	taxableAmount  = subtotal − discountAmount
//	taxAmount      = taxableAmount × taxPercent / 100
//	total          = taxableAmount + taxAmount
//
// Negative quantity and unit price are clamped to zero before computation.
// The function is pure and idempotent: Recompute(Recompute(x)) == Recompute(x).
func Recompute(item Item) Item {
	item.Quantity = clampNonNegative(item.Quantity)
	item.UnitPrice = clampNonNegative(item.UnitPrice)

	item.Subtotal = Round(item.Quantity.Mul(item.UnitPrice))
	item.DiscountAmount = ApplyPercent(item.Subtotal, item.DiscountPercent)
	item.TaxableAmount = item.Subtotal.Sub(item.DiscountAmount)
	item.TaxAmount = ApplyPercent(item.TaxableAmount, item.TaxPercent)
	item.Total = item.TaxableAmount.Add(item.TaxAmount)
	return item
}
