package diff_test

import (
	"testing"

	"github.com/bygglink/quote-api/internal/diff"
	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// buildDoc returns a recomputed snapshot with the given version and lines.
func buildDoc(version int, lines ...pricing.Line) pricing.Document {
	return pricing.RecomputeTotals(pricing.Document{
		DocType:  pricing.DocTypeQuotation,
		Version:  version,
		Currency: "NOK",
		Lines:    lines,
	})
}

func TestCompare_VersionOrder(t *testing.T) {
	older := buildDoc(2)
	newer := buildDoc(1)

	_, err := diff.Compare(older, newer)
	assert.ErrorIs(t, err, diff.ErrVersionOrder)

	_, err = diff.Compare(buildDoc(3), buildDoc(3))
	assert.ErrorIs(t, err, diff.ErrVersionOrder)
}

func TestCompare_UnchangedDocument(t *testing.T) {
	line := pricing.Line{
		LineNumber: 1,
		Heading:    "Groundwork",
		Items: []pricing.Item{
			{ItemCode: "DIG-01", Quantity: dec("2"), UnitPrice: dec("100")},
		},
	}

	result, err := diff.Compare(buildDoc(1, line), buildDoc(2, line))
	require.NoError(t, err)

	assert.Equal(t, 1, result.OlderVersion)
	assert.Equal(t, 2, result.NewerVersion)

	for _, delta := range result.Totals {
		assert.False(t, delta.Changed, "field %s should be unchanged", delta.Field)
	}

	require.Len(t, result.Lines, 1)
	assert.Equal(t, diff.ChangeUnchanged, result.Lines[0].Kind)
	require.Len(t, result.Lines[0].Items, 1)
	assert.Equal(t, diff.ChangeUnchanged, result.Lines[0].Items[0].Kind)
}

func TestCompare_ModifiedItem(t *testing.T) {
	older := buildDoc(1, pricing.Line{
		LineNumber: 1,
		Items: []pricing.Item{
			{ItemCode: "STEEL-01", Quantity: dec("2"), UnitPrice: dec("100")},
		},
	})
	newer := buildDoc(2, pricing.Line{
		LineNumber: 1,
		Items: []pricing.Item{
			{ItemCode: "STEEL-01", Quantity: dec("3"), UnitPrice: dec("100")},
		},
	})

	result, err := diff.Compare(older, newer)
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, diff.ChangeModified, line.Kind)
	assert.Equal(t, "200.00", line.TotalDelta.OldValue.StringFixed(2))
	assert.Equal(t, "300.00", line.TotalDelta.NewValue.StringFixed(2))
	assert.Equal(t, "100.00", line.TotalDelta.Change.StringFixed(2))

	require.Len(t, line.Items, 1)
	item := line.Items[0]
	assert.Equal(t, diff.ChangeModified, item.Kind)

	var qty *diff.FieldDelta
	for i := range item.Fields {
		if item.Fields[i].Field == "quantity" {
			qty = &item.Fields[i]
		}
	}
	require.NotNil(t, qty)
	assert.True(t, qty.Changed)
	assert.Equal(t, "1", qty.Change.String())
	require.NotNil(t, qty.PercentChange)
	assert.Equal(t, "50.00", qty.PercentChange.StringFixed(2))
}

func TestCompare_AddedAndRemovedLines(t *testing.T) {
	older := buildDoc(1,
		pricing.Line{
			LineNumber: 1,
			Heading:    "Materials",
			Items: []pricing.Item{
				{ItemCode: "TIMBER-01", Quantity: dec("10"), UnitPrice: dec("50")},
			},
		},
		pricing.Line{
			LineNumber: 2,
			Heading:    "Obsolete",
			Items: []pricing.Item{
				{ItemCode: "OLD-01", Quantity: dec("1"), UnitPrice: dec("75")},
			},
		},
	)
	newer := buildDoc(2,
		pricing.Line{
			LineNumber: 1,
			Heading:    "Materials",
			Items: []pricing.Item{
				{ItemCode: "TIMBER-01", Quantity: dec("10"), UnitPrice: dec("50")},
			},
		},
		pricing.Line{
			LineNumber: 3,
			Heading:    "Labor",
			Items: []pricing.Item{
				{ItemCode: "LABOR-01", Quantity: dec("8"), UnitPrice: dec("650")},
			},
		},
	)

	result, err := diff.Compare(older, newer)
	require.NoError(t, err)
	require.Len(t, result.Lines, 3)

	// Lines are ordered by line number.
	assert.Equal(t, 1, result.Lines[0].LineNumber)
	assert.Equal(t, diff.ChangeUnchanged, result.Lines[0].Kind)

	removed := result.Lines[1]
	assert.Equal(t, 2, removed.LineNumber)
	assert.Equal(t, diff.ChangeRemoved, removed.Kind)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, "OLD-01", removed.Items[0].ItemCode)
	assert.Equal(t, diff.ChangeRemoved, removed.Items[0].Kind)
	assert.Equal(t, "75.00", removed.TotalDelta.OldValue.StringFixed(2))
	assert.True(t, removed.TotalDelta.NewValue.IsZero())

	added := result.Lines[2]
	assert.Equal(t, 3, added.LineNumber)
	assert.Equal(t, diff.ChangeAdded, added.Kind)
	require.Len(t, added.Items, 1)
	assert.Equal(t, "LABOR-01", added.Items[0].ItemCode)
	assert.Equal(t, diff.ChangeAdded, added.Items[0].Kind)
	assert.Equal(t, "5200.00", added.TotalDelta.NewValue.StringFixed(2))
}

func TestCompare_ItemMovedBetweenLines(t *testing.T) {
	older := buildDoc(1,
		pricing.Line{
			LineNumber: 1,
			Items: []pricing.Item{
				{ItemCode: "KEEP-01", Quantity: dec("1"), UnitPrice: dec("100")},
			},
		},
		pricing.Line{
			LineNumber: 2,
			Items: []pricing.Item{
				{ItemCode: "MOVE-01", Quantity: dec("1"), UnitPrice: dec("200")},
			},
		},
	)
	newer := buildDoc(2,
		pricing.Line{
			LineNumber: 1,
			Items: []pricing.Item{
				{ItemCode: "KEEP-01", Quantity: dec("1"), UnitPrice: dec("100")},
				{ItemCode: "MOVE-01", Quantity: dec("1"), UnitPrice: dec("200")},
			},
		},
	)

	result, err := diff.Compare(older, newer)
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	// The moved item appears as added on its new line.
	line1 := result.Lines[0]
	assert.Equal(t, diff.ChangeModified, line1.Kind)
	require.Len(t, line1.Items, 2)
	assert.Equal(t, "MOVE-01", line1.Items[1].ItemCode)
	assert.Equal(t, diff.ChangeAdded, line1.Items[1].Kind)

	// The removed line does not repeat the item: it still exists elsewhere.
	line2 := result.Lines[1]
	assert.Equal(t, diff.ChangeRemoved, line2.Kind)
	assert.Empty(t, line2.Items)
}

func TestCompare_HeadingChangeMarksLineModified(t *testing.T) {
	items := []pricing.Item{
		{ItemCode: "SAME-01", Quantity: dec("1"), UnitPrice: dec("100")},
	}
	older := buildDoc(1, pricing.Line{LineNumber: 1, Heading: "Old heading", Items: items})
	newer := buildDoc(2, pricing.Line{LineNumber: 1, Heading: "New heading", Items: items})

	result, err := diff.Compare(older, newer)
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.Equal(t, diff.ChangeModified, result.Lines[0].Kind)
	assert.Equal(t, "New heading", result.Lines[0].Heading)
	assert.Equal(t, diff.ChangeUnchanged, result.Lines[0].Items[0].Kind)
}

func TestCompare_DocumentTotals(t *testing.T) {
	older := buildDoc(1, pricing.Line{
		LineNumber: 1,
		Items: []pricing.Item{
			{ItemCode: "A-01", Quantity: dec("2"), UnitPrice: dec("100"), TaxPercent: dec("25")},
		},
	})
	newer := buildDoc(2, pricing.Line{
		LineNumber: 1,
		Items: []pricing.Item{
			{ItemCode: "A-01", Quantity: dec("4"), UnitPrice: dec("100"), TaxPercent: dec("25")},
		},
	})

	result, err := diff.Compare(older, newer)
	require.NoError(t, err)

	totals := make(map[string]diff.FieldDelta, len(result.Totals))
	for _, delta := range result.Totals {
		totals[delta.Field] = delta
	}

	subtotal := totals["subtotal"]
	assert.Equal(t, "200.00", subtotal.OldValue.StringFixed(2))
	assert.Equal(t, "400.00", subtotal.NewValue.StringFixed(2))
	require.NotNil(t, subtotal.PercentChange)
	assert.Equal(t, "100.00", subtotal.PercentChange.StringFixed(2))

	// No percentage is reported for a change from zero.
	discount := totals["discountTotal"]
	assert.False(t, discount.Changed)
	assert.Nil(t, discount.PercentChange)

	total := totals["total"]
	assert.Equal(t, "250.00", total.Change.StringFixed(2))
}

func TestCompare_ReversedDirectionNegatesDeltas(t *testing.T) {
	first := []pricing.Line{
		{
			LineNumber: 1,
			Items: []pricing.Item{
				{ItemCode: "STEEL-01", Quantity: dec("2"), UnitPrice: dec("100"), TaxPercent: dec("25")},
			},
		},
	}
	second := []pricing.Line{
		{
			LineNumber: 1,
			Items: []pricing.Item{
				{ItemCode: "STEEL-01", Quantity: dec("5"), UnitPrice: dec("100"), TaxPercent: dec("25")},
			},
		},
		{
			LineNumber: 2,
			Heading:    "Labor",
			Items: []pricing.Item{
				{ItemCode: "LABOR-01", Quantity: dec("8"), UnitPrice: dec("650")},
			},
		},
	}

	forward, err := diff.Compare(buildDoc(1, first...), buildDoc(2, second...))
	require.NoError(t, err)

	// The same contents compared the other way round, renumbered so both
	// calls satisfy the older-first requirement.
	reverse, err := diff.Compare(buildDoc(1, second...), buildDoc(2, first...))
	require.NoError(t, err)

	require.Len(t, reverse.Totals, len(forward.Totals))
	for i, fwd := range forward.Totals {
		rev := reverse.Totals[i]
		assert.Equal(t, fwd.Field, rev.Field)
		assert.Equal(t, fwd.Changed, rev.Changed)
		assert.True(t, rev.Change.Equal(fwd.Change.Neg()),
			"field %s: %s should negate %s", fwd.Field, rev.Change, fwd.Change)
	}

	require.Len(t, reverse.Lines, len(forward.Lines))
	for i, fwd := range forward.Lines {
		rev := reverse.Lines[i]
		assert.Equal(t, fwd.LineNumber, rev.LineNumber)
		assert.True(t, rev.TotalDelta.Change.Equal(fwd.TotalDelta.Change.Neg()),
			"line %d total delta should negate", fwd.LineNumber)
	}

	// An addition in one direction is a removal in the other.
	assert.Equal(t, diff.ChangeAdded, forward.Lines[1].Kind)
	assert.Equal(t, diff.ChangeRemoved, reverse.Lines[1].Kind)

	// The modified item's field deltas negate as well.
	var fwdQty, revQty *diff.FieldDelta
	for i := range forward.Lines[0].Items[0].Fields {
		if forward.Lines[0].Items[0].Fields[i].Field == "quantity" {
			fwdQty = &forward.Lines[0].Items[0].Fields[i]
		}
	}
	for i := range reverse.Lines[0].Items[0].Fields {
		if reverse.Lines[0].Items[0].Fields[i].Field == "quantity" {
			revQty = &reverse.Lines[0].Items[0].Fields[i]
		}
	}
	require.NotNil(t, fwdQty)
	require.NotNil(t, revQty)
	assert.Equal(t, "3", fwdQty.Change.String())
	assert.Equal(t, "-3", revQty.Change.String())
}

func TestCompare_PercentChangeFromZero(t *testing.T) {
	older := buildDoc(1, pricing.Line{
		LineNumber: 1,
		Items: []pricing.Item{
			{ItemCode: "A-01", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	})
	newer := buildDoc(2, pricing.Line{
		LineNumber: 1,
		Items: []pricing.Item{
			{ItemCode: "A-01", Quantity: dec("1"), UnitPrice: dec("100"), DiscountPercent: dec("20")},
		},
	})

	result, err := diff.Compare(older, newer)
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	require.Len(t, result.Lines[0].Items, 1)
	item := result.Lines[0].Items[0]
	assert.Equal(t, diff.ChangeModified, item.Kind)

	for _, field := range item.Fields {
		if field.Field == "discountPercent" {
			assert.True(t, field.Changed)
			assert.Nil(t, field.PercentChange, "change from zero has no meaningful percentage")
		}
	}
}
