package pricing_test

import (
	"testing"

	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() pricing.Document {
	doc := pricing.Document{
		DocType:  pricing.DocTypeQuotation,
		Version:  1,
		Currency: "NOK",
		Lines: []pricing.Line{
			{
				LineNumber: 1,
				Heading:    "Groundwork",
				Items: []pricing.Item{
					{ItemCode: "DIG-01", Quantity: dec("1"), UnitPrice: dec("15000"), TaxPercent: dec("25")},
				},
			},
			{
				LineNumber: 2,
				Heading:    "Materials",
				Items: []pricing.Item{
					{ItemCode: "TIMBER-01", Quantity: dec("100"), UnitPrice: dec("45.50"), DiscountPercent: dec("10"), TaxPercent: dec("25")},
					{ItemCode: "SCREWS-01", Quantity: dec("20"), UnitPrice: dec("89"), TaxPercent: dec("25")},
				},
			},
		},
	}
	return pricing.RecomputeTotals(doc)
}

func TestRecomputeTotals(t *testing.T) {
	doc := testDocument()

	// DIG-01:    subtotal 15000.00, tax 3750.00
	// TIMBER-01: subtotal 4550.00, discount 455.00, taxable 4095.00, tax 1023.75
	// SCREWS-01: subtotal 1780.00, tax 445.00
	assert.Equal(t, "21330.00", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "455.00", doc.DiscountTotal.StringFixed(2))
	assert.Equal(t, "5218.75", doc.TaxTotal.StringFixed(2))
	assert.Equal(t, "26093.75", doc.Total.StringFixed(2))

	// Grand total is derived as subtotal − discount + tax.
	derived := doc.Subtotal.Sub(doc.DiscountTotal).Add(doc.TaxTotal)
	assert.True(t, doc.Total.Equal(derived))
}

func TestRecomputeTotals_EmptyDocument(t *testing.T) {
	doc := pricing.RecomputeTotals(pricing.Document{DocType: pricing.DocTypeQuotation, Currency: "NOK"})
	assert.True(t, doc.Subtotal.IsZero())
	assert.True(t, doc.DiscountTotal.IsZero())
	assert.True(t, doc.TaxTotal.IsZero())
	assert.True(t, doc.Total.IsZero())
}

func TestDocument_FlattenItems(t *testing.T) {
	doc := testDocument()
	items := doc.FlattenItems()
	require.Len(t, items, 3)
	assert.Equal(t, "DIG-01", items[0].ItemCode)
	assert.Equal(t, "TIMBER-01", items[1].ItemCode)
	assert.Equal(t, "SCREWS-01", items[2].ItemCode)
}

func TestDocument_LineByNumber(t *testing.T) {
	doc := testDocument()

	line, ok := doc.LineByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "Materials", line.Heading)

	_, ok = doc.LineByNumber(99)
	assert.False(t, ok)
}

func TestDocument_NextLineNumber(t *testing.T) {
	t.Run("empty document starts at one", func(t *testing.T) {
		doc := pricing.Document{}
		assert.Equal(t, 1, doc.NextLineNumber())
	})

	t.Run("continues after highest number", func(t *testing.T) {
		doc := testDocument()
		assert.Equal(t, 3, doc.NextLineNumber())
	})

	t.Run("gaps are not reused", func(t *testing.T) {
		doc := pricing.Document{Lines: []pricing.Line{
			{LineNumber: 1},
			{LineNumber: 5},
		}}
		assert.Equal(t, 6, doc.NextLineNumber())
	})
}

func TestAddLine(t *testing.T) {
	t.Run("zero line number assigns next free", func(t *testing.T) {
		doc, err := pricing.AddLine(testDocument(), pricing.Line{
			Heading: "Finishing",
			Items: []pricing.Item{
				{ItemCode: "PAINT-01", Quantity: dec("5"), UnitPrice: dec("300"), TaxPercent: dec("25")},
			},
		})
		require.NoError(t, err)
		require.Len(t, doc.Lines, 3)
		assert.Equal(t, 3, doc.Lines[2].LineNumber)
		assert.Equal(t, "1875.00", doc.Lines[2].LineTotal.StringFixed(2))
		assert.Equal(t, "27968.75", doc.Total.StringFixed(2))
	})

	t.Run("explicit number keeps lines sorted", func(t *testing.T) {
		doc := pricing.Document{}
		var err error
		doc, err = pricing.AddLine(doc, pricing.Line{LineNumber: 5, Heading: "Last"})
		require.NoError(t, err)
		doc, err = pricing.AddLine(doc, pricing.Line{LineNumber: 2, Heading: "First"})
		require.NoError(t, err)

		require.Len(t, doc.Lines, 2)
		assert.Equal(t, 2, doc.Lines[0].LineNumber)
		assert.Equal(t, 5, doc.Lines[1].LineNumber)
	})

	t.Run("duplicate number is rejected", func(t *testing.T) {
		_, err := pricing.AddLine(testDocument(), pricing.Line{LineNumber: 2})
		assert.ErrorIs(t, err, pricing.ErrDuplicateLineNumber)
	})
}

func TestRemoveLine(t *testing.T) {
	t.Run("removes line and recomputes totals", func(t *testing.T) {
		doc, err := pricing.RemoveLine(testDocument(), 2)
		require.NoError(t, err)
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, "15000.00", doc.Subtotal.StringFixed(2))
		assert.Equal(t, "18750.00", doc.Total.StringFixed(2))
		assert.True(t, doc.DiscountTotal.IsZero())
	})

	t.Run("unknown number returns ErrLineNotFound", func(t *testing.T) {
		_, err := pricing.RemoveLine(testDocument(), 42)
		assert.ErrorIs(t, err, pricing.ErrLineNotFound)
	})
}

func TestReplaceLine(t *testing.T) {
	t.Run("swaps line by number and recomputes", func(t *testing.T) {
		doc := testDocument()
		line, ok := doc.LineByNumber(1)
		require.True(t, ok)

		line, err := pricing.RemoveItem(line, "DIG-01")
		require.NoError(t, err)
		line = pricing.AddItem(line, pricing.Item{
			ItemCode:   "DIG-02",
			Quantity:   dec("1"),
			UnitPrice:  dec("18000"),
			TaxPercent: dec("25"),
		})

		doc, err = pricing.ReplaceLine(doc, line)
		require.NoError(t, err)
		assert.Equal(t, "24330.00", doc.Subtotal.StringFixed(2))
		assert.Equal(t, "29843.75", doc.Total.StringFixed(2))
	})

	t.Run("unknown number returns ErrLineNotFound", func(t *testing.T) {
		_, err := pricing.ReplaceLine(testDocument(), pricing.Line{LineNumber: 42})
		assert.ErrorIs(t, err, pricing.ErrLineNotFound)
	})
}
