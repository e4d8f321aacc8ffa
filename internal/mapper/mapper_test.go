package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/mapper"
	"github.com/bygglink/quote-api/internal/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestToCustomerDTO(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	customer := &domain.Customer{
		BaseModel: domain.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      "Byggmester Hansen AS",
		OrgNumber: "987654321",
		Email:     "post@hansen.no",
		Country:   "Norway",
		IsActive:  true,
	}

	dto := mapper.ToCustomerDTO(customer)
	assert.Equal(t, customer.ID, dto.ID)
	assert.Equal(t, "Byggmester Hansen AS", dto.Name)
	assert.Equal(t, "987654321", dto.OrgNumber)
	assert.True(t, dto.IsActive)
	assert.Equal(t, "2026-03-15T10:30:00Z", dto.CreatedAt)
}

func TestToQuotationDTO(t *testing.T) {
	validUntil := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	quotation := &domain.Quotation{
		BaseModel:    domain.BaseModel{ID: uuid.New()},
		Number:       "Q-2026-007",
		Title:        "Warehouse extension",
		CustomerName: "Byggmester Hansen AS",
		Phase:        domain.QuotationPhaseOpen,
		Version:      3,
		Currency:     "NOK",
		ValidUntil:   &validUntil,
		Subtotal:     dec("21330.00"),
		Total:        dec("26093.75"),
		Lines: []domain.DocumentLine{
			{
				LineNumber: 1,
				Heading:    "Groundwork",
				LineTotal:  dec("18750.00"),
				Items: []domain.DocumentLineItem{
					{ItemCode: "DIG-01", Quantity: dec("1"), UnitPrice: dec("15000"), Total: dec("18750.00")},
				},
			},
		},
	}

	dto := mapper.ToQuotationDTO(quotation)
	assert.Equal(t, "Q-2026-007", dto.Number)
	assert.Equal(t, domain.QuotationPhaseOpen, dto.Phase)
	assert.Equal(t, 3, dto.Version)
	assert.InDelta(t, 26093.75, dto.Total, 0.001)
	require.NotNil(t, dto.ValidUntil)
	assert.Equal(t, "2026-04-30", *dto.ValidUntil)

	require.Len(t, dto.Lines, 1)
	assert.Equal(t, "Groundwork", dto.Lines[0].Heading)
	require.Len(t, dto.Lines[0].Items, 1)
	assert.Equal(t, "DIG-01", dto.Lines[0].Items[0].ItemCode)
	assert.InDelta(t, 18750.00, dto.Lines[0].Items[0].Total, 0.001)
}

func TestToQuotationDTO_NilDates(t *testing.T) {
	quotation := &domain.Quotation{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Title:     "Draft without dates",
		Phase:     domain.QuotationPhaseDraft,
	}

	dto := mapper.ToQuotationDTO(quotation)
	assert.Nil(t, dto.ValidUntil)
	assert.Nil(t, dto.SentDate)
}

func TestToPricingDocument(t *testing.T) {
	t.Run("orders lines by number and items by position", func(t *testing.T) {
		lines := []domain.DocumentLine{
			{
				LineNumber: 2,
				Heading:    "Second",
				Items: []domain.DocumentLineItem{
					{ItemCode: "B-02", Position: 1, Quantity: dec("1"), UnitPrice: dec("20")},
					{ItemCode: "B-01", Position: 0, Quantity: dec("1"), UnitPrice: dec("10")},
				},
			},
			{
				LineNumber: 1,
				Heading:    "First",
				Items: []domain.DocumentLineItem{
					{ItemCode: "A-01", Position: 0, Quantity: dec("2"), UnitPrice: dec("100")},
				},
			},
		}

		doc := mapper.ToPricingDocument(domain.DocumentTypeQuotation, "Q-2026-001", 2, "NOK", lines)

		assert.Equal(t, pricing.DocTypeQuotation, doc.DocType)
		assert.Equal(t, 2, doc.Version)
		require.Len(t, doc.Lines, 2)
		assert.Equal(t, 1, doc.Lines[0].LineNumber)
		assert.Equal(t, 2, doc.Lines[1].LineNumber)
		require.Len(t, doc.Lines[1].Items, 2)
		assert.Equal(t, "B-01", doc.Lines[1].Items[0].ItemCode)
		assert.Equal(t, "B-02", doc.Lines[1].Items[1].ItemCode)
	})

	t.Run("recomputes totals from stored editable fields", func(t *testing.T) {
		lines := []domain.DocumentLine{
			{
				LineNumber: 1,
				Items: []domain.DocumentLineItem{
					// Stored derived fields are stale on purpose.
					{ItemCode: "A-01", Quantity: dec("2"), UnitPrice: dec("100"), TaxPercent: dec("25"), Total: dec("999")},
				},
			},
		}

		doc := mapper.ToPricingDocument(domain.DocumentTypeQuotation, "", 1, "NOK", lines)
		assert.Equal(t, "200.00", doc.Subtotal.StringFixed(2))
		assert.Equal(t, "250.00", doc.Total.StringFixed(2))
		assert.Equal(t, "250.00", doc.Lines[0].Items[0].Total.StringFixed(2))
	})
}

func TestFromPricingLines(t *testing.T) {
	docID := uuid.New()
	doc := pricing.RecomputeTotals(pricing.Document{
		DocType:  pricing.DocTypeQuotation,
		Currency: "NOK",
		Lines: []pricing.Line{
			{
				LineNumber: 1,
				Heading:    "Materials",
				Items: []pricing.Item{
					{ItemCode: "TIMBER-01", Quantity: dec("100"), UnitPrice: dec("45.50"), TaxPercent: dec("25")},
					{ItemCode: "SCREWS-01", Quantity: dec("20"), UnitPrice: dec("89"), TaxPercent: dec("25")},
				},
			},
		},
	})

	lines := mapper.FromPricingLines(domain.DocumentTypeQuotation, docID, doc)

	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, domain.DocumentTypeQuotation, line.DocumentType)
	assert.Equal(t, docID, line.DocumentID)
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, "Materials", line.Heading)
	assert.True(t, line.LineTotal.Equal(doc.Lines[0].LineTotal))

	require.Len(t, line.Items, 2)
	assert.Equal(t, 0, line.Items[0].Position)
	assert.Equal(t, 1, line.Items[1].Position)
	assert.Equal(t, "TIMBER-01", line.Items[0].ItemCode)
	assert.True(t, line.Items[0].Subtotal.Equal(doc.Lines[0].Items[0].Subtotal))
	assert.True(t, line.Items[0].Total.Equal(doc.Lines[0].Items[0].Total))
}

func TestPricingRoundTrip(t *testing.T) {
	// Persisting computed lines and loading them back must yield the same
	// document totals.
	docID := uuid.New()
	original := mapper.ToPricingDocument(domain.DocumentTypeQuotation, "Q-2026-002", 1, "NOK", []domain.DocumentLine{
		{
			LineNumber: 1,
			Heading:    "Groundwork",
			Items: []domain.DocumentLineItem{
				{ItemCode: "DIG-01", Quantity: dec("1"), UnitPrice: dec("15000"), TaxPercent: dec("25")},
			},
		},
		{
			LineNumber: 2,
			Heading:    "Materials",
			Items: []domain.DocumentLineItem{
				{ItemCode: "TIMBER-01", Quantity: dec("100"), UnitPrice: dec("45.50"), DiscountPercent: dec("10"), TaxPercent: dec("25")},
			},
		},
	})

	stored := mapper.FromPricingLines(domain.DocumentTypeQuotation, docID, original)
	reloaded := mapper.ToPricingDocument(domain.DocumentTypeQuotation, "Q-2026-002", 1, "NOK", stored)

	assert.True(t, reloaded.Subtotal.Equal(original.Subtotal))
	assert.True(t, reloaded.DiscountTotal.Equal(original.DiscountTotal))
	assert.True(t, reloaded.TaxTotal.Equal(original.TaxTotal))
	assert.True(t, reloaded.Total.Equal(original.Total))
}

func TestPricingRoundTrip_KeepsTaxRateReference(t *testing.T) {
	docID := uuid.New()
	rateID := uuid.New()

	doc := mapper.ToPricingDocument(domain.DocumentTypeQuotation, "Q-2026-003", 1, "NOK", []domain.DocumentLine{
		{
			LineNumber: 1,
			Items: []domain.DocumentLineItem{
				{ItemCode: "TIMBER-01", Quantity: dec("10"), UnitPrice: dec("45.50"), TaxPercent: dec("25"), TaxRateID: &rateID},
				{ItemCode: "LABOR-01", Position: 1, Quantity: dec("8"), UnitPrice: dec("650"), TaxPercent: dec("25")},
			},
		},
	})

	require.Len(t, doc.Lines, 1)
	require.Len(t, doc.Lines[0].Items, 2)
	require.NotNil(t, doc.Lines[0].Items[0].TaxRateID)
	assert.Equal(t, rateID, *doc.Lines[0].Items[0].TaxRateID)
	assert.Nil(t, doc.Lines[0].Items[1].TaxRateID)

	stored := mapper.FromPricingLines(domain.DocumentTypeQuotation, docID, doc)
	require.Len(t, stored, 1)
	require.Len(t, stored[0].Items, 2)
	require.NotNil(t, stored[0].Items[0].TaxRateID)
	assert.Equal(t, rateID, *stored[0].Items[0].TaxRateID)
	assert.Nil(t, stored[0].Items[1].TaxRateID)
}

func TestApplyDocumentTotals(t *testing.T) {
	doc := pricing.Document{
		Subtotal:      dec("1000"),
		DiscountTotal: dec("100"),
		TaxTotal:      dec("225"),
		Total:         dec("1125"),
	}

	quotation := &domain.Quotation{}
	mapper.ApplyDocumentTotals(quotation, doc)
	assert.True(t, quotation.Subtotal.Equal(dec("1000")))
	assert.True(t, quotation.Total.Equal(dec("1125")))

	order := &domain.SalesOrder{}
	mapper.ApplyOrderTotals(order, doc)
	assert.True(t, order.DiscountTotal.Equal(dec("100")))
	assert.True(t, order.TaxTotal.Equal(dec("225")))
}
