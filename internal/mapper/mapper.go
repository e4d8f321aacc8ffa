package mapper

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/pricing"
)

const timestampFormat = "2006-01-02T15:04:05Z"
const dateFormat = "2006-01-02"

// ToCustomerDTO converts Customer to CustomerDTO
func ToCustomerDTO(customer *domain.Customer) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:            customer.ID,
		Name:          customer.Name,
		OrgNumber:     customer.OrgNumber,
		Email:         customer.Email,
		Phone:         customer.Phone,
		Address:       customer.Address,
		City:          customer.City,
		PostalCode:    customer.PostalCode,
		Country:       customer.Country,
		ContactPerson: customer.ContactPerson,
		IsActive:      customer.IsActive,
		CreatedAt:     customer.CreatedAt.Format(timestampFormat),
		UpdatedAt:     customer.UpdatedAt.Format(timestampFormat),
	}
}

// ToQuotationDTO converts Quotation to QuotationDTO including lines
func ToQuotationDTO(quotation *domain.Quotation) domain.QuotationDTO {
	lines := make([]domain.DocumentLineDTO, len(quotation.Lines))
	for i, line := range quotation.Lines {
		lines[i] = ToDocumentLineDTO(&line)
	}

	dto := domain.QuotationDTO{
		ID:            quotation.ID,
		Number:        quotation.Number,
		Title:         quotation.Title,
		CustomerID:    quotation.CustomerID,
		CustomerName:  quotation.CustomerName,
		Phase:         quotation.Phase,
		Version:       quotation.Version,
		Currency:      quotation.Currency,
		Notes:         quotation.Notes,
		Tags:          quotation.Tags,
		Subtotal:      quotation.Subtotal.InexactFloat64(),
		DiscountTotal: quotation.DiscountTotal.InexactFloat64(),
		TaxTotal:      quotation.TaxTotal.InexactFloat64(),
		Total:         quotation.Total.InexactFloat64(),
		Lines:         lines,
		CreatedByName: quotation.CreatedByName,
		UpdatedByName: quotation.UpdatedByName,
		CreatedAt:     quotation.CreatedAt.Format(timestampFormat),
		UpdatedAt:     quotation.UpdatedAt.Format(timestampFormat),
	}

	if quotation.ValidUntil != nil {
		validUntil := quotation.ValidUntil.Format(dateFormat)
		dto.ValidUntil = &validUntil
	}
	if quotation.SentDate != nil {
		sentDate := quotation.SentDate.Format(dateFormat)
		dto.SentDate = &sentDate
	}

	return dto
}

// ToQuotationListItemDTO converts Quotation to the compact listing shape
func ToQuotationListItemDTO(quotation *domain.Quotation) domain.QuotationListItemDTO {
	dto := domain.QuotationListItemDTO{
		ID:           quotation.ID,
		Number:       quotation.Number,
		Title:        quotation.Title,
		CustomerName: quotation.CustomerName,
		Phase:        quotation.Phase,
		Version:      quotation.Version,
		Currency:     quotation.Currency,
		Total:        quotation.Total.InexactFloat64(),
		UpdatedAt:    quotation.UpdatedAt.Format(timestampFormat),
	}
	if quotation.ValidUntil != nil {
		validUntil := quotation.ValidUntil.Format(dateFormat)
		dto.ValidUntil = &validUntil
	}
	return dto
}

// ToSalesOrderDTO converts SalesOrder to SalesOrderDTO including lines
func ToSalesOrderDTO(order *domain.SalesOrder) domain.SalesOrderDTO {
	lines := make([]domain.DocumentLineDTO, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = ToDocumentLineDTO(&line)
	}

	dto := domain.SalesOrderDTO{
		ID:            order.ID,
		Number:        order.Number,
		QuotationID:   order.QuotationID,
		Title:         order.Title,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		Status:        order.Status,
		Currency:      order.Currency,
		OrderDate:     order.OrderDate.Format(dateFormat),
		Subtotal:      order.Subtotal.InexactFloat64(),
		DiscountTotal: order.DiscountTotal.InexactFloat64(),
		TaxTotal:      order.TaxTotal.InexactFloat64(),
		Total:         order.Total.InexactFloat64(),
		Lines:         lines,
		CreatedByName: order.CreatedByName,
		CreatedAt:     order.CreatedAt.Format(timestampFormat),
		UpdatedAt:     order.UpdatedAt.Format(timestampFormat),
	}
	if order.DeliveryDate != nil {
		deliveryDate := order.DeliveryDate.Format(dateFormat)
		dto.DeliveryDate = &deliveryDate
	}
	return dto
}

// ToDocumentLineDTO converts DocumentLine to DocumentLineDTO
func ToDocumentLineDTO(line *domain.DocumentLine) domain.DocumentLineDTO {
	items := make([]domain.LineItemDTO, len(line.Items))
	for i, item := range line.Items {
		items[i] = ToLineItemDTO(&item)
	}
	return domain.DocumentLineDTO{
		ID:         line.ID,
		LineNumber: line.LineNumber,
		Heading:    line.Heading,
		LineTotal:  line.LineTotal.InexactFloat64(),
		Items:      items,
	}
}

// ToLineItemDTO converts DocumentLineItem to LineItemDTO
func ToLineItemDTO(item *domain.DocumentLineItem) domain.LineItemDTO {
	return domain.LineItemDTO{
		ID:              item.ID,
		ItemCode:        item.ItemCode,
		Description:     item.Description,
		Unit:            item.Unit,
		Quantity:        item.Quantity.InexactFloat64(),
		UnitPrice:       item.UnitPrice.InexactFloat64(),
		DiscountPercent: item.DiscountPercent.InexactFloat64(),
		TaxPercent:      item.TaxPercent.InexactFloat64(),
		TaxRateID:       item.TaxRateID,
		Subtotal:        item.Subtotal.InexactFloat64(),
		DiscountAmount:  item.DiscountAmount.InexactFloat64(),
		TaxAmount:       item.TaxAmount.InexactFloat64(),
		Total:           item.Total.InexactFloat64(),
	}
}

// ToRevisionDTO converts QuotationRevision to RevisionDTO (without snapshot)
func ToRevisionDTO(revision *domain.QuotationRevision) domain.RevisionDTO {
	return domain.RevisionDTO{
		ID:            revision.ID,
		QuotationID:   revision.QuotationID,
		Version:       revision.Version,
		CreatedByName: revision.CreatedByName,
		CreatedAt:     revision.CreatedAt.Format(timestampFormat),
	}
}

// ToProductDTO converts Product to ProductDTO
func ToProductDTO(product *domain.Product) domain.ProductDTO {
	dto := domain.ProductDTO{
		ID:          product.ID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Unit:        product.Unit,
		UnitPrice:   product.UnitPrice.InexactFloat64(),
		Cost:        product.Cost.InexactFloat64(),
		IsActive:    product.IsActive,
		Source:      product.Source,
		CreatedAt:   product.CreatedAt.Format(timestampFormat),
		UpdatedAt:   product.UpdatedAt.Format(timestampFormat),
	}
	if product.LastSyncedAt != nil {
		dto.LastSyncedAt = product.LastSyncedAt.Format(timestampFormat)
	}
	return dto
}

// ToTaxRateDTO converts TaxRate to TaxRateDTO
func ToTaxRateDTO(rate *domain.TaxRate) domain.TaxRateDTO {
	return domain.TaxRateDTO{
		ID:          rate.ID,
		Name:        rate.Name,
		RatePercent: rate.RatePercent.InexactFloat64(),
		IsDefault:   rate.IsDefault,
		IsActive:    rate.IsActive,
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          activity.ID,
		TargetType:  activity.TargetType,
		TargetID:    activity.TargetID,
		TargetName:  activity.TargetName,
		Title:       activity.Title,
		Body:        activity.Body,
		CreatorName: activity.CreatorName,
		OccurredAt:  activity.OccurredAt.Format(timestampFormat),
	}
}

// ToPricingDocument converts persisted lines into the in-memory editing
// snapshot the pricing core operates on. Items keep their stored position
// order; lines are ordered by line number.
func ToPricingDocument(docType domain.DocumentType, number string, version int, currency string, lines []domain.DocumentLine) pricing.Document {
	doc := pricing.Document{
		DocType:  pricing.DocType(docType),
		Number:   number,
		Version:  version,
		Currency: currency,
		Lines:    make([]pricing.Line, len(lines)),
	}

	sorted := make([]domain.DocumentLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LineNumber < sorted[j].LineNumber
	})

	for i, line := range sorted {
		items := make([]domain.DocumentLineItem, len(line.Items))
		copy(items, line.Items)
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].Position < items[b].Position
		})

		pl := pricing.Line{
			LineNumber: line.LineNumber,
			Heading:    line.Heading,
			Items:      make([]pricing.Item, len(items)),
		}
		for j, item := range items {
			pl.Items[j] = pricing.Item{
				ItemCode:        item.ItemCode,
				Description:     item.Description,
				Unit:            item.Unit,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				DiscountPercent: item.DiscountPercent,
				TaxPercent:      item.TaxPercent,
				TaxRateID:       item.TaxRateID,
			}
		}
		doc.Lines[i] = pl
	}

	return pricing.RecomputeTotals(doc)
}

// FromPricingLines converts a computed pricing document back into persistable
// line models. IDs are left zero; the repository assigns them on insert since
// line sets are replaced wholesale on save.
func FromPricingLines(docType domain.DocumentType, docID uuid.UUID, doc pricing.Document) []domain.DocumentLine {
	lines := make([]domain.DocumentLine, len(doc.Lines))
	for i, line := range doc.Lines {
		dl := domain.DocumentLine{
			DocumentType: docType,
			DocumentID:   docID,
			LineNumber:   line.LineNumber,
			Heading:      line.Heading,
			LineTotal:    line.LineTotal,
			Items:        make([]domain.DocumentLineItem, len(line.Items)),
		}
		for j, item := range line.Items {
			dl.Items[j] = domain.DocumentLineItem{
				ItemCode:        item.ItemCode,
				Description:     item.Description,
				Unit:            item.Unit,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				DiscountPercent: item.DiscountPercent,
				TaxPercent:      item.TaxPercent,
				TaxRateID:       item.TaxRateID,
				Position:        j,
				Subtotal:        item.Subtotal,
				DiscountAmount:  item.DiscountAmount,
				TaxAmount:       item.TaxAmount,
				Total:           item.Total,
			}
		}
		lines[i] = dl
	}
	return lines
}

// ApplyDocumentTotals copies computed document totals onto a quotation
func ApplyDocumentTotals(quotation *domain.Quotation, doc pricing.Document) {
	quotation.Subtotal = doc.Subtotal
	quotation.DiscountTotal = doc.DiscountTotal
	quotation.TaxTotal = doc.TaxTotal
	quotation.Total = doc.Total
}

// ApplyOrderTotals copies computed document totals onto a sales order
func ApplyOrderTotals(order *domain.SalesOrder, doc pricing.Document) {
	order.Subtotal = doc.Subtotal
	order.DiscountTotal = doc.DiscountTotal
	order.TaxTotal = doc.TaxTotal
	order.Total = doc.Total
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
