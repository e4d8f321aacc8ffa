package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/pricing"
)

// Line and item editing operations of QuotationService. Every edit loads the
// current line set, applies one pricing-core operation, recomputes, and saves
// the result as the next version with a revision snapshot.

// AddLine appends a new line, optionally pre-filled with items
func (s *QuotationService) AddLine(ctx context.Context, id uuid.UUID, req *domain.AddLineRequest) (*domain.QuotationDTO, error) {
	quotation, doc, err := s.editableDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	line := pricing.Line{
		LineNumber: req.LineNumber,
		Heading:    req.Heading,
	}
	for _, itemReq := range req.Items {
		item, err := s.buildItem(ctx, doc, &itemReq)
		if err != nil {
			return nil, err
		}
		line.Items = append(line.Items, item)
	}

	doc, err = pricing.AddLine(doc, line)
	if err != nil {
		if errors.Is(err, pricing.ErrDuplicateLineNumber) {
			return nil, fmt.Errorf("%w: line number %d", ErrConflict, req.LineNumber)
		}
		return nil, err
	}

	return s.saveDocument(ctx, quotation, doc, "Line added",
		fmt.Sprintf("Line %d was added", line.LineNumber))
}

// UpdateLineHeading changes the heading of a line
func (s *QuotationService) UpdateLineHeading(ctx context.Context, id uuid.UUID, lineNumber int, req *domain.UpdateLineRequest) (*domain.QuotationDTO, error) {
	quotation, doc, err := s.editableDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	line, ok := doc.LineByNumber(lineNumber)
	if !ok {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNumber)
	}
	line.Heading = req.Heading

	doc, err = pricing.ReplaceLine(doc, line)
	if err != nil {
		return nil, err
	}

	return s.saveDocument(ctx, quotation, doc, "Line updated",
		fmt.Sprintf("Heading of line %d was changed", lineNumber))
}

// RemoveLine deletes a line and everything on it
func (s *QuotationService) RemoveLine(ctx context.Context, id uuid.UUID, lineNumber int) (*domain.QuotationDTO, error) {
	quotation, doc, err := s.editableDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err = pricing.RemoveLine(doc, lineNumber)
	if err != nil {
		if errors.Is(err, pricing.ErrLineNotFound) {
			return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNumber)
		}
		return nil, err
	}

	return s.saveDocument(ctx, quotation, doc, "Line removed",
		fmt.Sprintf("Line %d was removed", lineNumber))
}

// AddItem adds an item to an existing line
func (s *QuotationService) AddItem(ctx context.Context, id uuid.UUID, lineNumber int, req *domain.LineItemEditRequest) (*domain.QuotationDTO, error) {
	quotation, doc, err := s.editableDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	line, ok := doc.LineByNumber(lineNumber)
	if !ok {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNumber)
	}

	item, err := s.buildItem(ctx, doc, req)
	if err != nil {
		return nil, err
	}

	doc, err = pricing.ReplaceLine(doc, pricing.AddItem(line, item))
	if err != nil {
		return nil, err
	}

	return s.saveDocument(ctx, quotation, doc, "Item added",
		fmt.Sprintf("Item '%s' was added to line %d", req.ItemCode, lineNumber))
}

// UpdateItem applies a partial update to one item
func (s *QuotationService) UpdateItem(ctx context.Context, id uuid.UUID, lineNumber int, itemCode string, req *domain.UpdateLineItemRequest) (*domain.QuotationDTO, error) {
	quotation, doc, err := s.editableDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	line, ok := doc.LineByNumber(lineNumber)
	if !ok {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNumber)
	}

	patch := pricing.ItemPatch{
		Description: req.Description,
		Unit:        req.Unit,
	}
	if req.Quantity != nil {
		patch.Quantity = s.decimalFromFloat(*req.Quantity, "quantity", itemCode)
	}
	if req.UnitPrice != nil {
		patch.UnitPrice = s.decimalFromFloat(*req.UnitPrice, "unitPrice", itemCode)
	}
	if req.DiscountPercent != nil {
		patch.DiscountPercent = s.decimalFromFloat(*req.DiscountPercent, "discountPercent", itemCode)
	}
	if req.TaxRateID != nil {
		percent, err := s.resolveTaxPercent(ctx, req.TaxRateID, 0)
		if err != nil {
			return nil, err
		}
		patch.TaxPercent = s.decimalFromFloat(percent, "taxPercent", itemCode)
		patch.TaxRateID = req.TaxRateID
	} else if req.TaxPercent != nil {
		patch.TaxPercent = s.decimalFromFloat(*req.TaxPercent, "taxPercent", itemCode)
	}

	updated, err := pricing.UpdateItem(line, itemCode, patch)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrItemNotFound):
			return nil, fmt.Errorf("%w: item '%s' on line %d", ErrNotFound, itemCode, lineNumber)
		case errors.Is(err, pricing.ErrDiscountOutOfRange), errors.Is(err, pricing.ErrNegativeTaxPercent):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	doc, err = pricing.ReplaceLine(doc, updated)
	if err != nil {
		return nil, err
	}

	return s.saveDocument(ctx, quotation, doc, "Item updated",
		fmt.Sprintf("Item '%s' on line %d was updated", itemCode, lineNumber))
}

// RemoveItem deletes an item from a line. The line itself survives, heading
// included, even when its last item goes.
func (s *QuotationService) RemoveItem(ctx context.Context, id uuid.UUID, lineNumber int, itemCode string) (*domain.QuotationDTO, error) {
	quotation, doc, err := s.editableDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	line, ok := doc.LineByNumber(lineNumber)
	if !ok {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNumber)
	}

	updated, err := pricing.RemoveItem(line, itemCode)
	if err != nil {
		if errors.Is(err, pricing.ErrItemNotFound) {
			return nil, fmt.Errorf("%w: item '%s' on line %d", ErrNotFound, itemCode, lineNumber)
		}
		return nil, err
	}

	doc, err = pricing.ReplaceLine(doc, updated)
	if err != nil {
		return nil, err
	}

	return s.saveDocument(ctx, quotation, doc, "Item removed",
		fmt.Sprintf("Item '%s' was removed from line %d", itemCode, lineNumber))
}

// buildItem converts an item request into a pricing item, resolving tax rate
// references and validating percents. Item codes must be unique across the
// whole document because the revision diff matches items by code.
func (s *QuotationService) buildItem(ctx context.Context, doc pricing.Document, req *domain.LineItemEditRequest) (pricing.Item, error) {
	for _, existing := range doc.FlattenItems() {
		if existing.ItemCode == req.ItemCode {
			return pricing.Item{}, fmt.Errorf("%w: '%s'", ErrDuplicateItemCode, req.ItemCode)
		}
	}

	taxPercent, err := s.resolveTaxPercent(ctx, req.TaxRateID, req.TaxPercent)
	if err != nil {
		return pricing.Item{}, err
	}

	item := pricing.Item{
		ItemCode:        req.ItemCode,
		Description:     req.Description,
		Unit:            req.Unit,
		Quantity:        *s.decimalFromFloat(req.Quantity, "quantity", req.ItemCode),
		UnitPrice:       *s.decimalFromFloat(req.UnitPrice, "unitPrice", req.ItemCode),
		DiscountPercent: *s.decimalFromFloat(req.DiscountPercent, "discountPercent", req.ItemCode),
		TaxPercent:      *s.decimalFromFloat(taxPercent, "taxPercent", req.ItemCode),
		TaxRateID:       req.TaxRateID,
	}

	if err := pricing.ValidateDiscountPercent(item.DiscountPercent); err != nil {
		return pricing.Item{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := pricing.ValidateTaxPercent(item.TaxPercent); err != nil {
		return pricing.Item{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return item, nil
}

// decimalFromFloat converts an API float to a decimal. NaN and Inf cannot
// survive the conversion; they are logged and treated as zero.
func (s *QuotationService) decimalFromFloat(f float64, field, itemCode string) *decimal.Decimal {
	d, ok := pricing.FromFloat(f)
	if !ok {
		s.logger.Warn("non-finite value replaced with zero",
			zap.String("field", field),
			zap.String("itemCode", itemCode))
	}
	return &d
}
