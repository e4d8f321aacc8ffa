package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrQuotationNotEditable is returned when lines are edited outside the draft/open phases
	ErrQuotationNotEditable = errors.New("quotation is not editable in its current phase")

	// ErrInvalidPhaseTransition is returned for a lifecycle move the phase graph does not allow
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")

	// ErrQuotationNotAccepted is returned when converting a quotation that is not accepted
	ErrQuotationNotAccepted = errors.New("quotation must be accepted before conversion")

	// ErrAlreadyConverted is returned when a quotation already has a sales order
	ErrAlreadyConverted = errors.New("quotation has already been converted to a sales order")

	// ErrDuplicateItemCode is returned when an item code already exists on the line
	ErrDuplicateItemCode = errors.New("item code already exists on line")

	// ErrTaxRateNotFound is returned when a referenced tax rate does not exist
	ErrTaxRateNotFound = errors.New("tax rate not found")

	// ErrProductCodeTaken is returned when creating a product with an existing code
	ErrProductCodeTaken = errors.New("product code already in use")

	// ErrInventoryDisabled is returned when a price sync is requested without a configured feed
	ErrInventoryDisabled = errors.New("inventory feed is not configured")
)
