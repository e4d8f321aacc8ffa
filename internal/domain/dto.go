package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses. Monetary fields are serialized as float64 for
// JSON consumers; the authoritative decimal values live on the models and
// in revision snapshots.

type CustomerDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	OrgNumber     string    `json:"orgNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	PostalCode    string    `json:"postalCode,omitempty"`
	Country       string    `json:"country"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"` // ISO 8601
	UpdatedAt     string    `json:"updatedAt"` // ISO 8601
}

type QuotationDTO struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number,omitempty"` // Assigned when leaving draft, e.g. "Q-2026-001"
	Title         string            `json:"title"`
	CustomerID    *uuid.UUID        `json:"customerId,omitempty"`
	CustomerName  string            `json:"customerName,omitempty"`
	Phase         QuotationPhase    `json:"phase"`
	Version       int               `json:"version"`
	Currency      string            `json:"currency"`
	ValidUntil    *string           `json:"validUntil,omitempty"` // ISO 8601 date
	SentDate      *string           `json:"sentDate,omitempty"`   // ISO 8601 date
	Notes         string            `json:"notes,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Subtotal      float64           `json:"subtotal"`
	DiscountTotal float64           `json:"discountTotal"`
	TaxTotal      float64           `json:"taxTotal"`
	Total         float64           `json:"total"`
	Lines         []DocumentLineDTO `json:"lines,omitempty"`
	CreatedByName string            `json:"createdByName,omitempty"`
	UpdatedByName string            `json:"updatedByName,omitempty"`
	CreatedAt     string            `json:"createdAt"` // ISO 8601
	UpdatedAt     string            `json:"updatedAt"` // ISO 8601
}

// QuotationListItemDTO is the compact listing shape without lines
type QuotationListItemDTO struct {
	ID           uuid.UUID      `json:"id"`
	Number       string         `json:"number,omitempty"`
	Title        string         `json:"title"`
	CustomerName string         `json:"customerName,omitempty"`
	Phase        QuotationPhase `json:"phase"`
	Version      int            `json:"version"`
	Currency     string         `json:"currency"`
	ValidUntil   *string        `json:"validUntil,omitempty"`
	Total        float64        `json:"total"`
	UpdatedAt    string         `json:"updatedAt"`
}

type SalesOrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number"`
	QuotationID   *uuid.UUID        `json:"quotationId,omitempty"`
	Title         string            `json:"title"`
	CustomerID    *uuid.UUID        `json:"customerId,omitempty"`
	CustomerName  string            `json:"customerName,omitempty"`
	Status        SalesOrderStatus  `json:"status"`
	Currency      string            `json:"currency"`
	OrderDate     string            `json:"orderDate"`              // ISO 8601 date
	DeliveryDate  *string           `json:"deliveryDate,omitempty"` // ISO 8601 date
	Subtotal      float64           `json:"subtotal"`
	DiscountTotal float64           `json:"discountTotal"`
	TaxTotal      float64           `json:"taxTotal"`
	Total         float64           `json:"total"`
	Lines         []DocumentLineDTO `json:"lines,omitempty"`
	CreatedByName string            `json:"createdByName,omitempty"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

type DocumentLineDTO struct {
	ID         uuid.UUID     `json:"id"`
	LineNumber int           `json:"lineNumber"`
	Heading    string        `json:"heading,omitempty"`
	LineTotal  float64       `json:"lineTotal"`
	Items      []LineItemDTO `json:"items"`
}

type LineItemDTO struct {
	ID              uuid.UUID  `json:"id"`
	ItemCode        string     `json:"itemCode"`
	Description     string     `json:"description,omitempty"`
	Unit            string     `json:"unit,omitempty"`
	Quantity        float64    `json:"quantity"`
	UnitPrice       float64    `json:"unitPrice"`
	DiscountPercent float64    `json:"discountPercent"`
	TaxPercent      float64    `json:"taxPercent"`
	TaxRateID       *uuid.UUID `json:"taxRateId,omitempty"`
	Subtotal        float64    `json:"subtotal"`
	DiscountAmount  float64    `json:"discountAmount"`
	TaxAmount       float64    `json:"taxAmount"`
	Total           float64    `json:"total"`
}

type RevisionDTO struct {
	ID            uuid.UUID `json:"id"`
	QuotationID   uuid.UUID `json:"quotationId"`
	Version       int       `json:"version"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}

type ProductDTO struct {
	ID           uuid.UUID     `json:"id"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Unit         string        `json:"unit"`
	UnitPrice    float64       `json:"unitPrice"`
	Cost         float64       `json:"cost"`
	IsActive     bool          `json:"isActive"`
	Source       ProductSource `json:"source"`
	LastSyncedAt string        `json:"lastSyncedAt,omitempty"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
}

type TaxRateDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	RatePercent float64   `json:"ratePercent"`
	IsDefault   bool      `json:"isDefault"`
	IsActive    bool      `json:"isActive"`
}

type ActivityDTO struct {
	ID          uuid.UUID          `json:"id"`
	TargetType  ActivityTargetType `json:"targetType"`
	TargetID    uuid.UUID          `json:"targetId"`
	TargetName  string             `json:"targetName,omitempty"`
	Title       string             `json:"title"`
	Body        string             `json:"body,omitempty"`
	CreatorName string             `json:"creatorName,omitempty"`
	OccurredAt  string             `json:"occurredAt"` // ISO 8601
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Request DTOs

type CreateQuotationRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	CustomerID   *uuid.UUID `json:"customerId,omitempty"`
	CustomerName string     `json:"customerName,omitempty" validate:"max=200"`
	Currency     string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	ValidUntil   *string    `json:"validUntil,omitempty"` // ISO 8601 date
	Notes        string     `json:"notes,omitempty"`
	Tags         []string   `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type UpdateQuotationRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	CustomerID   *uuid.UUID `json:"customerId,omitempty"`
	CustomerName string     `json:"customerName,omitempty" validate:"max=200"`
	Currency     string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	ValidUntil   *string    `json:"validUntil,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Tags         []string   `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type ChangePhaseRequest struct {
	Phase QuotationPhase `json:"phase" validate:"required"`
}

type AddLineRequest struct {
	LineNumber int                  `json:"lineNumber,omitempty" validate:"gte=0"` // 0 assigns the next free number
	Heading    string               `json:"heading,omitempty" validate:"max=500"`
	Items      []LineItemEditRequest `json:"items,omitempty" validate:"dive"`
}

type UpdateLineRequest struct {
	Heading string `json:"heading,omitempty" validate:"max=500"`
}

type LineItemEditRequest struct {
	ItemCode        string     `json:"itemCode" validate:"required,max=100"`
	Description     string     `json:"description,omitempty"`
	Unit            string     `json:"unit,omitempty" validate:"max=50"`
	Quantity        float64    `json:"quantity" validate:"gte=0"`
	UnitPrice       float64    `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64    `json:"discountPercent" validate:"gte=0,lte=100"`
	TaxPercent      float64    `json:"taxPercent" validate:"gte=0"`
	TaxRateID       *uuid.UUID `json:"taxRateId,omitempty"`
}

// UpdateLineItemRequest is a partial update; nil fields are left unchanged
type UpdateLineItemRequest struct {
	Description     *string    `json:"description,omitempty"`
	Unit            *string    `json:"unit,omitempty" validate:"omitempty,max=50"`
	Quantity        *float64   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	UnitPrice       *float64   `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *float64   `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	TaxPercent      *float64   `json:"taxPercent,omitempty" validate:"omitempty,gte=0"`
	TaxRateID       *uuid.UUID `json:"taxRateId,omitempty"`
}

type ConvertQuotationRequest struct {
	OrderDate    *string `json:"orderDate,omitempty"`    // ISO 8601 date, defaults to today
	DeliveryDate *string `json:"deliveryDate,omitempty"` // ISO 8601 date
}

type UpdateSalesOrderStatusRequest struct {
	Status SalesOrderStatus `json:"status" validate:"required"`
}

type CreateCustomerRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	City          string `json:"city,omitempty" validate:"max=100"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
}

type UpdateCustomerRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	City          string `json:"city,omitempty" validate:"max=100"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
	IsActive      *bool  `json:"isActive,omitempty"`
}

type CreateProductRequest struct {
	Code        string  `json:"code" validate:"required,max=100"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty" validate:"max=50"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Cost        float64 `json:"cost" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty" validate:"max=50"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type CreateTaxRateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	RatePercent float64 `json:"ratePercent" validate:"gte=0"`
	IsDefault   bool    `json:"isDefault,omitempty"`
}

type UpdateTaxRateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	RatePercent float64 `json:"ratePercent" validate:"gte=0"`
	IsDefault   *bool   `json:"isDefault,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
