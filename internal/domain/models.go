package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// DocumentType distinguishes quotations from sales orders in shared tables
// (document lines, number sequences, activities).
type DocumentType string

const (
	DocumentTypeQuotation  DocumentType = "quotation"
	DocumentTypeSalesOrder DocumentType = "sales_order"
)

// IsValid checks if the DocumentType is a valid enum value
func (dt DocumentType) IsValid() bool {
	return dt == DocumentTypeQuotation || dt == DocumentTypeSalesOrder
}

// GetDocumentPrefix returns the number prefix for a document type
func GetDocumentPrefix(docType DocumentType) string {
	if docType == DocumentTypeSalesOrder {
		return "SO"
	}
	return "Q"
}

// FormatDocumentNumber builds a document number as {PREFIX}-{YEAR}-{SEQ},
// sequence zero-padded to 3 digits, e.g. "Q-2026-001", "SO-2026-042".
func FormatDocumentNumber(prefix string, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, sequence)
}

// QuotationPhase represents where a quotation sits in its lifecycle
type QuotationPhase string

const (
	QuotationPhaseDraft    QuotationPhase = "draft"
	QuotationPhaseOpen     QuotationPhase = "open"
	QuotationPhaseSent     QuotationPhase = "sent"
	QuotationPhaseAccepted QuotationPhase = "accepted"
	QuotationPhaseDeclined QuotationPhase = "declined"
	QuotationPhaseExpired  QuotationPhase = "expired"
)

// IsValid checks if the QuotationPhase is a valid enum value
func (p QuotationPhase) IsValid() bool {
	switch p {
	case QuotationPhaseDraft, QuotationPhaseOpen, QuotationPhaseSent,
		QuotationPhaseAccepted, QuotationPhaseDeclined, QuotationPhaseExpired:
		return true
	}
	return false
}

// IsTerminal returns true for phases that end the quotation's lifecycle
func (p QuotationPhase) IsTerminal() bool {
	return p == QuotationPhaseAccepted || p == QuotationPhaseDeclined || p == QuotationPhaseExpired
}

// CanTransitionTo reports whether the phase transition is allowed. Editing
// happens in draft and open; a sent quotation either resolves to a terminal
// phase or falls back to open for another editing round.
func (p QuotationPhase) CanTransitionTo(target QuotationPhase) bool {
	if p == target {
		return true
	}
	switch p {
	case QuotationPhaseDraft:
		return target == QuotationPhaseOpen
	case QuotationPhaseOpen:
		return target == QuotationPhaseSent || target == QuotationPhaseDeclined ||
			target == QuotationPhaseExpired
	case QuotationPhaseSent:
		return target == QuotationPhaseOpen || target == QuotationPhaseAccepted ||
			target == QuotationPhaseDeclined || target == QuotationPhaseExpired
	}
	return false
}

// Customer represents an organization quotations are issued to
type Customer struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string `gorm:"type:varchar(20);unique;index"`
	Email         string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:varchar(500)"`
	City          string `gorm:"type:varchar(100)"`
	PostalCode    string `gorm:"type:varchar(20)"`
	Country       string `gorm:"type:varchar(100);not null;default:'Norway'"`
	ContactPerson string `gorm:"type:varchar(200)"`
	IsActive      bool   `gorm:"not null;default:true;column:is_active"`
}

// Quotation represents a versioned commercial offer composed of document
// lines. Totals are denormalized from the pricing core on every save so
// listings never have to load lines.
type Quotation struct {
	BaseModel
	Number        string          `gorm:"type:varchar(50);uniqueIndex"`
	Title         string          `gorm:"type:varchar(200);not null;index"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID"`
	CustomerName  string          `gorm:"type:varchar(200);column:customer_name"`
	Phase         QuotationPhase  `gorm:"type:varchar(50);not null;default:'draft';index"`
	Version       int             `gorm:"not null;default:1"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'NOK'"`
	ValidUntil    *time.Time      `gorm:"type:date;column:valid_until"`
	SentDate      *time.Time      `gorm:"type:date;column:sent_date"`
	Notes         string          `gorm:"type:text"`
	Tags          pq.StringArray  `gorm:"type:text[]"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:discount_total"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:tax_total"`
	Total         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Lines         []DocumentLine  `gorm:"polymorphic:Document;polymorphicValue:quotation"`
	CreatedByName string          `gorm:"type:varchar(200);column:created_by_name"`
	UpdatedByName string          `gorm:"type:varchar(200);column:updated_by_name"`
}

// SalesOrderStatus represents the fulfilment status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusOpen      SalesOrderStatus = "open"
	SalesOrderStatusDelivered SalesOrderStatus = "delivered"
	SalesOrderStatusInvoiced  SalesOrderStatus = "invoiced"
	SalesOrderStatusCancelled SalesOrderStatus = "cancelled"
)

// IsValid checks if the SalesOrderStatus is a valid enum value
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusOpen, SalesOrderStatusDelivered, SalesOrderStatusInvoiced, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// SalesOrder represents an accepted quotation converted into an order.
// Lines are deep-copied at conversion time; later quotation edits never
// reach the order.
type SalesOrder struct {
	BaseModel
	Number        string           `gorm:"type:varchar(50);uniqueIndex"`
	QuotationID   *uuid.UUID       `gorm:"type:uuid;index;column:quotation_id"`
	Quotation     *Quotation       `gorm:"foreignKey:QuotationID"`
	Title         string           `gorm:"type:varchar(200);not null"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index"`
	CustomerName  string           `gorm:"type:varchar(200);column:customer_name"`
	Status        SalesOrderStatus `gorm:"type:varchar(50);not null;default:'open';index"`
	Currency      string           `gorm:"type:varchar(3);not null;default:'NOK'"`
	OrderDate     time.Time        `gorm:"type:date;not null;column:order_date"`
	DeliveryDate  *time.Time       `gorm:"type:date;column:delivery_date"`
	Subtotal      decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountTotal decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0;column:discount_total"`
	TaxTotal      decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0;column:tax_total"`
	Total         decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	Lines         []DocumentLine   `gorm:"polymorphic:Document;polymorphicValue:sales_order"`
	CreatedByName string           `gorm:"type:varchar(200);column:created_by_name"`
}

// DocumentLine is a numbered group of items on a quotation or sales order.
// The heading is the customer-facing description and belongs to the line,
// not to any item in it.
type DocumentLine struct {
	BaseModel
	DocumentType DocumentType       `gorm:"type:varchar(50);not null;index:idx_document_lines_doc;column:document_type"`
	DocumentID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_document_lines_doc;column:document_id"`
	LineNumber   int                `gorm:"not null;column:line_number"`
	Heading      string             `gorm:"type:varchar(500)"`
	LineTotal    decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0;column:line_total"`
	Items        []DocumentLineItem `gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
}

// DocumentLineItem is a single priced entry on a document line. ItemCode is
// the stable identity used for updates and revision diffing; it usually
// matches a product code but stays stable for free-text items too.
type DocumentLineItem struct {
	BaseModel
	LineID          uuid.UUID       `gorm:"type:uuid;not null;index;column:line_id"`
	Line            *DocumentLine   `gorm:"foreignKey:LineID"`
	ItemCode        string          `gorm:"type:varchar(100);not null;column:item_code"`
	Description     string          `gorm:"type:text"`
	Unit            string          `gorm:"type:varchar(50)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:tax_percent"`
	TaxRateID       *uuid.UUID      `gorm:"type:uuid;column:tax_rate_id"`
	Position        int             `gorm:"not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:tax_amount"`
	Total           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// QuotationRevision is an immutable snapshot of a quotation at a specific
// version, stored as JSON. A revision is written before every mutating save
// of a non-draft quotation; revisions are the inputs of the diff engine.
type QuotationRevision struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuotationID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quotation_revisions_version;column:quotation_id"`
	Version       int       `gorm:"not null;uniqueIndex:idx_quotation_revisions_version"`
	Snapshot      []byte    `gorm:"type:jsonb;not null"`
	CreatedByName string    `gorm:"type:varchar(200);column:created_by_name"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (QuotationRevision) TableName() string {
	return "quotation_revisions"
}

// ProductSource represents where a product record originates
type ProductSource string

const (
	ProductSourceManual ProductSource = "manual"
	ProductSourceFeed   ProductSource = "feed"
)

// Product is a catalog entry used to seed new line items with code, name,
// price and cost. Feed-sourced products are kept current by the price sync
// job against the external inventory system.
type Product struct {
	BaseModel
	Code         string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string          `gorm:"type:varchar(200);not null;index"`
	Description  string          `gorm:"type:text"`
	Unit         string          `gorm:"type:varchar(50);not null;default:'pcs'"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	Cost         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true;column:is_active"`
	Source       ProductSource   `gorm:"type:varchar(50);not null;default:'manual'"`
	LastSyncedAt *time.Time      `gorm:"column:last_synced_at"`
}

// TaxRate is a named tax percentage. Line items reference a rate by ID at
// edit time; the pricing core only ever sees the resolved percent.
type TaxRate struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);not null"`
	RatePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;column:rate_percent"`
	IsDefault   bool            `gorm:"not null;default:false;column:is_default"`
	IsActive    bool            `gorm:"not null;default:true;column:is_active"`
}

// ActivityTargetType represents the type of entity an activity is associated with
type ActivityTargetType string

const (
	ActivityTargetQuotation  ActivityTargetType = "Quotation"
	ActivityTargetSalesOrder ActivityTargetType = "SalesOrder"
	ActivityTargetCustomer   ActivityTargetType = "Customer"
	ActivityTargetProduct    ActivityTargetType = "Product"
)

// Activity represents an event log entry for any entity
type Activity struct {
	BaseModel
	TargetType  ActivityTargetType `gorm:"type:varchar(50);not null;index:idx_activities_target;column:target_type"`
	TargetID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_activities_target;column:target_id"`
	TargetName  string             `gorm:"type:varchar(200);column:target_name"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Body        string             `gorm:"type:varchar(2000)"`
	OccurredAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
	CreatorName string             `gorm:"type:varchar(200);column:creator_name"`
}

// NumberSequence tracks the last issued document number per type and year.
// Quotations and sales orders use separate counters so the Q- and SO-
// series are each gapless within a year.
type NumberSequence struct {
	ID           uint         `gorm:"primaryKey"`
	DocType      DocumentType `gorm:"type:varchar(50);not null;uniqueIndex:idx_number_sequences_type_year;column:doc_type"`
	Year         int          `gorm:"not null;uniqueIndex:idx_number_sequences_type_year"`
	LastSequence int          `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}
