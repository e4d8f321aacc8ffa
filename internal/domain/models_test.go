package domain_test

import (
	"testing"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDocumentType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		docType  domain.DocumentType
		expected bool
	}{
		{"quotation is valid", domain.DocumentTypeQuotation, true},
		{"sales_order is valid", domain.DocumentTypeSalesOrder, true},
		{"invalid type", domain.DocumentType("invoice"), false},
		{"empty type", domain.DocumentType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.docType.IsValid())
		})
	}
}

func TestGetDocumentPrefix(t *testing.T) {
	assert.Equal(t, "Q", domain.GetDocumentPrefix(domain.DocumentTypeQuotation))
	assert.Equal(t, "SO", domain.GetDocumentPrefix(domain.DocumentTypeSalesOrder))
}

func TestFormatDocumentNumber(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		year     int
		sequence int
		expected string
	}{
		{"first quotation of the year", "Q", 2026, 1, "Q-2026-001"},
		{"two digit sequence", "SO", 2026, 42, "SO-2026-042"},
		{"three digit sequence", "Q", 2025, 137, "Q-2025-137"},
		{"sequence beyond padding", "Q", 2026, 1234, "Q-2026-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.FormatDocumentNumber(tt.prefix, tt.year, tt.sequence))
		})
	}
}

func TestQuotationPhase_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		phase    domain.QuotationPhase
		expected bool
	}{
		{"draft is valid", domain.QuotationPhaseDraft, true},
		{"open is valid", domain.QuotationPhaseOpen, true},
		{"sent is valid", domain.QuotationPhaseSent, true},
		{"accepted is valid", domain.QuotationPhaseAccepted, true},
		{"declined is valid", domain.QuotationPhaseDeclined, true},
		{"expired is valid", domain.QuotationPhaseExpired, true},
		{"invalid phase", domain.QuotationPhase("invalid"), false},
		{"empty phase", domain.QuotationPhase(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.IsValid())
		})
	}
}

func TestQuotationPhase_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		phase    domain.QuotationPhase
		expected bool
	}{
		{"draft is not terminal", domain.QuotationPhaseDraft, false},
		{"open is not terminal", domain.QuotationPhaseOpen, false},
		{"sent is not terminal", domain.QuotationPhaseSent, false},
		{"accepted IS terminal", domain.QuotationPhaseAccepted, true},
		{"declined IS terminal", domain.QuotationPhaseDeclined, true},
		{"expired IS terminal", domain.QuotationPhaseExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.IsTerminal())
		})
	}
}

func TestQuotationPhase_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.QuotationPhase
		to       domain.QuotationPhase
		expected bool
	}{
		// Same phase transitions (always valid)
		{"draft to draft", domain.QuotationPhaseDraft, domain.QuotationPhaseDraft, true},
		{"sent to sent", domain.QuotationPhaseSent, domain.QuotationPhaseSent, true},
		{"accepted to accepted", domain.QuotationPhaseAccepted, domain.QuotationPhaseAccepted, true},

		// From draft
		{"draft to open", domain.QuotationPhaseDraft, domain.QuotationPhaseOpen, true},
		{"draft to sent (invalid)", domain.QuotationPhaseDraft, domain.QuotationPhaseSent, false},
		{"draft to accepted (invalid)", domain.QuotationPhaseDraft, domain.QuotationPhaseAccepted, false},
		{"draft to declined (invalid)", domain.QuotationPhaseDraft, domain.QuotationPhaseDeclined, false},
		{"draft to expired (invalid)", domain.QuotationPhaseDraft, domain.QuotationPhaseExpired, false},

		// From open
		{"open to sent", domain.QuotationPhaseOpen, domain.QuotationPhaseSent, true},
		{"open to declined", domain.QuotationPhaseOpen, domain.QuotationPhaseDeclined, true},
		{"open to expired", domain.QuotationPhaseOpen, domain.QuotationPhaseExpired, true},
		{"open to draft (invalid)", domain.QuotationPhaseOpen, domain.QuotationPhaseDraft, false},
		{"open to accepted (invalid)", domain.QuotationPhaseOpen, domain.QuotationPhaseAccepted, false},

		// From sent
		{"sent to open", domain.QuotationPhaseSent, domain.QuotationPhaseOpen, true},
		{"sent to accepted", domain.QuotationPhaseSent, domain.QuotationPhaseAccepted, true},
		{"sent to declined", domain.QuotationPhaseSent, domain.QuotationPhaseDeclined, true},
		{"sent to expired", domain.QuotationPhaseSent, domain.QuotationPhaseExpired, true},
		{"sent to draft (invalid)", domain.QuotationPhaseSent, domain.QuotationPhaseDraft, false},

		// Terminal phases allow no transitions
		{"accepted to open (invalid)", domain.QuotationPhaseAccepted, domain.QuotationPhaseOpen, false},
		{"accepted to sent (invalid)", domain.QuotationPhaseAccepted, domain.QuotationPhaseSent, false},
		{"declined to open (invalid)", domain.QuotationPhaseDeclined, domain.QuotationPhaseOpen, false},
		{"declined to draft (invalid)", domain.QuotationPhaseDeclined, domain.QuotationPhaseDraft, false},
		{"expired to open (invalid)", domain.QuotationPhaseExpired, domain.QuotationPhaseOpen, false},
		{"expired to sent (invalid)", domain.QuotationPhaseExpired, domain.QuotationPhaseSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestQuotationPhase_TypicalLifecycle(t *testing.T) {
	// A typical successful lifecycle: draft -> open -> sent -> accepted
	phases := []domain.QuotationPhase{
		domain.QuotationPhaseDraft,
		domain.QuotationPhaseOpen,
		domain.QuotationPhaseSent,
		domain.QuotationPhaseAccepted,
	}

	for i := 0; i < len(phases)-1; i++ {
		from := phases[i]
		to := phases[i+1]
		t.Run(string(from)+" to "+string(to), func(t *testing.T) {
			assert.True(t, from.CanTransitionTo(to),
				"Expected valid transition from %s to %s", from, to)
		})
	}
}

func TestQuotationPhase_SentFallsBackToOpen(t *testing.T) {
	// A sent quotation can be pulled back for another editing round
	assert.True(t, domain.QuotationPhaseSent.CanTransitionTo(domain.QuotationPhaseOpen))

	// But never back to draft
	assert.False(t, domain.QuotationPhaseSent.CanTransitionTo(domain.QuotationPhaseDraft))
}

func TestSalesOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.SalesOrderStatus
		expected bool
	}{
		{"open is valid", domain.SalesOrderStatusOpen, true},
		{"delivered is valid", domain.SalesOrderStatusDelivered, true},
		{"invoiced is valid", domain.SalesOrderStatusInvoiced, true},
		{"cancelled is valid", domain.SalesOrderStatusCancelled, true},
		{"invalid status", domain.SalesOrderStatus("shipped"), false},
		{"empty status", domain.SalesOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}
