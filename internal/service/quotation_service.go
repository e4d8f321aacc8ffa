package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/mapper"
	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/bygglink/quote-api/internal/repository"
)

// QuotationService owns the quotation lifecycle: creation, header edits,
// line editing, phase transitions and revision snapshots. Line and lifecycle
// operations live in quotation_lines_service.go and
// quotation_lifecycle_service.go on the same struct.
type QuotationService struct {
	quotationRepo    *repository.QuotationRepository
	revisionRepo     *repository.RevisionRepository
	customerRepo     *repository.CustomerRepository
	taxRateRepo      *repository.TaxRateRepository
	activityRepo     *repository.ActivityRepository
	numberSeqService *NumberSequenceService
	logger           *zap.Logger
}

func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	revisionRepo *repository.RevisionRepository,
	customerRepo *repository.CustomerRepository,
	taxRateRepo *repository.TaxRateRepository,
	activityRepo *repository.ActivityRepository,
	numberSeqService *NumberSequenceService,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo:    quotationRepo,
		revisionRepo:     revisionRepo,
		customerRepo:     customerRepo,
		taxRateRepo:      taxRateRepo,
		activityRepo:     activityRepo,
		numberSeqService: numberSeqService,
		logger:           logger,
	}
}

// Create creates a new quotation in draft phase with no lines
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	var customerID *uuid.UUID
	customerName := req.CustomerName

	if req.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: customer %s", ErrNotFound, req.CustomerID)
			}
			return nil, fmt.Errorf("failed to verify customer: %w", err)
		}
		customerID = &customer.ID
		customerName = customer.Name
	}

	currency := req.Currency
	if currency == "" {
		currency = "NOK"
	}

	validUntil, err := parseDatePtr(req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: validUntil: %v", ErrInvalidInput, err)
	}

	quotation := &domain.Quotation{
		Title:        req.Title,
		CustomerID:   customerID,
		CustomerName: customerName,
		Phase:        domain.QuotationPhaseDraft,
		Version:      1,
		Currency:     currency,
		ValidUntil:   validUntil,
		Notes:        req.Notes,
		Tags:         req.Tags,
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		s.logger.Error("failed to create quotation", zap.Error(err))
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	if err := s.writeRevision(ctx, quotation, pricing.Document{
		DocType:  pricing.DocTypeQuotation,
		Version:  quotation.Version,
		Currency: quotation.Currency,
	}); err != nil {
		return nil, err
	}

	s.logActivity(ctx, quotation.ID, quotation.Title, "Quotation created",
		fmt.Sprintf("Quotation '%s' was created", quotation.Title))

	s.logger.Info("quotation created",
		zap.String("quotationID", quotation.ID.String()),
		zap.String("title", quotation.Title))

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// GetByID retrieves a quotation with its lines
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// List returns paginated quotations without lines
func (s *QuotationService) List(ctx context.Context, page, pageSize int, filter repository.QuotationFilter, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	items := make([]domain.QuotationListItemDTO, len(quotations))
	for i := range quotations {
		items[i] = mapper.ToQuotationListItemDTO(&quotations[i])
	}

	page, pageSize = repository.NormalizePagination(page, pageSize)
	return &domain.PaginatedResponse{
		Data:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits quotation header fields. Header edits do not bump the
// version: revisions track priced content, and a title or note change has
// nothing for the diff engine to say.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Phase.IsTerminal() {
		return nil, ErrQuotationNotEditable
	}

	if req.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: customer %s", ErrNotFound, req.CustomerID)
			}
			return nil, fmt.Errorf("failed to verify customer: %w", err)
		}
		quotation.CustomerID = &customer.ID
		quotation.CustomerName = customer.Name
	} else if req.CustomerName != "" {
		quotation.CustomerID = nil
		quotation.CustomerName = req.CustomerName
	}

	validUntil, err := parseDatePtr(req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: validUntil: %v", ErrInvalidInput, err)
	}
	if validUntil != nil {
		quotation.ValidUntil = validUntil
	}

	quotation.Title = req.Title
	quotation.Notes = req.Notes
	if req.Currency != "" {
		quotation.Currency = req.Currency
	}
	if req.Tags != nil {
		quotation.Tags = req.Tags
	}

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		s.logger.Error("failed to update quotation",
			zap.String("quotationID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	s.logActivity(ctx, quotation.ID, quotation.Title, "Quotation updated",
		fmt.Sprintf("Quotation '%s' was updated", quotation.Title))

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Delete removes a quotation, its lines and its revisions. Only drafts can
// be deleted; numbered quotations are part of the audit trail.
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Phase != domain.QuotationPhaseDraft {
		return ErrQuotationNotEditable
	}

	if err := s.revisionRepo.DeleteByQuotation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete revisions: %w", err)
	}
	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.logger.Info("quotation deleted",
		zap.String("quotationID", id.String()),
		zap.String("title", quotation.Title))
	return nil
}

// ===== Internal helpers =====

// editableDocument loads a quotation and converts it to the pricing snapshot,
// rejecting edits outside the draft/open phases.
func (s *QuotationService) editableDocument(ctx context.Context, id uuid.UUID) (*domain.Quotation, pricing.Document, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.Document{}, ErrNotFound
		}
		return nil, pricing.Document{}, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Phase != domain.QuotationPhaseDraft && quotation.Phase != domain.QuotationPhaseOpen {
		return nil, pricing.Document{}, ErrQuotationNotEditable
	}

	doc := mapper.ToPricingDocument(domain.DocumentTypeQuotation,
		quotation.Number, quotation.Version, quotation.Currency, quotation.Lines)
	return quotation, doc, nil
}

// saveDocument persists a recomputed document as the next version of the
// quotation and writes the matching revision snapshot.
func (s *QuotationService) saveDocument(ctx context.Context, quotation *domain.Quotation, doc pricing.Document, activityTitle, activityBody string) (*domain.QuotationDTO, error) {
	quotation.Version++
	doc.Version = quotation.Version

	mapper.ApplyDocumentTotals(quotation, doc)
	lines := mapper.FromPricingLines(domain.DocumentTypeQuotation, quotation.ID, doc)

	if err := s.quotationRepo.SaveWithLines(ctx, quotation, lines); err != nil {
		s.logger.Error("failed to save quotation lines",
			zap.String("quotationID", quotation.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	if err := s.writeRevision(ctx, quotation, doc); err != nil {
		return nil, err
	}

	s.logActivity(ctx, quotation.ID, quotation.Title, activityTitle, activityBody)

	// Reload so line IDs and timestamps reflect the stored state
	saved, err := s.quotationRepo.GetByID(ctx, quotation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}
	dto := mapper.ToQuotationDTO(saved)
	return &dto, nil
}

// writeRevision stores the snapshot of the document at its current version
func (s *QuotationService) writeRevision(ctx context.Context, quotation *domain.Quotation, doc pricing.Document) error {
	doc.Number = quotation.Number
	snapshot, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode revision snapshot: %w", err)
	}

	revision := &domain.QuotationRevision{
		QuotationID: quotation.ID,
		Version:     quotation.Version,
		Snapshot:    snapshot,
	}
	if err := s.revisionRepo.Create(ctx, revision); err != nil {
		s.logger.Error("failed to write revision",
			zap.String("quotationID", quotation.ID.String()),
			zap.Int("version", quotation.Version),
			zap.Error(err))
		return fmt.Errorf("failed to write revision: %w", err)
	}
	return nil
}

// resolveTaxPercent maps an optional tax rate reference to its percent value
func (s *QuotationService) resolveTaxPercent(ctx context.Context, taxRateID *uuid.UUID, fallback float64) (float64, error) {
	if taxRateID == nil {
		return fallback, nil
	}
	rate, err := s.taxRateRepo.GetByID(ctx, *taxRateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaxRateNotFound
		}
		return 0, fmt.Errorf("failed to get tax rate: %w", err)
	}
	return rate.RatePercent.InexactFloat64(), nil
}

// logActivity creates an activity log entry for a quotation
func (s *QuotationService) logActivity(ctx context.Context, quotationID uuid.UUID, quotationTitle, title, body string) {
	activity := &domain.Activity{
		TargetType: domain.ActivityTargetQuotation,
		TargetID:   quotationID,
		TargetName: quotationTitle,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now(),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to log activity", zap.Error(err))
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// parseDatePtr parses an optional ISO 8601 date string
func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
