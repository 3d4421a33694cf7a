package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApplicationService handles the CRUD side of loan applications. All
// status mutations go through the workflow service; nothing here assigns
// Status directly past DRAFT creation.
type ApplicationService struct {
	appRepo         *repositories.ApplicationRepository
	historyRepo     *repositories.HistoryRepository
	personRepo      *repositories.PersonRepository
	companyRepo     *repositories.CompanyRepository
	workflowService *WorkflowService
	notifyService   *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo *repositories.ApplicationRepository,
	historyRepo *repositories.HistoryRepository,
	personRepo *repositories.PersonRepository,
	companyRepo *repositories.CompanyRepository,
	workflowService *WorkflowService,
	notifyService *NotificationService,
) *ApplicationService {
	return &ApplicationService{
		appRepo:         appRepo,
		historyRepo:     historyRepo,
		personRepo:      personRepo,
		companyRepo:     companyRepo,
		workflowService: workflowService,
		notifyService:   notifyService,
	}
}

// CreateApplicationInput represents create application input. Exactly one
// of PersonID / CompanyID must be set.
type CreateApplicationInput struct {
	PersonID            *uint           `json:"person_id,omitempty"`
	CompanyID           *uint           `json:"company_id,omitempty"`
	RequestedAmount     decimal.Decimal `json:"requested_amount" validate:"required"`
	RequestedTermMonths int             `json:"requested_term_months" validate:"required,gt=0"`
	RequestedRate       decimal.Decimal `json:"requested_rate" validate:"required"`
	Purpose             string          `json:"purpose,omitempty"`
}

// Create creates a new application in DRAFT
func (s *ApplicationService) Create(ctx context.Context, tenantID uint, input *CreateApplicationInput) (*models.Application, error) {
	if (input.PersonID == nil) == (input.CompanyID == nil) {
		return nil, domain.ErrInvalidInput
	}
	if !input.RequestedAmount.IsPositive() || input.RequestedTermMonths <= 0 {
		return nil, domain.ErrInvalidInput
	}

	if input.PersonID != nil {
		if _, err := s.personRepo.GetByID(ctx, tenantID, *input.PersonID); err != nil {
			return nil, domain.ErrApplicantNotFound
		}
	} else {
		if _, err := s.companyRepo.GetByID(ctx, tenantID, *input.CompanyID); err != nil {
			return nil, domain.ErrApplicantNotFound
		}
	}

	app := &models.Application{
		TenantID:            tenantID,
		Folio:               newFolio(),
		PersonID:            input.PersonID,
		CompanyID:           input.CompanyID,
		Status:              domain.StatusDraft,
		Checklist:           domain.VerificationChecklist{},
		RequestedAmount:     input.RequestedAmount,
		RequestedTermMonths: input.RequestedTermMonths,
		RequestedRate:       input.RequestedRate,
		Purpose:             input.Purpose,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// newFolio builds the public application number
func newFolio() string {
	return "PC-" + strings.ToUpper(uuid.New().String()[:8])
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, tenantID, id uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListInput represents list input
type ListInput struct {
	Page   int
	Limit  int
	Status *domain.Status
}

// ListOutput represents list output
type ListOutput struct {
	Applications []*models.ApplicationResponse `json:"applications"`
	Total        int64                         `json:"total"`
	Page         int                           `json:"page"`
	Limit        int                           `json:"limit"`
	TotalPages   int                           `json:"total_pages"`
}

// List lists applications
func (s *ApplicationService) List(ctx context.Context, tenantID uint, input *ListInput) (*ListOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	var apps []*models.Application
	var total int64
	var err error

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		apps, total, err = s.appRepo.ListByStatus(ctx, tenantID, *input.Status, offset, input.Limit)
	} else {
		apps, total, err = s.appRepo.List(ctx, tenantID, offset, input.Limit)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, app.ToResponse())
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListOutput{
		Applications: responses,
		Total:        total,
		Page:         input.Page,
		Limit:        input.Limit,
		TotalPages:   totalPages,
	}, nil
}

// UpdateTermsInput represents draft-stage term updates
type UpdateTermsInput struct {
	RequestedAmount     *decimal.Decimal `json:"requested_amount,omitempty"`
	RequestedTermMonths *int             `json:"requested_term_months,omitempty"`
	RequestedRate       *decimal.Decimal `json:"requested_rate,omitempty"`
	Purpose             *string          `json:"purpose,omitempty"`
}

// UpdateTerms updates requested terms while the application is still DRAFT
func (s *ApplicationService) UpdateTerms(ctx context.Context, tenantID, id uint, input *UpdateTermsInput) (*models.Application, error) {
	app, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if app.Status != domain.StatusDraft {
		return nil, domain.ErrForbidden
	}

	if input.RequestedAmount != nil {
		if !input.RequestedAmount.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		app.RequestedAmount = *input.RequestedAmount
	}
	if input.RequestedTermMonths != nil {
		if *input.RequestedTermMonths <= 0 {
			return nil, domain.ErrInvalidInput
		}
		app.RequestedTermMonths = *input.RequestedTermMonths
	}
	if input.RequestedRate != nil {
		app.RequestedRate = *input.RequestedRate
	}
	if input.Purpose != nil {
		app.Purpose = *input.Purpose
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Submit moves a DRAFT application to SUBMITTED through the workflow
// engine
func (s *ApplicationService) Submit(ctx context.Context, tenantID, id uint, actor Actor) (*models.Application, error) {
	app, err := s.workflowService.ChangeStatus(ctx, tenantID, id, domain.StatusSubmitted, actor, "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	app.SubmittedAt = &now
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.notifyService.NotifySubmitted(app)
	return app, nil
}

// Cancel moves an application to CANCELLED where the edge is legal
func (s *ApplicationService) Cancel(ctx context.Context, tenantID, id uint, actor Actor, notes string) (*models.Application, error) {
	return s.workflowService.ChangeStatus(ctx, tenantID, id, domain.StatusCancelled, actor, notes)
}

// GetHistory gets the audit trail for an application, newest first
func (s *ApplicationService) GetHistory(ctx context.Context, tenantID, id uint) ([]*models.StatusHistory, error) {
	app, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.GetByApplicationID(ctx, app.ID)
}
