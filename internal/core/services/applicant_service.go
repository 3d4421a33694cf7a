package services

import (
	"context"
	"errors"
	"time"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApplicantService handles persons, companies and their sub-entities
type ApplicantService struct {
	personRepo  *repositories.PersonRepository
	companyRepo *repositories.CompanyRepository
	docRepo     *repositories.DocumentRepository
}

// NewApplicantService creates a new applicant service
func NewApplicantService(
	personRepo *repositories.PersonRepository,
	companyRepo *repositories.CompanyRepository,
	docRepo *repositories.DocumentRepository,
) *ApplicantService {
	return &ApplicantService{
		personRepo:  personRepo,
		companyRepo: companyRepo,
		docRepo:     docRepo,
	}
}

// CreatePersonInput represents create person input
type CreatePersonInput struct {
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	CURP      string     `json:"curp,omitempty"`
	RFC       string     `json:"rfc,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// CreatePerson creates a new person
func (s *ApplicantService) CreatePerson(ctx context.Context, tenantID uint, input *CreatePersonInput) (*models.Person, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, domain.ErrInvalidInput
	}

	person := &models.Person{
		TenantID:  tenantID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		CURP:      input.CURP,
		RFC:       input.RFC,
		Email:     input.Email,
		Phone:     input.Phone,
		BirthDate: input.BirthDate,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// GetPerson gets a person with current sub-entities
func (s *ApplicantService) GetPerson(ctx context.Context, tenantID, id uint) (*models.Person, error) {
	person, err := s.personRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, err
	}
	return person, nil
}

// ListPersons lists persons with pagination
func (s *ApplicantService) ListPersons(ctx context.Context, tenantID uint, page, limit int) ([]*models.Person, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.personRepo.List(ctx, tenantID, (page-1)*limit, limit)
}

// AddReferenceInput represents add reference input
type AddReferenceInput struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Relationship string `json:"relationship,omitempty"`
}

// AddReference attaches a personal reference to a person
func (s *ApplicantService) AddReference(ctx context.Context, tenantID, personID uint, input *AddReferenceInput) (*models.Reference, error) {
	if input.FullName == "" || input.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetPerson(ctx, tenantID, personID); err != nil {
		return nil, err
	}

	ref := &models.Reference{
		PersonID:     personID,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Relationship: input.Relationship,
		Status:       models.ReferenceStatusUnverified,
	}
	if err := s.personRepo.AddReference(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// AddBankAccountInput represents add bank account input
type AddBankAccountInput struct {
	BankName  string `json:"bank_name" validate:"required"`
	CLABE     string `json:"clabe" validate:"required,len=18"`
	IsPrimary bool   `json:"is_primary"`
}

// AddBankAccount attaches a bank account to a person
func (s *ApplicantService) AddBankAccount(ctx context.Context, tenantID, personID uint, input *AddBankAccountInput) (*models.BankAccount, error) {
	if input.BankName == "" || len(input.CLABE) != 18 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetPerson(ctx, tenantID, personID); err != nil {
		return nil, err
	}

	account := &models.BankAccount{
		PersonID:  personID,
		BankName:  input.BankName,
		CLABE:     input.CLABE,
		IsPrimary: input.IsPrimary,
	}
	if err := s.personRepo.AddBankAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SetEmploymentInput represents the current employment of a person
type SetEmploymentInput struct {
	Employer      string          `json:"employer" validate:"required"`
	Position      string          `json:"position,omitempty"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
}

// SetEmployment records a new current employment; previous rows become
// history
func (s *ApplicantService) SetEmployment(ctx context.Context, tenantID, personID uint, input *SetEmploymentInput) (*models.Employment, error) {
	if input.Employer == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetPerson(ctx, tenantID, personID); err != nil {
		return nil, err
	}

	if err := s.personRepo.MarkEmploymentsStale(ctx, personID); err != nil {
		return nil, err
	}

	emp := &models.Employment{
		PersonID:      personID,
		Employer:      input.Employer,
		Position:      input.Position,
		MonthlyIncome: input.MonthlyIncome,
		StartDate:     input.StartDate,
		IsCurrent:     true,
	}
	if err := s.personRepo.AddEmployment(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// SetAddressInput represents the current address of a person
type SetAddressInput struct {
	Street       string `json:"street" validate:"required"`
	ExtNumber    string `json:"ext_number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// SetAddress records a new current address; previous rows become history
func (s *ApplicantService) SetAddress(ctx context.Context, tenantID, personID uint, input *SetAddressInput) (*models.Address, error) {
	if input.Street == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.GetPerson(ctx, tenantID, personID); err != nil {
		return nil, err
	}

	if err := s.personRepo.MarkAddressesStale(ctx, personID); err != nil {
		return nil, err
	}

	addr := &models.Address{
		PersonID:     personID,
		Street:       input.Street,
		ExtNumber:    input.ExtNumber,
		Neighborhood: input.Neighborhood,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		IsCurrent:    true,
	}
	if err := s.personRepo.AddAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// CreateCompanyInput represents create company input
type CreateCompanyInput struct {
	LegalName string `json:"legal_name" validate:"required"`
	RFC       string `json:"rfc,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CreateCompany creates a new company
func (s *ApplicantService) CreateCompany(ctx context.Context, tenantID uint, input *CreateCompanyInput) (*models.Company, error) {
	if input.LegalName == "" {
		return nil, domain.ErrInvalidInput
	}

	company := &models.Company{
		TenantID:  tenantID,
		LegalName: input.LegalName,
		RFC:       input.RFC,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany gets a company
func (s *ApplicantService) GetCompany(ctx context.Context, tenantID, id uint) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, err
	}
	return company, nil
}

// ListCompanies lists companies with pagination
func (s *ApplicantService) ListCompanies(ctx context.Context, tenantID uint, page, limit int) ([]*models.Company, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.companyRepo.List(ctx, tenantID, (page-1)*limit, limit)
}

// AttachDocumentInput represents document metadata registration
type AttachDocumentInput struct {
	OwnerType  string `json:"owner_type" validate:"required,oneof=application person company"`
	OwnerID    uint   `json:"owner_id" validate:"required"`
	Type       string `json:"type" validate:"required"`
	FileName   string `json:"file_name,omitempty"`
	StorageKey string `json:"storage_key,omitempty"`
}

// AttachDocument registers document metadata against its owner. File
// bytes live in external storage; only the key is recorded here.
func (s *ApplicantService) AttachDocument(ctx context.Context, tenantID uint, input *AttachDocumentInput) (*models.Document, error) {
	switch input.OwnerType {
	case models.DocumentOwnerApplication, models.DocumentOwnerPerson, models.DocumentOwnerCompany:
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.Type == "" || input.OwnerID == 0 {
		return nil, domain.ErrInvalidInput
	}

	doc := &models.Document{
		TenantID:   tenantID,
		OwnerType:  input.OwnerType,
		OwnerID:    input.OwnerID,
		Type:       input.Type,
		FileName:   input.FileName,
		StorageKey: input.StorageKey,
		Status:     models.DocumentStatusPending,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReplaceDocument registers a new version of a document. The predecessor
// is marked replaced and excluded from review aggregation.
func (s *ApplicantService) ReplaceDocument(ctx context.Context, tenantID, docID uint, fileName, storageKey string) (*models.Document, error) {
	old, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	if old.IsReplaced() {
		return nil, domain.ErrInvalidInput
	}

	replacement := &models.Document{
		TenantID:   old.TenantID,
		OwnerType:  old.OwnerType,
		OwnerID:    old.OwnerID,
		Type:       old.Type,
		FileName:   fileName,
		StorageKey: storageKey,
		Status:     models.DocumentStatusPending,
	}
	if err := s.docRepo.Create(ctx, replacement); err != nil {
		return nil, err
	}

	old.ReplacedByID = &replacement.ID
	if err := s.docRepo.Update(ctx, old); err != nil {
		return nil, err
	}
	return replacement, nil
}
