package repositories

import (
	"context"

	"prestaclick/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PersonRepository handles individual applicant data access
type PersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create creates a new person
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

// GetByID gets a person by ID within a tenant, with sub-entities
func (r *PersonRepository) GetByID(ctx context.Context, tenantID, id uint) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).
		Preload("References").
		Preload("BankAccounts").
		Preload("Employments", "is_current = ?", true).
		Preload("Addresses", "is_current = ?", true).
		Preload("Documents", "replaced_by_id IS NULL").
		Where("tenant_id = ?", tenantID).
		First(&person, id).Error
	return &person, err
}

// List lists persons for a tenant with pagination
func (r *PersonRepository) List(ctx context.Context, tenantID uint, offset, limit int) ([]*models.Person, int64, error) {
	var persons []*models.Person
	var total int64

	r.db.WithContext(ctx).Model(&models.Person{}).
		Where("tenant_id = ?", tenantID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&persons).Error

	return persons, total, err
}

// Update updates a person
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

// Delete soft deletes a person
func (r *PersonRepository) Delete(ctx context.Context, tenantID, id uint) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Person{}, id).Error
}

// MarkEmploymentsStale clears the current flag on a person's employments
// before inserting a new current row
func (r *PersonRepository) MarkEmploymentsStale(ctx context.Context, personID uint) error {
	return r.db.WithContext(ctx).Model(&models.Employment{}).
		Where("person_id = ?", personID).
		Update("is_current", false).Error
}

// MarkAddressesStale clears the current flag on a person's addresses
func (r *PersonRepository) MarkAddressesStale(ctx context.Context, personID uint) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).
		Where("person_id = ?", personID).
		Update("is_current", false).Error
}

// AddEmployment inserts a new current employment row
func (r *PersonRepository) AddEmployment(ctx context.Context, emp *models.Employment) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

// AddAddress inserts a new current address row
func (r *PersonRepository) AddAddress(ctx context.Context, addr *models.Address) error {
	return r.db.WithContext(ctx).Create(addr).Error
}

// AddReference inserts a new reference row
func (r *PersonRepository) AddReference(ctx context.Context, ref *models.Reference) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

// AddBankAccount inserts a new bank account row
func (r *PersonRepository) AddBankAccount(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// CompanyRepository handles business applicant data access
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create creates a new company
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID gets a company by ID within a tenant
func (r *CompanyRepository) GetByID(ctx context.Context, tenantID, id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Preload("Documents", "replaced_by_id IS NULL").
		Where("tenant_id = ?", tenantID).
		First(&company, id).Error
	return &company, err
}

// List lists companies for a tenant with pagination
func (r *CompanyRepository) List(ctx context.Context, tenantID uint, offset, limit int) ([]*models.Company, int64, error) {
	var companies []*models.Company
	var total int64

	r.db.WithContext(ctx).Model(&models.Company{}).
		Where("tenant_id = ?", tenantID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&companies).Error

	return companies, total, err
}

// Update updates a company
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Delete soft deletes a company
func (r *CompanyRepository) Delete(ctx context.Context, tenantID, id uint) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Company{}, id).Error
}

// DocumentRepository handles document metadata data access
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByID gets a document by ID within a tenant
func (r *DocumentRepository) GetByID(ctx context.Context, tenantID, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&doc, id).Error
	return &doc, err
}

// ListByOwner lists active documents for one documentable owner
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerType string, ownerID uint) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND replaced_by_id IS NULL", ownerType, ownerID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// Update updates a document
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}
