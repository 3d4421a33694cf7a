package repositories

import (
	"context"
	"errors"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/core/domain"

	"gorm.io/gorm"
)

// gormWorkflowStore is the GORM implementation of WorkflowStore
type gormWorkflowStore struct {
	db *gorm.DB
}

// NewWorkflowStore creates the workflow engine's persistence provider
func NewWorkflowStore(db *gorm.DB) WorkflowStore {
	return &gormWorkflowStore{db: db}
}

// InTx runs fn inside a single database transaction. The store handed to
// fn is bound to that transaction.
func (s *gormWorkflowStore) InTx(ctx context.Context, fn func(WorkflowStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWorkflowStore{db: tx})
	})
}

func (s *gormWorkflowStore) GetApplication(ctx context.Context, tenantID, id uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Where("tenant_id = ?", tenantID).
		First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *gormWorkflowStore) SaveApplication(ctx context.Context, app *models.Application) error {
	return s.db.WithContext(ctx).Save(app).Error
}

// ListApplicationDocuments aggregates the application's direct documents
// and the applicant person's documents. Replaced versions are excluded;
// person documents whose type already appears among the direct ones are
// dropped so a type is never counted twice.
func (s *gormWorkflowStore) ListApplicationDocuments(ctx context.Context, app *models.Application) ([]*models.Document, error) {
	var direct []*models.Document
	err := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND replaced_by_id IS NULL",
			models.DocumentOwnerApplication, app.ID).
		Order("created_at ASC").
		Find(&direct).Error
	if err != nil {
		return nil, err
	}

	if app.PersonID == nil {
		return direct, nil
	}

	var personal []*models.Document
	err = s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND replaced_by_id IS NULL",
			models.DocumentOwnerPerson, *app.PersonID).
		Order("created_at ASC").
		Find(&personal).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(direct))
	for _, doc := range direct {
		seen[doc.Type] = true
	}

	docs := direct
	for _, doc := range personal {
		if seen[doc.Type] {
			continue
		}
		seen[doc.Type] = true
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetApplicationDocument locates one document within the application's
// scope: direct documents first, then the applicant person's documents.
func (s *gormWorkflowStore) GetApplicationDocument(ctx context.Context, app *models.Application, docID uint) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_type = ? AND owner_id = ? AND replaced_by_id IS NULL",
			docID, models.DocumentOwnerApplication, app.ID).
		First(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if app.PersonID == nil {
		return nil, domain.ErrDocumentNotFound
	}

	err = s.db.WithContext(ctx).
		Where("id = ? AND owner_type = ? AND owner_id = ? AND replaced_by_id IS NULL",
			docID, models.DocumentOwnerPerson, *app.PersonID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *gormWorkflowStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Save(doc).Error
}

func (s *gormWorkflowStore) AppendHistory(ctx context.Context, entry *models.StatusHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormWorkflowStore) GetPersonReference(ctx context.Context, personID, refID uint) (*models.Reference, error) {
	var ref models.Reference
	err := s.db.WithContext(ctx).
		Where("id = ? AND person_id = ?", refID, personID).
		First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrReferenceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *gormWorkflowStore) SaveReference(ctx context.Context, ref *models.Reference) error {
	return s.db.WithContext(ctx).Save(ref).Error
}

func (s *gormWorkflowStore) GetPersonBankAccount(ctx context.Context, personID, accountID uint) (*models.BankAccount, error) {
	var account models.BankAccount
	err := s.db.WithContext(ctx).
		Where("id = ? AND person_id = ?", accountID, personID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBankAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *gormWorkflowStore) SaveBankAccount(ctx context.Context, account *models.BankAccount) error {
	return s.db.WithContext(ctx).Save(account).Error
}
