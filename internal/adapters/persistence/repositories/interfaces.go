package repositories

import (
	"context"

	"prestaclick/internal/adapters/persistence/models"
)

// WorkflowStore is the persistence provider consumed by the workflow
// engine. InTx runs fn against a store bound to a single database
// transaction: a status write and its history row commit together or not
// at all.
type WorkflowStore interface {
	InTx(ctx context.Context, fn func(WorkflowStore) error) error

	GetApplication(ctx context.Context, tenantID, id uint) (*models.Application, error)
	SaveApplication(ctx context.Context, app *models.Application) error

	// ListApplicationDocuments returns the application's direct documents
	// plus the applicant person's documents, replaced versions excluded.
	ListApplicationDocuments(ctx context.Context, app *models.Application) ([]*models.Document, error)
	GetApplicationDocument(ctx context.Context, app *models.Application, docID uint) (*models.Document, error)
	SaveDocument(ctx context.Context, doc *models.Document) error

	AppendHistory(ctx context.Context, entry *models.StatusHistory) error

	GetPersonReference(ctx context.Context, personID, refID uint) (*models.Reference, error)
	SaveReference(ctx context.Context, ref *models.Reference) error
	GetPersonBankAccount(ctx context.Context, personID, accountID uint) (*models.BankAccount, error)
	SaveBankAccount(ctx context.Context, account *models.BankAccount) error
}

// StaffRepository defines staff account data access
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffUser) error
	GetByID(ctx context.Context, id uint) (*models.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	Update(ctx context.Context, staff *models.StaffUser) error
	List(ctx context.Context, tenantID uint, offset, limit int) ([]*models.StaffUser, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByStaffID(ctx context.Context, staffID uint) error
	DeleteExpired(ctx context.Context) error
}
